package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Every kind is recovered locally; none is fatal to the
// pipeline and none is retried within the core.
var (
	ErrRetrievalUnavailable     = errors.New("retrieval unavailable")
	ErrExtractionParse          = errors.New("extraction parse failure")
	ErrClassificationAmbiguous  = errors.New("classification ambiguous")
	ErrRerankerUnavailable      = errors.New("reranker unavailable")
	ErrPipeline                 = errors.New("pipeline failure")
	ErrGenerationUnavailable    = errors.New("generation unavailable")
	ErrCatalogSourceUnavailable = errors.New("catalog source unavailable")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
