package ports

import (
	"context"

	"github.com/shopassist/rag/internal/core/domain"
)

// QueryAnswerer is the inbound contract for the retrieval pipeline: it
// prepares a grounded prompt bundle without performing generation.
type QueryAnswerer interface {
	AnswerQuery(ctx context.Context, query string, opts domain.QueryOptions) (*domain.PipelineResult, error)
}
