package ports

import (
	"context"

	"github.com/shopassist/rag/internal/core/domain"
)

// SearchBackend is the hybrid search store's query contract. Indexing is the
// backend's own responsibility; only reads happen here.
type SearchBackend interface {
	QueryByKeyword(ctx context.Context, collection, query string, limit int) ([]domain.ScoredResult, error)
	QueryByVectorSimilarity(ctx context.Context, collection, query string, limit int, filters *domain.FilterSpec) ([]domain.ScoredResult, error)
}

// TextGenerator issues one blocking generation round trip. Deterministic
// output is only guaranteed at temperature 0.
type TextGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
}

// CrossEncoder scores (query, document) pairs jointly. Implementations are
// batchable; scores come back in document order.
type CrossEncoder interface {
	Score(ctx context.Context, query string, documents []string) ([]float64, error)
}

// KnowledgeBase is the small, fully-loadable FAQ store.
type KnowledgeBase interface {
	All() []domain.FAQEntry
}

// CatalogSource loads the product dataset and FAQ records at startup. The
// FilterCatalog snapshot is derived from its result and never refreshed.
type CatalogSource interface {
	Load(ctx context.Context) (domain.Dataset, error)
}
