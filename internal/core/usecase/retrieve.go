package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopassist/rag/internal/core/domain"
	"github.com/shopassist/rag/internal/core/ports"
)

// Retriever executes one of the three retrieval strategies against a single
// backend collection. Every backend failure degrades to an empty result set;
// retrieval never fails a request.
type Retriever struct {
	backend    ports.SearchBackend
	collection string
	logger     *slog.Logger
}

func NewRetriever(backend ports.SearchBackend, collection string, logger *slog.Logger) *Retriever {
	return &Retriever{
		backend:    backend,
		collection: collection,
		logger:     logger,
	}
}

// Retrieve dispatches on the configured strategy. cfg must already be
// normalized at the pipeline boundary.
func (r *Retriever) Retrieve(ctx context.Context, query string, filters *domain.FilterSpec, cfg domain.RetrievalConfig) []domain.ScoredResult {
	switch cfg.RetrieverType {
	case domain.RetrieverBM25:
		return r.retrieveKeyword(ctx, query, cfg.TopK)
	case domain.RetrieverSemantic:
		return r.retrieveSemantic(ctx, query, cfg.TopK, filters, cfg.Simplified)
	case domain.RetrieverHybrid:
		return r.retrieveHybrid(ctx, query, filters, cfg)
	default:
		r.logger.Error("unknown retriever type", "retriever_type", string(cfg.RetrieverType))
		return nil
	}
}

func (r *Retriever) retrieveKeyword(ctx context.Context, query string, limit int) []domain.ScoredResult {
	results, err := r.backend.QueryByKeyword(ctx, r.collection, query, limit)
	if err != nil {
		r.logger.Error("keyword retrieval failed", "collection", r.collection, "error",
			domain.WrapError(domain.ErrRetrievalUnavailable, "keyword query", err))
		return nil
	}
	return tagResults(results, domain.SourceKeyword)
}

// retrieveSemantic applies server-side AND filters only when a spec is
// present and the request is not in simplified mode.
func (r *Retriever) retrieveSemantic(ctx context.Context, query string, limit int, filters *domain.FilterSpec, simplified bool) []domain.ScoredResult {
	if simplified || filters.Empty() {
		filters = nil
	}
	results, err := r.backend.QueryByVectorSimilarity(ctx, r.collection, query, limit, filters)
	if err != nil {
		r.logger.Error("semantic retrieval failed", "collection", r.collection, "error",
			domain.WrapError(domain.ErrRetrievalUnavailable, "vector query", err))
		return nil
	}
	return tagResults(results, domain.SourceSemantic)
}

// retrieveHybrid fans out the keyword and semantic sub-retrievals, each
// oversampling 2x topK, then fuses with RRF and truncates. A failed leg has
// already degraded to an empty list, so fusion proceeds on the survivor.
func (r *Retriever) retrieveHybrid(ctx context.Context, query string, filters *domain.FilterSpec, cfg domain.RetrievalConfig) []domain.ScoredResult {
	var (
		wg       sync.WaitGroup
		keyword  []domain.ScoredResult
		semantic []domain.ScoredResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		keyword = r.retrieveKeyword(ctx, query, cfg.TopK*2)
	}()
	go func() {
		defer wg.Done()
		semantic = r.retrieveSemantic(ctx, query, cfg.TopK*2, filters, cfg.Simplified)
	}()
	wg.Wait()

	fused := FuseRRF(keyword, semantic, cfg.Alpha, cfg.K)
	if len(fused) > cfg.TopK {
		fused = fused[:cfg.TopK]
	}
	return fused
}

func tagResults(results []domain.ScoredResult, source domain.Source) []domain.ScoredResult {
	for i := range results {
		results[i].Source = source
		results[i].Rank = i
	}
	return results
}
