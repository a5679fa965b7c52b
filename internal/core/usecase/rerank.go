package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopassist/rag/internal/core/domain"
	"github.com/shopassist/rag/internal/core/ports"
)

// Reranker re-scores a candidate set against the query with a cross-encoder
// capability. It always fails open: when scoring is unavailable the first
// topK candidates pass through in their original order.
type Reranker struct {
	encoder ports.CrossEncoder
	logger  *slog.Logger
}

func NewReranker(encoder ports.CrossEncoder, logger *slog.Logger) *Reranker {
	return &Reranker{encoder: encoder, logger: logger}
}

// Rerank scores every candidate's text representation against the query (or
// the override when given), sorts descending by relevance and truncates to
// topK.
func (rr *Reranker) Rerank(ctx context.Context, query string, candidates []domain.ScoredResult, topK int, override string) []domain.ScoredResult {
	if len(candidates) == 0 {
		return nil
	}
	if topK <= 0 || topK > len(candidates) {
		topK = len(candidates)
	}

	if rr.encoder == nil {
		rr.logger.Warn("cross-encoder not configured, passing candidates through",
			"error", domain.ErrRerankerUnavailable)
		return truncate(candidates, topK)
	}

	scoringQuery := query
	if override != "" {
		scoringQuery = override
	}

	documents := make([]string, len(candidates))
	for i, candidate := range candidates {
		documents[i] = candidateText(candidate)
	}

	scores, err := rr.encoder.Score(ctx, scoringQuery, documents)
	if err != nil || len(scores) != len(candidates) {
		if err == nil {
			err = fmt.Errorf("got %d scores for %d candidates", len(scores), len(candidates))
		}
		rr.logger.Error("cross-encoder scoring failed, passing candidates through",
			"error", domain.WrapError(domain.ErrRerankerUnavailable, "score candidates", err))
		return truncate(candidates, topK)
	}

	indices := make([]int, len(candidates))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return scores[indices[a]] > scores[indices[b]]
	})

	out := make([]domain.ScoredResult, 0, topK)
	for position, idx := range indices[:topK] {
		result := candidates[idx]
		result.Rank = position
		out = append(out, result)
	}
	return out
}

// candidateText synthesizes the document side of a scoring pair: commerce
// items use name, colour and season; knowledge items use question and
// answer; anything else is stringified.
func candidateText(result domain.ScoredResult) string {
	if name := result.StringProperty("productDisplayName"); name != "" {
		return strings.TrimSpace(fmt.Sprintf("%s %s %s",
			name,
			result.StringProperty(domain.FieldBaseColour),
			result.StringProperty(domain.FieldSeason),
		))
	}
	if question := result.StringProperty("question"); question != "" {
		return strings.TrimSpace(question + " " + result.StringProperty("answer"))
	}
	return fmt.Sprintf("%v", result.Properties)
}

func truncate(results []domain.ScoredResult, topK int) []domain.ScoredResult {
	if len(results) <= topK {
		return results
	}
	return results[:topK]
}
