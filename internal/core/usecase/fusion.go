package usecase

import (
	"sort"

	"github.com/shopassist/rag/internal/core/domain"
)

type fusedCandidate struct {
	result domain.ScoredResult
	score  domain.FusionScore
	order  int
}

// FuseRRF merges a keyword-ranked and a semantic-ranked list with weighted
// Reciprocal Rank Fusion. The item at zero-based rank r contributes
// alpha/(k+r+1) from the keyword list and (1-alpha)/(k+r+1) from the
// semantic list; shared ids accumulate both partial scores. Ties are broken
// by the order an id was first encountered, keyword list first, so the
// result is reproducible.
func FuseRRF(keyword, semantic []domain.ScoredResult, alpha float64, k int) []domain.ScoredResult {
	if k <= 0 {
		k = domain.DefaultRRFK
	}

	acc := make(map[string]*fusedCandidate, len(keyword)+len(semantic))
	order := 0
	admit := func(result domain.ScoredResult) *fusedCandidate {
		candidate, ok := acc[result.ID]
		if !ok {
			candidate = &fusedCandidate{
				result: result,
				score:  domain.FusionScore{ID: result.ID},
				order:  order,
			}
			order++
			acc[result.ID] = candidate
		}
		return candidate
	}

	for rank, result := range keyword {
		candidate := admit(result)
		candidate.score.KeywordScore = alpha / float64(k+rank+1)
	}
	for rank, result := range semantic {
		candidate := admit(result)
		candidate.score.SemanticScore = (1 - alpha) / float64(k+rank+1)
	}

	fused := make([]*fusedCandidate, 0, len(acc))
	for _, candidate := range acc {
		candidate.score.FinalScore = candidate.score.KeywordScore + candidate.score.SemanticScore
		fused = append(fused, candidate)
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score.FinalScore != fused[j].score.FinalScore {
			return fused[i].score.FinalScore > fused[j].score.FinalScore
		}
		return fused[i].order < fused[j].order
	})

	out := make([]domain.ScoredResult, 0, len(fused))
	for position, candidate := range fused {
		result := candidate.result
		result.Rank = position
		out = append(out, result)
	}
	return out
}
