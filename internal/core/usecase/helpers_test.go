package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopassist/rag/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// generatorFake scripts the text-generation capability. Responses are
// consumed in call order; the last one repeats.
type generatorFake struct {
	responses  []domain.GenerationResult
	err        error
	failOnCall int
	calls      int
	prompts    []string
	requests   []domain.GenerationRequest
}

func (f *generatorFake) Generate(_ context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	f.requests = append(f.requests, req)
	if f.err != nil && (f.failOnCall == 0 || f.failOnCall == f.calls) {
		return domain.GenerationResult{}, f.err
	}
	if len(f.responses) == 0 {
		return domain.GenerationResult{Content: "", TotalTokens: 1}, nil
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

// backendFake serves canned results per collection and records the filters
// it was queried with.
type backendFake struct {
	keyword     map[string][]domain.ScoredResult
	semantic    map[string][]domain.ScoredResult
	keywordErr  error
	semanticErr error

	keywordLimit  int
	semanticLimit int
	lastFilters   *domain.FilterSpec
}

func (f *backendFake) QueryByKeyword(_ context.Context, collection, _ string, limit int) ([]domain.ScoredResult, error) {
	f.keywordLimit = limit
	if f.keywordErr != nil {
		return nil, f.keywordErr
	}
	return cloneResults(f.keyword[collection]), nil
}

func (f *backendFake) QueryByVectorSimilarity(_ context.Context, collection, _ string, limit int, filters *domain.FilterSpec) ([]domain.ScoredResult, error) {
	f.semanticLimit = limit
	f.lastFilters = filters
	if f.semanticErr != nil {
		return nil, f.semanticErr
	}
	return cloneResults(f.semantic[collection]), nil
}

func cloneResults(src []domain.ScoredResult) []domain.ScoredResult {
	out := make([]domain.ScoredResult, len(src))
	copy(out, src)
	return out
}

type encoderFake struct {
	scores []float64
	err    error
	query  string
	docs   []string
}

func (f *encoderFake) Score(_ context.Context, query string, documents []string) ([]float64, error) {
	f.query = query
	f.docs = documents
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

type knowledgeFake struct {
	entries []domain.FAQEntry
}

func (f *knowledgeFake) All() []domain.FAQEntry {
	return f.entries
}

func productResult(id, name, colour, season string, year int) domain.ScoredResult {
	return domain.ScoredResult{
		ID: id,
		Properties: map[string]any{
			"product_id":         id,
			"productDisplayName": name,
			"baseColour":         colour,
			"season":             season,
			"year":               float64(year),
		},
	}
}

func faqResult(id, question, answer, category string) domain.ScoredResult {
	return domain.ScoredResult{
		ID: id,
		Properties: map[string]any{
			"question": question,
			"answer":   answer,
			"type":     category,
		},
	}
}
