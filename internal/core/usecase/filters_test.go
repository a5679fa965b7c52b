package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopassist/rag/internal/core/domain"
)

func testCatalog() *domain.FilterCatalog {
	return domain.NewFilterCatalog([]domain.Product{
		{Gender: "Men", MasterCategory: "Apparel", ArticleType: "Shirts", BaseColour: "Blue", Usage: "Casual", Season: "Summer"},
		{Gender: "Women", MasterCategory: "Apparel", ArticleType: "Dresses", BaseColour: "Red", Usage: "Formal", Season: "Winter"},
	})
}

func TestExtractBuildsWhitelistedSpec(t *testing.T) {
	gen := &generatorFake{responses: []domain.GenerationResult{{
		Content:     `{"gender": ["Men"], "masterCategory": ["Apparel"], "articleType": ["Shirts"], "baseColour": ["Blue"], "price": {"min": 10, "max": 50}, "usage": [], "season": [], "unknownKey": ["x"]}`,
		TotalTokens: 42,
	}}}
	extractor := NewFilterExtractor(gen, testCatalog(), "test-model", testLogger())

	spec, tokens, err := extractor.Extract(context.Background(), "blue shirts for men between $10 and $50")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if tokens != 42 {
		t.Fatalf("expected 42 tokens, got %d", tokens)
	}
	if spec == nil {
		t.Fatal("expected a filter spec")
	}
	if got := spec.Fields[domain.FieldGender]; len(got) != 1 || got[0] != "Men" {
		t.Fatalf("gender filter = %v", got)
	}
	if _, ok := spec.Fields["unknownKey"]; ok {
		t.Fatal("unknown keys must not survive extraction")
	}
	if spec.Price == nil || spec.Price.Min != 10 || spec.Price.Max != 50 {
		t.Fatalf("price predicate = %+v", spec.Price)
	}
}

func TestExtractDropsUnboundedPrice(t *testing.T) {
	cases := map[string]string{
		"zero min, inf max": `{"gender": ["Men"], "price": {"min": 0, "max": "inf"}}`,
		"zero min only":     `{"gender": ["Men"], "price": {"min": 0, "max": 100}}`,
		"inf max only":      `{"gender": ["Men"], "price": {"min": 5, "max": "inf"}}`,
		"missing max":       `{"gender": ["Men"], "price": {"min": 5}}`,
	}
	for name, content := range cases {
		gen := &generatorFake{responses: []domain.GenerationResult{{Content: content, TotalTokens: 1}}}
		extractor := NewFilterExtractor(gen, testCatalog(), "m", testLogger())

		spec, _, err := extractor.Extract(context.Background(), "q")
		if err != nil {
			t.Fatalf("%s: Extract() error = %v", name, err)
		}
		if spec == nil {
			t.Fatalf("%s: expected spec with gender filter", name)
		}
		if spec.Price != nil {
			t.Fatalf("%s: expected no price predicate, got %+v", name, spec.Price)
		}
	}
}

func TestExtractSanitizesFormattingDrift(t *testing.T) {
	gen := &generatorFake{responses: []domain.GenerationResult{{
		Content:     "{{\"gender\": [\"Men\"],\n \"baseColour\": [\"Blue\"]}}",
		TotalTokens: 7,
	}}}
	extractor := NewFilterExtractor(gen, testCatalog(), "m", testLogger())

	spec, _, err := extractor.Extract(context.Background(), "q")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if spec == nil || len(spec.Fields[domain.FieldBaseColour]) != 1 {
		t.Fatalf("doubled braces and newlines should be tolerated, spec = %+v", spec)
	}
}

func TestExtractParseFailureDegradesToNilSpec(t *testing.T) {
	gen := &generatorFake{responses: []domain.GenerationResult{{Content: "sorry, I cannot", TotalTokens: 11}}}
	extractor := NewFilterExtractor(gen, testCatalog(), "m", testLogger())

	spec, tokens, err := extractor.Extract(context.Background(), "q")
	if err != nil {
		t.Fatalf("parse failure must be non-fatal, got %v", err)
	}
	if spec != nil {
		t.Fatalf("expected nil spec, got %+v", spec)
	}
	if tokens != 11 {
		t.Fatalf("token cost must be preserved on parse failure, got %d", tokens)
	}
}

func TestExtractGenerationFailureIsAnError(t *testing.T) {
	gen := &generatorFake{err: errors.New("llm down")}
	extractor := NewFilterExtractor(gen, testCatalog(), "m", testLogger())

	if _, _, err := extractor.Extract(context.Background(), "q"); err == nil {
		t.Fatal("expected error when the generation call fails")
	}
}

func TestExtractionPromptEmbedsCatalogValues(t *testing.T) {
	gen := &generatorFake{responses: []domain.GenerationResult{{Content: "{}", TotalTokens: 1}}}
	extractor := NewFilterExtractor(gen, testCatalog(), "m", testLogger())

	_, _, _ = extractor.Extract(context.Background(), "q")
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one generation call, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	for _, want := range []string{"Dresses", "Shirts", "Blue", "Casual"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("extraction prompt missing catalog value %q", want)
		}
	}
	if gen.requests[0].Temperature != 0 {
		t.Fatalf("extraction must be deterministic, temperature = %v", gen.requests[0].Temperature)
	}
}
