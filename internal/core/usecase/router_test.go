package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopassist/rag/internal/core/domain"
)

func TestClassifyFAQLabel(t *testing.T) {
	gen := &generatorFake{responses: []domain.GenerationResult{{Content: "FAQ", TotalTokens: 20}}}
	router := NewRouter(gen, "test-model", testLogger())

	intent, tokens, err := router.Classify(context.Background(), "What is your return policy?", false)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if intent != domain.IntentFAQ {
		t.Fatalf("expected FAQ, got %s", intent)
	}
	if tokens != 20 {
		t.Fatalf("expected reported usage 20, got %d", tokens)
	}
}

func TestClassifyProductLabel(t *testing.T) {
	gen := &generatorFake{responses: []domain.GenerationResult{{Content: "Label: product", TotalTokens: 15}}}
	router := NewRouter(gen, "test-model", testLogger())

	intent, _, err := router.Classify(context.Background(), "blue shirts under $50", false)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if intent != domain.IntentProduct {
		t.Fatalf("expected Product, got %s", intent)
	}
}

func TestClassifyUnrecognizedLabelIsUndefined(t *testing.T) {
	for _, content := range []string{"I am not sure", "", "FAQ or Product", "faq product"} {
		gen := &generatorFake{responses: []domain.GenerationResult{{Content: content, TotalTokens: 9}}}
		router := NewRouter(gen, "test-model", testLogger())

		intent, tokens, err := router.Classify(context.Background(), "hello", true)
		if err != nil {
			t.Fatalf("Classify(%q) error = %v", content, err)
		}
		if intent != domain.IntentUndefined {
			t.Fatalf("output %q should route to Undefined, got %s", content, intent)
		}
		if tokens != 9 {
			t.Fatalf("usage must be reported even for Undefined, got %d", tokens)
		}
	}
}

func TestClassifyGenerationFailureDegradesToUndefined(t *testing.T) {
	gen := &generatorFake{err: errors.New("llm down")}
	router := NewRouter(gen, "test-model", testLogger())

	intent, tokens, err := router.Classify(context.Background(), "hello", false)
	if err == nil {
		t.Fatal("expected wrapped classification error")
	}
	if !domain.IsKind(err, domain.ErrClassificationAmbiguous) {
		t.Fatalf("expected ErrClassificationAmbiguous kind, got %v", err)
	}
	if intent != domain.IntentUndefined || tokens != 0 {
		t.Fatalf("expected Undefined with zero cost, got %s/%d", intent, tokens)
	}
}

func TestClassifyPromptsDifferBySimplified(t *testing.T) {
	gen := &generatorFake{responses: []domain.GenerationResult{{Content: "FAQ", TotalTokens: 1}}}
	router := NewRouter(gen, "test-model", testLogger())

	_, _, _ = router.Classify(context.Background(), "q", false)
	_, _, _ = router.Classify(context.Background(), "q", true)

	if len(gen.prompts) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(gen.prompts))
	}
	if len(gen.prompts[1]) >= len(gen.prompts[0]) {
		t.Fatal("simplified prompt should be shorter than the few-shot prompt")
	}
	if !strings.Contains(gen.prompts[0], "Label:") {
		t.Fatal("few-shot prompt should carry labeled examples")
	}
	for _, req := range gen.requests {
		if req.Temperature != 0 {
			t.Fatalf("routing must be deterministic, temperature = %v", req.Temperature)
		}
		if req.MaxTokens != routerMaxTokens {
			t.Fatalf("routing max tokens = %d, want %d", req.MaxTokens, routerMaxTokens)
		}
	}
}
