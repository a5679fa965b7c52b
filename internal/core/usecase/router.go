package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopassist/rag/internal/core/domain"
	"github.com/shopassist/rag/internal/core/ports"
)

const routerMaxTokens = 10

// Router classifies a query as FAQ, Product or Undefined with a single
// deterministic generation call.
type Router struct {
	generator ports.TextGenerator
	model     string
	logger    *slog.Logger
}

func NewRouter(generator ports.TextGenerator, model string, logger *slog.Logger) *Router {
	return &Router{
		generator: generator,
		model:     model,
		logger:    logger,
	}
}

// Classify returns the routed intent and the generation call's reported
// token usage. The usage is reported even when the label is Undefined. A
// failed call degrades to Undefined with zero cost.
func (r *Router) Classify(ctx context.Context, query string, simplified bool) (domain.Intent, int, error) {
	prompt := buildRoutingPrompt(query, simplified)

	result, err := r.generator.Generate(ctx, domain.GenerationRequest{
		Prompt:      prompt,
		Model:       r.model,
		Temperature: 0,
		TopP:        1,
		MaxTokens:   routerMaxTokens,
	})
	if err != nil {
		r.logger.Error("routing call failed", "error", err)
		return domain.IntentUndefined, 0, domain.WrapError(domain.ErrClassificationAmbiguous, "classify query", err)
	}

	intent := normalizeLabel(result.Content)
	if intent == domain.IntentUndefined {
		r.logger.Warn("unrecognized route label", "raw_label", result.Content)
	}
	return intent, result.TotalTokens, nil
}

// normalizeLabel tolerates generators that decorate the label with extra
// text. Output containing both or neither marker is Undefined.
func normalizeLabel(raw string) domain.Intent {
	lower := strings.ToLower(raw)
	hasFAQ := strings.Contains(lower, "faq")
	hasProduct := strings.Contains(lower, "product")
	switch {
	case hasFAQ && !hasProduct:
		return domain.IntentFAQ
	case hasProduct && !hasFAQ:
		return domain.IntentProduct
	default:
		return domain.IntentUndefined
	}
}

func buildRoutingPrompt(query string, simplified bool) string {
	if simplified {
		return fmt.Sprintf(`Label the query as FAQ or Product for a clothing store.

FAQ: store info, policies (refund/return), contact/support, promotions/newsletter, account, sizes.
Product: asks for items or recommendations using catalog (color/type/price/availability) or outfit/look ideas.

Examples: refund=FAQ; store location=FAQ; sizes=FAQ; contact/support=FAQ; promotions=FAQ;
cheapest T-shirts=Product; blue T-shirts under $100=Product; sunny look ideas=Product.

Return only: FAQ or Product.
Query: %s`, query)
	}

	return fmt.Sprintf(`Label the following instruction as an FAQ related answer or a product related answer for a clothing store.
Product related answers are answers specific about product information or that needs to use the products to give an answer.
Examples:
        Is there a refund for incorrectly bought clothes? Label: FAQ
        Where are your stores located? Label: FAQ
        Tell me about the cheapest T-shirts that you have. Label: Product
        Do you have blue T-shirts under 100 dollars? Label: Product
        What are the available sizes for the t-shirts? Label: FAQ
        How can I contact you via phone? Label: FAQ
        How can I find the promotions? Label: FAQ
        Give me ideas for a sunny look. Label: Product
Return only one of the two labels: FAQ or Product, nothing more.
Query to classify: %s`, query)
}
