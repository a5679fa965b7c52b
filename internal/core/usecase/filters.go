package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/shopassist/rag/internal/core/domain"
	"github.com/shopassist/rag/internal/core/ports"
)

const extractorMaxTokens = 1500

// FilterExtractor turns a product query into a structured FilterSpec using
// one deterministic generation call constrained by the catalog snapshot.
type FilterExtractor struct {
	generator ports.TextGenerator
	catalog   *domain.FilterCatalog
	model     string
	logger    *slog.Logger
}

func NewFilterExtractor(generator ports.TextGenerator, catalog *domain.FilterCatalog, model string, logger *slog.Logger) *FilterExtractor {
	return &FilterExtractor{
		generator: generator,
		catalog:   catalog,
		model:     model,
		logger:    logger,
	}
}

// Extract returns the filter spec and the call's token usage. A malformed
// model output degrades to a nil spec with the cost preserved; only the
// generation call itself failing is reported as an error.
func (e *FilterExtractor) Extract(ctx context.Context, query string) (*domain.FilterSpec, int, error) {
	result, err := e.generator.Generate(ctx, domain.GenerationRequest{
		Prompt:      e.buildExtractionPrompt(query),
		Model:       e.model,
		Temperature: 0,
		TopP:        1,
		MaxTokens:   extractorMaxTokens,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("extract filters: %w", err)
	}

	spec, parseErr := decodeFilterSpec(result.Content)
	if parseErr != nil {
		e.logger.Warn("filter extraction output unparseable, proceeding without filters",
			"error", parseErr, "raw_output", result.Content)
		return nil, result.TotalTokens, nil
	}
	if spec.Empty() {
		return nil, result.TotalTokens, nil
	}
	return spec, result.TotalTokens, nil
}

// extractionPayload is the strict output contract. Unknown keys are dropped
// by the decoder; this is a whitelist, not a passthrough.
type extractionPayload struct {
	Gender         []string    `json:"gender"`
	MasterCategory []string    `json:"masterCategory"`
	ArticleType    []string    `json:"articleType"`
	BaseColour     []string    `json:"baseColour"`
	Price          priceBounds `json:"price"`
	Usage          []string    `json:"usage"`
	Season         []string    `json:"season"`
}

type priceBounds struct {
	Min *float64 `json:"min"`
	Max any      `json:"max"`
}

func decodeFilterSpec(raw string) (*domain.FilterSpec, error) {
	cleaned := sanitizeModelJSON(raw)

	var payload extractionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, domain.WrapError(domain.ErrExtractionParse, "decode filter json", err)
	}

	spec := &domain.FilterSpec{Fields: map[string][]string{}}
	addField(spec, domain.FieldGender, payload.Gender)
	addField(spec, domain.FieldMasterCategory, payload.MasterCategory)
	addField(spec, domain.FieldArticleType, payload.ArticleType)
	addField(spec, domain.FieldBaseColour, payload.BaseColour)
	addField(spec, domain.FieldUsage, payload.Usage)
	addField(spec, domain.FieldSeason, payload.Season)
	spec.Price = pricePredicate(payload.Price)
	return spec, nil
}

// sanitizeModelJSON tolerates the generator's common formatting drift:
// literal newlines, stray single quotes and doubled braces.
func sanitizeModelJSON(raw string) string {
	cleaned := strings.ReplaceAll(raw, "\n", "")
	cleaned = strings.ReplaceAll(cleaned, "'", "")
	cleaned = strings.ReplaceAll(cleaned, "}}", "}")
	cleaned = strings.ReplaceAll(cleaned, "{{", "{")
	return cleaned
}

func addField(spec *domain.FilterSpec, field string, values []string) {
	kept := values[:0:0]
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) > 0 {
		spec.Fields[field] = kept
	}
}

// pricePredicate drops the range entirely when the lower bound is the
// zero sentinel or the upper bound is open-ended. A literal min of 0 is
// indistinguishable from "no lower bound" in the extraction contract.
func pricePredicate(bounds priceBounds) *domain.PriceRange {
	if bounds.Min == nil || bounds.Max == nil {
		return nil
	}
	if *bounds.Min <= 0 {
		return nil
	}
	max, ok := bounds.Max.(float64)
	if !ok {
		// "inf" and any other non-numeric value mean unbounded.
		return nil
	}
	if math.IsInf(max, 0) || math.IsNaN(max) {
		return nil
	}
	return &domain.PriceRange{Min: *bounds.Min, Max: max}
}

func (e *FilterExtractor) buildExtractionPrompt(query string) string {
	valueSets := make(map[string][]string, len(domain.FilterableFields))
	for _, field := range e.catalog.Fields() {
		valueSets[field] = e.catalog.Values(field)
	}
	encoded, _ := json.Marshal(valueSets)

	return fmt.Sprintf(`One query will be provided. For the given query, there will be a call on a vector database to query relevant cloth items.
Generate a JSON with useful metadata to filter the products in the query. Possible values for each feature are in the following json: %s

Provide a JSON with the features that best fit the query (can be more than one, write in a list). Also, if present, add a price key, saying if there is a price range (between values, greater than or smaller than some value).
Only return the JSON, nothing more. price key must be a json with "min" and "max" values (0 if no lower bound and inf if no upper bound).
Always include gender, masterCategory, articleType, baseColour, price, usage and season as keys. All values must be within lists.
If there is no price set, add min = 0 and max = inf.
Only include values that are given in the json above.

Example of expected JSON:

{"gender": ["Women"], "masterCategory": ["Apparel"], "articleType": ["Dresses"], "baseColour": ["Blue"], "price": {"min": 0, "max": "inf"}, "usage": ["Formal"], "season": ["All seasons"]}

Query: %s`, encoded, query)
}
