package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shopassist/rag/internal/core/domain"
	"github.com/shopassist/rag/internal/core/ports"
)

// Downstream generation defaults handed back to the caller.
const (
	defaultTemperature = 0.7
	defaultTopP        = 1.0
	defaultMaxTokens   = 500
)

// Pipeline is the answer-query orchestrator. It routes a query, retrieves
// supporting evidence, and assembles a grounded prompt bundle with its token
// cost. It never invokes the final generation call itself.
type Pipeline struct {
	router       *Router
	extractor    *FilterExtractor
	products     *Retriever
	faq          *Retriever
	reranker     *Reranker
	knowledge    ports.KnowledgeBase
	defaultModel string
	logger       *slog.Logger
}

func NewPipeline(
	router *Router,
	extractor *FilterExtractor,
	products *Retriever,
	faq *Retriever,
	reranker *Reranker,
	knowledge ports.KnowledgeBase,
	defaultModel string,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		router:       router,
		extractor:    extractor,
		products:     products,
		faq:          faq,
		reranker:     reranker,
		knowledge:    knowledge,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

// AnswerQuery runs one request through the state machine:
// START -> ROUTE_DECISION -> {FAQ | PRODUCT | UNDEFINED | NO_RAG} -> PROMPT_READY.
// Every branch converges on a still-valid prompt; external failures degrade
// the result instead of propagating.
func (p *Pipeline) AnswerQuery(ctx context.Context, query string, opts domain.QueryOptions) (*domain.PipelineResult, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	logger := p.logger.With("request_id", uuid.NewString())

	if !opts.UseRAG {
		logger.Info("rag disabled, using generic prompt")
		return p.result(domain.RouteNoRAG, buildNoRAGPrompt(query), model, 0), nil
	}

	cfg := opts.Retrieval.Normalize()
	q := domain.Query{Text: query, Simplified: cfg.Simplified}
	totalTokens := 0

	intent, tokens, err := p.router.Classify(ctx, q.Text, q.Simplified)
	totalTokens += tokens
	if err != nil {
		logger.Warn("routing degraded to undefined", "error", err)
	}
	q.Intent = intent
	route := domain.RouteForIntent(intent)
	logger.Info("query routed", "route", string(route), "routing_tokens", tokens)

	var prompt string
	switch route {
	case domain.RouteFAQ:
		prompt = p.faqBranch(ctx, q, cfg)

	case domain.RouteProduct:
		branchPrompt, branchTokens, branchErr := p.productBranch(ctx, q, cfg)
		totalTokens += branchTokens
		if branchErr != nil {
			logger.Error("product branch failed, asking for a rephrase", "error",
				domain.WrapError(domain.ErrPipeline, "product branch", branchErr))
			return p.result(domain.RouteProduct, buildRephrasePrompt(q.Text), model, totalTokens), nil
		}
		prompt = branchPrompt

	default:
		prompt = buildUndefinedPrompt(q.Text)
	}

	logger.Info("prompt ready", "route", string(route), "total_tokens", totalTokens)
	return p.result(route, prompt, model, totalTokens), nil
}

// faqBranch either embeds the whole knowledge base (full mode) or fetches
// the topK semantically closest entries and reverses them so the most
// relevant entry sits nearest the question.
func (p *Pipeline) faqBranch(ctx context.Context, q domain.Query, cfg domain.RetrievalConfig) string {
	if !q.Simplified {
		return buildFAQFullPrompt(q.Text, layoutFAQEntries(p.knowledge.All()))
	}

	results := p.faq.Retrieve(ctx, q.Text, nil, domain.RetrievalConfig{
		RetrieverType: domain.RetrieverSemantic,
		TopK:          cfg.TopK,
		Simplified:    true,
	})
	reverseResults(results)
	return buildFAQSimplifiedPrompt(q.Text, layoutFAQResults(results))
}

// productBranch runs extraction, retrieval, optional reranking and layout.
// Any unexpected failure, panics included, is reported to the caller for
// conversion into a rephrase prompt; token cost spent so far is returned
// either way.
func (p *Pipeline) productBranch(ctx context.Context, q domain.Query, cfg domain.RetrievalConfig) (prompt string, tokens int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	var filters *domain.FilterSpec
	if wantsFilters(cfg) {
		spec, extractionTokens, extractErr := p.extractor.Extract(ctx, q.Text)
		tokens += extractionTokens
		if extractErr != nil {
			return "", tokens, extractErr
		}
		filters = spec
	}

	results := p.products.Retrieve(ctx, q.Text, filters, cfg)
	if cfg.UseReranker && len(results) > 0 {
		results = p.reranker.Rerank(ctx, q.Text, results, cfg.TopK, cfg.RerankQuery)
	}

	return buildProductPrompt(q.Text, layoutProducts(results)), tokens, nil
}

// wantsFilters: keyword ranking ignores metadata filters, and simplified
// mode skips the extraction call to save its token cost.
func wantsFilters(cfg domain.RetrievalConfig) bool {
	if cfg.Simplified {
		return false
	}
	return cfg.RetrieverType == domain.RetrieverSemantic || cfg.RetrieverType == domain.RetrieverHybrid
}

func (p *Pipeline) result(route domain.Route, prompt, model string, totalTokens int) *domain.PipelineResult {
	return &domain.PipelineResult{
		Prompt:      prompt,
		Model:       model,
		Route:       route,
		TotalTokens: totalTokens,
		Params: domain.GenerationParams{
			Temperature: defaultTemperature,
			TopP:        defaultTopP,
			MaxTokens:   defaultMaxTokens,
		},
	}
}

func reverseResults(results []domain.ScoredResult) {
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
}
