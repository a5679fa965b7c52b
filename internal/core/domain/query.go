package domain

// Intent is the routed classification of a user query.
type Intent string

const (
	IntentFAQ       Intent = "FAQ"
	IntentProduct   Intent = "Product"
	IntentUndefined Intent = "Undefined"
)

// Route is the pipeline branch selected for a request. It extends Intent
// with the no-RAG short circuit so branch dispatch is a switch over a
// closed set instead of chained boolean checks.
type Route string

const (
	RouteFAQ       Route = "faq"
	RouteProduct   Route = "product"
	RouteUndefined Route = "undefined"
	RouteNoRAG     Route = "no_rag"
)

func RouteForIntent(intent Intent) Route {
	switch intent {
	case IntentFAQ:
		return RouteFAQ
	case IntentProduct:
		return RouteProduct
	default:
		return RouteUndefined
	}
}

// Query is the per-request unit of work. Intent is zero until routing runs.
type Query struct {
	Text       string
	Intent     Intent
	Simplified bool
}

// QueryOptions carries everything the caller may tune for one request.
type QueryOptions struct {
	Model     string
	UseRAG    bool
	Retrieval RetrievalConfig
}

// GenerationRequest is the input contract of the text-generation capability.
type GenerationRequest struct {
	Prompt      string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// GenerationResult is the output contract of the text-generation capability.
type GenerationResult struct {
	Content     string
	TotalTokens int
}

// GenerationParams are the sampling knobs handed back to the caller so the
// final generation call can be issued (or skipped) outside this core.
type GenerationParams struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

// PipelineResult is the sole artifact a request produces. It never carries
// raw backend result objects.
type PipelineResult struct {
	Prompt      string           `json:"prompt"`
	Model       string           `json:"model"`
	Route       Route            `json:"route"`
	TotalTokens int              `json:"total_tokens"`
	Params      GenerationParams `json:"params"`
}
