package domain

// Source labels which ranked list a result came from.
type Source string

const (
	SourceKeyword  Source = "keyword"
	SourceSemantic Source = "semantic"
)

// ScoredResult is one ranked hit from the search backend. Ownership is
// per-request; results are discarded after prompt assembly.
type ScoredResult struct {
	ID         string
	Source     Source
	Rank       int
	Properties map[string]any
}

// StringProperty reads a property as text, tolerating backends that return
// numbers for fields like year or product_id.
func (r ScoredResult) StringProperty(key string) string {
	v, ok := r.Properties[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return stringify(v)
}

// FusionScore is the per-id accounting of a Reciprocal Rank Fusion merge.
// FinalScore is always the sum of the two partial scores.
type FusionScore struct {
	ID            string
	KeywordScore  float64
	SemanticScore float64
	FinalScore    float64
}

// RetrieverType selects the retrieval strategy.
type RetrieverType string

const (
	RetrieverBM25     RetrieverType = "bm25"
	RetrieverSemantic RetrieverType = "semantic"
	RetrieverHybrid   RetrieverType = "hybrid"
)

// RetrievalConfig is validated once at the pipeline boundary and passed down
// immutably for the rest of the request.
type RetrievalConfig struct {
	RetrieverType RetrieverType
	Simplified    bool
	TopK          int
	Alpha         float64
	K             int
	UseReranker   bool
	RerankQuery   string
}

const (
	DefaultTopK  = 20
	DefaultAlpha = 0.5
	DefaultRRFK  = 60
)

// Normalize fills unset knobs with defaults and clamps out-of-range values.
// Only an unset retriever type is defaulted; an explicitly invalid one is
// kept so the retriever can log it and degrade to an empty result set.
func (c RetrievalConfig) Normalize() RetrievalConfig {
	if c.RetrieverType == "" {
		c.RetrieverType = RetrieverSemantic
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.Alpha < 0 {
		c.Alpha = 0
	}
	if c.Alpha > 1 {
		c.Alpha = 1
	}
	if c.K <= 0 {
		c.K = DefaultRRFK
	}
	return c
}
