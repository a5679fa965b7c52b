// Package openaichat talks to an OpenAI-compatible chat-completions
// endpoint. It is the pipeline's text-generation capability; usage
// accounting comes straight from the API's reported totals.
package openaichat

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopassist/rag/internal/core/domain"
	"github.com/shopassist/rag/internal/infrastructure/resilience"
)

type Client struct {
	baseURL      string
	apiKey       string
	defaultModel string
	httpClient   *http.Client
	breaker      *resilience.Breaker
}

type Options struct {
	Timeout time.Duration
	Breaker *resilience.Breaker
}

func New(baseURL, apiKey, defaultModel string) *Client {
	return NewWithOptions(baseURL, apiKey, defaultModel, Options{})
}

func NewWithOptions(baseURL, apiKey, defaultModel string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: timeout},
		breaker:      options.Breaker,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate issues one blocking chat-completion round trip. There is no
// retry; a failure is reported to the caller for local degradation.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	topP := req.TopP
	if topP <= 0 {
		topP = 1
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	payload := chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}

	var response chatResponse
	call := func(ctx context.Context) error {
		return c.postJSON(ctx, "/v1/chat/completions", payload, &response, "generate")
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(ctx, "llm.generate", call, classifyGenerationError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.GenerationResult{}, domain.WrapError(domain.ErrGenerationUnavailable, "chat completion", err)
	}

	if len(response.Choices) == 0 {
		return domain.GenerationResult{}, domain.WrapError(domain.ErrGenerationUnavailable, "chat completion", errNoChoices)
	}

	return domain.GenerationResult{
		Content:     strings.TrimSpace(response.Choices[0].Message.Content),
		TotalTokens: response.Usage.TotalTokens,
	}, nil
}
