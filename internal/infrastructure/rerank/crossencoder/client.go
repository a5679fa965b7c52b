// Package crossencoder scores query/document pairs against an external
// cross-encoder model service.
package crossencoder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopassist/rag/internal/core/domain"
	"github.com/shopassist/rag/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

type Options struct {
	Timeout time.Duration
	Breaker *resilience.Breaker
}

func New(baseURL, model string) *Client {
	return NewWithOptions(baseURL, model, Options{})
}

func NewWithOptions(baseURL, model string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    options.Breaker,
	}
}

type scoreRequest struct {
	Model     string   `json:"model,omitempty"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

type scoreResponse struct {
	Scores []float64 `json:"scores"`
}

// Score returns one relevance score per document, in document order.
func (c *Client) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	request := scoreRequest{Model: c.model, Query: query, Documents: documents}

	var scores []float64
	call := func(ctx context.Context) error {
		decoded, err := c.postScore(ctx, request)
		if err != nil {
			return err
		}
		scores = decoded
		return nil
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(ctx, "rerank.score", call, classifyScoreError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrRerankerUnavailable, "rerank.score", err)
	}
	if len(scores) != len(documents) {
		countErr := fmt.Errorf("got %d scores for %d documents", len(scores), len(documents))
		return nil, domain.WrapError(domain.ErrRerankerUnavailable, "rerank.score", countErr)
	}
	return scores, nil
}

func (c *Client) postScore(ctx context.Context, request scoreRequest) ([]float64, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(raw))}
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode score response: %w", err)
	}
	return decoded.Scores, nil
}

type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("cross-encoder status %s", e.Status)
	}
	return fmt.Sprintf("cross-encoder status %s: %s", e.Status, e.Body)
}

func classifyScoreError(err error) resilience.ErrorClassification {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		record := statusErr.StatusCode == http.StatusTooManyRequests ||
			statusErr.StatusCode == http.StatusRequestTimeout ||
			statusErr.StatusCode >= 500
		return resilience.ErrorClassification{RecordFailure: record}
	}
	return resilience.ClassifyDefault(err)
}
