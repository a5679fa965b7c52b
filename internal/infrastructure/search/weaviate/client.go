// Package weaviate implements the search backend contract against a
// Weaviate instance over its GraphQL API. Only the query surface is used;
// indexing the catalog is the store's own concern.
package weaviate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopassist/rag/internal/core/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	fields     map[string][]string
}

type Options struct {
	Timeout time.Duration
}

// New builds a client. fields maps each collection (Weaviate class) to the
// properties every query selects.
func New(baseURL string, fields map[string][]string) *Client {
	return NewWithOptions(baseURL, fields, Options{})
}

func NewWithOptions(baseURL string, fields map[string][]string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		fields:     fields,
	}
}

// QueryByKeyword runs the backend's bm25 ranking.
func (c *Client) QueryByKeyword(ctx context.Context, collection, query string, limit int) ([]domain.ScoredResult, error) {
	selection, err := c.selection(collection)
	if err != nil {
		return nil, err
	}
	gql := fmt.Sprintf("{ Get { %s(bm25: {query: %s}, limit: %d) { %s _additional { id } } } }",
		collection, strconv.Quote(query), limit, selection)
	return c.runQuery(ctx, collection, gql, "bm25")
}

// QueryByVectorSimilarity runs nearText search, combining any filters
// server-side with AND semantics.
func (c *Client) QueryByVectorSimilarity(ctx context.Context, collection, query string, limit int, filters *domain.FilterSpec) ([]domain.ScoredResult, error) {
	selection, err := c.selection(collection)
	if err != nil {
		return nil, err
	}

	args := fmt.Sprintf("nearText: {concepts: [%s]}, limit: %d", strconv.Quote(query), limit)
	if where := renderWhereFilter(filters); where != "" {
		args += ", where: " + where
	}
	gql := fmt.Sprintf("{ Get { %s(%s) { %s _additional { id } } } }", collection, args, selection)
	return c.runQuery(ctx, collection, gql, "near_text")
}

func (c *Client) selection(collection string) (string, error) {
	fields, ok := c.fields[collection]
	if !ok || len(fields) == 0 {
		return "", fmt.Errorf("weaviate: no field selection configured for collection %q", collection)
	}
	return strings.Join(fields, " "), nil
}

func (c *Client) runQuery(ctx context.Context, collection, gql, operation string) ([]domain.ScoredResult, error) {
	payload := map[string]string{"query": gql}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s query: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/graphql", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		statusErr := fmt.Errorf("weaviate status %s: %s", resp.Status, strings.TrimSpace(string(raw)))
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, operation, statusErr)
	}

	var decoded struct {
		Data struct {
			Get map[string][]map[string]any `json:"Get"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", operation, err)
	}
	if len(decoded.Errors) > 0 {
		gqlErr := fmt.Errorf("graphql: %s", decoded.Errors[0].Message)
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, operation, gqlErr)
	}

	objects := decoded.Data.Get[collection]
	out := make([]domain.ScoredResult, 0, len(objects))
	for rank, obj := range objects {
		out = append(out, toScoredResult(obj, rank))
	}
	return out, nil
}

func toScoredResult(obj map[string]any, rank int) domain.ScoredResult {
	id := ""
	properties := make(map[string]any, len(obj))
	for key, value := range obj {
		if key == "_additional" {
			if additional, ok := value.(map[string]any); ok {
				if s, ok := additional["id"].(string); ok {
					id = s
				}
			}
			continue
		}
		properties[key] = value
	}
	return domain.ScoredResult{ID: id, Rank: rank, Properties: properties}
}
