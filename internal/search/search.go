// Package search provides keyword web search through the Serper API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

const (
	defaultBaseURL = "https://google.serper.dev"
	defaultTimeout = 15 * time.Second

	// MaxResults caps how many organic hits a query returns.
	MaxResults = 3
)

// ErrProvider marks failures of the search provider.
var ErrProvider = errors.New("search provider request failed")

// Result is a single organic search hit.
type Result struct {
	Title   string
	Link    string
	Snippet string
}

// Gateway is the search contract the command pipeline depends on.
type Gateway interface {
	// Search returns up to MaxResults hits for a query. An empty slice
	// with a nil error means the query simply matched nothing.
	Search(ctx context.Context, query string) ([]Result, error)
}

// SerperClient implements Gateway against the Serper HTTP API.
type SerperClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewSerperClient builds a client for the given key. baseURL overrides
// the production endpoint; pass "" outside of tests.
func NewSerperClient(log *slog.Logger, apiKey, baseURL string) *SerperClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &SerperClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  log.With(slog.String("gateway", "serper")),
	}
}

type serperRequest struct {
	Query string `json:"q"`
}

type serperOrganic struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

type serperResponse struct {
	Organic []serperOrganic `json:"organic"`
}

func (c *SerperClient) Search(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(serperRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("search request failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("search request rejected", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: unexpected status %d", ErrProvider, resp.StatusCode)
	}

	var payload serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrProvider, err)
	}

	sort.SliceStable(payload.Organic, func(i, j int) bool {
		return payload.Organic[i].Position < payload.Organic[j].Position
	})

	results := make([]Result, 0, MaxResults)
	for _, hit := range payload.Organic {
		if len(results) == MaxResults {
			break
		}
		results = append(results, Result{
			Title:   hit.Title,
			Link:    hit.Link,
			Snippet: hit.Snippet,
		})
	}
	return results, nil
}
