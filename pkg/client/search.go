package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// SearchRequest is a full-text query against one tenant's documents.
// An empty Query matches all of the tenant's documents.
type SearchRequest struct {
	Query   string        `json:"query"`
	Filters SearchFilters `json:"filters"`
	Offset  int           `json:"offset"`
	Limit   int           `json:"limit"`
}

// SearchFilters narrow a query. Zero-valued fields are not applied.
type SearchFilters struct {
	Tag      string     `json:"tag,omitempty"`
	Author   string     `json:"author,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
}

// SearchResult is one page of hits. Total counts all matches, not just
// the returned page.
type SearchResult struct {
	Total  int   `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
	Hits   []Hit `json:"hits"`
}

// Hit is a single search match ordered by descending relevance.
type Hit struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Snippet string   `json:"snippet"`
	Score   float64  `json:"score"`
	Tags    []string `json:"tags,omitempty"`
}

// Search runs a query against the given tenant.
func (c *Client) Search(ctx context.Context, tenant string, req SearchRequest) (SearchResult, error) {
	var out SearchResult
	path := fmt.Sprintf("/v1/tenants/%s/search", url.PathEscape(tenant))
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return out, nil
}
