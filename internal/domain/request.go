package domain

import (
	"fmt"
	"strings"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	// MinLimit is the smallest page size served.
	MinLimit = 1
	// MaxLimit is the largest page size served; larger values are clamped.
	MaxLimit = 50
)

// SearchRequest is a validated, normalized search query.
type SearchRequest struct {
	query   string
	filters Filters
	offset  int
	limit   int
}

// NewSearchRequest validates and normalizes search parameters.
// An empty or whitespace query means "match all". The limit is silently
// clamped to [MinLimit, MaxLimit]; a negative offset is an error.
func NewSearchRequest(query string, filters Filters, offset, limit int) (SearchRequest, error) {
	query = strings.TrimSpace(query)
	if len(query) > MaxQueryLength {
		return SearchRequest{}, fmt.Errorf("%w: query too long (max %d chars)", ErrInvalidArgument, MaxQueryLength)
	}
	if offset < 0 {
		return SearchRequest{}, fmt.Errorf("%w: offset must not be negative", ErrInvalidArgument)
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return SearchRequest{
		query:   query,
		filters: filters,
		offset:  offset,
		limit:   limit,
	}, nil
}

// Query returns the normalized query text ("" means match all).
func (r *SearchRequest) Query() string { return r.query }

// MatchAll reports whether the request matches all tenant documents.
func (r *SearchRequest) MatchAll() bool { return r.query == "" }

// Filters returns the structured filters.
func (r *SearchRequest) Filters() Filters { return r.filters }

// Offset returns the pagination offset.
func (r *SearchRequest) Offset() int { return r.offset }

// Limit returns the clamped page size.
func (r *SearchRequest) Limit() int { return r.limit }
