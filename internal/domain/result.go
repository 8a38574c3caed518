package domain

// SearchHit is a single ranked result returned to the caller.
type SearchHit struct {
	ID      string
	Title   string
	Snippet string
	Score   float64
	Tags    []string
}

// SearchResult is a page of ranked hits for one tenant query.
type SearchResult struct {
	Total  int
	Offset int
	Limit  int
	Hits   []SearchHit
}
