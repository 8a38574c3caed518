package chi

import (
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain"
)

// Error response codes rendered to clients.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeDocumentNotFound  = "document_not_found"
	codeRateLimited       = "rate_limited"
	codeSearchUnavailable = "search_unavailable"
	codeInternalError     = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Query   string        `json:"query"`
	Filters searchFilters `json:"filters"`
	Offset  int           `json:"offset"`
	Limit   int           `json:"limit"`
}

type searchFilters struct {
	Tag      string     `json:"tag,omitempty"`
	Author   string     `json:"author,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
}

type searchResponse struct {
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
	Hits   []searchHit `json:"hits"`
}

type searchHit struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Snippet string   `json:"snippet"`
	Score   float64  `json:"score"`
	Tags    []string `json:"tags,omitempty"`
}

type documentRequest struct {
	ID       string            `json:"id,omitempty"`
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Tags     []string          `json:"tags,omitempty"`
	Author   string            `json:"author,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type documentResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Tags      []string          `json:"tags,omitempty"`
	Author    string            `json:"author,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (f searchFilters) toDomain() domain.Filters {
	out := domain.Filters{
		Tag:    f.Tag,
		Author: f.Author,
	}
	if f.DateFrom != nil {
		out.DateFrom = *f.DateFrom
	}
	if f.DateTo != nil {
		out.DateTo = *f.DateTo
	}
	return out
}

func searchResultToDTO(res domain.SearchResult) searchResponse {
	hits := make([]searchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, searchHit{
			ID:      h.ID,
			Title:   h.Title,
			Snippet: h.Snippet,
			Score:   h.Score,
			Tags:    h.Tags,
		})
	}
	return searchResponse{
		Total:  res.Total,
		Offset: res.Offset,
		Limit:  res.Limit,
		Hits:   hits,
	}
}

func documentToDTO(doc domain.Document) documentResponse {
	return documentResponse{
		ID:        doc.ID(),
		Title:     doc.Title(),
		Content:   doc.Content(),
		Tags:      doc.Tags(),
		Author:    doc.Author(),
		Metadata:  doc.Metadata(),
		CreatedAt: doc.CreatedAt(),
		UpdatedAt: doc.UpdatedAt(),
	}
}
