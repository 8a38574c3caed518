package cache

import (
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain"
)

// cachedSearchResult is the JSON shape of a cached search page.
type cachedSearchResult struct {
	Tenant string      `json:"tenant"`
	Query  string      `json:"query"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
	Total  int         `json:"total"`
	Hits   []cachedHit `json:"hits"`
}

type cachedHit struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Snippet string   `json:"snippet"`
	Score   float64  `json:"score"`
	Tags    []string `json:"tags,omitempty"`
}

// cachedDocument is the JSON shape of a cached document.
type cachedDocument struct {
	ID        string            `json:"id"`
	Tenant    string            `json:"tenant"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Tags      []string          `json:"tags,omitempty"`
	Author    string            `json:"author,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func searchResultToCached(tenant domain.TenantID, req domain.SearchRequest, res domain.SearchResult) cachedSearchResult {
	hits := make([]cachedHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, cachedHit{
			ID:      h.ID,
			Title:   h.Title,
			Snippet: h.Snippet,
			Score:   h.Score,
			Tags:    h.Tags,
		})
	}
	return cachedSearchResult{
		Tenant: tenant.String(),
		Query:  req.Query(),
		Offset: res.Offset,
		Limit:  res.Limit,
		Total:  res.Total,
		Hits:   hits,
	}
}

func cachedToSearchResult(c cachedSearchResult) domain.SearchResult {
	hits := make([]domain.SearchHit, 0, len(c.Hits))
	for _, h := range c.Hits {
		hits = append(hits, domain.SearchHit{
			ID:      h.ID,
			Title:   h.Title,
			Snippet: h.Snippet,
			Score:   h.Score,
			Tags:    h.Tags,
		})
	}
	return domain.SearchResult{
		Total:  c.Total,
		Offset: c.Offset,
		Limit:  c.Limit,
		Hits:   hits,
	}
}

func documentToCached(doc domain.Document) cachedDocument {
	return cachedDocument{
		ID:        doc.ID(),
		Tenant:    doc.Tenant().String(),
		Title:     doc.Title(),
		Content:   doc.Content(),
		Tags:      doc.Tags(),
		Author:    doc.Author(),
		Metadata:  doc.Metadata(),
		CreatedAt: doc.CreatedAt(),
		UpdatedAt: doc.UpdatedAt(),
	}
}

func cachedToDocument(c cachedDocument) domain.Document {
	return domain.ReconstructDocument(
		c.ID,
		domain.TenantID(c.Tenant),
		c.Title,
		c.Content,
		c.Tags,
		c.Author,
		c.Metadata,
		c.CreatedAt,
		c.UpdatedAt,
	)
}
