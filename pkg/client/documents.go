package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Document is a stored document as the API returns it. CreatedAt and
// UpdatedAt are assigned by the server and ignored on writes.
type Document struct {
	ID        string            `json:"id,omitempty"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Tags      []string          `json:"tags,omitempty"`
	Author    string            `json:"author,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
	UpdatedAt time.Time         `json:"updated_at,omitempty"`
}

// DocumentService manages documents within a single tenant.
type DocumentService struct {
	client *Client
	tenant string
}

// Documents returns the document service for the given tenant.
func (c *Client) Documents(tenant string) *DocumentService {
	return &DocumentService{client: c, tenant: tenant}
}

// Create indexes a new document. When doc.ID is empty the server assigns
// one; the returned document carries the final ID and timestamps.
func (s *DocumentService) Create(ctx context.Context, doc Document) (Document, error) {
	var out Document
	path := fmt.Sprintf("/v1/tenants/%s/documents", url.PathEscape(s.tenant))
	if err := s.client.do(ctx, http.MethodPost, path, doc, &out); err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	return out, nil
}

// Upsert creates or replaces the document with the given ID.
func (s *DocumentService) Upsert(ctx context.Context, id string, doc Document) (Document, error) {
	var out Document
	if err := s.client.do(ctx, http.MethodPut, s.docPath(id), doc, &out); err != nil {
		return Document{}, fmt.Errorf("upsert document: %w", err)
	}
	return out, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (Document, error) {
	var out Document
	if err := s.client.do(ctx, http.MethodGet, s.docPath(id), nil, &out); err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return out, nil
}

// Delete removes a document by ID. Returns false without error when the
// document does not exist.
func (s *DocumentService) Delete(ctx context.Context, id string) (bool, error) {
	err := s.client.do(ctx, http.MethodDelete, s.docPath(id), nil, nil)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete document: %w", err)
	}
	return true, nil
}

func (s *DocumentService) docPath(id string) string {
	return fmt.Sprintf("/v1/tenants/%s/documents/%s",
		url.PathEscape(s.tenant), url.PathEscape(id))
}
