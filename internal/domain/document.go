package domain

import (
	"fmt"
	"regexp"
	"time"
)

var docIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const (
	// MaxDocumentIDLength is the maximum document identifier length.
	MaxDocumentIDLength = 256
	// MaxContentSize is the maximum document content size in bytes.
	MaxContentSize = 163840 // 160KB
)

// Document is the document aggregate (immutable value object).
type Document struct {
	id        string
	tenant    TenantID
	title     string
	content   string
	tags      []string
	author    string
	metadata  map[string]string
	createdAt time.Time
	updatedAt time.Time
}

// NewDocument validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Title or content must be non-empty.
func NewDocument(
	id string, tenant TenantID, title, content string,
	tags []string, author string, metadata map[string]string,
) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("%w: document ID is required", ErrInvalidArgument)
	}
	if len(id) > MaxDocumentIDLength {
		return Document{}, fmt.Errorf("%w: document ID too long (max %d)", ErrInvalidArgument, MaxDocumentIDLength)
	}
	if !docIDRegex.MatchString(id) {
		return Document{}, fmt.Errorf(
			"%w: document ID must be alphanumeric with underscores and hyphens", ErrInvalidArgument)
	}
	if tenant == "" {
		return Document{}, fmt.Errorf("%w: tenant is required", ErrInvalidTenant)
	}
	if title == "" && content == "" {
		return Document{}, fmt.Errorf("%w: title or content is required", ErrInvalidArgument)
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("%w: content too large (max %d bytes)", ErrInvalidArgument, MaxContentSize)
	}

	return Document{
		id:       id,
		tenant:   tenant,
		title:    title,
		content:  content,
		tags:     cloneStrings(tags),
		author:   author,
		metadata: cloneStringMap(metadata),
	}, nil
}

// ReconstructDocument creates a Document without validation (storage hydration).
func ReconstructDocument(
	id string, tenant TenantID, title, content string,
	tags []string, author string, metadata map[string]string,
	createdAt, updatedAt time.Time,
) Document {
	return Document{
		id: id, tenant: tenant, title: title, content: content,
		tags: tags, author: author, metadata: metadata,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Tenant returns the owning tenant.
func (d *Document) Tenant() TenantID { return d.tenant }

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// Content returns the free-text body.
func (d *Document) Content() string { return d.content }

// Tags returns the document tags.
func (d *Document) Tags() []string { return d.tags }

// Author returns the document author.
func (d *Document) Author() string { return d.author }

// Metadata returns the opaque metadata fields.
func (d *Document) Metadata() map[string]string { return d.metadata }

// CreatedAt returns the creation timestamp.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (d *Document) UpdatedAt() time.Time { return d.updatedAt }

// WithTimestamps returns a copy with creation and update times set.
func (d *Document) WithTimestamps(createdAt, updatedAt time.Time) Document {
	c := *d
	c.createdAt = createdAt
	c.updatedAt = updatedAt
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
