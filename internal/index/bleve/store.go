// Package bleve implements index.Client on an embedded bleve index.
// Tenant isolation holds twice over: internal keys are prefixed with the
// tenant, and every query plan carries a mandatory tenant term clause.
package bleve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/index"
)

// Stored-only field names (not part of the query plan surface).
const (
	fieldUpdated  = "updated_at"
	fieldMetadata = "metadata"
)

// snippetLength is the fallback snippet prefix length in runes.
const snippetLength = 150

// Compile-time check: Store implements index.Client.
var _ index.Client = (*Store)(nil)

// Store is a bleve-backed index client.
type Store struct {
	idx bleve.Index
}

// Open opens the index at path, creating it with the document mapping if it
// does not exist yet.
func Open(path string) (*Store, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	return &Store{idx: idx}, nil
}

// OpenMem creates an in-memory index (tests, local runs).
func OpenMem() (*Store, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("open in-memory index: %w", err)
	}
	return &Store{idx: idx}, nil
}

// Close releases the index.
func (s *Store) Close() error {
	if err := s.idx.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}

// HealthCheck verifies the index is readable.
func (s *Store) HealthCheck(_ context.Context) error {
	if _, err := s.idx.DocCount(); err != nil {
		return fmt.Errorf("index doc count: %w", err)
	}
	return nil
}

// Index creates or replaces a document under its tenant-scoped key.
func (s *Store) Index(_ context.Context, doc domain.Document) error {
	metadata, err := json.Marshal(doc.Metadata())
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	fields := map[string]interface{}{
		index.FieldTenant:  doc.Tenant().String(),
		index.FieldTitle:   doc.Title(),
		index.FieldContent: doc.Content(),
		index.FieldTags:    doc.Tags(),
		index.FieldAuthor:  doc.Author(),
		index.FieldCreated: doc.CreatedAt(),
		fieldUpdated:       doc.UpdatedAt(),
		fieldMetadata:      string(metadata),
	}

	if err := s.idx.Index(docKey(doc.Tenant(), doc.ID()), fields); err != nil {
		return fmt.Errorf("index document %s: %w", doc.ID(), err)
	}
	return nil
}

// Get fetches a document by tenant and ID from stored fields.
func (s *Store) Get(ctx context.Context, tenant domain.TenantID, docID string) (domain.Document, bool, error) {
	q := bleve.NewDocIDQuery([]string{docKey(tenant, docID)})
	req := bleve.NewSearchRequestOptions(q, 1, 0, false)
	req.Fields = []string{"*"}

	res, err := s.idx.SearchInContext(ctx, req)
	if err != nil {
		return domain.Document{}, false, fmt.Errorf("get document %s: %w", docID, err)
	}
	if len(res.Hits) == 0 {
		return domain.Document{}, false, nil
	}

	hit := res.Hits[0]
	if fieldString(hit.Fields, index.FieldTenant) != tenant.String() {
		// Defensive tenant check on top of key scoping.
		return domain.Document{}, false, nil
	}

	return hydrateDocument(docID, tenant, hit.Fields), true, nil
}

// Delete removes a document, reporting whether it existed.
func (s *Store) Delete(ctx context.Context, tenant domain.TenantID, docID string) (bool, error) {
	_, found, err := s.Get(ctx, tenant, docID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := s.idx.Delete(docKey(tenant, docID)); err != nil {
		return false, fmt.Errorf("delete document %s: %w", docID, err)
	}
	return true, nil
}

// docKey builds the engine-internal key. The tenant prefix makes
// cross-tenant key collisions impossible.
func docKey(tenant domain.TenantID, docID string) string {
	return tenant.String() + "/" + docID
}

// buildMapping defines the index schema: keyword-analyzed tenant, author,
// and tags fields, text title and content, stored-only metadata.
func buildMapping() mapping.IndexMapping {
	kw := bleve.NewTextFieldMapping()
	kw.Analyzer = keyword.Name

	text := bleve.NewTextFieldMapping()
	date := bleve.NewDateTimeFieldMapping()

	storedOnly := bleve.NewTextFieldMapping()
	storedOnly.Index = false
	storedOnly.IncludeInAll = false
	storedOnly.IncludeTermVectors = false

	dm := bleve.NewDocumentMapping()
	dm.AddFieldMappingsAt(index.FieldTenant, kw)
	dm.AddFieldMappingsAt(index.FieldTitle, text)
	dm.AddFieldMappingsAt(index.FieldContent, text)
	dm.AddFieldMappingsAt(index.FieldTags, kw)
	dm.AddFieldMappingsAt(index.FieldAuthor, kw)
	dm.AddFieldMappingsAt(index.FieldCreated, date)
	dm.AddFieldMappingsAt(fieldUpdated, date)
	dm.AddFieldMappingsAt(fieldMetadata, storedOnly)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = dm
	return im
}

// hydrateDocument rebuilds a domain Document from stored fields.
func hydrateDocument(docID string, tenant domain.TenantID, fields map[string]interface{}) domain.Document {
	var metadata map[string]string
	if raw := fieldString(fields, fieldMetadata); raw != "" {
		_ = json.Unmarshal([]byte(raw), &metadata)
	}

	return domain.ReconstructDocument(
		docID,
		tenant,
		fieldString(fields, index.FieldTitle),
		fieldString(fields, index.FieldContent),
		fieldStrings(fields, index.FieldTags),
		fieldString(fields, index.FieldAuthor),
		metadata,
		fieldTime(fields, index.FieldCreated),
		fieldTime(fields, fieldUpdated),
	)
}

func fieldString(fields map[string]interface{}, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

// fieldStrings handles bleve returning a single stored value as a scalar
// and repeated values as a slice.
func fieldStrings(fields map[string]interface{}, name string) []string {
	switch v := fields[name].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func fieldTime(fields map[string]interface{}, name string) time.Time {
	raw := fieldString(fields, name)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
