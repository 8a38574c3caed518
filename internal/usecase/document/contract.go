package document

import (
	"context"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/ratelimit"
)

// Limiter admits or rejects tenant requests.
type Limiter interface {
	Admit(ctx context.Context, tenant domain.TenantID) ratelimit.Decision
}

// Cache is the cache-aside layer for documents plus tenant-wide search
// invalidation.
type Cache interface {
	GetDocument(ctx context.Context, tenant domain.TenantID, docID string) (domain.Document, bool)
	SetDocument(ctx context.Context, tenant domain.TenantID, doc domain.Document)
	InvalidateDocument(ctx context.Context, tenant domain.TenantID, docID string)
	InvalidateTenantSearches(ctx context.Context, tenant domain.TenantID)
}

// Engine performs document reads and mutations on the index engine.
type Engine interface {
	Index(ctx context.Context, doc domain.Document) error
	Get(ctx context.Context, tenant domain.TenantID, docID string) (domain.Document, bool, error)
	Delete(ctx context.Context, tenant domain.TenantID, docID string) (bool, error)
}
