// Package index defines the contract to the external inverted-index engine:
// the query plan handed to it and the client interface the rest of the
// system consumes. Concrete engines live in subpackages.
package index

import (
	"context"

	"github.com/kailas-cloud/searchgate/internal/domain"
)

// Hit is a single ranked engine result before response assembly.
type Hit struct {
	ID      string
	Title   string
	Content string
	Snippet string
	Score   float64
	Tags    []string
}

// Client executes query plans and document mutations against the engine.
type Client interface {
	// Search executes a plan and returns ranked hits plus the total match count.
	Search(ctx context.Context, plan *Plan) ([]Hit, int, error)
	// Index creates or replaces a document.
	Index(ctx context.Context, doc domain.Document) error
	// Get fetches a document owned by tenant. A document owned by another
	// tenant is reported as not found.
	Get(ctx context.Context, tenant domain.TenantID, docID string) (domain.Document, bool, error)
	// Delete removes a document, reporting whether it existed.
	Delete(ctx context.Context, tenant domain.TenantID, docID string) (bool, error)
	// HealthCheck verifies the engine is reachable.
	HealthCheck(ctx context.Context) error
	Close() error
}
