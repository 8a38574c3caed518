package search

import (
	"context"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/index"
	"github.com/kailas-cloud/searchgate/internal/ratelimit"
)

// Limiter admits or rejects tenant requests.
type Limiter interface {
	Admit(ctx context.Context, tenant domain.TenantID) ratelimit.Decision
}

// Cache is the cache-aside layer for search pages.
type Cache interface {
	GetSearch(ctx context.Context, tenant domain.TenantID, req domain.SearchRequest) (domain.SearchResult, bool)
	SetSearch(ctx context.Context, tenant domain.TenantID, req domain.SearchRequest, res domain.SearchResult)
}

// Planner builds tenant-scoped query plans.
type Planner interface {
	Build(tenant domain.TenantID, req domain.SearchRequest) (*index.Plan, error)
}

// Engine executes query plans against the index engine.
type Engine interface {
	Search(ctx context.Context, plan *index.Plan) ([]index.Hit, int, error)
}
