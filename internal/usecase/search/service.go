package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/index"
	"github.com/kailas-cloud/searchgate/internal/ratelimit"
)

// defaultEngineTimeout bounds a single index engine call.
const defaultEngineTimeout = 5 * time.Second

// Service orchestrates the tenant search read path:
// admission -> cache -> plan -> engine -> cache write.
type Service struct {
	limiter       Limiter
	cache         Cache
	planner       Planner
	engine        Engine
	engineTimeout time.Duration
	logger        *zap.Logger
}

// New creates a search service.
func New(limiter Limiter, cache Cache, planner Planner, engine Engine, logger *zap.Logger) *Service {
	return &Service{
		limiter:       limiter,
		cache:         cache,
		planner:       planner,
		engine:        engine,
		engineTimeout: defaultEngineTimeout,
		logger:        logger,
	}
}

// WithEngineTimeout overrides the index engine call timeout.
func (s *Service) WithEngineTimeout(d time.Duration) *Service {
	if d > 0 {
		s.engineTimeout = d
	}
	return s
}

// Search serves one tenant search request.
//
// A rejected admission fails fast with a rate-limit error and performs no
// further work. A cache hit returns without touching the engine. On a
// miss, the engine result is cached best-effort; engine failures are
// surfaced as search-unavailable and never cached.
func (s *Service) Search(
	ctx context.Context, tenant domain.TenantID, req domain.SearchRequest,
) (domain.SearchResult, ratelimit.Decision, error) {
	dec := s.limiter.Admit(ctx, tenant)
	if !dec.Allowed {
		return domain.SearchResult{}, dec, domain.NewRateLimitError(dec.RetryAfter, dec.ResetAt)
	}

	if cached, ok := s.cache.GetSearch(ctx, tenant, req); ok {
		return cached, dec, nil
	}

	plan, err := s.planner.Build(tenant, req)
	if err != nil {
		return domain.SearchResult{}, dec, fmt.Errorf("build plan: %w", err)
	}

	engineCtx, cancel := context.WithTimeout(ctx, s.engineTimeout)
	defer cancel()

	hits, total, err := s.engine.Search(engineCtx, plan)
	if err != nil {
		return domain.SearchResult{}, dec, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}

	result := assembleResult(req, hits, total)
	s.cache.SetSearch(ctx, tenant, req, result)

	return result, dec, nil
}

func assembleResult(req domain.SearchRequest, hits []index.Hit, total int) domain.SearchResult {
	out := make([]domain.SearchHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, domain.SearchHit{
			ID:      h.ID,
			Title:   h.Title,
			Snippet: h.Snippet,
			Score:   h.Score,
			Tags:    h.Tags,
		})
	}
	return domain.SearchResult{
		Total:  total,
		Offset: req.Offset(),
		Limit:  req.Limit(),
		Hits:   out,
	}
}
