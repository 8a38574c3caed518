package document

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/ratelimit"
)

// defaultEngineTimeout bounds a single index engine call.
const defaultEngineTimeout = 5 * time.Second

// Service orchestrates document reads and writes. Writes hit the engine
// first, then invalidate the cache; invalidation failures are absorbed
// because the stale entries self-heal via TTL.
type Service struct {
	limiter       Limiter
	cache         Cache
	engine        Engine
	engineTimeout time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

// New creates a document service.
func New(limiter Limiter, cache Cache, engine Engine, logger *zap.Logger) *Service {
	return &Service{
		limiter:       limiter,
		cache:         cache,
		engine:        engine,
		engineTimeout: defaultEngineTimeout,
		now:           time.Now,
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

// WithClock overrides the clock (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Index creates or replaces a document, stamping timestamps, then
// invalidates the document's cache entry and the tenant's search cache.
// Invalidation runs after the mutation completes, never before.
func (s *Service) Index(ctx context.Context, tenant domain.TenantID, doc domain.Document) (domain.Document, error) {
	now := s.now()
	createdAt := doc.CreatedAt()
	if createdAt.IsZero() {
		createdAt = now
	}
	doc = doc.WithTimestamps(createdAt, now)

	engineCtx, cancel := context.WithTimeout(ctx, s.engineTimeout)
	defer cancel()

	if err := s.engine.Index(engineCtx, doc); err != nil {
		return domain.Document{}, fmt.Errorf("%w: index document %s: %w", domain.ErrSearchUnavailable, doc.ID(), err)
	}

	s.invalidate(ctx, tenant, doc.ID())
	return doc, nil
}

// Get serves one tenant document read: admission, cache, engine, cache
// populate. A document owned by another tenant is not found, never an
// error, so foreign documents do not leak their existence.
func (s *Service) Get(
	ctx context.Context, tenant domain.TenantID, docID string,
) (domain.Document, bool, ratelimit.Decision, error) {
	dec := s.limiter.Admit(ctx, tenant)
	if !dec.Allowed {
		return domain.Document{}, false, dec, domain.NewRateLimitError(dec.RetryAfter, dec.ResetAt)
	}

	if doc, ok := s.cache.GetDocument(ctx, tenant, docID); ok {
		if doc.Tenant() != tenant {
			return domain.Document{}, false, dec, nil
		}
		return doc, true, dec, nil
	}

	engineCtx, cancel := context.WithTimeout(ctx, s.engineTimeout)
	defer cancel()

	doc, found, err := s.engine.Get(engineCtx, tenant, docID)
	if err != nil {
		return domain.Document{}, false, dec, fmt.Errorf("%w: get document %s: %w", domain.ErrSearchUnavailable, docID, err)
	}
	if !found || doc.Tenant() != tenant {
		return domain.Document{}, false, dec, nil
	}

	s.cache.SetDocument(ctx, tenant, doc)
	return doc, true, dec, nil
}

// Delete removes a document from the engine, then invalidates. Deleting a
// missing document is reported as found=false, not as an error, and still
// triggers invalidation.
func (s *Service) Delete(ctx context.Context, tenant domain.TenantID, docID string) (bool, error) {
	engineCtx, cancel := context.WithTimeout(ctx, s.engineTimeout)
	defer cancel()

	found, err := s.engine.Delete(engineCtx, tenant, docID)
	if err != nil {
		return false, fmt.Errorf("%w: delete document %s: %w", domain.ErrSearchUnavailable, docID, err)
	}

	s.invalidate(ctx, tenant, docID)
	return found, nil
}

func (s *Service) invalidate(ctx context.Context, tenant domain.TenantID, docID string) {
	s.cache.InvalidateDocument(ctx, tenant, docID)
	s.cache.InvalidateTenantSearches(ctx, tenant)
}
