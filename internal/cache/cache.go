// Package cache implements cache-aside storage of search pages and
// documents on a shared key-value store.
//
// Consistency model: bounded staleness. A mutation that reaches the index
// engine but crashes before invalidation leaves the stale entry alive for
// at most its TTL. Reads therefore never block on invalidation, and every
// cache failure degrades to a miss rather than a request failure.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/db"
	"github.com/kailas-cloud/searchgate/internal/domain"
)

// store is the consumer interface for cache operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	DelByPrefix(ctx context.Context, prefix string) (int, error)
}

// Config holds cache tuning parameters.
type Config struct {
	// SearchTTL bounds staleness of cached search pages.
	SearchTTL time.Duration
	// DocumentTTL bounds staleness of cached documents.
	DocumentTTL time.Duration
	// Timeout applies to every store call; a timed-out call is treated
	// like a store error (fail-open).
	Timeout time.Duration
}

// Cache is the cache-aside layer over a BlobStore.
type Cache struct {
	store      store
	keys       Keys
	cfg        Config
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a cache layer.
// cacheTotal is a counter vec with labels "kind" ("search"/"doc") and
// "result" ("hit"/"miss"/"degraded"), passed explicitly.
func New(s store, keys Keys, cfg Config, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		keys:       keys,
		cfg:        cfg,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// GetSearch returns a cached search page. Any store failure is a miss,
// never an error: the index engine remains the fallback.
func (c *Cache) GetSearch(ctx context.Context, tenant domain.TenantID, req domain.SearchRequest) (domain.SearchResult, bool) {
	key := c.keys.SearchKey(tenant, req)

	data, ok := c.getBytes(ctx, key, "search")
	if !ok {
		return domain.SearchResult{}, false
	}

	var cached cachedSearchResult
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("Failed to decode cached search result", zap.String("key", key), zap.Error(err))
		c.incCache("search", "miss")
		return domain.SearchResult{}, false
	}

	c.incCache("search", "hit")
	return cachedToSearchResult(cached), true
}

// SetSearch caches a resolved search page. Best-effort: a failed write
// never fails the surrounding request.
func (c *Cache) SetSearch(ctx context.Context, tenant domain.TenantID, req domain.SearchRequest, res domain.SearchResult) {
	key := c.keys.SearchKey(tenant, req)
	data, err := json.Marshal(searchResultToCached(tenant, req, res))
	if err != nil {
		c.logger.Warn("Failed to encode search result for cache", zap.String("key", key), zap.Error(err))
		return
	}
	c.setBytes(ctx, key, data, c.cfg.SearchTTL)
}

// GetDocument returns a cached document with the same fail-open contract
// as GetSearch.
func (c *Cache) GetDocument(ctx context.Context, tenant domain.TenantID, docID string) (domain.Document, bool) {
	key := c.keys.DocKey(tenant, docID)

	data, ok := c.getBytes(ctx, key, "doc")
	if !ok {
		return domain.Document{}, false
	}

	var cached cachedDocument
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("Failed to decode cached document", zap.String("key", key), zap.Error(err))
		c.incCache("doc", "miss")
		return domain.Document{}, false
	}

	c.incCache("doc", "hit")
	return cachedToDocument(cached), true
}

// SetDocument caches a document read through from the engine. Best-effort.
func (c *Cache) SetDocument(ctx context.Context, tenant domain.TenantID, doc domain.Document) {
	key := c.keys.DocKey(tenant, doc.ID())
	data, err := json.Marshal(documentToCached(doc))
	if err != nil {
		c.logger.Warn("Failed to encode document for cache", zap.String("key", key), zap.Error(err))
		return
	}
	c.setBytes(ctx, key, data, c.cfg.DocumentTTL)
}

// InvalidateDocument removes one cached document. Best-effort.
func (c *Cache) InvalidateDocument(ctx context.Context, tenant domain.TenantID, docID string) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	key := c.keys.DocKey(tenant, docID)
	if err := c.store.Del(ctx, key); err != nil {
		c.logger.Warn("Failed to invalidate cached document",
			zap.String("key", key), zap.Error(err))
	}
}

// InvalidateTenantSearches removes every cached search page of the tenant.
// Cost scales with the tenant's cache churn, not corpus size. No matching
// keys is a no-op. Best-effort: on failure, stale pages expire via TTL.
func (c *Cache) InvalidateTenantSearches(ctx context.Context, tenant domain.TenantID) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	prefix := c.keys.TenantSearchPrefix(tenant)
	count, err := c.store.DelByPrefix(ctx, prefix)
	if err != nil {
		c.logger.Warn("Failed to invalidate tenant search cache",
			zap.String("tenant", tenant.String()), zap.Error(err))
		return
	}
	if count > 0 {
		c.logger.Debug("Invalidated tenant search cache",
			zap.String("tenant", tenant.String()), zap.Int("keys", count))
	}
}

func (c *Cache) getBytes(ctx context.Context, key, kind string) ([]byte, bool) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			c.incCache(kind, "miss")
		} else {
			c.logger.Warn("Cache read degraded", zap.String("key", key), zap.Error(err))
			c.incCache(kind, "degraded")
		}
		return nil, false
	}
	if len(data) == 0 {
		c.incCache(kind, "miss")
		return nil, false
	}
	return data, true
}

func (c *Cache) setBytes(ctx context.Context, key string, data []byte, ttl time.Duration) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	if err := c.store.SetWithTTL(ctx, key, data, ttl); err != nil {
		c.logger.Warn("Failed to write cache entry", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func (c *Cache) incCache(kind, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(kind, result).Inc()
	}
}
