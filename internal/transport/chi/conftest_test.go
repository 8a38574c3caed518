package chi

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/cache"
	"github.com/kailas-cloud/searchgate/internal/db"
	bleveIndex "github.com/kailas-cloud/searchgate/internal/index/bleve"
	"github.com/kailas-cloud/searchgate/internal/query"
	"github.com/kailas-cloud/searchgate/internal/ratelimit"
	documentuc "github.com/kailas-cloud/searchgate/internal/usecase/document"
	healthuc "github.com/kailas-cloud/searchgate/internal/usecase/health"
	searchuc "github.com/kailas-cloud/searchgate/internal/usecase/search"
)

// memStore is an in-memory stand-in for the key-value store. It backs the
// cache, the rate limiter, and the health check in transport tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) DelByPrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(string(m.data[key]), 10, 64)
	n++
	m.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (m *memStore) Expire(_ context.Context, _ string, _ time.Duration, _ bool) error {
	return nil
}

func (m *memStore) Ping(_ context.Context) error { return nil }

// newTestRouter wires a full API server on an in-memory index and store.
func newTestRouter(t *testing.T, maxRequests int) chirouter.Router {
	t.Helper()

	engine, err := bleveIndex.OpenMem()
	if err != nil {
		t.Fatalf("OpenMem: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	store := newMemStore()
	logger := zap.NewNop()

	c := cache.New(store, cache.NewKeys("test:"), cache.Config{
		SearchTTL:   time.Minute,
		DocumentTTL: time.Minute,
	}, nil, logger)

	limiter := ratelimit.New(store, ratelimit.Config{
		MaxRequests: maxRequests,
		Window:      time.Minute,
		KeyPrefix:   "test:",
	}, nil, logger)

	searchSvc := searchuc.New(limiter, c, query.New(), engine, logger)
	docSvc := documentuc.New(limiter, c, engine, logger)
	healthSvc := healthuc.New(store, engine)

	r := chirouter.NewRouter()
	NewServer(searchSvc, docSvc, healthSvc, logger).Mount(r)
	return r
}
