package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/db"
	"github.com/kailas-cloud/searchgate/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn         func(ctx context.Context, key string) ([]byte, error)
	setFn         func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn         func(ctx context.Context, key string) error
	delByPrefixFn func(ctx context.Context, prefix string) (int, error)

	setKeys []string
	setTTLs []time.Duration
	delKeys []string
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setKeys = append(m.setKeys, key)
	m.setTTLs = append(m.setTTLs, ttl)
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	m.delKeys = append(m.delKeys, key)
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) DelByPrefix(ctx context.Context, prefix string) (int, error) {
	if m.delByPrefixFn != nil {
		return m.delByPrefixFn(ctx, prefix)
	}
	return 0, nil
}

func newTestCache(t *testing.T) (*Cache, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	c := New(ms, NewKeys("test:"), Config{
		SearchTTL:   2 * time.Minute,
		DocumentTTL: time.Minute,
	}, nil, zap.NewNop())
	return c, ms
}

func makeRequest(t *testing.T, query string, filters domain.Filters, offset, limit int) domain.SearchRequest {
	t.Helper()
	req, err := domain.NewSearchRequest(query, filters, offset, limit)
	if err != nil {
		t.Fatalf("NewSearchRequest: %v", err)
	}
	return req
}

func makeDocument(t *testing.T, id string, tenant domain.TenantID) domain.Document {
	t.Helper()
	doc, err := domain.NewDocument(id, tenant, "Title", "content", []string{"go"}, "ann", nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	return doc
}
