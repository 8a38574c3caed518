package db

import (
	"context"
	"time"
)

// Store is the key-value store facade combining all sub-interfaces.
// Consumers depend on narrow sub-interfaces (ISP), never on Store itself.
type Store interface {
	Pinger
	BlobStore
	CounterStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BlobStore holds opaque serialized values with expiry, used by the cache layer.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	DelByPrefix(ctx context.Context, prefix string) (int, error)
}

// CounterStore holds integer counters with expiry, used by the rate limiter.
type CounterStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}
