// Package ratelimit implements per-tenant fixed-window admission control
// on an atomic counter store.
package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/db"
	"github.com/kailas-cloud/searchgate/internal/domain"
)

// store is the consumer interface for counter operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Decision is the admission outcome for one request.
// A zero ResetAt marks a degraded decision: the counter store was
// unreachable and the request was admitted without real counter state.
type Decision struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

// Config holds rate limiter tuning parameters.
type Config struct {
	// MaxRequests is the per-tenant request budget per window.
	MaxRequests int
	// Window is the fixed counting window size.
	Window time.Duration
	// KeyPrefix namespaces counter keys in the shared store.
	KeyPrefix string
	// Timeout applies to every counter call; a timed-out call fails open.
	Timeout time.Duration
}

// Limiter admits or rejects requests per tenant using fixed, non
// overlapping time windows. It keeps no in-process state: the decision is
// a function of the clock and the stored counter, so any number of
// replicas share one budget.
//
// The read-then-increment sequence has a narrow over-admission race under
// concurrent bursts exactly at the limit. This is a soft limit; the window
// counter itself is an atomic INCR, so the budget is never undercounted.
type Limiter struct {
	store     store
	cfg       Config
	now       func() time.Time
	decisions *prometheus.CounterVec
	logger    *zap.Logger
}

// New creates a rate limiter.
// decisions is a counter vec with label "result"
// ("allowed"/"denied"/"degraded"), passed explicitly.
func New(s store, cfg Config, decisions *prometheus.CounterVec, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:     s,
		cfg:       cfg,
		now:       time.Now,
		decisions: decisions,
		logger:    logger,
	}
}

// WithClock overrides the clock (tests).
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Admit decides whether a tenant request proceeds. A request arriving
// exactly at a window boundary counts against the new window. Rejected
// requests do not increment the counter further.
//
// Failure policy: fail-open. A counter store outage admits the request
// and logs; throttling degradation must never become a full outage.
func (l *Limiter) Admit(ctx context.Context, tenant domain.TenantID) Decision {
	ctx, cancel := l.callContext(ctx)
	defer cancel()

	now := l.now()
	windowMs := l.cfg.Window.Milliseconds()
	windowStart := time.UnixMilli(now.UnixMilli() / windowMs * windowMs)
	resetAt := windowStart.Add(l.cfg.Window)
	key := l.counterKey(tenant, windowStart)

	count, err := l.readCount(ctx, key)
	if err != nil {
		l.logger.Warn("Rate limiter degraded, admitting request",
			zap.String("tenant", tenant.String()), zap.Error(err))
		l.incDecision("degraded")
		return Decision{Allowed: true}
	}

	if count >= int64(l.cfg.MaxRequests) {
		l.incDecision("denied")
		return Decision{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(now, resetAt),
		}
	}

	newCount, err := l.store.Incr(ctx, key)
	if err != nil {
		l.logger.Warn("Rate limiter counter increment failed, admitting request",
			zap.String("tenant", tenant.String()), zap.Error(err))
		l.incDecision("degraded")
		return Decision{Allowed: true}
	}

	// NX: the window TTL is set once on first increment, never refreshed,
	// so the counter expires at the window end and is never deleted.
	if err := l.store.Expire(ctx, key, l.cfg.Window, true); err != nil {
		l.logger.Warn("Rate limiter counter expiry failed",
			zap.String("tenant", tenant.String()), zap.Error(err))
	}

	remaining := l.cfg.MaxRequests - int(newCount)
	if remaining < 0 {
		remaining = 0
	}

	l.incDecision("allowed")
	return Decision{
		Allowed:    true,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: 0,
	}
}

// Degraded reports whether the decision was made without counter state.
func (d Decision) Degraded() bool { return d.Allowed && d.ResetAt.IsZero() }

func (l *Limiter) readCount(ctx context.Context, key string) (int64, error) {
	data, err := l.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	count, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (l *Limiter) counterKey(tenant domain.TenantID, windowStart time.Time) string {
	return l.cfg.KeyPrefix + "rl:" + tenant.String() + ":" + strconv.FormatInt(windowStart.UnixMilli(), 10)
}

func (l *Limiter) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, l.cfg.Timeout)
}

func (l *Limiter) incDecision(result string) {
	if l.decisions != nil {
		l.decisions.WithLabelValues(result).Inc()
	}
}

// retryAfterSeconds is the ceiling of the time left in the window.
func retryAfterSeconds(now, resetAt time.Time) int {
	left := resetAt.Sub(now)
	secs := int((left + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
