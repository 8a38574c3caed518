package metrics

import "github.com/prometheus/client_golang/prometheus"

// Core serving-path Prometheus metrics.
var (
	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchgate",
			Name:      "cache_total",
			Help:      "Cache lookups by kind and result",
		},
		[]string{"kind", "result"}, // kind: "search"/"doc", result: "hit"/"miss"/"degraded"
	)

	RateLimitDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchgate",
			Name:      "ratelimit_decisions_total",
			Help:      "Rate limiter admission decisions",
		},
		[]string{"result"}, // "allowed" / "denied" / "degraded"
	)
)

// RegisterCoreMetrics registers serving-path metrics with the default
// registry. Called once from the composition root (no init()).
func RegisterCoreMetrics() {
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(RateLimitDecisions)
}
