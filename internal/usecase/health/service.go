package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. The cache store failing alone
	// still serves traffic (fail-open), so it degrades rather than fails.
	Degraded Status = "degraded"
	// Unhealthy indicates the index engine is down: search cannot be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store StorePinger
	index IndexChecker
}

// New creates a Service.
func New(store StorePinger, index IndexChecker) *Service {
	return &Service{store: store, index: index}
}

// Check runs health checks against all components. The index engine is
// authoritative: if it fails, the service is unhealthy. A cache store
// failure alone is a degradation.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
		status = Degraded
	} else {
		checks["store"] = CheckOK
	}

	if err := s.index.HealthCheck(ctx); err != nil {
		checks["index"] = CheckError
		status = Unhealthy
	} else {
		checks["index"] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
