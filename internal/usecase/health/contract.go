package health

import "context"

// StorePinger checks key-value store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker checks index engine availability.
type IndexChecker interface {
	HealthCheck(ctx context.Context) error
}
