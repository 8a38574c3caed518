package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTenant signals a malformed tenant identifier.
	ErrInvalidTenant = errors.New("invalid tenant id")
	// ErrInvalidArgument signals a request the caller must fix.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrSearchUnavailable signals an unreachable index engine.
	ErrSearchUnavailable = errors.New("search unavailable")
)

// RateLimitError wraps ErrRateLimited with the admission decision details
// the transport needs to render headers.
type RateLimitError struct {
	RetryAfter int
	ResetAt    time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: retry after %ds", ErrRateLimited.Error(), e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// NewRateLimitError creates a rate limit error carrying retry hints.
func NewRateLimitError(retryAfter int, resetAt time.Time) error {
	return &RateLimitError{RetryAfter: retryAfter, ResetAt: resetAt}
}
