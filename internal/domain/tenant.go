package domain

import (
	"fmt"
	"regexp"
)

// MaxTenantIDLength is the maximum tenant identifier length.
const MaxTenantIDLength = 100

var tenantRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// TenantID identifies an isolated customer namespace. Every cache key,
// counter key, and query plan embeds exactly one TenantID. The value is
// provided by a trusted upstream and never derived from request content.
type TenantID string

// NewTenantID validates and creates a TenantID.
// Allowed: alphanumeric, hyphen, underscore; 1-100 chars.
func NewTenantID(s string) (TenantID, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidTenant)
	}
	if len(s) > MaxTenantIDLength {
		return "", fmt.Errorf("%w: too long (max %d)", ErrInvalidTenant, MaxTenantIDLength)
	}
	if !tenantRegex.MatchString(s) {
		return "", fmt.Errorf("%w: must be alphanumeric with underscores and hyphens", ErrInvalidTenant)
	}
	return TenantID(s), nil
}

// String returns the raw tenant identifier.
func (t TenantID) String() string { return string(t) }
