package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/kailas-cloud/searchgate/internal/domain"
)

// Keys derives cache keys. Derivation is a pure function: identical inputs
// always yield identical keys, and the tenant sits in the key prefix (not
// only inside the hash) so prefix invalidation and isolation hold by
// construction.
type Keys struct {
	prefix string
}

// NewKeys creates a key deriver with the configured key prefix.
func NewKeys(prefix string) Keys {
	return Keys{prefix: prefix}
}

// SearchKey derives the cache key for one tenant search request.
// The hashed payload uses the canonical filter serialization, so logically
// equal filters hit the same key regardless of construction order.
func (k Keys) SearchKey(tenant domain.TenantID, req domain.SearchRequest) string {
	var b strings.Builder
	b.WriteString("q=")
	b.WriteString(req.Query())
	b.WriteString("\n")
	b.WriteString(req.Filters().Canonical())
	b.WriteString("\noffset=")
	b.WriteString(strconv.Itoa(req.Offset()))
	b.WriteString("\nlimit=")
	b.WriteString(strconv.Itoa(req.Limit()))

	h := sha256.Sum256([]byte(b.String()))
	return k.TenantSearchPrefix(tenant) + hex.EncodeToString(h[:])
}

// DocKey derives the cache key for one tenant document.
func (k Keys) DocKey(tenant domain.TenantID, docID string) string {
	return k.prefix + "doc:" + tenant.String() + ":" + docID
}

// TenantSearchPrefix returns the prefix under which every search-cache key
// of the tenant lives. Used for bulk invalidation.
func (k Keys) TenantSearchPrefix(tenant domain.TenantID) string {
	return k.prefix + "search:" + tenant.String() + ":"
}
