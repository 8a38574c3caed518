package domain

import (
	"strconv"
	"strings"
	"time"
)

// Filters narrows a search to documents matching every set field.
// Fields are AND-combined; an unset field does not constrain results.
type Filters struct {
	Tag      string
	Author   string
	DateFrom time.Time
	DateTo   time.Time
}

// IsZero reports whether no filter field is set.
func (f Filters) IsZero() bool {
	return f.Tag == "" && f.Author == "" && f.DateFrom.IsZero() && f.DateTo.IsZero()
}

// Canonical returns a field-ordered serialization of the filters.
// Logically equal filters always serialize identically, regardless of how
// the struct was populated, so derived cache keys are stable.
func (f Filters) Canonical() string {
	var b strings.Builder
	b.WriteString("tag=")
	b.WriteString(f.Tag)
	b.WriteString("\nauthor=")
	b.WriteString(f.Author)
	b.WriteString("\nfrom=")
	b.WriteString(canonicalTime(f.DateFrom))
	b.WriteString("\nto=")
	b.WriteString(canonicalTime(f.DateTo))
	return b.String()
}

func canonicalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}
