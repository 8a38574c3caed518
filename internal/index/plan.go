package index

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain"
)

// Field names the engine indexes.
const (
	FieldTenant  = "tenant"
	FieldTitle   = "title"
	FieldContent = "content"
	FieldTags    = "tags"
	FieldAuthor  = "author"
	FieldCreated = "created_at"
)

// MatchClause scores a field against free text with a relative weight.
type MatchClause struct {
	Field string
	Text  string
	Boost float64
}

// TermClause is a mandatory exact-match filter on a field.
type TermClause struct {
	Field string
	Term  string
}

// DateClause is a mandatory date-range filter on a field.
// A zero bound is open.
type DateClause struct {
	Field string
	From  time.Time
	To    time.Time
}

// Plan is the structured query handed to the engine. The tenant clause is
// set once at construction and cannot be removed or overridden afterwards:
// a Plan without a tenant cannot exist.
type Plan struct {
	tenant   domain.TenantID
	matchAll bool
	matches  []MatchClause
	terms    []TermClause
	dates    []DateClause
	offset   int
	limit    int
}

// NewPlan creates a Plan scoped to tenant. The tenant is mandatory and is
// the only way to set it.
func NewPlan(tenant domain.TenantID, offset, limit int) (*Plan, error) {
	if tenant == "" {
		return nil, fmt.Errorf("%w: plan requires a tenant", domain.ErrInvalidTenant)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidArgument)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidArgument)
	}
	return &Plan{tenant: tenant, offset: offset, limit: limit}, nil
}

// SetMatchAll makes the plan match every tenant document. Mutually
// exclusive with match clauses.
func (p *Plan) SetMatchAll() { p.matchAll = true }

// AddMatch adds a weighted free-text scoring clause (OR-combined with
// other match clauses, best score wins).
func (p *Plan) AddMatch(field, text string, boost float64) {
	p.matches = append(p.matches, MatchClause{Field: field, Text: text, Boost: boost})
}

// AddTerm adds a mandatory exact-match filter clause.
func (p *Plan) AddTerm(field, term string) {
	p.terms = append(p.terms, TermClause{Field: field, Term: term})
}

// AddDateRange adds a mandatory date-range filter clause.
func (p *Plan) AddDateRange(field string, from, to time.Time) {
	p.dates = append(p.dates, DateClause{Field: field, From: from, To: to})
}

// Tenant returns the mandatory tenant scope.
func (p *Plan) Tenant() domain.TenantID { return p.tenant }

// MatchAll reports whether the plan matches every tenant document.
func (p *Plan) MatchAll() bool { return p.matchAll }

// Matches returns the weighted scoring clauses.
func (p *Plan) Matches() []MatchClause { return p.matches }

// Terms returns the mandatory exact-match filter clauses.
func (p *Plan) Terms() []TermClause { return p.terms }

// DateRanges returns the mandatory date-range filter clauses.
func (p *Plan) DateRanges() []DateClause { return p.dates }

// Offset returns the pagination offset.
func (p *Plan) Offset() int { return p.offset }

// Limit returns the page size.
func (p *Plan) Limit() int { return p.limit }
