// Package query turns validated search requests into tenant-scoped query
// plans. The tenant clause is injected here, server-side, and is never
// accepted from request content.
package query

import (
	"fmt"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/index"
)

// Field weights for free-text scoring. Title and tag matches dominate body
// matches of equal term frequency.
const (
	TitleBoost   = 3.0
	TagsBoost    = 2.0
	ContentBoost = 1.0
)

// Planner builds engine query plans from tenant requests.
type Planner struct{}

// New creates a Planner.
func New() *Planner {
	return &Planner{}
}

// Build constructs the plan for one tenant request. An empty query matches
// all documents, still constrained by the tenant clause and any filters.
// Filters are AND-combined mandatory clauses; they narrow, never broaden.
func (p *Planner) Build(tenant domain.TenantID, req domain.SearchRequest) (*index.Plan, error) {
	plan, err := index.NewPlan(tenant, req.Offset(), req.Limit())
	if err != nil {
		return nil, fmt.Errorf("new plan: %w", err)
	}

	if req.MatchAll() {
		plan.SetMatchAll()
	} else {
		plan.AddMatch(index.FieldTitle, req.Query(), TitleBoost)
		plan.AddMatch(index.FieldTags, req.Query(), TagsBoost)
		plan.AddMatch(index.FieldContent, req.Query(), ContentBoost)
	}

	f := req.Filters()
	if f.Tag != "" {
		plan.AddTerm(index.FieldTags, f.Tag)
	}
	if f.Author != "" {
		plan.AddTerm(index.FieldAuthor, f.Author)
	}
	if !f.DateFrom.IsZero() || !f.DateTo.IsZero() {
		plan.AddDateRange(index.FieldCreated, f.DateFrom, f.DateTo)
	}

	return plan, nil
}
