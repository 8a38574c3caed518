package query

import (
	"testing"
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/index"
)

func makeRequest(t *testing.T, query string, filters domain.Filters) domain.SearchRequest {
	t.Helper()
	req, err := domain.NewSearchRequest(query, filters, 0, 10)
	if err != nil {
		t.Fatalf("NewSearchRequest: %v", err)
	}
	return req
}

func TestBuild_TenantAlwaysScoped(t *testing.T) {
	p := New()

	plan, err := p.Build("acme", makeRequest(t, "payment", domain.Filters{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Tenant() != "acme" {
		t.Errorf("Tenant() = %q", plan.Tenant())
	}
}

func TestBuild_EmptyTenantRejected(t *testing.T) {
	p := New()

	_, err := p.Build("", makeRequest(t, "payment", domain.Filters{}))
	if err == nil {
		t.Fatal("expected error for empty tenant")
	}
}

func TestBuild_FieldBoosts(t *testing.T) {
	p := New()

	plan, err := p.Build("acme", makeRequest(t, "payment", domain.Filters{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matches := plan.Matches()
	if len(matches) != 3 {
		t.Fatalf("expected 3 match clauses, got %d", len(matches))
	}
	boosts := map[string]float64{}
	for _, m := range matches {
		boosts[m.Field] = m.Boost
		if m.Text != "payment" {
			t.Errorf("clause %q text = %q", m.Field, m.Text)
		}
	}
	if boosts[index.FieldTitle] != TitleBoost {
		t.Errorf("title boost = %v", boosts[index.FieldTitle])
	}
	if boosts[index.FieldTags] != TagsBoost {
		t.Errorf("tags boost = %v", boosts[index.FieldTags])
	}
	if boosts[index.FieldContent] != ContentBoost {
		t.Errorf("content boost = %v", boosts[index.FieldContent])
	}
}

func TestBuild_MatchAll(t *testing.T) {
	p := New()

	plan, err := p.Build("acme", makeRequest(t, "", domain.Filters{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.MatchAll() {
		t.Error("empty query should produce a match-all plan")
	}
	if len(plan.Matches()) != 0 {
		t.Errorf("match-all plan has %d match clauses", len(plan.Matches()))
	}
	if plan.Tenant() != "acme" {
		t.Error("match-all plan must still be tenant-scoped")
	}
}

func TestBuild_Filters(t *testing.T) {
	p := New()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	plan, err := p.Build("acme", makeRequest(t, "payment", domain.Filters{
		Tag:      "go",
		Author:   "ann",
		DateFrom: from,
		DateTo:   to,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	terms := plan.Terms()
	if len(terms) != 2 {
		t.Fatalf("expected 2 term clauses, got %d", len(terms))
	}
	fields := map[string]string{}
	for _, c := range terms {
		fields[c.Field] = c.Term
	}
	if fields[index.FieldTags] != "go" {
		t.Errorf("tags filter = %q", fields[index.FieldTags])
	}
	if fields[index.FieldAuthor] != "ann" {
		t.Errorf("author filter = %q", fields[index.FieldAuthor])
	}

	dates := plan.DateRanges()
	if len(dates) != 1 {
		t.Fatalf("expected 1 date clause, got %d", len(dates))
	}
	if dates[0].Field != index.FieldCreated {
		t.Errorf("date field = %q", dates[0].Field)
	}
	if !dates[0].From.Equal(from) || !dates[0].To.Equal(to) {
		t.Errorf("date bounds = %v / %v", dates[0].From, dates[0].To)
	}
}

func TestBuild_OpenDateBound(t *testing.T) {
	p := New()

	plan, err := p.Build("acme", makeRequest(t, "q", domain.Filters{DateFrom: time.Unix(100, 0)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dates := plan.DateRanges()
	if len(dates) != 1 {
		t.Fatalf("expected 1 date clause, got %d", len(dates))
	}
	if !dates[0].To.IsZero() {
		t.Error("upper bound should be open")
	}
}

func TestBuild_NoFiltersNoClauses(t *testing.T) {
	p := New()

	plan, err := p.Build("acme", makeRequest(t, "q", domain.Filters{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Terms()) != 0 || len(plan.DateRanges()) != 0 {
		t.Errorf("unfiltered plan has filter clauses: %v / %v", plan.Terms(), plan.DateRanges())
	}
}

func TestBuild_Pagination(t *testing.T) {
	p := New()
	req, err := domain.NewSearchRequest("q", domain.Filters{}, 20, 10)
	if err != nil {
		t.Fatalf("NewSearchRequest: %v", err)
	}

	plan, err := p.Build("acme", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Offset() != 20 || plan.Limit() != 10 {
		t.Errorf("pagination = %d/%d", plan.Offset(), plan.Limit())
	}
}
