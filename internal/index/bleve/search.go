package bleve

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/searchgate/internal/index"
)

// Search translates a plan into a bleve boolean query and executes it.
// The plan's tenant clause becomes a mandatory term conjunct; match clauses
// become a boosted disjunction so the best-scoring field wins.
func (s *Store) Search(ctx context.Context, plan *index.Plan) ([]index.Hit, int, error) {
	bq := bleve.NewBooleanQuery()

	tq := bleve.NewTermQuery(plan.Tenant().String())
	tq.SetField(index.FieldTenant)
	bq.AddMust(tq)

	if plan.MatchAll() || len(plan.Matches()) == 0 {
		bq.AddMust(bleve.NewMatchAllQuery())
	} else {
		clauses := make([]query.Query, 0, len(plan.Matches()))
		for _, m := range plan.Matches() {
			mq := bleve.NewMatchQuery(m.Text)
			mq.SetField(m.Field)
			mq.SetBoost(m.Boost)
			clauses = append(clauses, mq)
		}
		bq.AddMust(bleve.NewDisjunctionQuery(clauses...))
	}

	for _, t := range plan.Terms() {
		f := bleve.NewTermQuery(t.Term)
		f.SetField(t.Field)
		bq.AddMust(f)
	}
	for _, d := range plan.DateRanges() {
		dr := bleve.NewDateRangeQuery(d.From, d.To)
		dr.SetField(d.Field)
		bq.AddMust(dr)
	}

	req := bleve.NewSearchRequestOptions(bq, plan.Limit(), plan.Offset(), false)
	req.Fields = []string{index.FieldTitle, index.FieldContent, index.FieldTags}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField(index.FieldContent)
	req.Highlight.AddField(index.FieldTitle)

	res, err := s.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("search tenant %s: %w", plan.Tenant(), err)
	}

	keyPrefix := plan.Tenant().String() + "/"
	hits := make([]index.Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, index.Hit{
			ID:      strings.TrimPrefix(h.ID, keyPrefix),
			Title:   fieldString(h.Fields, index.FieldTitle),
			Content: fieldString(h.Fields, index.FieldContent),
			Snippet: snippet(h),
			Score:   h.Score,
			Tags:    fieldStrings(h.Fields, index.FieldTags),
		})
	}

	return hits, int(res.Total), nil
}

// snippet picks a body highlight fragment, falling back to a title
// fragment, falling back to a fixed-length content prefix.
func snippet(h *search.DocumentMatch) string {
	if frags := h.Fragments[index.FieldContent]; len(frags) > 0 && frags[0] != "" {
		return frags[0]
	}
	if frags := h.Fragments[index.FieldTitle]; len(frags) > 0 && frags[0] != "" {
		return frags[0]
	}
	content := fieldString(h.Fields, index.FieldContent)
	r := []rune(content)
	if len(r) <= snippetLength {
		return content
	}
	return string(r[:snippetLength]) + "..."
}
