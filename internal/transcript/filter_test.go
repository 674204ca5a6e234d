package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSummaries() []Summary {
	return []Summary{
		{
			ID: "alpha", Count: 10,
			Earliest: "2026-03-01T08:00:00Z", Latest: "2026-03-01T10:00:00Z",
			Tools:        []string{"lookup_order", "search_kb"},
			Categories:   []string{"billing"},
			RequestTypes: []string{"refund"},
		},
		{
			ID: "bravo", Count: 3,
			Earliest: "2026-03-02T08:00:00Z", Latest: "2026-03-02T09:00:00Z",
			Tools:        []string{"lookup_order"},
			Categories:   []string{"billing", "support"},
			RequestTypes: []string{"question"},
		},
		{
			ID: "charlie", Count: 25,
			Earliest: "2026-02-20T08:00:00Z", Latest: "2026-02-28T09:00:00Z",
			Tools:        []string{"escalate"},
			Categories:   []string{"technical"},
			RequestTypes: []string{"complaint", "question"},
		},
	}
}

func ids(sessions []Summary) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

func TestFilterTools(t *testing.T) {
	tests := []struct {
		name  string
		tools []string
		want  []string
	}{
		{"single tool", []string{"lookup_order"}, []string{"bravo", "alpha"}},
		{"all selected tools required", []string{"lookup_order", "search_kb"}, []string{"alpha"}},
		{"disjoint combination matches nothing", []string{"lookup_order", "escalate"}, nil},
		{"no selection matches everything", nil, []string{"bravo", "alpha", "charlie"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(testSummaries(), FilterOptions{Tools: tt.tools})
			assert.Equal(t, tt.want, func() []string {
				if len(got) == 0 {
					return nil
				}
				return ids(got)
			}())
		})
	}
}

func TestFilterCategoriesAny(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		want       []string
	}{
		{"one category", []string{"billing"}, []string{"bravo", "alpha"}},
		{"any of several", []string{"support", "technical"}, []string{"bravo", "charlie"}},
		{"unknown category", []string{"legal"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(testSummaries(), FilterOptions{Categories: tt.categories})
			var gotIDs []string
			if len(got) > 0 {
				gotIDs = ids(got)
			}
			assert.Equal(t, tt.want, gotIDs)
		})
	}
}

func TestFilterRequestTypesAny(t *testing.T) {
	got := Filter(testSummaries(), FilterOptions{RequestTypes: []string{"question"}})
	assert.Equal(t, []string{"bravo", "charlie"}, ids(got))
}

func TestFilterDateRange(t *testing.T) {
	// from bound compares against Latest, to bound against Earliest
	got := Filter(testSummaries(), FilterOptions{DateFrom: "2026-03-01"})
	assert.Equal(t, []string{"bravo", "alpha"}, ids(got))

	got = Filter(testSummaries(), FilterOptions{DateTo: "2026-02-28"})
	assert.Equal(t, []string{"charlie"}, ids(got))

	// the "to" day is inclusive
	got = Filter(testSummaries(), FilterOptions{DateFrom: "2026-03-02", DateTo: "2026-03-02"})
	assert.Equal(t, []string{"bravo"}, ids(got))
}

func TestFilterMessageCounts(t *testing.T) {
	got := Filter(testSummaries(), FilterOptions{MinMessages: 5})
	assert.Equal(t, []string{"alpha", "charlie"}, ids(got))

	got = Filter(testSummaries(), FilterOptions{MinMessages: 4, MaxMessages: 20})
	assert.Equal(t, []string{"alpha"}, ids(got))
}

func TestFilterSearch(t *testing.T) {
	got := Filter(testSummaries(), FilterOptions{Search: "ALPH"})
	assert.Equal(t, []string{"alpha"}, ids(got))
}

func TestFilterSortOrders(t *testing.T) {
	tests := []struct {
		sort SortOrder
		want []string
	}{
		{SortNewest, []string{"bravo", "alpha", "charlie"}},
		{SortOldest, []string{"charlie", "alpha", "bravo"}},
		{SortMostMsgs, []string{"charlie", "alpha", "bravo"}},
		{SortLeastMsgs, []string{"bravo", "alpha", "charlie"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got := Filter(testSummaries(), FilterOptions{Sort: tt.sort})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterActive(t *testing.T) {
	assert.False(t, FilterOptions{Sort: SortOldest}.Active())
	assert.True(t, FilterOptions{Search: "x"}.Active())
	assert.True(t, FilterOptions{Tools: []string{"a"}}.Active())
	assert.True(t, FilterOptions{MinMessages: 1}.Active())
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := testSummaries()
	Filter(in, FilterOptions{Sort: SortLeastMsgs})
	assert.Equal(t, "alpha", in[0].ID)
}
