package transcript

import (
	"sort"
	"strings"
)

// SortOrder selects the session list ordering.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortMostMsgs  SortOrder = "most-msgs"
	SortLeastMsgs SortOrder = "least-msgs"
)

// FilterOptions narrows and orders a session list. Zero values mean "no
// filter". Tools require ALL selected names; Categories and RequestTypes
// match on ANY.
type FilterOptions struct {
	Search       string // substring match on session id, case-insensitive
	DateFrom     string // "YYYY-MM-DD"
	DateTo       string // "YYYY-MM-DD", inclusive of the whole day
	MinMessages  int
	MaxMessages  int // 0 = unbounded
	Tools        []string
	Categories   []string
	RequestTypes []string
	Sort         SortOrder
}

// Active reports whether any narrowing filter is set.
func (o FilterOptions) Active() bool {
	return o.Search != "" || o.DateFrom != "" || o.DateTo != "" ||
		o.MinMessages > 0 || o.MaxMessages > 0 ||
		len(o.Tools) > 0 || len(o.Categories) > 0 || len(o.RequestTypes) > 0
}

// Filter returns the sessions matching opts, sorted per opts.Sort (newest
// first by default). The input slice is not modified.
func Filter(sessions []Summary, opts FilterOptions) []Summary {
	query := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]Summary, 0, len(sessions))
	for _, s := range sessions {
		if query != "" && !strings.Contains(strings.ToLower(s.ID), query) {
			continue
		}
		// date range: keep sessions whose span overlaps the range
		if opts.DateFrom != "" && s.Latest < opts.DateFrom {
			continue
		}
		if opts.DateTo != "" && s.Earliest > opts.DateTo+"T23:59:59" {
			continue
		}
		if opts.MinMessages > 0 && s.Count < opts.MinMessages {
			continue
		}
		if opts.MaxMessages > 0 && s.Count > opts.MaxMessages {
			continue
		}
		if !containsAll(s.Tools, opts.Tools) {
			continue
		}
		if !containsAny(s.Categories, opts.Categories) {
			continue
		}
		if !containsAny(s.RequestTypes, opts.RequestTypes) {
			continue
		}
		out = append(out, s)
	}

	switch opts.Sort {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Earliest < out[j].Earliest })
	case SortMostMsgs:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	case SortLeastMsgs:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Count < out[j].Count })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Latest > out[j].Latest })
	}
	return out
}

// containsAll reports whether every wanted value is in have. Empty wanted
// matches everything.
func containsAll(have, wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// containsAny reports whether at least one wanted value is in have. Empty
// wanted matches everything.
func containsAny(have, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
