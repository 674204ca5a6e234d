package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultPageSize matches the backend's per-request row limit.
const DefaultPageSize = 1000

// RowSource yields raw rows. FetchPage returns up to limit rows with no
// ordering guarantee; end of data is signaled by a short page. SessionRows
// returns all rows for one session ordered by created_at ascending.
type RowSource interface {
	FetchPage(ctx context.Context, offset, limit int) ([]Row, error)
	SessionRows(ctx context.Context, sessionID string) ([]Row, error)
}

// Aggregator folds raw rows into per-session summaries and global facet
// indexes in a single pass. It is page-agnostic: feed it pages incrementally
// or the whole table at once.
type Aggregator struct {
	sessions     map[string]*sessionAccum
	order        []string
	tools        map[string]struct{}
	categories   map[string]struct{}
	requestTypes map[string]struct{}
	rows         int
}

type sessionAccum struct {
	count              int
	earliest           string
	latest             string
	tools              map[string]struct{}
	typeCounts         TypeCounts
	categories         map[string]struct{}
	requestTypes       map[string]struct{}
	hasVerified        bool
	hasEndConversation bool
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		sessions:     make(map[string]*sessionAccum),
		tools:        make(map[string]struct{}),
		categories:   make(map[string]struct{}),
		requestTypes: make(map[string]struct{}),
	}
}

// Add folds one row. Rows whose message cannot be decoded still count toward
// the session's total and timestamp bounds, just not toward any facet.
func (a *Aggregator) Add(row Row) {
	a.rows++

	s, ok := a.sessions[row.SessionID]
	if !ok {
		s = &sessionAccum{
			earliest:     row.CreatedAt,
			latest:       row.CreatedAt,
			tools:        make(map[string]struct{}),
			categories:   make(map[string]struct{}),
			requestTypes: make(map[string]struct{}),
		}
		a.sessions[row.SessionID] = s
		a.order = append(a.order, row.SessionID)
	}

	s.count++
	// arrival order is not chronological; track both bounds lexically
	if row.CreatedAt > s.latest {
		s.latest = row.CreatedAt
	}
	if row.CreatedAt < s.earliest {
		s.earliest = row.CreatedAt
	}

	body, ok := decodeBody(row.Message)
	if !ok {
		return
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return
	}

	switch env.Type {
	case "human":
		s.typeCounts.Human++
	case "ai":
		s.typeCounts.AI++
	case "tool":
		s.typeCounts.Tool++
	case "system":
		s.typeCounts.System++
	}

	for _, tc := range env.ToolCalls {
		if tc.Name != "" {
			s.tools[tc.Name] = struct{}{}
			a.tools[tc.Name] = struct{}{}
		}
	}
	if env.Type == "tool" && env.Name != "" {
		s.tools[env.Name] = struct{}{}
		a.tools[env.Name] = struct{}{}
	}

	if env.Type == "ai" && len(env.ToolCalls) == 0 {
		a.collectAIMeta(s, env.Content)
	}
}

// collectAIMeta lifts classification facets from a tool-call-free AI
// message's content.output object, when present.
func (a *Aggregator) collectAIMeta(s *sessionAccum, content json.RawMessage) {
	if str, ok := asString(content); ok {
		if !json.Valid([]byte(str)) {
			return
		}
		content = json.RawMessage(str)
	}
	var wrapper struct {
		Output *aiOutput `json:"output"`
	}
	if err := json.Unmarshal(content, &wrapper); err != nil || wrapper.Output == nil {
		return
	}
	out := wrapper.Output
	if out.RequestCategory != "" {
		s.categories[out.RequestCategory] = struct{}{}
		a.categories[out.RequestCategory] = struct{}{}
	}
	if out.RequestType != "" {
		s.requestTypes[out.RequestType] = struct{}{}
		a.requestTypes[out.RequestType] = struct{}{}
	}
	if out.IdentityVerified {
		s.hasVerified = true
	}
	if out.EndConversation {
		s.hasEndConversation = true
	}
}

// Snapshot flattens the accumulated state. Sessions come sorted by Latest
// descending (ties by id for stable output), facet lists sorted.
func (a *Aggregator) Snapshot() *Snapshot {
	snap := &Snapshot{
		Sessions:     make([]Summary, 0, len(a.sessions)),
		Tools:        sortedKeys(a.tools),
		Categories:   sortedKeys(a.categories),
		RequestTypes: sortedKeys(a.requestTypes),
		Rows:         a.rows,
	}
	for _, id := range a.order {
		s := a.sessions[id]
		snap.Sessions = append(snap.Sessions, Summary{
			ID:                 id,
			Count:              s.count,
			Earliest:           s.earliest,
			Latest:             s.latest,
			Tools:              sortedKeys(s.tools),
			TypeCounts:         s.typeCounts,
			Categories:         sortedKeys(s.categories),
			RequestTypes:       sortedKeys(s.requestTypes),
			HasVerified:        s.hasVerified,
			HasEndConversation: s.hasEndConversation,
		})
	}
	sort.SliceStable(snap.Sessions, func(i, j int) bool {
		if snap.Sessions[i].Latest != snap.Sessions[j].Latest {
			return snap.Sessions[i].Latest > snap.Sessions[j].Latest
		}
		return snap.Sessions[i].ID < snap.Sessions[j].ID
	})
	return snap
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadSessions drives the paginated fetch and folds every page into one
// snapshot. Any page failure aborts the whole load: callers get either a
// complete snapshot or an error, never a silently truncated one.
func LoadSessions(ctx context.Context, src RowSource, pageSize int) (*Snapshot, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	agg := NewAggregator()
	for offset := 0; ; offset += pageSize {
		rows, err := src.FetchPage(ctx, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch rows at offset %d: %w", offset, err)
		}
		for _, r := range rows {
			agg.Add(r)
		}
		if len(rows) < pageSize {
			break
		}
	}
	return agg.Snapshot(), nil
}
