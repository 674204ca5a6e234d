package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatlens/chatlens/internal/transcript"
)

func TestWrapLinePlain(t *testing.T) {
	got := wrapLine("abcdefghij", 4)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, got)

	assert.Equal(t, []string{""}, wrapLine("", 4))
	assert.Equal(t, []string{"abcdefghij"}, wrapLine("abcdefghij", 0))
}

func TestWrapLineSkipsANSIEscapes(t *testing.T) {
	line := "\033[1;34mabcd\033[0mefgh"
	got := wrapLine(line, 4)
	// escape sequences take no visible columns
	assert.Len(t, got, 2)
	assert.Contains(t, got[0], "abcd")
	assert.Equal(t, "efgh", got[1])
}

func TestWrapLineWideRunes(t *testing.T) {
	got := wrapLine("你好世界", 4)
	assert.Equal(t, []string{"你好", "世界"}, got)
}

func TestConversationPlain(t *testing.T) {
	msgs := []transcript.Message{
		{Role: transcript.RoleHuman, Text: "where is my order", Timestamp: "2026-01-01T10:00:00Z"},
		{
			Role:         transcript.RoleAI,
			Timestamp:    "2026-01-01T10:00:05Z",
			HasToolCalls: true,
			ToolCalls: []transcript.ToolCall{
				{Name: "lookup_order", Args: json.RawMessage(`{"id":42}`)},
			},
		},
		{Role: transcript.RoleTool, ToolName: "lookup_order", Text: "shipped", Timestamp: "2026-01-01T10:00:06Z"},
		{
			Role:      transcript.RoleAI,
			Text:      "it shipped yesterday",
			Timestamp: "2026-01-01T10:00:08Z",
			Meta:      &transcript.AIMeta{IdentityVerified: true, RequestCategory: "orders", RequestType: "status"},
		},
	}

	out := Conversation("sess-1", msgs, Options{})

	assert.Contains(t, out, "sess-1 · 4 messages (1 human, 2 ai, 1 tool, 0 system)")
	assert.Contains(t, out, "HUMAN >")
	assert.Contains(t, out, "where is my order")
	assert.Contains(t, out, "-> lookup_order")
	assert.Contains(t, out, `"id": 42`)
	assert.Contains(t, out, "TOOL lookup_order >")
	assert.Contains(t, out, "[verified · orders · status]")
	assert.NotContains(t, out, "\033[", "no escapes without Color")
}

func TestConversationColorEscapes(t *testing.T) {
	msgs := []transcript.Message{
		{Role: transcript.RoleHuman, Text: "hi", Timestamp: "2026-01-01T10:00:00Z"},
	}
	out := Conversation("sess-1", msgs, Options{Color: true})
	assert.Contains(t, out, colorHuman)
	assert.Contains(t, out, colorReset)
}

func TestConversationShowRaw(t *testing.T) {
	msgs := []transcript.Message{
		{Role: transcript.RoleUnknown, Text: "not json", Raw: json.RawMessage("not json")},
	}
	out := Conversation("sess-1", msgs, Options{ShowRaw: true})
	// raw payload repeated under the display text
	assert.Equal(t, 2, strings.Count(out, "not json"))
}

func TestSessionTableTSV(t *testing.T) {
	sessions := []transcript.Summary{
		{
			ID: "sess-1", Count: 4,
			Earliest: "2026-01-01T10:00:00Z", Latest: "2026-01-01T10:00:08Z",
			Tools:      []string{"lookup_order"},
			Categories: []string{"orders"},
		},
		{ID: "sess-2", Count: 1, Earliest: "2026-01-02T09:00:00Z", Latest: "2026-01-02T09:00:00Z"},
	}

	out := SessionTable(sessions, false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "SESSION\tMESSAGES\tEARLIEST\tLATEST\tTOOLS\tCATEGORIES", lines[0])
	assert.Equal(t, "sess-1\t4\t2026-01-01T10:00:00Z\t2026-01-01T10:00:08Z\tlookup_order\torders", lines[1])
	assert.NotContains(t, out, "\033[")
}

func TestSessionTableColored(t *testing.T) {
	sessions := []transcript.Summary{
		{
			ID: "sess-1", Count: 3,
			Earliest: "2026-01-01T10:00:00Z", Latest: "2026-01-01T10:00:08Z",
			TypeCounts:         transcript.TypeCounts{Human: 1, AI: 2},
			HasVerified:        true,
			HasEndConversation: true,
		},
	}
	out := SessionTable(sessions, true)
	assert.Contains(t, out, "sess-1")
	assert.Contains(t, out, "h:1")
	assert.Contains(t, out, "ai:2")
	assert.Contains(t, out, "verified · ended")
	assert.Contains(t, out, "2026-01-01 .. 2026-01-01")
}
