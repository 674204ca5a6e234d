package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(sessionID, createdAt, message string) Row {
	return Row{SessionID: sessionID, CreatedAt: createdAt, Message: []byte(message)}
}

func TestParseHuman(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantText string
	}{
		{
			name:     "plain text content",
			message:  `{"type":"human","content":"hello there"}`,
			wantText: "hello there",
		},
		{
			name:     "nested json with text field",
			message:  `{"type":"human","content":"{\"text\":\"inner text\"}"}`,
			wantText: "inner text",
		},
		{
			name:     "nested json prefers text over content",
			message:  `{"type":"human","content":"{\"content\":\"from content\",\"text\":\"from text\"}"}`,
			wantText: "from text",
		},
		{
			name:     "nested json falls back to input",
			message:  `{"type":"human","content":"{\"input\":\"typed input\"}"}`,
			wantText: "typed input",
		},
		{
			name:     "nested json without known fields pretty-prints",
			message:  `{"type":"human","content":"{\"foo\":\"bar\"}"}`,
			wantText: "{\n  \"foo\": \"bar\"\n}",
		},
		{
			name:     "text that merely looks like json stays raw",
			message:  `{"type":"human","content":"{not json at all"}`,
			wantText: "{not json at all",
		},
		{
			name:     "missing content",
			message:  `{"type":"human"}`,
			wantText: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(row("s1", "2026-01-01T00:00:00Z", tt.message))
			assert.Equal(t, RoleHuman, m.Role)
			assert.Equal(t, tt.wantText, m.Text)
		})
	}
}

func TestParseAIWithOutput(t *testing.T) {
	m := Parse(row("s1", "2026-01-01T00:00:00Z",
		`{"type":"ai","content":"{\"output\":{\"text\":\"hello\",\"request_category\":\"billing\"}}"}`))

	assert.Equal(t, RoleAI, m.Role)
	assert.False(t, m.HasToolCalls)
	assert.Equal(t, "hello", m.Text)
	require.NotNil(t, m.Meta)
	assert.Equal(t, "billing", m.Meta.RequestCategory)
	assert.False(t, m.Meta.IdentityVerified)
	assert.False(t, m.Meta.EndConversation)
}

func TestParseAIOutputAsObject(t *testing.T) {
	// content arrives as a json object instead of an encoded string
	m := Parse(row("s1", "2026-01-01T00:00:00Z",
		`{"type":"ai","content":{"output":{"text":"direct","identity_verified":true,"end_conversation":true}}}`))

	assert.Equal(t, "direct", m.Text)
	require.NotNil(t, m.Meta)
	assert.True(t, m.Meta.IdentityVerified)
	assert.True(t, m.Meta.EndConversation)
}

func TestParseAIToolCalls(t *testing.T) {
	m := Parse(row("s1", "2026-01-01T00:00:00Z",
		`{"type":"ai","content":"","tool_calls":[{"name":"lookup_order","args":{"id":42}}]}`))

	assert.Equal(t, RoleAI, m.Role)
	assert.True(t, m.HasToolCalls)
	require.Len(t, m.ToolCalls, 1)
	assert.Equal(t, "lookup_order", m.ToolCalls[0].Name)
	assert.JSONEq(t, `{"id":42}`, string(m.ToolCalls[0].Args))
	assert.Nil(t, m.Meta, "tool-call messages never carry metadata")
}

func TestParseAIToolCallInputField(t *testing.T) {
	m := Parse(row("s1", "2026-01-01T00:00:00Z",
		`{"type":"ai","tool_calls":[{"name":"search_kb","input":{"q":"refund"}}]}`))

	require.Len(t, m.ToolCalls, 1)
	assert.JSONEq(t, `{"q":"refund"}`, string(m.ToolCalls[0].Args))
}

func TestParseAIUndecodableContent(t *testing.T) {
	m := Parse(row("s1", "2026-01-01T00:00:00Z",
		`{"type":"ai","content":"just a plain reply"}`))

	assert.Equal(t, "just a plain reply", m.Text)
	assert.Nil(t, m.Meta)
}

func TestParseAIContentWithoutOutput(t *testing.T) {
	m := Parse(row("s1", "2026-01-01T00:00:00Z",
		`{"type":"ai","content":"{\"note\":\"no output field\"}"}`))

	assert.Equal(t, "{\n  \"note\": \"no output field\"\n}", m.Text)
	assert.Nil(t, m.Meta)
}

func TestParseTool(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantName string
		wantText string
	}{
		{
			name:     "named tool with json content",
			message:  `{"type":"tool","name":"lookup_order","tool_call_id":"tc1","content":"{\"status\":\"shipped\"}"}`,
			wantName: "lookup_order",
			wantText: "{\n  \"status\": \"shipped\"\n}",
		},
		{
			name:     "missing name defaults",
			message:  `{"type":"tool","content":"plain result"}`,
			wantName: "Tool",
			wantText: "plain result",
		},
		{
			name:     "object content pretty-printed",
			message:  `{"type":"tool","name":"x","content":{"ok":true}}`,
			wantName: "x",
			wantText: "{\n  \"ok\": true\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(row("s1", "2026-01-01T00:00:00Z", tt.message))
			assert.Equal(t, RoleTool, m.Role)
			assert.Equal(t, tt.wantName, m.ToolName)
			assert.Equal(t, tt.wantText, m.Text)
		})
	}
}

func TestParseSystem(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantText string
	}{
		{
			name:     "session and platform only",
			message:  `{"type":"system","content":"{\"session_id\":\"abc\",\"platform\":\"web\"}"}`,
			wantText: "Session: abc · Platform: web",
		},
		{
			name:     "all three fields in fixed order",
			message:  `{"type":"system","content":"{\"platform\":\"web\",\"client_id\":\"c9\",\"session_id\":\"abc\"}"}`,
			wantText: "Session: abc · Client: c9 · Platform: web",
		},
		{
			name:     "unrecognized object pretty-printed",
			message:  `{"type":"system","content":"{\"mode\":\"test\"}"}`,
			wantText: "{\n  \"mode\": \"test\"\n}",
		},
		{
			name:     "undecodable content stays raw",
			message:  `{"type":"system","content":"boot sequence complete"}`,
			wantText: "boot sequence complete",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(row("s1", "2026-01-01T00:00:00Z", tt.message))
			assert.Equal(t, RoleSystem, m.Role)
			assert.Equal(t, tt.wantText, m.Text)
		})
	}
}

func TestParseUnknown(t *testing.T) {
	t.Run("literal non-json message", func(t *testing.T) {
		m := Parse(row("s1", "2026-01-01T00:00:00Z", "not json"))
		assert.Equal(t, RoleUnknown, m.Role)
		assert.Equal(t, "not json", m.Text)
	})

	t.Run("unrecognized type pretty-prints body", func(t *testing.T) {
		m := Parse(row("s1", "2026-01-01T00:00:00Z", `{"type":"telemetry","level":3}`))
		assert.Equal(t, RoleUnknown, m.Role)
		assert.Equal(t, "{\n  \"level\": 3,\n  \"type\": \"telemetry\"\n}", m.Text)
	})

	t.Run("missing type", func(t *testing.T) {
		m := Parse(row("s1", "2026-01-01T00:00:00Z", `{"content":"orphan"}`))
		assert.Equal(t, RoleUnknown, m.Role)
	})
}

func TestParseDoubleEncodedBody(t *testing.T) {
	// json column holding a string whose contents are themselves json
	m := Parse(row("s1", "2026-01-01T00:00:00Z",
		`"{\"type\":\"human\",\"content\":\"wrapped\"}"`))

	assert.Equal(t, RoleHuman, m.Role)
	assert.Equal(t, "wrapped", m.Text)
}

// Parsing is total: arbitrary garbage must yield a known role and never panic.
func TestParseTotality(t *testing.T) {
	inputs := []string{
		"",
		"not json",
		"null",
		"42",
		`[1,2,3]`,
		`{"type":12}`,
		`{"type":"ai","tool_calls":"nope"}`,
		`{"type":"ai","content":{"output":"not an object"}}`,
		`"\"double quoted\""`,
		"{\"type\":\"human\",\"content\":",
	}
	known := map[Role]bool{
		RoleHuman: true, RoleAI: true, RoleTool: true, RoleSystem: true, RoleUnknown: true,
	}
	for _, in := range inputs {
		m := Parse(row("s1", "2026-01-01T00:00:00Z", in))
		assert.True(t, known[m.Role], "input %q produced role %q", in, m.Role)
	}
}

func TestParsePrettyPrintStable(t *testing.T) {
	msg := `{"type":"tool","name":"x","content":{"b":1,"a":2,"c":{"z":true,"y":false}}}`
	first := Parse(row("s1", "2026-01-01T00:00:00Z", msg))
	second := Parse(row("s1", "2026-01-01T00:00:00Z", msg))
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, "{\n  \"a\": 2,\n  \"b\": 1,\n  \"c\": {\n    \"y\": false,\n    \"z\": true\n  }\n}", first.Text)
}
