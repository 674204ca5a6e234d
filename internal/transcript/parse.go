package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
)

// envelope is the loosely-typed message body. Content stays raw because its
// shape depends on the role.
type envelope struct {
	Type       string          `json:"type"`
	Content    json.RawMessage `json:"content"`
	ToolCalls  []rawToolCall   `json:"tool_calls"`
	Name       string          `json:"name"`
	ToolCallID string          `json:"tool_call_id"`
}

type rawToolCall struct {
	Name  string          `json:"name"`
	Args  json.RawMessage `json:"args"`
	Input json.RawMessage `json:"input"`
}

// Parse maps one raw row to exactly one Message variant. It never fails: any
// decode error degrades to RoleUnknown or raw-text display.
func Parse(row Row) Message {
	m := Message{Timestamp: row.CreatedAt}

	body, ok := decodeBody(row.Message)
	if !ok {
		m.Role = RoleUnknown
		m.Text = strings.TrimSpace(string(row.Message))
		m.Raw = json.RawMessage(row.Message)
		return m
	}
	m.Raw = body

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// valid JSON but not an object (array, number, ...)
		m.Role = RoleUnknown
		m.Text = prettyRaw(body)
		return m
	}

	switch env.Type {
	case "human":
		m.Role = RoleHuman
		m.Text = humanText(env.Content)
	case "ai":
		m.Role = RoleAI
		parseAI(&m, env)
	case "tool":
		m.Role = RoleTool
		m.ToolName = env.Name
		if m.ToolName == "" {
			m.ToolName = "Tool"
		}
		m.ToolCallID = env.ToolCallID
		m.Text = toolText(env.Content)
	case "system":
		m.Role = RoleSystem
		m.Text = systemText(env.Content)
	default:
		m.Role = RoleUnknown
		m.Text = prettyRaw(body)
	}

	return m
}

// decodeBody normalizes the message column to a JSON object/value. A text
// column may hold plain JSON; a json column may hold a string whose contents
// are themselves JSON-encoded. Returns ok=false when no JSON value can be
// extracted, in which case the caller falls back to the raw bytes.
func decodeBody(raw []byte) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return nil, false
	}
	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
		// JSON-encoded string: unwrap one level
		if !json.Valid([]byte(s)) {
			return nil, false
		}
		return json.RawMessage(s), true
	}
	return json.RawMessage(trimmed), true
}

// humanText decodes human content: normally plain text, but defensively
// checks for a nested JSON object carrying text/content/input.
func humanText(content json.RawMessage) string {
	s, isString := asString(content)
	if !isString {
		if len(content) == 0 {
			return ""
		}
		return prettyRaw(content)
	}
	var inner interface{}
	if err := json.Unmarshal([]byte(s), &inner); err != nil {
		return s // plain text
	}
	if obj, ok := inner.(map[string]interface{}); ok {
		for _, key := range []string{"text", "content", "input"} {
			if v, ok := obj[key].(string); ok && v != "" {
				return v
			}
		}
	}
	return pretty(inner)
}

type aiOutput struct {
	Text             string `json:"text"`
	IdentityVerified bool   `json:"identity_verified"`
	RequestCategory  string `json:"request_category"`
	RequestType      string `json:"request_type"`
	EndConversation  bool   `json:"end_conversation"`
}

func parseAI(m *Message, env envelope) {
	if len(env.ToolCalls) > 0 {
		m.HasToolCalls = true
		m.ToolCalls = make([]ToolCall, 0, len(env.ToolCalls))
		for _, tc := range env.ToolCalls {
			args := tc.Args
			if args == nil {
				args = tc.Input
			}
			m.ToolCalls = append(m.ToolCalls, ToolCall{Name: tc.Name, Args: args})
		}
		// accompanying text stays raw, possibly empty
		if s, ok := asString(env.Content); ok {
			m.Text = s
		}
		return
	}

	content := env.Content
	if s, ok := asString(content); ok {
		if !json.Valid([]byte(s)) {
			// undecodable content is the display text; no metadata
			m.Text = s
			return
		}
		content = json.RawMessage(s)
	}

	var wrapper struct {
		Output *aiOutput `json:"output"`
	}
	if err := json.Unmarshal(content, &wrapper); err == nil && wrapper.Output != nil {
		m.Text = wrapper.Output.Text
		m.Meta = &AIMeta{
			IdentityVerified: wrapper.Output.IdentityVerified,
			RequestCategory:  wrapper.Output.RequestCategory,
			RequestType:      wrapper.Output.RequestType,
			EndConversation:  wrapper.Output.EndConversation,
		}
		return
	}

	if s, ok := asString(content); ok {
		m.Text = s
	} else if len(content) > 0 {
		m.Text = prettyRaw(content)
	}
}

func toolText(content json.RawMessage) string {
	s, isString := asString(content)
	if !isString {
		if len(content) == 0 {
			return ""
		}
		return prettyRaw(content)
	}
	var inner interface{}
	if err := json.Unmarshal([]byte(s), &inner); err != nil {
		return s
	}
	if innerStr, ok := inner.(string); ok {
		return innerStr
	}
	return pretty(inner)
}

func systemText(content json.RawMessage) string {
	s, isString := asString(content)
	var inner interface{}
	if isString {
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return s
		}
	} else {
		if len(content) == 0 {
			return ""
		}
		if err := json.Unmarshal(content, &inner); err != nil {
			return prettyRaw(content)
		}
	}
	if obj, ok := inner.(map[string]interface{}); ok {
		if line := sessionInfoLine(obj); line != "" {
			return line
		}
	}
	return pretty(inner)
}

// sessionInfoLine builds the compact "Session: … · Client: … · Platform: …"
// line from recognized fields, in that fixed order. Empty when none present.
func sessionInfoLine(obj map[string]interface{}) string {
	var parts []string
	if v, ok := obj["session_id"]; ok && v != nil && v != "" {
		parts = append(parts, fmt.Sprintf("Session: %v", v))
	}
	if v, ok := obj["client_id"]; ok && v != nil && v != "" {
		parts = append(parts, fmt.Sprintf("Client: %v", v))
	}
	if v, ok := obj["platform"]; ok && v != nil && v != "" {
		parts = append(parts, fmt.Sprintf("Platform: %v", v))
	}
	return strings.Join(parts, " · ")
}

func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// pretty renders a decoded JSON value as a stable indented dump. Map keys are
// sorted by encoding/json, so identical input always yields identical output.
func pretty(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func prettyRaw(raw json.RawMessage) string {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return pretty(v)
}

// PrettyJSON renders raw JSON as a stable indented dump, or the raw bytes
// verbatim when they do not parse.
func PrettyJSON(raw json.RawMessage) string {
	return prettyRaw(raw)
}

// CountTypes tallies the four named roles over a parsed conversation.
func CountTypes(msgs []Message) TypeCounts {
	var tc TypeCounts
	for _, m := range msgs {
		switch m.Role {
		case RoleHuman:
			tc.Human++
		case RoleAI:
			tc.AI++
		case RoleTool:
			tc.Tool++
		case RoleSystem:
			tc.System++
		}
	}
	return tc
}
