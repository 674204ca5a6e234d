package transcript

import "encoding/json"

// Row is one raw record from the chat_messages table. CreatedAt stays a
// string: the backend emits fixed-width ISO 8601, which sorts lexically the
// same as chronologically.
type Row struct {
	SessionID string `db:"session_id" json:"session_id"`
	CreatedAt string `db:"created_at" json:"created_at"`
	Message   []byte `db:"message" json:"message"`
}

// Role discriminates the structural kind of a message.
type Role string

const (
	RoleHuman   Role = "human"
	RoleAI      Role = "ai"
	RoleTool    Role = "tool"
	RoleSystem  Role = "system"
	RoleUnknown Role = "unknown"
)

// ToolCall is one entry of an AI message's tool_calls list. Args carries the
// raw arguments ("args" or "input" in the payload), undecoded.
type ToolCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// AIMeta is the classification block lifted from an AI message's
// content.output object. Only present on tool-call-free AI messages.
type AIMeta struct {
	IdentityVerified bool   `json:"identity_verified"`
	RequestCategory  string `json:"request_category"`
	RequestType      string `json:"request_type"`
	EndConversation  bool   `json:"end_conversation"`
}

// Message is the normalized display record for one row. Exactly one of the
// five roles applies; Text is always non-nil best-effort display text.
type Message struct {
	Role         Role
	Text         string
	Timestamp    string
	HasToolCalls bool
	ToolCalls    []ToolCall
	Meta         *AIMeta
	ToolName     string
	ToolCallID   string
	Raw          json.RawMessage
}

// TypeCounts holds per-role message counts for the four named roles.
// Unrecognized roles fall in no bucket, so the sum may undercount Count.
type TypeCounts struct {
	Human  int
	AI     int
	Tool   int
	System int
}

// Summary is the derived per-session record. Rebuilt from scratch on every
// full load, never mutated incrementally.
type Summary struct {
	ID                 string
	Count              int
	Earliest           string
	Latest             string
	Tools              []string
	TypeCounts         TypeCounts
	Categories         []string
	RequestTypes       []string
	HasVerified        bool
	HasEndConversation bool
}

// Snapshot is the result of one full aggregation pass: summaries sorted by
// Latest descending plus the three global facet indexes (sorted).
type Snapshot struct {
	Sessions     []Summary
	Tools        []string
	Categories   []string
	RequestTypes []string
	Rows         int
}
