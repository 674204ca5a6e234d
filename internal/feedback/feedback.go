// Package feedback defines the flat record accepted by the feedback relay
// and persisted to the chat_feedback table.
package feedback

import (
	"encoding/json"
	"fmt"
	"time"
)

// ExcerptLimit caps MessageTextExcerpt.
const ExcerptLimit = 200

const (
	TypeChat    = "chat"
	TypeMessage = "message"
)

// Record is the payload for one piece of operator feedback, tied either to a
// whole chat session or to a single message within it.
type Record struct {
	Category           string          `json:"category" db:"category"`
	Comment            string          `json:"comment" db:"comment"`
	FeedbackType       string          `json:"feedback_type" db:"feedback_type"`
	SessionID          string          `json:"session_id" db:"session_id"`
	MessageIndex       *int            `json:"message_index,omitempty" db:"message_index"`
	MessageType        string          `json:"message_type,omitempty" db:"message_type"`
	MessageTimestamp   string          `json:"message_timestamp,omitempty" db:"message_timestamp"`
	MessageTextExcerpt string          `json:"message_text_excerpt,omitempty" db:"message_text_excerpt"`
	ToolName           string          `json:"tool_name,omitempty" db:"tool_name"`
	MessageCount       *int            `json:"message_count,omitempty" db:"message_count"`
	RawMessage         json.RawMessage `json:"raw_message,omitempty" db:"raw_message"`
	SubmittedAt        string          `json:"submitted_at" db:"submitted_at"`
}

// Validate checks the fields the relay refuses to accept without.
func (r Record) Validate() error {
	if r.Category == "" {
		return fmt.Errorf("category is required")
	}
	if r.Comment == "" {
		return fmt.Errorf("comment is required")
	}
	if r.FeedbackType != TypeChat && r.FeedbackType != TypeMessage {
		return fmt.Errorf("feedback_type must be %q or %q", TypeChat, TypeMessage)
	}
	if r.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	return nil
}

// Stamp sets SubmittedAt to the current UTC time if unset.
func (r *Record) Stamp() {
	if r.SubmittedAt == "" {
		r.SubmittedAt = time.Now().UTC().Format(time.RFC3339)
	}
}

// Excerpt truncates text to the excerpt limit.
func Excerpt(text string) string {
	if len(text) > ExcerptLimit {
		return text[:ExcerptLimit]
	}
	return text
}
