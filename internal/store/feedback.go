package store

import (
	"context"
	"fmt"

	"github.com/chatlens/chatlens/internal/feedback"
)

const feedbackSchemaPostgres = `
CREATE TABLE IF NOT EXISTS chat_feedback (
    id                   BIGSERIAL PRIMARY KEY,
    feedback_type        TEXT NOT NULL,
    category             TEXT NOT NULL,
    comment              TEXT NOT NULL,
    session_id           TEXT NOT NULL,
    message_index        INTEGER,
    message_type         TEXT,
    message_timestamp    TEXT,
    message_text_excerpt TEXT,
    tool_name            TEXT,
    message_count        INTEGER,
    raw_message          JSONB,
    submitted_at         TEXT NOT NULL,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const feedbackSchemaSQLite = `
CREATE TABLE IF NOT EXISTS chat_feedback (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    feedback_type        TEXT NOT NULL,
    category             TEXT NOT NULL,
    comment              TEXT NOT NULL,
    session_id           TEXT NOT NULL,
    message_index        INTEGER,
    message_type         TEXT,
    message_timestamp    TEXT,
    message_text_excerpt TEXT,
    tool_name            TEXT,
    message_count        INTEGER,
    raw_message          TEXT,
    submitted_at         TEXT NOT NULL,
    created_at           TEXT NOT NULL DEFAULT (datetime('now'))
);`

// EnsureFeedbackSchema creates the chat_feedback table if missing.
func (s *Store) EnsureFeedbackSchema(ctx context.Context) error {
	schema := feedbackSchemaSQLite
	if s.driver == "postgres" {
		schema = feedbackSchemaPostgres
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure feedback schema: %w", err)
	}
	return nil
}

// InsertFeedback persists one feedback record.
func (s *Store) InsertFeedback(ctx context.Context, rec feedback.Record) error {
	raw := []byte(rec.RawMessage)
	if len(raw) == 0 {
		raw = nil
	}
	query := s.db.Rebind(
		`INSERT INTO chat_feedback
		   (feedback_type, category, comment, session_id, message_index,
		    message_type, message_timestamp, message_text_excerpt, tool_name,
		    message_count, raw_message, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		rec.FeedbackType, rec.Category, rec.Comment, rec.SessionID,
		rec.MessageIndex, nullable(rec.MessageType), nullable(rec.MessageTimestamp),
		nullable(rec.MessageTextExcerpt), nullable(rec.ToolName),
		rec.MessageCount, raw, rec.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// nullable turns "" into NULL so optional columns stay empty in the table.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
