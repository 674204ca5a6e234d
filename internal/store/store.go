// Package store is the row source: a chat_messages table reached either over
// a hosted Postgres backend or a local SQLite snapshot with the same layout.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/chatlens/chatlens/internal/transcript"
)

type Store struct {
	db     *sqlx.DB
	driver string
}

// Open resolves the endpoint to a driver + DSN and opens the pool. No network
// traffic happens here; call Ping with a deadline to probe the connection.
func Open(endpoint, key string) (*Store, error) {
	driver, dsn, err := ResolveDSN(endpoint, key)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	return &Store{db: db, driver: driver}, nil
}

// ResolveDSN maps the persisted endpoint identifier to a database DSN.
// Accepted forms:
//   - "sqlite:<path>" or a path ending in .db  -> local SQLite snapshot
//   - a full postgres:// URL                   -> used as-is
//   - a bare project ref (no dots or slashes)  -> db.<ref>.supabase.co:5432
//   - host[:port]                              -> hosted Postgres
func ResolveDSN(endpoint, key string) (driver, dsn string, err error) {
	endpoint = strings.TrimSpace(endpoint)
	switch {
	case endpoint == "":
		return "", "", fmt.Errorf("empty endpoint")
	case strings.HasPrefix(endpoint, "sqlite:"):
		return "sqlite", strings.TrimPrefix(endpoint, "sqlite:"), nil
	case strings.HasSuffix(endpoint, ".db"):
		return "sqlite", endpoint, nil
	case strings.HasPrefix(endpoint, "postgres://") || strings.HasPrefix(endpoint, "postgresql://"):
		return "postgres", endpoint, nil
	case !strings.ContainsAny(endpoint, "./:"):
		host := fmt.Sprintf("db.%s.supabase.co:5432", endpoint)
		return "postgres", pgURL(host, key), nil
	default:
		return "postgres", pgURL(endpoint, key), nil
	}
}

func pgURL(hostPort, key string) string {
	if !strings.Contains(hostPort, ":") {
		hostPort += ":5432"
	}
	return fmt.Sprintf("postgres://postgres:%s@%s/postgres?sslmode=require", key, hostPort)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping probes the connection. Callers bound it with a context deadline.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// createdAtExpr renders created_at as a lexically sortable ISO 8601 string on
// both backends.
func (s *Store) createdAtExpr() string {
	if s.driver == "postgres" {
		return `to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.US"Z"')`
	}
	return "created_at"
}

// FetchPage returns up to limit rows starting at offset. Pagination is stable
// on the row id, not on time; callers must not assume chronological order.
// A short page signals the end of the table.
func (s *Store) FetchPage(ctx context.Context, offset, limit int) ([]transcript.Row, error) {
	query := s.db.Rebind(fmt.Sprintf(
		`SELECT session_id, %s AS created_at, message
		 FROM chat_messages ORDER BY id LIMIT ? OFFSET ?`, s.createdAtExpr()))

	var rows []transcript.Row
	if err := s.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("fetch page at offset %d: %w", offset, err)
	}
	return rows, nil
}

// SessionRows returns every row of one session, oldest first.
func (s *Store) SessionRows(ctx context.Context, sessionID string) ([]transcript.Row, error) {
	query := s.db.Rebind(fmt.Sprintf(
		`SELECT session_id, %s AS created_at, message
		 FROM chat_messages WHERE session_id = ? ORDER BY created_at ASC`, s.createdAtExpr()))

	var rows []transcript.Row
	if err := s.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("fetch session %s: %w", sessionID, err)
	}
	return rows, nil
}

// CountRows returns the total row count; used by the connection probe and
// doctor.
func (s *Store) CountRows(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM chat_messages"); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// CountSessions returns the number of distinct session ids.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(DISTINCT session_id) FROM chat_messages"); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
