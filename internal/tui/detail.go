package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chatlens/chatlens/internal/render"
	"github.com/chatlens/chatlens/internal/transcript"
)

// detailLoadedMsg is sent when an async conversation fetch completes. It
// carries the session id it was fetched for so stale results can be dropped
// after the selection moved on.
type detailLoadedMsg struct {
	sessionID string
	content   string
	err       error
}

// loadDetailCmd fetches and renders one session's conversation async.
func loadDetailCmd(src transcript.RowSource, sessionID string, width int) tea.Cmd {
	return func() tea.Msg {
		rows, err := src.SessionRows(context.Background(), sessionID)
		if err != nil {
			return detailLoadedMsg{sessionID: sessionID, err: err}
		}
		msgs := make([]transcript.Message, 0, len(rows))
		for _, r := range rows {
			msgs = append(msgs, transcript.Parse(r))
		}
		content := render.Conversation(sessionID, msgs, render.Options{
			Width: width,
			Color: true,
		})
		return detailLoadedMsg{sessionID: sessionID, content: content}
	}
}

// sessionsLoadedMsg is sent when a full snapshot rebuild completes.
type sessionsLoadedMsg struct {
	snapshot *transcript.Snapshot
	err      error
}

// loadSessionsCmd rebuilds the snapshot from scratch.
func loadSessionsCmd(src transcript.RowSource, pageSize int) tea.Cmd {
	return func() tea.Msg {
		snap, err := transcript.LoadSessions(context.Background(), src, pageSize)
		return sessionsLoadedMsg{snapshot: snap, err: err}
	}
}
