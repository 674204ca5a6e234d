// Package tui implements the interactive session browser: a filtered session
// list beside a rendered conversation pane, with a chat-level feedback form.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chatlens/chatlens/internal/feedback"
	"github.com/chatlens/chatlens/internal/relay"
	"github.com/chatlens/chatlens/internal/transcript"
)

const debounceDelay = 200 * time.Millisecond

// feedbackCategories cycle through the form's category field.
var feedbackCategories = []string{
	"helpful",
	"unhelpful",
	"incorrect-info",
	"tone",
	"other",
}

type tuiMode int

const (
	modeList tuiMode = iota
	modeFilter
	modeFeedback
)

// message types

type debounceTickMsg struct {
	query string
}

type feedbackSentMsg struct {
	sessionID string
	err       error
}

// model

type model struct {
	src      transcript.RowSource
	relay    *relay.Client
	pageSize int

	mode     tuiMode
	snapshot *transcript.Snapshot
	filtered []transcript.Summary
	loading  bool

	query       string
	filterInput textinput.Model
	cursor      int
	listOffset  int

	detail   viewport.Model
	detailID string // session id currently rendered, guards stale loads

	// feedback form
	fbCategory int
	fbComment  textinput.Model
	fbError    string
	fbSending  bool

	status   string
	width    int
	height   int
	ready    bool
	quitting bool
}

func initialModel(src transcript.RowSource, relayClient *relay.Client, pageSize int) model {
	fi := textinput.New()
	fi.Placeholder = "Filter sessions..."
	fi.Prompt = "/ "
	fi.PromptStyle = styleInputPrompt
	fi.TextStyle = styleInput
	fi.CharLimit = 256

	fc := textinput.New()
	fc.Placeholder = "What happened in this chat?"
	fc.Prompt = "> "
	fc.CharLimit = 1000

	return model{
		src:         src,
		relay:       relayClient,
		pageSize:    pageSize,
		filterInput: fi,
		fbComment:   fc,
		detail:      viewport.New(0, 0),
		loading:     true,
	}
}

// Run starts the session browser and blocks until it exits.
func Run(src transcript.RowSource, relayClient *relay.Client, pageSize int) error {
	m := initialModel(src, relayClient, pageSize)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Init triggers the initial snapshot load.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadSessionsCmd(m.src, m.pageSize))
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.detail = viewport.New(m.detailWidth(), m.panelHeight())
		m.detailID = ""
		cmds = append(cmds, m.loadCurrentDetail())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modeFeedback:
			return m.updateFeedback(msg)
		}
		return m.updateList(msg)

	case debounceTickMsg:
		// only fire if the query hasn't changed since the tick was scheduled
		if msg.query == m.query {
			m.applyFilter()
			cmds = append(cmds, m.loadCurrentDetail())
		}
		return m, tea.Batch(cmds...)

	case sessionsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.snapshot = msg.snapshot
		m.applyFilter()
		m.status = fmt.Sprintf("Loaded %d sessions (%d rows)", len(msg.snapshot.Sessions), msg.snapshot.Rows)
		cmds = append(cmds, m.loadCurrentDetail())
		return m, tea.Batch(cmds...)

	case detailLoadedMsg:
		// drop results for a session the cursor has moved away from
		if m.selectedID() != msg.sessionID {
			return m, nil
		}
		if msg.err != nil {
			m.detail.SetContent("Error: " + msg.err.Error())
			m.detailID = ""
			return m, nil
		}
		m.detail.SetContent(msg.content)
		m.detail.GotoTop()
		m.detailID = msg.sessionID
		return m, nil

	case feedbackSentMsg:
		m.fbSending = false
		if msg.err != nil {
			// keep the form open so the user can retry
			m.fbError = msg.err.Error()
			return m, nil
		}
		m.mode = modeList
		m.fbComment.Reset()
		m.fbComment.Blur()
		m.fbError = ""
		m.status = "Feedback sent for " + msg.sessionID
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustListScroll(m.panelHeight())
			cmds = append(cmds, m.loadCurrentDetail())
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.adjustListScroll(m.panelHeight())
			cmds = append(cmds, m.loadCurrentDetail())
		}

	case key.Matches(msg, keys.DetailUp):
		m.detail.LineUp(m.panelHeight() / 2)

	case key.Matches(msg, keys.DetailDn):
		m.detail.LineDown(m.panelHeight() / 2)

	case key.Matches(msg, keys.PageUp):
		m.detail.LineUp(m.panelHeight())

	case key.Matches(msg, keys.PageDown):
		m.detail.LineDown(m.panelHeight())

	case key.Matches(msg, keys.Refresh):
		m.loading = true
		m.status = "Reloading..."
		cmds = append(cmds, loadSessionsCmd(m.src, m.pageSize))

	case key.Matches(msg, keys.Copy):
		if id := m.selectedID(); id != "" {
			if err := clipboard.WriteAll(id); err != nil {
				m.status = "Copy failed: " + err.Error()
			} else {
				m.status = "Copied " + id
			}
		}

	case key.Matches(msg, keys.Feedback):
		if m.selectedID() != "" {
			m.mode = modeFeedback
			m.fbCategory = 0
			m.fbError = ""
			m.fbComment.Focus()
			cmds = append(cmds, textinput.Blink)
		}

	case key.Matches(msg, keys.Filter):
		m.mode = modeFilter
		m.filterInput.Focus()
		cmds = append(cmds, textinput.Blink)
	}

	return m, tea.Batch(cmds...)
}

func (m model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.mode = modeList
		m.filterInput.Blur()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	var tiCmd tea.Cmd
	m.filterInput, tiCmd = m.filterInput.Update(msg)
	cmds = append(cmds, tiCmd)

	if newQuery := m.filterInput.Value(); newQuery != m.query {
		m.query = newQuery
		cmds = append(cmds, tea.Tick(debounceDelay, func(time.Time) tea.Msg {
			return debounceTickMsg{query: newQuery}
		}))
	}
	return m, tea.Batch(cmds...)
}

func (m model) updateFeedback(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.fbSending {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.CloseForm):
		m.mode = modeList
		m.fbComment.Blur()
		m.fbError = ""
		return m, nil

	case key.Matches(msg, keys.NextCat):
		m.fbCategory = (m.fbCategory + 1) % len(feedbackCategories)
		return m, nil

	case key.Matches(msg, keys.PrevCat):
		m.fbCategory = (m.fbCategory + len(feedbackCategories) - 1) % len(feedbackCategories)
		return m, nil

	case key.Matches(msg, keys.Submit):
		return m.submitFeedback()
	}

	var tiCmd tea.Cmd
	m.fbComment, tiCmd = m.fbComment.Update(msg)
	return m, tiCmd
}

func (m model) submitFeedback() (tea.Model, tea.Cmd) {
	id := m.selectedID()
	if id == "" {
		m.mode = modeList
		return m, nil
	}
	comment := strings.TrimSpace(m.fbComment.Value())
	if comment == "" {
		m.fbError = "comment is required"
		return m, nil
	}

	rec := feedback.Record{
		Category:     feedbackCategories[m.fbCategory],
		Comment:      comment,
		FeedbackType: feedback.TypeChat,
		SessionID:    id,
	}
	if m.cursor < len(m.filtered) {
		count := m.filtered[m.cursor].Count
		rec.MessageCount = &count
	}

	m.fbSending = true
	m.fbError = ""
	client := m.relay
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return feedbackSentMsg{sessionID: id, err: client.Submit(ctx, rec)}
	}
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	detailW := m.detailWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.detail.Width = detailW
	m.detail.Height = panelH
	detailPanel := styleActiveBorder.
		Width(detailW).
		Height(panelH).
		Render(m.detail.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)

	bottom := m.statusBar()
	if m.mode == modeFeedback {
		bottom = m.feedbackForm()
	}

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, bottom)
}

// feedbackForm renders the chat-level feedback form in place of the status bar.
func (m model) feedbackForm() string {
	var cats []string
	for i, c := range feedbackCategories {
		if i == m.fbCategory {
			cats = append(cats, styleListSelected.Render("["+c+"]"))
		} else {
			cats = append(cats, c)
		}
	}
	line1 := styleFormLabel.Render("Feedback "+m.selectedID()+"  ") + strings.Join(cats, " ")
	line2 := m.fbComment.View()
	if m.fbSending {
		line2 += "  sending..."
	}
	if m.fbError != "" {
		line2 += "  " + styleFormError.Render(m.fbError)
	}
	return line1 + "\n" + line2
}

// helper methods

func (m model) selectedID() string {
	if len(m.filtered) == 0 || m.cursor >= len(m.filtered) {
		return ""
	}
	return m.filtered[m.cursor].ID
}

// applyFilter re-derives the visible list from the snapshot and the current
// query, resetting the selection.
func (m *model) applyFilter() {
	if m.snapshot == nil {
		m.filtered = nil
		return
	}
	m.filtered = transcript.Filter(m.snapshot.Sessions, transcript.FilterOptions{Search: m.query})
	m.cursor = 0
	m.listOffset = 0
}

func (m model) loadCurrentDetail() tea.Cmd {
	id := m.selectedID()
	if id == "" || id == m.detailID {
		return nil
	}
	return loadDetailCmd(m.src, id, m.detailWidth())
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) detailWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// input row (1) + bottom rows (2) + borders (4)
	h := m.height - 7
	if h < 5 {
		h = 5
	}
	return h
}

func (m model) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d/%d sessions", len(m.filtered), m.sessionCount()),
		"/ filter",
		"r reload",
		"y copy id",
		"f feedback",
		"C-u/C-d scroll",
		"esc quit",
	}
	line := strings.Join(parts, " | ")
	if m.status != "" {
		line += "  " + m.status
	}
	return styleStatusBar.Render(line) + "\n"
}

func (m model) sessionCount() int {
	if m.snapshot == nil {
		return 0
	}
	return len(m.snapshot.Sessions)
}
