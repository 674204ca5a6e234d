package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/chatlens/chatlens/internal/transcript"
)

// linesPerItem is the number of terminal lines each session occupies.
const linesPerItem = 2

// renderList renders the left panel: filtered session list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.filtered) == 0 {
		label := "No sessions"
		if m.loading {
			label = "Loading..."
		}
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(label)
	}

	var lines []string
	for i, s := range m.filtered {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatSessionLines(s, width, i == m.cursor)...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatSessionLines formats a session summary as two lines:
//
//	line 1: [>] MM-DD  session id  badges
//	line 2:    type pills  tool names (dimmed)
func formatSessionLines(s transcript.Summary, width int, selected bool) []string {
	date := s.Latest
	if len(date) >= 10 {
		date = date[5:10] // MM-DD
	}

	var badges []string
	if s.HasVerified {
		badges = append(badges, "✓")
	}
	if s.HasEndConversation {
		badges = append(badges, "■")
	}
	badgeStr := ""
	if len(badges) > 0 {
		badgeStr = " " + styleBadge.Render(strings.Join(badges, ""))
	}

	id := s.ID
	idMax := width - 2 - 6 - len(badges) - 2 // prefix + date + badges + padding
	if idMax < 0 {
		idMax = 0
	}
	if runewidth.StringWidth(id) > idMax {
		id = runewidth.Truncate(id, idMax, "")
	}

	line1 := fmt.Sprintf("%s %s%s", date, id, badgeStr)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	pills := []string{fmt.Sprintf("%d msgs", s.Count)}
	tc := s.TypeCounts
	if tc.Human > 0 {
		pills = append(pills, stylePillHuman.Render(fmt.Sprintf("h:%d", tc.Human)))
	}
	if tc.AI > 0 {
		pills = append(pills, stylePillAI.Render(fmt.Sprintf("ai:%d", tc.AI)))
	}
	if tc.Tool > 0 {
		pills = append(pills, stylePillTool.Render(fmt.Sprintf("t:%d", tc.Tool)))
	}
	if tc.System > 0 {
		pills = append(pills, stylePillSystem.Render(fmt.Sprintf("s:%d", tc.System)))
	}

	tools := strings.Join(s.Tools, " ")
	toolMax := width - 4
	if toolMax < 0 {
		toolMax = 0
	}
	if runewidth.StringWidth(tools) > toolMax {
		tools = runewidth.Truncate(tools, toolMax, "")
	}

	line2 := "    " + strings.Join(pills, " ")
	if tools != "" {
		line2 += "  " + lipgloss.NewStyle().Foreground(colorDim).Render(tools)
	}

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
