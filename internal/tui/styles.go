package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorSecondary = lipgloss.Color("10")  // bright green
	colorTool      = lipgloss.Color("11")  // bright yellow
	colorSystem    = lipgloss.Color("13")  // bright magenta
	colorDim       = lipgloss.Color("240") // gray
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorError     = lipgloss.Color("9")   // bright red
	colorBorder    = lipgloss.Color("238") // dark gray

	// Input area
	styleInput = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	// List items
	styleListSelected = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)

	stylePillHuman = lipgloss.NewStyle().
			Foreground(colorPrimary)

	stylePillAI = lipgloss.NewStyle().
			Foreground(colorSecondary)

	stylePillTool = lipgloss.NewStyle().
			Foreground(colorTool)

	stylePillSystem = lipgloss.NewStyle().
			Foreground(colorSystem)

	styleBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")) // bright cyan

	// Panels
	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	styleActiveBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	// Status bar
	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	styleFormLabel = lipgloss.NewStyle().
			Foreground(colorDim).
			Bold(true)

	styleFormError = lipgloss.NewStyle().
			Foreground(colorError)
)
