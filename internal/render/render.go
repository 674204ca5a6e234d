package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/chatlens/chatlens/internal/transcript"
)

const (
	colorReset  = "\033[0m"
	colorHuman  = "\033[1;34m" // bold blue
	colorAI     = "\033[1;32m" // bold green
	colorTool   = "\033[1;33m" // bold yellow
	colorSystem = "\033[2;35m" // dim magenta
	colorDim    = "\033[2m"
	colorBadge  = "\033[1;36m" // bold cyan for meta badges
)

type Options struct {
	Width   int  // wrap width (0 = no wrap)
	Color   bool // ANSI escapes on/off
	ShowRaw bool // append the raw payload under undecodable messages
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

func (o Options) paint(code, s string) string {
	if !o.Color {
		return s
	}
	return code + s + colorReset
}

// roleLabel maps a message role to its display label and color code.
func roleLabel(role transcript.Role) (string, string) {
	switch role {
	case transcript.RoleHuman:
		return "HUMAN", colorHuman
	case transcript.RoleAI:
		return "AI", colorAI
	case transcript.RoleTool:
		return "TOOL", colorTool
	case transcript.RoleSystem:
		return "SYSTEM", colorSystem
	default:
		return "UNKNOWN", colorDim
	}
}

// metaBadges renders the classification badges for a tool-call-free AI
// message, or "" when there is nothing to show.
func metaBadges(meta *transcript.AIMeta) string {
	if meta == nil {
		return ""
	}
	var parts []string
	if meta.IdentityVerified {
		parts = append(parts, "verified")
	}
	if meta.RequestCategory != "" {
		parts = append(parts, meta.RequestCategory)
	}
	if meta.RequestType != "" {
		parts = append(parts, meta.RequestType)
	}
	if meta.EndConversation {
		parts = append(parts, "end")
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, " · ") + "]"
}

// Conversation renders a full session transcript as role-labeled blocks,
// oldest first, separated by dim rules. Messages arrive already parsed and
// time-ordered.
func Conversation(sessionID string, msgs []transcript.Message, opts Options) string {
	var b strings.Builder
	separator := opts.paint(colorDim, "--------------------------------------------------")

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	counts := transcript.CountTypes(msgs)
	writeLine(opts.paint(colorDim, fmt.Sprintf("--- %s · %d messages (%d human, %d ai, %d tool, %d system) ---",
		sessionID, len(msgs), counts.Human, counts.AI, counts.Tool, counts.System)))

	for i, msg := range msgs {
		if i > 0 {
			writeLine(separator)
		}

		label, color := roleLabel(msg.Role)
		if msg.Role == transcript.RoleTool && msg.ToolName != "" {
			label = "TOOL " + msg.ToolName
		}
		writeLine(fmt.Sprintf("%s %s", opts.paint(color, label+" >"), opts.paint(colorDim, msg.Timestamp)))

		if badges := metaBadges(msg.Meta); badges != "" {
			writeLine("  " + opts.paint(colorBadge, badges))
		}

		text := msg.Text
		if msg.Role == transcript.RoleSystem || msg.Role == transcript.RoleUnknown {
			text = opts.paint(colorDim, text)
		}
		if text != "" {
			for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
				writeLine(tl)
			}
		}

		for _, tc := range msg.ToolCalls {
			writeLine("  " + opts.paint(colorTool, "-> "+tc.Name))
			if len(tc.Args) > 0 {
				args := transcript.PrettyJSON(tc.Args)
				for _, al := range strings.Split(indentLines(args, "     "), "\n") {
					writeLine(al)
				}
			}
		}

		if opts.ShowRaw && msg.Role == transcript.RoleUnknown && len(msg.Raw) > 0 {
			for _, rl := range strings.Split(indentLines(string(msg.Raw), "  "), "\n") {
				writeLine(opts.paint(colorDim, rl))
			}
		}

		writeLine("") // blank line after message
	}

	return b.String()
}

// SessionTable renders session summaries one row per session. With color off
// the output is plain tab-separated values, one row per line, suitable for
// piping into cut or awk.
func SessionTable(sessions []transcript.Summary, color bool) string {
	var b strings.Builder
	opts := Options{Color: color}

	if !color {
		b.WriteString("SESSION\tMESSAGES\tEARLIEST\tLATEST\tTOOLS\tCATEGORIES\n")
		for _, s := range sessions {
			fmt.Fprintf(&b, "%s\t%d\t%s\t%s\t%s\t%s\n",
				s.ID, s.Count, s.Earliest, s.Latest,
				strings.Join(s.Tools, ","), strings.Join(s.Categories, ","))
		}
		return b.String()
	}

	for _, s := range sessions {
		var flags []string
		if s.HasVerified {
			flags = append(flags, "verified")
		}
		if s.HasEndConversation {
			flags = append(flags, "ended")
		}
		flagStr := ""
		if len(flags) > 0 {
			flagStr = " " + opts.paint(colorBadge, "["+strings.Join(flags, " · ")+"]")
		}
		fmt.Fprintf(&b, "%s  %s%s\n",
			opts.paint(colorHuman, s.ID),
			opts.paint(colorDim, fmt.Sprintf("%d msgs  %s .. %s", s.Count, shortDate(s.Earliest), shortDate(s.Latest))),
			flagStr)

		detail := typePills(s.TypeCounts, opts)
		if len(s.Tools) > 0 {
			detail += "  " + opts.paint(colorTool, strings.Join(s.Tools, " "))
		}
		if len(s.Categories) > 0 {
			detail += "  " + opts.paint(colorDim, strings.Join(s.Categories, " "))
		}
		fmt.Fprintf(&b, "    %s\n", detail)
	}
	return b.String()
}

// typePills renders the per-role counts compactly, skipping zero roles.
func typePills(tc transcript.TypeCounts, opts Options) string {
	var parts []string
	if tc.Human > 0 {
		parts = append(parts, opts.paint(colorHuman, fmt.Sprintf("h:%d", tc.Human)))
	}
	if tc.AI > 0 {
		parts = append(parts, opts.paint(colorAI, fmt.Sprintf("ai:%d", tc.AI)))
	}
	if tc.Tool > 0 {
		parts = append(parts, opts.paint(colorTool, fmt.Sprintf("t:%d", tc.Tool)))
	}
	if tc.System > 0 {
		parts = append(parts, opts.paint(colorSystem, fmt.Sprintf("s:%d", tc.System)))
	}
	return strings.Join(parts, " ")
}

func shortDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
