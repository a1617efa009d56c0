package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func renderHeader(m *Model) string {
	left := headerAppStyle.Render(m.T("app.title"))
	if title := m.screen.Title(m); title != "" {
		left += headerBarStyle.Render(" ") + activeTabStyle.Render(title)
	}
	info := m.lang.Name()
	if u := m.router.State().Session.User; u != nil {
		info = u.Name + " · " + m.router.Role().String() + " · " + info
	}
	right := headerInfoStyle.Render(info + " ")
	leftW, rightW := ansi.StringWidth(left), ansi.StringWidth(right)
	gap := 1
	if leftW+rightW+1 < m.width {
		gap = m.width - leftW - rightW
	}
	return renderBar(headerBarStyle, max(1, m.width), left+headerBarStyle.Render(strings.Repeat(" ", gap))+right, colorMantle)
}

func renderFooter(m *Model) string {
	bindings := m.keys.BindingsForScope(m.ActiveScope())
	bg := colorMantle
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(bg)
	descStyle := lipgloss.NewStyle().Foreground(colorMuted).Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	seen := map[string]bool{}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.binding.Enabled() || seen[b.Action] {
			continue
		}
		seen[b.Action] = true
		h := b.Help()
		parts = append(parts, keyStyle.Render(h.Key)+space+descStyle.Render(h.Desc))
	}
	line := strings.Join(parts, sep)
	if line == "" {
		line = lipgloss.NewStyle().Foreground(colorMuted).Background(bg).Render("No shortcuts")
	}
	return renderBar(footerStyle, max(1, m.width), line, bg)
}

func renderStatusBar(m *Model) string {
	msg := strings.TrimSpace(m.status)
	if msg == "" {
		msg = "Ready"
	}
	if m.statusErr {
		return renderBar(statusErrBarStyle, max(1, m.width), msg, colorSurface0)
	}
	return renderBar(statusBarStyle, max(1, m.width), msg, colorSurface0)
}

func renderBar(style lipgloss.Style, width int, text string, bg lipgloss.TerminalColor) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	lineW := ansi.StringWidth(line)
	if lineW < width {
		line += strings.Repeat(" ", width-lineW)
	}
	return style.
		Background(bg).
		Width(width).
		MaxWidth(width).
		Render(line)
}

func fitHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// box draws a titled panel, truncating content lines to fit.
func box(title, content string, width int, focused bool) string {
	style := boxStyle
	if focused {
		style = focusBoxStyle
	}
	inner := max(1, width-4)
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, inner, "…")
	}
	body := strings.Join(lines, "\n")
	if title != "" {
		body = titleStyle.Render(title) + "\n" + body
	}
	return style.Width(max(1, width-2)).Render(body)
}

// cursorLines renders items with the selected one highlighted, scrolled to keep it visible.
func cursorLines(items []string, cursor, height int) string {
	if len(items) == 0 {
		return ""
	}
	start := 0
	if height > 0 && cursor >= height {
		start = cursor - height + 1
	}
	end := len(items)
	if height > 0 && end-start > height {
		end = start + height
	}
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if i == cursor {
			out = append(out, cursorStyle.Render("> "+items[i]))
		} else {
			out = append(out, "  "+items[i])
		}
	}
	return strings.Join(out, "\n")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
