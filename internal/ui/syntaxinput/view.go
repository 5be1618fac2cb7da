package syntaxinput

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
)

// The caret toggles only reverse video so surrounding token colors survive.
var (
	cursorOn  = ansi.SGR(ansi.ReverseAttr)
	cursorOff = ansi.SGR(ansi.NoReverseAttr)
)

const clearGlyph = "✕"

// View renders the highlighted source with the caret, the placeholder when
// empty, and the clear button when there is text to clear.
func (m *Model) View() string {
	t := m.cfg.Theme
	// One cell of padding each side plus the button and its gap.
	inner := max(m.cfg.Width-4, 1)

	body := lipgloss.NewStyle().Width(inner).Render(m.renderBody(inner))

	button := " "
	if m.state.Source != "" {
		button = zone.Mark(m.clearZone, lipgloss.NewStyle().Foreground(t.MutedText).Render(clearGlyph))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, body, " ", button)

	frame := lipgloss.NewStyle().
		Background(t.SecondaryBackground).
		Foreground(t.PrimaryText).
		Padding(0, 1)
	return zone.Mark(m.inputZone, frame.Render(row))
}

// Height returns the number of body lines the current source needs, capped
// by the configured height.
func (m *Model) Height() int {
	lines := strings.Count(m.renderBody(max(m.cfg.Width-4, 1)), "\n") + 1
	return min(lines, m.cfg.Height)
}

func (m *Model) renderBody(width int) string {
	src := m.state.Source
	if src == "" {
		if m.state.Focused {
			return cursorOn + " " + cursorOff
		}
		if m.cfg.Placeholder != "" {
			return lipgloss.NewStyle().Foreground(m.cfg.Theme.PlaceholderText).Render(m.cfg.Placeholder)
		}
		return ""
	}

	text := m.highlighter.Highlight(src, m.cfg.Theme.Syntax)
	if m.state.Focused {
		text = insertCursor(text, m.box.CursorPosition())
	}
	lines := wrapLines(text, width)
	return strings.Join(visibleLines(lines, m.cfg.Height), "\n")
}

// wrapLines splits on newlines and wraps each line to width.
func wrapLines(text string, width int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if ansi.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}
		out = append(out, strings.Split(ansi.Wrap(line, width, ""), "\n")...)
	}
	return out
}

// visibleLines keeps at most height lines, ending at the caret line when the
// caret would otherwise scroll out of view.
func visibleLines(lines []string, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	caret := len(lines) - 1
	for i, l := range lines {
		if strings.Contains(l, cursorOn) {
			caret = i
			break
		}
	}
	start := max(caret-height+1, 0)
	return lines[start : start+height]
}

// insertCursor marks the rune at cursor in highlighted text, skipping escape
// sequences while counting. A caret on a newline or past the end is drawn as
// a reversed space.
func insertCursor(highlighted string, cursor int) string {
	hi, ri := 0, 0
	for ri < cursor && hi < len(highlighted) {
		if highlighted[hi] == '\x1b' {
			hi = skipEscape(highlighted, hi)
			continue
		}
		_, size := utf8.DecodeRuneInString(highlighted[hi:])
		hi += size
		ri++
	}
	for hi < len(highlighted) && highlighted[hi] == '\x1b' {
		hi = skipEscape(highlighted, hi)
	}
	if hi >= len(highlighted) {
		return highlighted + cursorOn + " " + cursorOff
	}

	r, size := utf8.DecodeRuneInString(highlighted[hi:])
	if r == '\n' {
		return highlighted[:hi] + cursorOn + " " + cursorOff + highlighted[hi:]
	}
	return highlighted[:hi] + cursorOn + string(r) + cursorOff + highlighted[hi+size:]
}

// skipEscape returns the index after the SGR sequence starting at i.
func skipEscape(s string, i int) int {
	for i < len(s) && s[i] != 'm' {
		i++
	}
	if i < len(s) {
		i++
	}
	return i
}

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}
