package syntaxinput

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivo/uniseg"

	"github.com/zirconconsole/zircon/internal/input"
)

// textBox is the editable widget underneath the highlighted layer. It owns
// the raw text and caret while the user types and reports every change
// through its callbacks. Positions are rune offsets.
type textBox struct {
	value     []rune
	cursor    int
	focused   bool
	multiLine bool

	// clearTextOnFocus empties the text whenever focus is captured.
	clearTextOnFocus bool

	onTextChanged   func(text string)
	onCursorChanged func(pos int)
	onFocused       func()
	onFocusLost     func(enterPressed bool, cause input.Event)
	onInputChanged  func(ev input.Event)
}

func (b *textBox) Text() string {
	return string(b.value)
}

func (b *textBox) CursorPosition() int {
	return b.cursor
}

func (b *textBox) Focused() bool {
	return b.focused
}

// SetText replaces the text, clamping the caret.
func (b *textBox) SetText(s string) {
	b.edit([]rune(s), b.cursor)
}

// SetCursorPosition moves the caret, clamped to [0, len(text)].
func (b *textBox) SetCursorPosition(pos int) {
	pos = clamp(pos, 0, len(b.value))
	if pos == b.cursor {
		return
	}
	b.cursor = pos
	if b.onCursorChanged != nil {
		b.onCursorChanged(pos)
	}
}

// CaptureFocus focuses the widget. It is a no-op when already focused.
func (b *textBox) CaptureFocus() {
	if b.focused {
		return
	}
	b.focused = true
	if b.clearTextOnFocus {
		b.SetText("")
	}
	if b.onFocused != nil {
		b.onFocused()
	}
}

// ReleaseFocus blurs the widget without a submit.
func (b *textBox) ReleaseFocus() {
	b.releaseFocus(false, input.Event{})
}

func (b *textBox) releaseFocus(enterPressed bool, cause input.Event) {
	if !b.focused {
		return
	}
	b.focused = false
	if b.onFocusLost != nil {
		b.onFocusLost(enterPressed, cause)
	}
}

// edit commits a new value and caret, firing text then caret callbacks.
// Callbacks may re-enter SetText; the caret callback reads the caret after
// they return.
func (b *textBox) edit(value []rune, cursor int) {
	oldText := string(b.value)
	oldCursor := b.cursor

	b.value = value
	b.cursor = clamp(cursor, 0, len(value))

	if string(value) != oldText && b.onTextChanged != nil {
		b.onTextChanged(string(value))
	}
	if b.cursor != oldCursor && b.onCursorChanged != nil {
		b.onCursorChanged(b.cursor)
	}
}

func (b *textBox) insert(rs []rune) {
	value := make([]rune, 0, len(b.value)+len(rs))
	value = append(value, b.value[:b.cursor]...)
	value = append(value, rs...)
	value = append(value, b.value[b.cursor:]...)
	b.edit(value, b.cursor+len(rs))
}

// deleteRange removes runes in [from, to).
func (b *textBox) deleteRange(from, to int) {
	from = clamp(from, 0, len(b.value))
	to = clamp(to, 0, len(b.value))
	if from >= to {
		return
	}
	value := make([]rune, 0, len(b.value)-(to-from))
	value = append(value, b.value[:from]...)
	value = append(value, b.value[to:]...)
	b.edit(value, from)
}

// HandleKey applies one key press. Unfocused widgets ignore input.
func (b *textBox) HandleKey(msg tea.KeyMsg) {
	if !b.focused {
		return
	}
	ev := input.FromKeyMsg(msg, input.PhaseChange)
	if b.onInputChanged != nil {
		b.onInputChanged(ev)
	}
	// The input-changed handler may have released focus.
	if !b.focused {
		return
	}

	switch msg.Type {
	case tea.KeyEnter:
		if b.multiLine {
			b.insert([]rune{'\n'})
			return
		}
		b.releaseFocus(true, ev)
	case tea.KeyLeft:
		if msg.Alt {
			b.SetCursorPosition(prevWordStart(b.value, b.cursor))
		} else {
			b.SetCursorPosition(prevGrapheme(b.value, b.cursor))
		}
	case tea.KeyRight:
		if msg.Alt {
			b.SetCursorPosition(nextWordEnd(b.value, b.cursor))
		} else {
			b.SetCursorPosition(nextGrapheme(b.value, b.cursor))
		}
	case tea.KeyCtrlF:
		b.SetCursorPosition(nextWordEnd(b.value, b.cursor))
	case tea.KeyCtrlB:
		b.SetCursorPosition(prevWordStart(b.value, b.cursor))
	case tea.KeyHome, tea.KeyCtrlA:
		b.SetCursorPosition(lineStart(b.value, b.cursor))
	case tea.KeyEnd, tea.KeyCtrlE:
		b.SetCursorPosition(lineEnd(b.value, b.cursor))
	case tea.KeyUp:
		if b.multiLine {
			b.SetCursorPosition(verticalMove(b.value, b.cursor, -1))
		}
	case tea.KeyDown:
		if b.multiLine {
			b.SetCursorPosition(verticalMove(b.value, b.cursor, 1))
		}
	case tea.KeyBackspace:
		b.deleteRange(prevGrapheme(b.value, b.cursor), b.cursor)
	case tea.KeyDelete:
		b.deleteRange(b.cursor, nextGrapheme(b.value, b.cursor))
	case tea.KeyCtrlK:
		b.deleteRange(b.cursor, lineEnd(b.value, b.cursor))
	case tea.KeyCtrlU:
		b.deleteRange(lineStart(b.value, b.cursor), b.cursor)
	case tea.KeyCtrlW:
		b.deleteRange(prevWordStart(b.value, b.cursor), b.cursor)
	case tea.KeyTab:
		b.insert([]rune{'\t'})
	case tea.KeySpace:
		b.insert([]rune{' '})
	case tea.KeyRunes:
		// Alt+f/b is how macOS terminals send option+arrow.
		if msg.Alt && len(msg.Runes) == 1 {
			switch msg.Runes[0] {
			case 'f':
				b.SetCursorPosition(nextWordEnd(b.value, b.cursor))
				return
			case 'b':
				b.SetCursorPosition(prevWordStart(b.value, b.cursor))
				return
			}
		}
		rs := msg.Runes
		if !b.multiLine {
			rs = stripNewlines(rs)
		}
		if len(rs) > 0 {
			b.insert(rs)
		}
	}
}

func stripNewlines(rs []rune) []rune {
	out := make([]rune, 0, len(rs))
	for _, r := range rs {
		if r == '\n' || r == '\r' {
			r = ' '
		}
		out = append(out, r)
	}
	return out
}

// graphemeBoundaries returns rune offsets of every grapheme cluster edge,
// including 0 and len(rs).
func graphemeBoundaries(rs []rune) []int {
	bounds := []int{0}
	g := uniseg.NewGraphemes(string(rs))
	off := 0
	for g.Next() {
		off += len(g.Runes())
		bounds = append(bounds, off)
	}
	return bounds
}

func prevGrapheme(rs []rune, pos int) int {
	prev := 0
	for _, b := range graphemeBoundaries(rs) {
		if b >= pos {
			break
		}
		prev = b
	}
	return prev
}

func nextGrapheme(rs []rune, pos int) int {
	for _, b := range graphemeBoundaries(rs) {
		if b > pos {
			return b
		}
	}
	return len(rs)
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// nextWordEnd skips non-word runes, then word runes.
func nextWordEnd(rs []rune, pos int) int {
	n := len(rs)
	for pos < n && !isWordChar(rs[pos]) {
		pos++
	}
	for pos < n && isWordChar(rs[pos]) {
		pos++
	}
	return pos
}

// prevWordStart skips non-word runes backward, then word runes backward.
func prevWordStart(rs []rune, pos int) int {
	for pos > 0 && !isWordChar(rs[pos-1]) {
		pos--
	}
	for pos > 0 && isWordChar(rs[pos-1]) {
		pos--
	}
	return pos
}

func lineStart(rs []rune, pos int) int {
	for pos > 0 && rs[pos-1] != '\n' {
		pos--
	}
	return pos
}

func lineEnd(rs []rune, pos int) int {
	for pos < len(rs) && rs[pos] != '\n' {
		pos++
	}
	return pos
}

// verticalMove moves the caret one line up (dir < 0) or down, keeping the
// column where the target line is long enough.
func verticalMove(rs []rune, pos, dir int) int {
	start := lineStart(rs, pos)
	col := pos - start
	var target int
	if dir < 0 {
		if start == 0 {
			return 0
		}
		target = lineStart(rs, start-1)
	} else {
		end := lineEnd(rs, pos)
		if end == len(rs) {
			return len(rs)
		}
		target = end + 1
	}
	return min(target+col, lineEnd(rs, target))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
