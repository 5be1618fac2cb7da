package syntaxinput

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zirconconsole/zircon/internal/input"
)

func newFocusedBox(text string, multiLine bool) *textBox {
	b := &textBox{multiLine: multiLine}
	b.SetText(text)
	b.SetCursorPosition(len([]rune(text)))
	b.CaptureFocus()
	return b
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTextBox_InsertAndDelete(t *testing.T) {
	b := newFocusedBox("", false)

	b.HandleKey(runes("abc"))
	require.Equal(t, "abc", b.Text())
	require.Equal(t, 3, b.CursorPosition())

	b.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})
	b.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "ac", b.Text())
	require.Equal(t, 1, b.CursorPosition())

	b.HandleKey(tea.KeyMsg{Type: tea.KeyDelete})
	require.Equal(t, "a", b.Text())

	b.HandleKey(tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, "a ", b.Text())
}

func TestTextBox_IgnoresKeysWhenUnfocused(t *testing.T) {
	b := &textBox{}
	b.HandleKey(runes("x"))
	require.Empty(t, b.Text())
}

func TestTextBox_GraphemeMovement(t *testing.T) {
	// "e" + combining acute is one cluster of two runes.
	b := newFocusedBox("ae\u0301b", false)
	require.Equal(t, 4, b.CursorPosition())

	b.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, 3, b.CursorPosition())
	b.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, 1, b.CursorPosition())

	b.HandleKey(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 3, b.CursorPosition())

	b.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "ab", b.Text())
	require.Equal(t, 1, b.CursorPosition())
}

func TestTextBox_WordMovement(t *testing.T) {
	b := newFocusedBox("print hello.world", false)

	b.HandleKey(tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	require.Equal(t, 12, b.CursorPosition())
	b.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlB})
	require.Equal(t, 6, b.CursorPosition())
	b.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlF})
	require.Equal(t, 11, b.CursorPosition())
	b.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}, Alt: true})
	require.Equal(t, 6, b.CursorPosition())
	require.Equal(t, "print hello.world", b.Text())

	b.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlW})
	require.Equal(t, "hello.world", b.Text())
}

func TestTextBox_KillLine(t *testing.T) {
	b := newFocusedBox("one two", false)
	b.SetCursorPosition(3)

	b.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlK})
	require.Equal(t, "one", b.Text())

	b.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlU})
	require.Empty(t, b.Text())
	require.Equal(t, 0, b.CursorPosition())
}

func TestTextBox_EnterSingleLineReleasesFocus(t *testing.T) {
	b := newFocusedBox("x", false)
	var gotEnter bool
	b.onFocusLost = func(enterPressed bool, _ input.Event) { gotEnter = enterPressed }

	b.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, b.Focused())
	require.True(t, gotEnter)
	require.Equal(t, "x", b.Text())
}

func TestTextBox_EnterMultiLineInsertsNewline(t *testing.T) {
	b := newFocusedBox("ab", true)
	b.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, b.Focused())
	require.Equal(t, "ab\n", b.Text())
}

func TestTextBox_PasteNewlinesFlattenedInSingleLine(t *testing.T) {
	b := newFocusedBox("", false)
	b.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a\nb"), Paste: true})
	require.Equal(t, "a b", b.Text())
}

func TestTextBox_VerticalMove(t *testing.T) {
	b := newFocusedBox("abcd\nef\nghij", true)
	require.Equal(t, 12, b.CursorPosition())

	b.HandleKey(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 7, b.CursorPosition(), "column clamps to the shorter line")
	b.HandleKey(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 2, b.CursorPosition())
	b.HandleKey(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 0, b.CursorPosition())

	b.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 5, b.CursorPosition())
	b.HandleKey(tea.KeyMsg{Type: tea.KeyEnd})
	require.Equal(t, 7, b.CursorPosition())
	b.HandleKey(tea.KeyMsg{Type: tea.KeyHome})
	require.Equal(t, 5, b.CursorPosition())
}

func TestTextBox_SetCursorClamps(t *testing.T) {
	b := &textBox{}
	b.SetText("abc")
	b.SetCursorPosition(99)
	require.Equal(t, 3, b.CursorPosition())
	b.SetCursorPosition(-5)
	require.Equal(t, 0, b.CursorPosition())
}

func TestTextBox_ClearTextOnFocus(t *testing.T) {
	b := &textBox{clearTextOnFocus: true}
	b.SetText("stale")
	b.CaptureFocus()
	require.Empty(t, b.Text())
}

func TestTextBox_CallbackOrder(t *testing.T) {
	var events []string
	b := &textBox{
		onTextChanged:   func(s string) { events = append(events, "text:"+s) },
		onCursorChanged: func(int) { events = append(events, "cursor") },
	}
	b.CaptureFocus()
	b.HandleKey(runes("a"))
	require.Equal(t, []string{"text:a", "cursor"}, events)
}
