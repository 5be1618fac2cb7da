package console

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zirconconsole/zircon/internal/ui/styles"
)

func plain(m Message, opts renderOptions) string {
	return ansi.Strip(renderMessage(m, styles.Default(), opts))
}

func TestRender_Execution(t *testing.T) {
	out := plain(Execution("print 1\nprint 2"), renderOptions{width: 80})
	require.Equal(t, "› print 1\n  print 2", out)
}

func TestRender_ErrorTraceID(t *testing.T) {
	m := ErrorMessage(errors.New("boom"), "abc123")
	require.Equal(t, "boom", plain(m, renderOptions{width: 80}))
	require.Equal(t, "boom trace=abc123", plain(m, renderOptions{width: 80, traceIDs: true}))
}

func TestRender_ServerContext(t *testing.T) {
	m := Output("hello")
	m.Context = ContextServer
	require.Equal(t, "[server] hello", plain(m, renderOptions{width: 80}))
}

func TestRender_ScriptErrorFrames(t *testing.T) {
	m := Message{Type: TypeScriptError, Text: "bad call", StackTrace: []string{"main:1", "lib:7"}}
	require.Equal(t, "bad call\n  at main:1\n  at lib:7", plain(m, renderOptions{width: 80}))
}

func TestRender_Log(t *testing.T) {
	m := StructuredLog(ContextClient, LogEvent{
		Level:     LevelWarning,
		Template:  "{Who} left",
		Variables: []any{"ada"},
		Fields:    []any{"room", "lobby", "odd"},
		Tag:       "script",
	})
	m.Time = time.Date(2026, 1, 1, 9, 30, 15, 0, time.Local)
	require.Equal(t, "09:30:15 WARN  [script] ada left room=lobby odd=<missing>", plain(m, renderOptions{width: 120}))
}

func TestRender_WrapsToWidth(t *testing.T) {
	out := plain(Output(strings.Repeat("word ", 20)), renderOptions{width: 20})
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, ansi.StringWidth(line), 20)
	}
}

func TestRenderMessage_Exported(t *testing.T) {
	out := ansi.Strip(RenderMessage(Plain("hi"), styles.Default(), 40))
	require.Equal(t, "hi", out)
}
