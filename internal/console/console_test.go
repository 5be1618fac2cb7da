package console

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zirconconsole/zircon/internal/config"
	"github.com/zirconconsole/zircon/internal/input"
	"github.com/zirconconsole/zircon/internal/log"
	"github.com/zirconconsole/zircon/internal/pubsub"
	"github.com/zirconconsole/zircon/internal/registry"
	"github.com/zirconconsole/zircon/internal/ui/styles"
)

type harness struct {
	t   *testing.T
	svc *input.Service
	m   *Model
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := RegisterBuiltins(registry.NewBuilder().
		AddDefaultAdminGroup(255, 1).
		AddDefaultUserGroup(false)).
		AddFunction(registry.Function{
			Name:        "answer",
			Description: "The answer",
			Handler: func(context.Context, []any) (any, error) {
				return 42.0, nil
			},
		}).
		Build()
	require.NoError(t, err)
	return reg
}

func newHarness(t *testing.T, opts ...func(*Config)) *harness {
	t.Helper()
	cfg := Config{
		Registry: testRegistry(t),
		Console:  config.Defaults().Console,
		Theme:    styles.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	svc := input.NewService()
	m, err := New(svc, cfg)
	require.NoError(t, err)
	t.Cleanup(m.Close)

	h := &harness{t: t, svc: svc, m: m}
	h.settle(m.Update(tea.WindowSizeMsg{Width: 80, Height: 24}))
	h.settle(m.Init())
	return h
}

// press delivers msg the way the root model does.
func (h *harness) press(msg tea.KeyMsg) {
	h.svc.Began(msg)
	cmd := h.m.Update(msg)
	h.svc.Ended(msg)
	h.settle(tea.Batch(cmd, h.m.Drain()))
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		if r == ' ' {
			h.press(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		h.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) submit(s string) {
	h.typeText(s)
	h.press(tea.KeyMsg{Type: tea.KeyEnter})
}

// settle runs cmd and everything it leads to.
func (h *harness) settle(cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		h.settle(h.m.Update(msg))
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func texts(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = MessageText(m)
	}
	return out
}

func TestConsole_AutoFocusOnInit(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.m.Input().Focused())
}

func TestConsole_SubmitRunsCommand(t *testing.T) {
	h := newHarness(t)
	h.submit("answer")

	msgs := h.m.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, TypeExecution, msgs[0].Type)
	require.Equal(t, "answer", msgs[0].Text)
	require.Equal(t, TypeOutput, msgs[1].Type)
	require.Equal(t, "42", msgs[1].Text)
	require.Zero(t, h.m.Running())

	require.Empty(t, h.m.Input().Source())
	require.True(t, h.m.Input().Focused(), "refocused after submit")
}

func TestConsole_SubmitReportsErrors(t *testing.T) {
	h := newHarness(t)
	h.submit("nosuch")

	msgs := h.m.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, TypeError, msgs[1].Type)
	require.Contains(t, msgs[1].Text, "unknown command")
	require.NotEmpty(t, msgs[1].TraceID)
}

func TestConsole_BlankSubmitDoesNothing(t *testing.T) {
	h := newHarness(t)
	h.submit("   ")
	require.Empty(t, h.m.Messages())
}

func TestConsole_EffectsApplyInStatementOrder(t *testing.T) {
	h := newHarness(t)
	h.submit(`print "a"; clear; print "b"`)

	require.Equal(t, []string{"b"}, texts(h.m.Messages()))
}

func TestConsole_GroupWithoutConsoleAccessIsRefused(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.Console.Group = "user" })
	h.submit("answer")

	msgs := h.m.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, TypeError, msgs[1].Type)
	require.Contains(t, msgs[1].Text, "cannot use the console")
}

func TestConsole_HistoryTraversal(t *testing.T) {
	h := newHarness(t)
	h.submit("answer")
	h.submit("print 1")

	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}

	h.press(up)
	require.Equal(t, "print 1", h.m.Input().Source())
	h.press(up)
	require.Equal(t, "answer", h.m.Input().Source())
	h.press(up)
	require.Equal(t, "answer", h.m.Input().Source(), "stays at the oldest entry")
	h.press(down)
	require.Equal(t, "print 1", h.m.Input().Source())
	h.press(down)
	require.Empty(t, h.m.Input().Source())
}

func TestConsole_HistoryRepeatsReplaceText(t *testing.T) {
	h := newHarness(t)
	h.submit("answer")

	// The same entry is recalled after each submit even though it equals the
	// text recalled last time.
	h.press(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "answer", h.m.Input().Source())
	h.press(tea.KeyMsg{Type: tea.KeyEnter})
	h.press(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "answer", h.m.Input().Source())
}

func TestConsole_HistoryCommand(t *testing.T) {
	h := newHarness(t)
	h.submit("answer")
	h.submit("history")

	msgs := h.m.Messages()
	last := msgs[len(msgs)-1]
	require.Equal(t, TypePlain, last.Type)
	require.Contains(t, ansi.Strip(last.Text), "answer")
}

func TestConsole_CtrlLClears(t *testing.T) {
	h := newHarness(t)
	h.submit("answer")
	require.NotEmpty(t, h.m.Messages())

	h.press(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.Empty(t, h.m.Messages())
	require.True(t, h.m.Input().Focused())
}

func TestConsole_CtrlOTogglesLogs(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.m.LogsVisible())

	h.press(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.False(t, h.m.LogsVisible())
	require.Contains(t, ansi.Strip(h.m.View()), "logs hidden")

	h.press(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, h.m.LogsVisible())
}

func TestConsole_CompletionAccept(t *testing.T) {
	h := newHarness(t)
	h.typeText("pr")
	require.True(t, h.m.Completions().Visible())

	h.press(tea.KeyMsg{Type: tea.KeyTab})
	require.False(t, h.m.Completions().Visible())
	require.Equal(t, "print", h.m.Input().Source())
}

func TestConsole_CompletionNamespaceMembers(t *testing.T) {
	h := newHarness(t)
	h.typeText("log.w")
	require.True(t, h.m.Completions().Visible())
	for _, item := range h.m.Completions().Items() {
		require.True(t, strings.HasPrefix(item.Name, "log."), item.Name)
	}

	h.press(tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, strings.HasPrefix(h.m.Input().Source(), "log.w"))
}

func TestConsole_CtrlNOpensCompletion(t *testing.T) {
	h := newHarness(t)
	require.False(t, h.m.Completions().Visible())

	h.press(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.True(t, h.m.Completions().Visible())
	require.Len(t, h.m.Completions().Items(), len(testRegistry(t).Items()))
}

func TestConsole_UpDownBelongToOpenCompletion(t *testing.T) {
	h := newHarness(t)
	h.submit("answer")
	h.press(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.True(t, h.m.Completions().Visible())

	h.press(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, h.m.Completions().Cursor())
	require.Empty(t, h.m.Input().Source(), "no history step while the list is open")
}

func TestConsole_EscapeCancels(t *testing.T) {
	h := newHarness(t)
	h.typeText("ans")
	require.True(t, h.m.Completions().Visible())

	h.press(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, h.m.Completions().Visible())
	require.False(t, h.m.Input().Focused())
	require.Empty(t, h.m.Input().Source())

	h.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.True(t, h.m.Input().Focused(), "focus key refocuses")
}

func TestConsole_ThemeSwitchSavesPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	h := newHarness(t, func(c *Config) { c.ConfigPath = path })
	h.submit(`theme "nord"`)

	require.Equal(t, "nord", h.m.Theme().Name)
	msgs := h.m.Messages()
	require.Equal(t, "Theme set to nord", msgs[len(msgs)-1].Text)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "preset: nord")
}

func TestConsole_ThemeListMarksCurrent(t *testing.T) {
	h := newHarness(t)
	h.submit("theme")

	msgs := h.m.Messages()
	out := ansi.Strip(msgs[len(msgs)-1].Text)
	require.Contains(t, out, "* default")
	require.Contains(t, out, "  dracula")
}

func TestConsole_HelpListsCommands(t *testing.T) {
	h := newHarness(t)
	h.submit("help")

	msgs := h.m.Messages()
	out := ansi.Strip(msgs[len(msgs)-1].Text)
	require.Contains(t, out, "answer")
	require.Contains(t, out, "ctrl+l")
}

func TestConsole_LogEventsShowInfoAndAbove(t *testing.T) {
	h := newHarness(t)
	h.settle(h.m.Update(log.LogEvent{Type: pubsub.AppendedEvent, Payload: log.Entry{Level: log.LevelDebug, Message: "noise"}}))
	h.settle(h.m.Update(log.LogEvent{Type: pubsub.AppendedEvent, Payload: log.Entry{Level: log.LevelWarn, Message: "careful"}}))

	require.Equal(t, []string{"careful"}, texts(h.m.Messages()))
}

func TestConsole_MaxMessages(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.MaxMessages = 3 })
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		h.m.Append(Output(s))
	}
	require.Equal(t, []string{"c", "d", "e"}, texts(h.m.Messages()))
}

func TestConsole_ViewShowsInputAndHelp(t *testing.T) {
	h := newHarness(t)
	h.submit("answer")
	h.typeText("print")

	out := ansi.Strip(h.m.View())
	require.Contains(t, out, "42")
	require.Contains(t, out, "print")
	require.Contains(t, out, "help")
}

func TestConsole_UnfocusedKeysLeaveInputAlone(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.Console.AutoFocus = false })
	require.False(t, h.m.Input().Focused())

	h.m.Append(Output("x"))
	h.press(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.Empty(t, h.m.Messages())
	require.Empty(t, h.m.Input().Source())

	h.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	require.True(t, h.m.Input().Focused())
	require.Empty(t, h.m.Input().Source(), "focus key is not typed")
}
