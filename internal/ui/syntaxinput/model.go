// Package syntaxinput provides the console's source input: an editable text
// box with a syntax highlighted layer, caret tracking across programmatic
// text replacement, focus-scoped key handling and submit/cancel/history hooks.
package syntaxinput

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/zirconconsole/zircon/internal/input"
	"github.com/zirconconsole/zircon/internal/janitor"
	"github.com/zirconconsole/zircon/internal/log"
	"github.com/zirconconsole/zircon/internal/ui/styles"
	"github.com/zirconconsole/zircon/internal/zr"
)

// HistoryTraversalDirection is the direction of a history step.
type HistoryTraversalDirection int

const (
	Back    HistoryTraversalDirection = -1
	Forward HistoryTraversalDirection = 1
)

func (d HistoryTraversalDirection) String() string {
	if d == Back {
		return "back"
	}
	return "forward"
}

// DefaultCancelKeys is used when Config.CancelKeys is nil.
var DefaultCancelKeys = []string{"esc"}

// Config is fixed for the life of a mounted input, except for Width and
// Theme which follow the owner's layout and theme.
type Config struct {
	Width  int
	Height int

	MultiLine bool
	// AutoFocus makes the Focused prop capture and release focus.
	AutoFocus bool
	// ClearOnFocus empties the text whenever focus is captured and keeps the
	// submitted text in place after a submit.
	ClearOnFocus bool
	// RefocusOnSubmit recaptures focus one frame after a submit.
	RefocusOnSubmit bool
	// CancelKeys are key names or chords ("esc", "ctrl+g").
	CancelKeys  []string
	Placeholder string

	Theme styles.Theme
	// Highlighter defaults to zr.RichText. It is always wrapped by zr.Guard.
	Highlighter zr.Highlighter

	OnSubmit           func(text string)
	OnCancel           func()
	OnHistoryTraversal func(dir HistoryTraversalDirection)
	OnControlKey       func(key string, ev input.Event)
}

// Props are supplied by the owner on every update and diffed against the
// previous set.
type Props struct {
	Source  string
	Focused bool
}

// State is the editor state owned by the input.
type State struct {
	Source string
	// CursorPosition is the last programmatic caret target, one past the
	// end of the source after an external replacement.
	CursorPosition int
	// VirtualCursorPosition mirrors the widget caret.
	VirtualCursorPosition int
	Focused               bool
}

// Model is a mounted syntax input. Use Mount to create one.
type Model struct {
	id          string
	cfg         Config
	cancelKeys  input.KeySet
	highlighter zr.Highlighter

	svc   *input.Service
	box   *textBox
	state State
	props Props

	mounted bool

	// instance holds listeners for the life of the mount; focus holds the
	// listener registered while focused.
	instance janitor.Janitor
	focus    janitor.Janitor

	tasks   scheduler
	pending []tea.Cmd

	inputZone string
	clearZone string
}

// Mount creates an input over svc showing initialSource. The initial source
// is also the first Source prop.
func Mount(svc *input.Service, initialSource string, cfg Config) *Model {
	if cfg.Width <= 0 {
		cfg.Width = 40
	}
	if cfg.Height <= 0 {
		cfg.Height = 1
		if cfg.MultiLine {
			cfg.Height = 5
		}
	}
	if cfg.CancelKeys == nil {
		cfg.CancelKeys = DefaultCancelKeys
	}
	if cfg.Theme.Name == "" {
		cfg.Theme = styles.Default()
	}
	h := cfg.Highlighter
	if h == nil {
		h = zr.RichText
	}

	id := uuid.NewString()
	m := &Model{
		id:          id,
		cfg:         cfg,
		cancelKeys:  input.NewKeySet(cfg.CancelKeys...),
		highlighter: zr.Guard(h),
		svc:         svc,
		props:       Props{Source: initialSource},
		mounted:     true,
		inputZone:   "syntaxinput-" + id,
		clearZone:   "syntaxinput-clear-" + id,
	}
	m.box = &textBox{
		multiLine:        cfg.MultiLine,
		clearTextOnFocus: cfg.ClearOnFocus,
		onTextChanged:    m.onTextEdited,
		onCursorChanged:  m.onCursorMoved,
		onFocused:        m.onFocusGained,
		onFocusLost:      m.onFocusLost,
		onInputChanged:   m.onRawInputChanged,
	}

	m.state.Source = sanitize(initialSource)
	m.syncWidget()
	m.instance.GiveConnection(svc.InputEnded.Connect(m.onInputEnded))

	log.Debug(log.CatUI, "syntax input mounted", "id", id, "multi_line", cfg.MultiLine)
	return m
}

// ID returns the instance id carried by deferred messages.
func (m *Model) ID() string { return m.id }

// State returns a copy of the editor state.
func (m *Model) State() State { return m.state }

// Source returns the current source text.
func (m *Model) Source() string { return m.state.Source }

// Focused reports whether the input holds focus.
func (m *Model) Focused() bool { return m.state.Focused }

// Mounted reports whether Unmount has not yet been called.
func (m *Model) Mounted() bool { return m.mounted }

// Props returns the last props passed to SetProps.
func (m *Model) Props() Props { return m.props }

// Config returns the mount configuration.
func (m *Model) Config() Config { return m.cfg }

// WidgetCursor returns the caret of the editable widget.
func (m *Model) WidgetCursor() int { return m.box.CursorPosition() }

// PendingTasks returns the number of deferred continuations not yet run.
func (m *Model) PendingTasks() int { return m.tasks.len() }

// SetProps diffs props against the previous set. A Focused change captures
// or releases focus when AutoFocus is set. A Source change replaces the
// text and schedules the caret to move past its end.
func (m *Model) SetProps(p Props) tea.Cmd {
	if !m.mounted {
		return nil
	}
	prev := m.props
	m.props = p

	if prev.Focused != p.Focused && m.cfg.AutoFocus {
		if p.Focused {
			m.box.CaptureFocus()
		} else {
			m.box.ReleaseFocus()
		}
	}
	if prev.Source != p.Source {
		m.replaceSource(p.Source)
	}
	return m.drain()
}

// SetSource replaces the text the way a Source prop change does, even when
// the prop already holds source. The caret moves past the end.
func (m *Model) SetSource(source string) tea.Cmd {
	if !m.mounted {
		return nil
	}
	m.props.Source = source
	m.replaceSource(source)
	return m.drain()
}

// SetWidth resizes the input.
func (m *Model) SetWidth(width int) {
	if width > 0 {
		m.cfg.Width = width
	}
}

// SetTheme replaces the palette used by View.
func (m *Model) SetTheme(t styles.Theme) {
	m.cfg.Theme = t
}

// Focus captures focus regardless of AutoFocus.
func (m *Model) Focus() tea.Cmd {
	if m.mounted {
		m.box.CaptureFocus()
	}
	return m.drain()
}

// Blur releases focus without submitting.
func (m *Model) Blur() tea.Cmd {
	if m.mounted {
		m.box.ReleaseFocus()
	}
	return m.drain()
}

// Clear empties the source, as the clear button does.
func (m *Model) Clear() {
	if !m.mounted {
		return
	}
	m.state.Source = ""
	m.syncWidget()
}

// Update routes keys to the widget and runs deferred continuations that
// belong to this instance.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if !m.mounted {
		return nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.box.HandleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case caretSyncMsg:
		if msg.owner == m.id && m.tasks.take(msg.task) {
			m.state.CursorPosition = msg.offset
			m.box.SetCursorPosition(msg.offset)
		}

	case frameSettledMsg:
		if msg.owner == m.id && m.tasks.has(msg.task) {
			return refocusCmd(m.id, msg.task)
		}

	case refocusMsg:
		if msg.owner == m.id && m.tasks.take(msg.task) {
			log.Debug(log.CatUI, "refocusing after submit", "id", m.id)
			m.box.CaptureFocus()
		}
	}
	return m.drain()
}

// Unmount releases every listener and drops pending continuations. It may be
// called more than once.
func (m *Model) Unmount() {
	if m.mounted {
		log.Debug(log.CatUI, "syntax input unmounted", "id", m.id)
	}
	m.mounted = false
	m.tasks.cancelAll()
	m.pending = nil
	m.focus.Cleanup()
	m.instance.Cleanup()
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return
	}
	if m.state.Source != "" && inZone(m.clearZone, msg) {
		m.Clear()
		return
	}
	if inZone(m.inputZone, msg) {
		m.box.CaptureFocus()
	}
}

// replaceSource commits an externally supplied source and defers placing
// the caret until the widget holds the new text.
func (m *Model) replaceSource(source string) {
	m.state.Source = sanitize(source)
	m.syncWidget()
	// Only the newest replacement may place the caret.
	m.tasks.cancelKind(taskCaretSync)
	task := m.tasks.schedule(taskCaretSync)
	m.queue(caretSyncCmd(m.id, task, utf8.RuneCountInString(m.state.Source)+1))
}

// syncWidget pushes the source into the widget when they differ.
func (m *Model) syncWidget() {
	if m.box.Text() != m.state.Source {
		m.box.SetText(m.state.Source)
	}
}

func (m *Model) onTextEdited(raw string) {
	clean := sanitize(raw)
	m.state.Source = clean
	if clean != raw {
		m.box.SetText(clean)
	}
}

func (m *Model) onCursorMoved(offset int) {
	m.state.VirtualCursorPosition = offset
}

func (m *Model) onFocusGained() {
	m.state.Focused = true
	m.focus.Cleanup()
	m.focus.GiveConnection(m.svc.InputBegan.Connect(m.onFocusedInputBegan))
}

func (m *Model) onFocusLost(enterPressed bool, cause input.Event) {
	m.state.Focused = false
	m.focus.Cleanup()

	if !enterPressed {
		return
	}
	if !m.cfg.MultiLine {
		text := m.box.Text()
		log.Debug(log.CatUI, "submit", "id", m.id, "cause", cause.String())
		if m.cfg.OnSubmit != nil {
			m.cfg.OnSubmit(text)
		}
		if !m.cfg.ClearOnFocus {
			m.state.Source = ""
			m.syncWidget()
		}
	}
	if m.cfg.RefocusOnSubmit && m.mounted {
		task := m.tasks.schedule(taskRefocus)
		m.queue(frameSettledCmd(m.id, task))
	}
}

// onFocusedInputBegan is connected only while focused.
func (m *Model) onFocusedInputBegan(ev input.Event) {
	if ev.Type != input.TypeKeyboard {
		return
	}
	if m.cancelKeys.Contains(ev) {
		m.cancel(ev)
		return
	}
	if ev.IsModifierKeyDown(input.ModCtrl) && m.cfg.OnControlKey != nil {
		m.cfg.OnControlKey(ev.Key, ev)
	}
}

// onRawInputChanged sees keys the widget receives. A cancel key reaching the
// widget means no one called Began for it, so it is handled here.
func (m *Model) onRawInputChanged(ev input.Event) {
	if ev.Type == input.TypeKeyboard && m.cancelKeys.Contains(ev) {
		m.cancel(ev)
	}
}

// cancel fires the cancel callback, releases focus and clears the text. It
// runs at most once per focus because it requires focus.
func (m *Model) cancel(cause input.Event) {
	if !m.state.Focused {
		return
	}
	log.Debug(log.CatUI, "input cancelled", "id", m.id, "key", cause.String())
	m.tasks.cancelKind(taskRefocus)
	if m.cfg.OnCancel != nil {
		m.cfg.OnCancel()
	}
	m.box.releaseFocus(false, cause)
	m.box.SetText("")
}

// onInputEnded lives for the whole mount and turns up/down into history
// steps while focused.
func (m *Model) onInputEnded(ev input.Event) {
	if !m.state.Focused {
		return
	}
	if m.cfg.OnHistoryTraversal == nil {
		return
	}
	switch ev.Key {
	case "up":
		m.cfg.OnHistoryTraversal(Back)
	case "down":
		m.cfg.OnHistoryTraversal(Forward)
	}
}

func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

// drain returns and clears commands queued by widget callbacks.
func (m *Model) drain() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
