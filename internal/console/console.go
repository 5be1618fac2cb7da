package console

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zirconconsole/zircon/internal/config"
	"github.com/zirconconsole/zircon/internal/flags"
	"github.com/zirconconsole/zircon/internal/history"
	"github.com/zirconconsole/zircon/internal/input"
	"github.com/zirconconsole/zircon/internal/janitor"
	"github.com/zirconconsole/zircon/internal/keys"
	"github.com/zirconconsole/zircon/internal/log"
	"github.com/zirconconsole/zircon/internal/pubsub"
	"github.com/zirconconsole/zircon/internal/registry"
	"github.com/zirconconsole/zircon/internal/tracing"
	"github.com/zirconconsole/zircon/internal/ui/autocomplete"
	"github.com/zirconconsole/zircon/internal/ui/markdown"
	"github.com/zirconconsole/zircon/internal/ui/styles"
	"github.com/zirconconsole/zircon/internal/ui/syntaxinput"
	"github.com/zirconconsole/zircon/internal/zr"
)

const (
	defaultMaxMessages = 1000
	defaultWidth       = 80
	defaultHeight      = 24
	completionMaxWidth = 60
)

// Config configures a console.
type Config struct {
	// Registry holds the callable commands. nil registers only the builtins.
	Registry *registry.Registry
	// History records submissions. nil keeps history in memory.
	History *history.Store
	// Tracer opens a span per submission. nil disables tracing.
	Tracer trace.Tracer
	Flags  *flags.Registry

	Console config.ConsoleConfig
	Theme   styles.Theme
	// ThemeColors are the user's color overrides, re-applied when the
	// theme command switches preset.
	ThemeColors map[string]string
	// ConfigPath is where the theme command saves the preset. Empty
	// disables saving.
	ConfigPath string

	// MaxMessages caps the scrollback (default 1000).
	MaxMessages int
}

// executedMsg carries the result of one submission back to the loop.
type executedMsg struct {
	source  string
	err     error
	traceID string
	effects []effect
}

type completionMsg struct {
	item registry.Completion
}

// Model is the console screen. Use New to create one.
type Model struct {
	cfg         Config
	svc         *input.Service
	registry    *registry.Registry
	tracer      trace.Tracer
	store       *history.Store
	keys        keys.KeyMap
	theme       styles.Theme
	highlighter zr.Highlighter

	input    *syntaxinput.Model
	complete autocomplete.Model
	viewport viewport.Model
	help     help.Model
	markdown *markdown.Renderer

	messages []Message
	focused  bool
	showLogs bool
	running  int
	width    int
	height   int

	logs    *log.LogListener
	cleanup janitor.Janitor
	pending []tea.Cmd
}

// New creates a console whose input listens on svc.
func New(svc *input.Service, cfg Config) (*Model, error) {
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = defaultMaxMessages
	}
	if cfg.Theme.Name == "" {
		cfg.Theme = styles.Default()
	}
	if cfg.Registry == nil {
		reg, err := RegisterBuiltins(registry.NewBuilder()).Build()
		if err != nil {
			return nil, err
		}
		cfg.Registry = reg
	}
	store := cfg.History
	if store == nil {
		s, err := history.NewStore(context.Background(), history.NewMemoryRepository(), cfg.Console.HistoryLimit)
		if err != nil {
			return nil, err
		}
		store = s
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("console")
	}

	m := &Model{
		cfg:         cfg,
		svc:         svc,
		registry:    cfg.Registry.WithMiddleware(tracing.NewHandlerMiddleware(tracer), recordOutputs),
		tracer:      tracer,
		store:       store,
		keys:        keys.DefaultKeyMap(),
		theme:       cfg.Theme,
		highlighter: zr.NewCached(zr.RichText),
		viewport:    viewport.New(defaultWidth, defaultHeight),
		help:        help.New(),
		showLogs:    true,
		focused:     cfg.Console.AutoFocus,
	}
	m.complete = autocomplete.New(autocomplete.Config{
		Width: completionMaxWidth,
		Theme: &m.theme,
		OnItemSelect: func(item registry.Completion) tea.Msg {
			return completionMsg{item: item}
		},
	})
	m.input = syntaxinput.Mount(svc, "", syntaxinput.Config{
		Width:              defaultWidth,
		MultiLine:          cfg.Console.MultiLine,
		AutoFocus:          cfg.Console.AutoFocus,
		ClearOnFocus:       cfg.Console.ClearOnFocus,
		RefocusOnSubmit:    cfg.Console.RefocusOnSubmit,
		CancelKeys:         cfg.Console.CancelKeys,
		Placeholder:        cfg.Console.Placeholder,
		Theme:              cfg.Theme,
		Highlighter:        m.highlighter,
		OnSubmit:           m.onSubmit,
		OnCancel:           m.onCancel,
		OnHistoryTraversal: m.onHistoryTraversal,
		OnControlKey:       m.onControlKey,
	})
	m.cleanup.Give(m.input.Unmount)

	if cfg.Flags.Enabled(flags.FlagLiveLogs) {
		ctx, cancel := context.WithCancel(context.Background())
		m.logs = log.NewListener(ctx)
		m.cleanup.Give(cancel)
	}

	m.applyTheme(cfg.Theme)
	m.SetSize(defaultWidth, defaultHeight)
	log.Debug(log.CatConsole, "console created", "session", store.SessionID(), "live_logs", m.logs != nil)
	return m, nil
}

// Init focuses the input when AutoFocus is set and starts the live log
// listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.input.SetProps(syntaxinput.Props{Source: m.input.Props().Source, Focused: m.focused}),
		m.logs.Listen(),
	)
}

// Update handles a message. Key messages are expected between the input
// service's Began and Ended; call Drain after Ended.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case executedMsg:
		cmd = m.finishExecution(msg)

	case completionMsg:
		cmd = m.acceptCompletion(msg.item)

	case log.LogEvent:
		if msg.Type == pubsub.AppendedEvent && msg.Payload.Level >= log.LevelInfo {
			m.append(FromLogEntry(msg.Payload))
		}
		cmd = m.logs.Listen()

	default:
		// Deferred input continuations.
		cmd = m.input.Update(msg)
	}
	m.layout()
	return tea.Batch(cmd, m.Drain())
}

// Drain returns commands queued by input callbacks that fired outside
// Update, such as history steps taken on the input service's Ended signal.
func (m *Model) Drain() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	m.layout()
	return tea.Batch(cmds...)
}

func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	case key.Matches(msg, m.keys.Help):
		m.showHelp()
		return nil
	}

	if !m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.Focus):
			return m.input.Focus()
		case key.Matches(msg, m.keys.Clear):
			m.Clear()
		case key.Matches(msg, m.keys.ToggleLogs):
			m.toggleLogs()
		}
		return nil
	}

	if m.complete.Visible() {
		if key.Matches(msg, keys.Component.Next, keys.Component.Prev, keys.Component.Accept, keys.Common.Enter) ||
			msg.Type == tea.KeyUp || msg.Type == tea.KeyDown {
			var cmd tea.Cmd
			m.complete, cmd = m.complete.Update(msg)
			return cmd
		}
	} else if key.Matches(msg, keys.Component.Next) {
		m.refreshCompletions(true)
		return nil
	}

	before, caret := m.input.Source(), m.input.WidgetCursor()
	cmd := m.input.Update(msg)
	if !m.input.Focused() {
		m.complete = m.complete.Hide()
	} else if m.input.Source() != before || m.input.WidgetCursor() != caret {
		m.refreshCompletions(false)
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	m.complete, cmd = m.complete.Update(msg)
	return tea.Batch(cmd, m.input.Update(msg))
}

// onSubmit runs inside the input's Update.
func (m *Model) onSubmit(text string) {
	m.complete = m.complete.Hide()
	if strings.TrimSpace(text) == "" {
		m.store.Navigator().Reset()
		return
	}

	m.append(Execution(text))
	recorded := true
	if err := m.store.Append(context.Background(), text); err != nil {
		recorded = false
		log.ErrorErr(log.CatHistory, "failed to record history", err)
	}

	if g, ok := m.registry.Group(m.cfg.Console.Group); ok && !g.CanAccessConsole {
		log.Warn(log.CatConsole, "submission refused", "group", g.Name)
		m.append(ErrorMessage(fmt.Errorf("group %q cannot use the console", g.Name), ""))
		return
	}

	m.running++
	m.queue(m.executeCmd(text, recorded))
}

func (m *Model) executeCmd(source string, recorded bool) tea.Cmd {
	reg, tracer, session := m.registry, m.tracer, m.store.SessionID()
	return func() tea.Msg {
		sink := &effectSink{}
		ctx := withEffects(context.Background(), sink)
		ctx, span := tracing.StartExecution(ctx, tracer, trace.WithAttributes(
			attribute.String(tracing.AttrSource, source),
			attribute.String(tracing.AttrSessionID, session),
		))
		defer span.End()
		if recorded {
			span.AddEvent(tracing.EventHistoryRecorded)
		}

		outputs, err := reg.Execute(ctx, source)
		span.SetAttributes(attribute.Int(tracing.AttrOutputCount, len(outputs)))
		tracing.RecordResult(span, err)

		traceID := tracing.TraceIDFromContext(ctx)
		if err != nil {
			log.Debug(log.CatConsole, "execution failed", "trace_id", traceID, "error", err.Error())
		}
		return executedMsg{source: source, err: err, traceID: traceID, effects: sink.drain()}
	}
}

func (m *Model) finishExecution(msg executedMsg) tea.Cmd {
	m.running = max(m.running-1, 0)
	var cmds []tea.Cmd
	for _, e := range msg.effects {
		cmds = append(cmds, e.apply(m))
	}
	if msg.err != nil {
		m.append(ErrorMessage(msg.err, msg.traceID))
	}
	return tea.Batch(cmds...)
}

func (m *Model) onCancel() {
	m.complete = m.complete.Hide()
	m.store.Navigator().Reset()
}

// onHistoryTraversal runs on the input service's Ended signal. Up and down
// belong to the completion list while it is open.
func (m *Model) onHistoryTraversal(dir syntaxinput.HistoryTraversalDirection) {
	if m.complete.Visible() {
		return
	}
	nav := m.store.Navigator()
	var next string
	if dir == syntaxinput.Back {
		next = nav.Back()
	} else {
		next = nav.Forward()
	}
	log.Debug(log.CatHistory, "history step", "direction", dir.String())
	m.queue(m.input.SetSource(next))
}

// onControlKey runs on the input service's Began signal while the input is
// focused.
func (m *Model) onControlKey(_ string, ev input.Event) {
	switch {
	case key.Matches(ev.Msg, m.keys.Clear):
		m.Clear()
	case key.Matches(ev.Msg, m.keys.ToggleLogs):
		m.toggleLogs()
	}
}

// acceptCompletion replaces the word before the caret with the item name.
func (m *Model) acceptCompletion(item registry.Completion) tea.Cmd {
	m.complete = m.complete.Hide()
	rs := []rune(m.input.Source())
	caret := min(m.input.WidgetCursor(), len(rs))
	start := wordStart(rs, caret)
	next := string(rs[:start]) + item.Name + string(rs[caret:])
	return m.input.SetSource(next)
}

// refreshCompletions shows completions for the word before the caret. force
// shows every top-level item when there is no word.
func (m *Model) refreshCompletions(force bool) {
	rs := []rune(m.input.Source())
	caret := min(m.input.WidgetCursor(), len(rs))
	word := string(rs[wordStart(rs, caret):caret])
	if word == "" && !force {
		m.complete = m.complete.Hide()
		return
	}
	items := m.registry.Complete(word, 0)
	if len(items) == 0 || (len(items) == 1 && items[0].Name == word) {
		m.complete = m.complete.Hide()
		return
	}
	m.complete = m.complete.SetItems(items).Show()
}

// wordStart returns the start of the dotted identifier ending at caret.
func wordStart(rs []rune, caret int) int {
	start := caret
	for start > 0 {
		r := rs[start-1]
		if r != '_' && r != '.' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		start--
	}
	return start
}

// SetFocused sets the Focused prop of the input.
func (m *Model) SetFocused(focused bool) tea.Cmd {
	m.focused = focused
	if !m.cfg.Console.AutoFocus {
		if focused {
			return m.input.Focus()
		}
		return m.input.Blur()
	}
	return m.input.SetProps(syntaxinput.Props{Source: m.input.Props().Source, Focused: focused})
}

// Clear removes every message.
func (m *Model) Clear() {
	m.messages = nil
	m.refreshViewport()
}

func (m *Model) toggleLogs() {
	m.showLogs = !m.showLogs
	m.refreshViewport()
}

// Append adds a message to the scrollback.
func (m *Model) Append(msg Message) {
	m.append(msg)
}

func (m *Model) append(msg Message) {
	m.messages = append(m.messages, msg)
	if over := len(m.messages) - m.cfg.MaxMessages; over > 0 {
		m.messages = slices.Delete(m.messages, 0, over)
	}
	m.refreshViewport()
}

func (m *Model) showHelp() {
	r, err := m.markdownRenderer()
	text := m.registry.Markdown()
	if err == nil {
		if out, rerr := r.Render(text); rerr == nil {
			text = out
		} else {
			log.ErrorErr(log.CatUI, "help render failed", rerr)
		}
	}
	m.append(Plain(text + "\n\n" + m.help.FullHelpView(m.keys.FullHelp())))
}

func (m *Model) markdownRenderer() (*markdown.Renderer, error) {
	if m.markdown != nil && m.markdown.Matches(m.width, m.theme.Name) {
		return m.markdown, nil
	}
	r, err := markdown.New(m.width, m.theme)
	if err != nil {
		log.ErrorErr(log.CatUI, "markdown renderer unavailable", err)
		return nil, err
	}
	m.markdown = r
	return r, nil
}

func (m *Model) showHistory(limit int) {
	entries, err := m.store.Recent(context.Background(), limit)
	if err != nil {
		m.append(ErrorMessage(err, ""))
		return
	}
	if len(entries) == 0 {
		m.append(Plain("No history"))
		return
	}
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedText)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, muted.Render(fmt.Sprintf("%4d", e.ID))+"  "+m.highlighter.Highlight(e.Source, m.theme.Syntax))
	}
	m.append(Plain(strings.Join(lines, "\n")))
}

func (m *Model) showThemes() {
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedText)
	lines := []string{"Themes:"}
	for _, name := range slices.Sorted(maps.Keys(styles.Presets)) {
		marker := "  "
		if name == m.theme.Name {
			marker = "* "
		}
		lines = append(lines, marker+name+"  "+muted.Render(styles.Presets[name].Description))
	}

	swatches := []struct {
		label string
		color lipgloss.Color
	}{
		{"background", m.theme.PrimaryBackground},
		{"input", m.theme.SecondaryBackground},
		{"text", m.theme.PrimaryText},
		{"muted", m.theme.MutedText},
	}
	var palette []string
	for _, s := range swatches {
		if hex, ok := styles.ToHex(s.color); ok {
			palette = append(palette, lipgloss.NewStyle().Foreground(s.color).Render("██")+" "+s.label+" "+hex)
		}
	}
	if len(palette) > 0 {
		lines = append(lines, "", strings.Join(palette, "  "))
	}
	m.append(Plain(strings.Join(lines, "\n")))
}

func (m *Model) switchPreset(preset string) {
	theme, err := styles.ApplyTheme(styles.ThemeConfig{Preset: preset, Colors: m.cfg.ThemeColors})
	if err != nil {
		m.append(ErrorMessage(err, ""))
		return
	}
	m.SetTheme(theme)
	if m.cfg.ConfigPath != "" {
		if err := config.SavePreset(m.cfg.ConfigPath, preset); err != nil {
			log.ErrorErr(log.CatConfig, "failed to save theme", err, "path", m.cfg.ConfigPath)
			m.append(ErrorMessage(fmt.Errorf("theme not saved: %w", err), ""))
		}
	}
	m.append(Output("Theme set to " + preset))
}

// ApplyThemeConfig resolves section and switches to it without saving.
func (m *Model) ApplyThemeConfig(section config.ThemeConfig) error {
	theme, err := styles.ApplyTheme(section.Styles())
	if err != nil {
		return err
	}
	m.cfg.ThemeColors = section.FlattenedColors()
	m.SetTheme(theme)
	return nil
}

// SetTheme replaces the palette and redraws the scrollback.
func (m *Model) SetTheme(t styles.Theme) {
	m.applyTheme(t)
	m.refreshViewport()
}

func (m *Model) applyTheme(t styles.Theme) {
	m.theme = t
	m.markdown = nil
	m.input.SetTheme(t)
	m.complete = m.complete.SetTheme(t)

	keyStyle := lipgloss.NewStyle().Foreground(t.SecondaryText)
	descStyle := lipgloss.NewStyle().Foreground(t.MutedText)
	m.help.Styles.ShortKey = keyStyle
	m.help.Styles.ShortDesc = descStyle
	m.help.Styles.ShortSeparator = descStyle
	m.help.Styles.FullKey = keyStyle
	m.help.Styles.FullDesc = descStyle
	m.help.Styles.FullSeparator = descStyle
}

// SetSize sets the console dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 1)
	m.height = max(height, 1)
	m.input.SetWidth(m.width)
	m.complete = m.complete.SetWidth(min(m.width, completionMaxWidth))
	m.help.Width = m.width
	m.viewport.Width = m.width
	m.layout()
	m.refreshViewport()
}

// layout gives the viewport whatever the input, completions and status line
// leave.
func (m *Model) layout() {
	used := m.input.Height() + m.complete.Height() + 1
	m.viewport.Height = max(m.height-used, 1)
}

func (m *Model) refreshViewport() {
	atBottom := m.viewport.AtBottom()
	opts := renderOptions{
		width:       m.width,
		traceIDs:    m.cfg.Flags.Enabled(flags.FlagTraceIDs),
		highlighter: m.highlighter,
	}
	lines := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		if !m.showLogs && IsLogMessage(msg) {
			continue
		}
		lines = append(lines, renderMessage(msg, m.theme, opts))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// View renders the scrollback, the input, the completion list and the
// status line.
func (m *Model) View() string {
	parts := []string{m.viewport.View(), m.input.View()}
	if m.complete.Visible() {
		parts = append(parts, m.complete.View())
	}
	parts = append(parts, m.statusLine())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) statusLine() string {
	var left string
	switch {
	case m.running > 0:
		left = lipgloss.NewStyle().Foreground(m.theme.LevelColor(styles.TokenLevelInfo)).Render("running…")
	case !m.showLogs:
		left = lipgloss.NewStyle().Foreground(m.theme.MutedText).Render("logs hidden")
	}
	right := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return right
	}
	return left + strings.Repeat(" ", gap) + right
}

// Close unmounts the input and stops the live log listener.
func (m *Model) Close() {
	m.cleanup.Cleanup()
}

// Messages returns the scrollback.
func (m *Model) Messages() []Message {
	return m.messages
}

// Input returns the mounted syntax input.
func (m *Model) Input() *syntaxinput.Model {
	return m.input
}

// Completions returns the completion list.
func (m *Model) Completions() autocomplete.Model {
	return m.complete
}

// Running reports how many submissions are executing.
func (m *Model) Running() int {
	return m.running
}

// Theme returns the current palette.
func (m *Model) Theme() styles.Theme {
	return m.theme
}

// LogsVisible reports whether log messages are shown.
func (m *Model) LogsVisible() bool {
	return m.showLogs
}
