// Package app contains the root application model.
package app

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zirconconsole/zircon/internal/config"
	"github.com/zirconconsole/zircon/internal/console"
	"github.com/zirconconsole/zircon/internal/flags"
	"github.com/zirconconsole/zircon/internal/history"
	"github.com/zirconconsole/zircon/internal/input"
	"github.com/zirconconsole/zircon/internal/keys"
	"github.com/zirconconsole/zircon/internal/log"
	"github.com/zirconconsole/zircon/internal/registry"
	"github.com/zirconconsole/zircon/internal/ui/styles"
	"github.com/zirconconsole/zircon/internal/ui/toaster"
	"github.com/zirconconsole/zircon/internal/watcher"
)

// Options are the services the application is built from.
type Options struct {
	Config config.Config
	// ConfigPath is watched for theme changes and receives saved presets.
	// Empty disables both.
	ConfigPath string

	Registry *registry.Registry
	History  *history.Store
	Tracer   trace.Tracer
}

// Model is the root application state.
type Model struct {
	svc     *input.Service
	console *console.Model

	configPath string
	watcher    *watcher.Watcher
	toaster    toaster.Model

	width  int
	height int
}

// New creates the application. The caller owns the history store and the
// tracer's provider; Close releases only what New created.
func New(opts Options) (*Model, error) {
	theme, err := styles.ApplyTheme(opts.Config.Theme.Styles())
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}

	svc := input.NewService()
	c, err := console.New(svc, console.Config{
		Registry:    opts.Registry,
		History:     opts.History,
		Tracer:      opts.Tracer,
		Flags:       flags.New(opts.Config.Flags),
		Console:     opts.Config.Console,
		Theme:       theme,
		ThemeColors: opts.Config.Theme.FlattenedColors(),
		ConfigPath:  opts.ConfigPath,
	})
	if err != nil {
		return nil, err
	}

	m := &Model{
		svc:        svc,
		console:    c,
		configPath: opts.ConfigPath,
		toaster:    toaster.New(theme),
	}
	if opts.ConfigPath != "" {
		m.watcher = startWatcher(opts.ConfigPath)
	}
	return m, nil
}

// startWatcher watches the config file. The app works without it, so
// failures are only logged.
func startWatcher(path string) *watcher.Watcher {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		log.ErrorErr(log.CatConfig, "config watcher unavailable", err)
		return nil
	}
	if _, err := w.Start(); err != nil {
		log.ErrorErr(log.CatConfig, "config watcher unavailable", err, "path", path)
		_ = w.Stop()
		return nil
	}
	log.Debug(log.CatConfig, "watching config", "path", path)
	return w
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.console.Init()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.WaitCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.console.Update(msg)

	case tea.KeyMsg:
		if key.Matches(msg, keys.Common.Quit) {
			return m, tea.Quit
		}
		// Every key is one Began/Ended round on the input service so
		// focused listeners and history traversal see it.
		m.svc.Began(msg)
		cmd := m.console.Update(msg)
		m.svc.Ended(msg)
		return m, tea.Batch(cmd, m.console.Drain())

	case watcher.ChangedMsg:
		return m, tea.Batch(m.reloadConfig(), m.watcher.WaitCmd())

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil
	}

	return m, m.console.Update(msg)
}

// reloadConfig re-reads the config file and applies its theme. Other
// sections take effect on the next start.
func (m *Model) reloadConfig() tea.Cmd {
	cfg, err := config.Load(m.configPath)
	if err == nil {
		err = m.console.ApplyThemeConfig(cfg.Theme)
	}
	if err != nil {
		log.ErrorErr(log.CatConfig, "config reload failed", err, "path", m.configPath)
		m.console.Append(console.ErrorMessage(fmt.Errorf("reload config: %w", err), ""))
		return m.toast("Config not reloaded", toaster.StyleError)
	}
	log.Info(log.CatConfig, "config reloaded", "path", m.configPath, "theme", m.console.Theme().Name)
	return m.toast("Config reloaded", toaster.StyleSuccess)
}

func (m *Model) toast(text string, style toaster.Style) tea.Cmd {
	var cmd tea.Cmd
	m.toaster = m.toaster.SetTheme(m.console.Theme())
	m.toaster, cmd = m.toaster.Show(text, style, toaster.DefaultDuration)
	return cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	return zone.Scan(m.toaster.Overlay(m.console.View(), m.width, m.height))
}

// Console returns the console screen.
func (m *Model) Console() *console.Model {
	return m.console
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.console.Close()
	if m.watcher != nil {
		return m.watcher.Stop()
	}
	return nil
}
