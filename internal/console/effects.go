package console

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zirconconsole/zircon/internal/registry"
)

// ErrNoConsole is returned by console commands executed outside a console.
var ErrNoConsole = errors.New("command needs a console")

// effect is a change to console state requested by a command. Commands run
// off the Bubble Tea loop, so they record effects and the console applies
// them in order once execution finishes.
type effect interface {
	apply(m *Model) tea.Cmd
}

type effectSink struct {
	mu      sync.Mutex
	effects []effect
}

func (s *effectSink) add(e effect) {
	s.mu.Lock()
	s.effects = append(s.effects, e)
	s.mu.Unlock()
}

func (s *effectSink) drain() []effect {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.effects
	s.effects = nil
	return out
}

type effectsKey struct{}

func withEffects(ctx context.Context, s *effectSink) context.Context {
	return context.WithValue(ctx, effectsKey{}, s)
}

// emit records e on the console executing ctx.
func emit(ctx context.Context, e effect) error {
	s, ok := ctx.Value(effectsKey{}).(*effectSink)
	if !ok {
		return ErrNoConsole
	}
	s.add(e)
	return nil
}

// recordOutputs is registry middleware that turns each call's result into an
// output effect, so outputs and effects keep their statement order.
func recordOutputs(_ string, next registry.Handler) registry.Handler {
	return func(ctx context.Context, args []any) (any, error) {
		result, err := next(ctx, args)
		if err == nil && result != nil {
			_ = emit(ctx, appendEffect{msg: Output(registry.FormatValue(result))})
		}
		return result, err
	}
}

type appendEffect struct {
	msg Message
}

func (e appendEffect) apply(m *Model) tea.Cmd {
	m.append(e.msg)
	return nil
}

type clearEffect struct{}

func (clearEffect) apply(m *Model) tea.Cmd {
	m.Clear()
	return nil
}

type helpEffect struct{}

func (helpEffect) apply(m *Model) tea.Cmd {
	m.showHelp()
	return nil
}

type historyEffect struct {
	limit int
}

func (e historyEffect) apply(m *Model) tea.Cmd {
	m.showHistory(e.limit)
	return nil
}

type themeEffect struct {
	// preset is empty to list the presets.
	preset string
}

func (e themeEffect) apply(m *Model) tea.Cmd {
	if e.preset == "" {
		m.showThemes()
		return nil
	}
	m.switchPreset(e.preset)
	return nil
}
