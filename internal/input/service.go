package input

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zirconconsole/zircon/internal/log"
	"github.com/zirconconsole/zircon/internal/pubsub"
)

// Service is the process-wide input source. The root model calls Began before
// routing a key and Ended after, so listeners on InputEnded observe the key
// once every component has handled it.
//
// Terminals report no key releases, so each key press yields a Begin/End pair
// within a single Update.
type Service struct {
	InputBegan   *pubsub.Signal[Event]
	InputChanged *pubsub.Signal[Event]
	InputEnded   *pubsub.Signal[Event]
}

// NewService creates a service with no listeners.
func NewService() *Service {
	return &Service{
		InputBegan:   pubsub.NewSignal[Event](),
		InputChanged: pubsub.NewSignal[Event](),
		InputEnded:   pubsub.NewSignal[Event](),
	}
}

// Began fires InputBegan for msg and returns the event.
func (s *Service) Began(msg tea.KeyMsg) Event {
	ev := FromKeyMsg(msg, PhaseBegin)
	log.Debug(log.CatInput, "input began", "key", ev.String())
	s.InputBegan.Fire(ev)
	return ev
}

// Changed fires InputChanged for msg and returns the event.
func (s *Service) Changed(msg tea.KeyMsg) Event {
	ev := FromKeyMsg(msg, PhaseChange)
	s.InputChanged.Fire(ev)
	return ev
}

// Ended fires InputEnded for msg and returns the event.
func (s *Service) Ended(msg tea.KeyMsg) Event {
	ev := FromKeyMsg(msg, PhaseEnd)
	s.InputEnded.Fire(ev)
	return ev
}

// ListenerCount returns the number of handlers across all three signals.
func (s *Service) ListenerCount() int {
	return s.InputBegan.ListenerCount() + s.InputChanged.ListenerCount() + s.InputEnded.ListenerCount()
}
