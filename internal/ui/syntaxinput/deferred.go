package syntaxinput

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameInterval approximates one rendered frame at the renderer's default
// rate. Waiting one frame lets the key that caused a submit finish its
// Began/Ended round before focus is recaptured.
const frameInterval = time.Second / 60

type taskKind int

const (
	taskCaretSync taskKind = iota
	taskRefocus
)

// scheduler tracks deferred continuations by id so they can be cancelled
// before their message arrives. A message whose task is no longer pending
// is dropped.
type scheduler struct {
	next    uint64
	pending map[uint64]taskKind
}

func (s *scheduler) schedule(kind taskKind) uint64 {
	if s.pending == nil {
		s.pending = make(map[uint64]taskKind)
	}
	s.next++
	s.pending[s.next] = kind
	return s.next
}

// has reports whether id is still pending without consuming it.
func (s *scheduler) has(id uint64) bool {
	_, ok := s.pending[id]
	return ok
}

// take consumes id, reporting whether it was still pending.
func (s *scheduler) take(id uint64) bool {
	if _, ok := s.pending[id]; !ok {
		return false
	}
	delete(s.pending, id)
	return true
}

func (s *scheduler) cancelKind(kind taskKind) {
	for id, k := range s.pending {
		if k == kind {
			delete(s.pending, id)
		}
	}
}

func (s *scheduler) cancelAll() {
	clear(s.pending)
}

func (s *scheduler) len() int {
	return len(s.pending)
}

// caretSyncMsg runs after the update that replaced the source.
type caretSyncMsg struct {
	owner  string
	task   uint64
	offset int
}

// frameSettledMsg arrives one frame after a submit.
type frameSettledMsg struct {
	owner string
	task  uint64
}

// refocusMsg is the tick after the frame settled.
type refocusMsg struct {
	owner string
	task  uint64
}

func caretSyncCmd(owner string, task uint64, offset int) tea.Cmd {
	return func() tea.Msg {
		return caretSyncMsg{owner: owner, task: task, offset: offset}
	}
}

func frameSettledCmd(owner string, task uint64) tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameSettledMsg{owner: owner, task: task}
	})
}

func refocusCmd(owner string, task uint64) tea.Cmd {
	return func() tea.Msg {
		return refocusMsg{owner: owner, task: task}
	}
}
