// Package input models low-level keyboard input as discrete events and
// provides the process-wide service that components subscribe to.
package input

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Phase is where in a key press an event was observed.
type Phase int

const (
	PhaseBegin Phase = iota
	PhaseChange
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseBegin:
		return "begin"
	case PhaseChange:
		return "change"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Type is the device class that produced an event.
type Type int

const (
	TypeKeyboard Type = iota
	TypeMouse
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
)

// Event is one observed input. Key is the key name without modifiers
// ("a", "up", "esc", "enter").
type Event struct {
	Key       string
	Modifiers Modifier
	Phase     Phase
	Type      Type
	Msg       tea.KeyMsg
}

// IsModifierKeyDown reports whether mod was held for this event.
func (e Event) IsModifierKeyDown(mod Modifier) bool {
	return e.Modifiers&mod != 0
}

// String returns the canonical chord, e.g. "ctrl+l" or "alt+b".
func (e Event) String() string {
	var b strings.Builder
	if e.IsModifierKeyDown(ModCtrl) {
		b.WriteString("ctrl+")
	}
	if e.IsModifierKeyDown(ModAlt) {
		b.WriteString("alt+")
	}
	if e.IsModifierKeyDown(ModShift) {
		b.WriteString("shift+")
	}
	b.WriteString(e.Key)
	return b.String()
}

// FromKeyMsg converts a Bubble Tea key message into an Event.
func FromKeyMsg(msg tea.KeyMsg, phase Phase) Event {
	ev := Event{Phase: phase, Type: TypeKeyboard, Msg: msg}

	name := msg.String()
	for {
		switch {
		case strings.HasPrefix(name, "alt+") && len(name) > len("alt+"):
			ev.Modifiers |= ModAlt
			name = strings.TrimPrefix(name, "alt+")
			continue
		case strings.HasPrefix(name, "ctrl+") && len(name) > len("ctrl+"):
			ev.Modifiers |= ModCtrl
			name = strings.TrimPrefix(name, "ctrl+")
			continue
		case strings.HasPrefix(name, "shift+") && len(name) > len("shift+"):
			ev.Modifiers |= ModShift
			name = strings.TrimPrefix(name, "shift+")
			continue
		}
		break
	}
	if msg.Alt {
		ev.Modifiers |= ModAlt
	}
	ev.Key = name
	return ev
}

// KeySet is a set of key names or chords.
type KeySet map[string]struct{}

// NewKeySet builds a set from key names ("esc") or chords ("ctrl+g").
func NewKeySet(keys ...string) KeySet {
	set := make(KeySet, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// Contains matches an event by its bare key or by its full chord.
func (s KeySet) Contains(ev Event) bool {
	if len(s) == 0 {
		return false
	}
	if _, ok := s[ev.Key]; ok && ev.Modifiers == 0 {
		return true
	}
	_, ok := s[ev.String()]
	return ok
}

// Keys returns the members in no particular order.
func (s KeySet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}
