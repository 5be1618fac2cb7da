// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// CommonKeys are bindings shared by every component.
type CommonKeys struct {
	Enter  key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// Common holds the shared bindings.
var Common = CommonKeys{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// ComponentKeys are bindings for list-like components such as the
// autocomplete list.
type ComponentKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Accept key.Binding
}

// Component holds the list navigation bindings. Next and Prev are control
// chords so they reach the console through the input's control-key callback
// while the input keeps focus.
var Component = ComponentKeys{
	Next: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "next completion"),
	),
	Prev: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("ctrl+p", "previous completion"),
	),
	Accept: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "accept completion"),
	),
}

// KeyMap defines the keybindings for the console.
type KeyMap struct {
	// Output
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Clear      key.Binding
	ToggleLogs key.Binding

	// Input
	Focus   key.Binding
	History key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear output"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "toggle live logs"),
		),
		Focus: key.NewBinding(
			key.WithKeys("/", "i"),
			key.WithHelp("/", "focus input"),
		),
		History: key.NewBinding(
			key.WithKeys("up", "down"),
			key.WithHelp("↑/↓", "history"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: Common.Quit,
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Clear, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ScrollUp, k.ScrollDown, k.Clear, k.ToggleLogs},                      // Output
		{k.Focus, k.History, Component.Next, Component.Prev, Component.Accept}, // Input
		{k.Help, Common.Escape, k.Quit},                                        // General
	}
}
