// Package autocomplete renders the completion list shown under the console
// input.
package autocomplete

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zirconconsole/zircon/internal/keys"
	"github.com/zirconconsole/zircon/internal/registry"
	"github.com/zirconconsole/zircon/internal/ui/styles"
)

const (
	defaultWidth      = 40
	defaultMaxVisible = 6
	nameColumnMax     = 24
)

// Config defines autocomplete list configuration.
type Config struct {
	Width           int                               // Total width including icon (default 40)
	MaxVisibleItems int                               // Rows shown before scrolling (default 6)
	Theme           *styles.Theme                     // nil uses the default theme
	OnItemSelect    func(registry.Completion) tea.Msg // Called when an item is chosen (optional)
}

// SelectMsg is sent when an item is chosen and OnItemSelect is nil.
type SelectMsg struct {
	Item registry.Completion
}

// Model holds the autocomplete list state.
type Model struct {
	id           string
	config       Config
	theme        styles.Theme
	items        []registry.Completion
	cursor       int
	scrollOffset int
	visible      bool
}

// New creates a hidden, empty list.
func New(cfg Config) Model {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.MaxVisibleItems <= 0 {
		cfg.MaxVisibleItems = defaultMaxVisible
	}
	theme := styles.Default()
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}
	return Model{id: uuid.NewString(), config: cfg, theme: theme}
}

// SetItems replaces the items. The cursor stays put while it is in range.
func (m Model) SetItems(items []registry.Completion) Model {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = 0
		m.scrollOffset = 0
	}
	return m.ensureCursorVisible()
}

// SetTheme replaces the palette.
func (m Model) SetTheme(t styles.Theme) Model {
	m.theme = t
	return m
}

// SetWidth sets the total width.
func (m Model) SetWidth(width int) Model {
	if width > 0 {
		m.config.Width = width
	}
	return m
}

// Show makes the list visible when it has items.
func (m Model) Show() Model {
	m.visible = len(m.items) > 0
	return m
}

// Hide hides the list and resets the cursor.
func (m Model) Hide() Model {
	m.visible = false
	m.cursor = 0
	m.scrollOffset = 0
	return m
}

// Visible reports whether the list is shown.
func (m Model) Visible() bool {
	return m.visible && len(m.items) > 0
}

// Items returns the current items.
func (m Model) Items() []registry.Completion {
	return m.items
}

// Cursor returns the selected index.
func (m Model) Cursor() int {
	return m.cursor
}

// Selected returns the highlighted item.
func (m Model) Selected() (registry.Completion, bool) {
	if m.cursor >= 0 && m.cursor < len(m.items) {
		return m.items[m.cursor], true
	}
	return registry.Completion{}, false
}

// Next moves the selection down, wrapping at the end.
func (m Model) Next() Model {
	if len(m.items) == 0 {
		return m
	}
	m.cursor = (m.cursor + 1) % len(m.items)
	return m.ensureCursorVisible()
}

// Prev moves the selection up, wrapping at the start.
func (m Model) Prev() Model {
	if len(m.items) == 0 {
		return m
	}
	m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	return m.ensureCursorVisible()
}

// Update handles messages while the list is visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.Visible() {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Component.Next), msg.Type == tea.KeyDown:
			return m.Next(), nil
		case key.Matches(msg, keys.Component.Prev), msg.Type == tea.KeyUp:
			return m.Prev(), nil
		case key.Matches(msg, keys.Component.Accept), key.Matches(msg, keys.Common.Enter):
			return m, m.selectCmd()
		case key.Matches(msg, keys.Common.Escape):
			return m.Hide(), nil
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}
			return m, nil
		case tea.MouseButtonWheelDown:
			if m.scrollOffset < max(0, len(m.items)-m.config.MaxVisibleItems) {
				m.scrollOffset++
			}
			return m, nil
		}
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		end := min(m.scrollOffset+m.config.MaxVisibleItems, len(m.items))
		for i := m.scrollOffset; i < end; i++ {
			if z := zone.Get(m.rowZone(i)); z != nil && z.InBounds(msg) {
				m.cursor = i
				return m, m.selectCmd()
			}
		}
	}
	return m, nil
}

func (m Model) selectCmd() tea.Cmd {
	selected, ok := m.Selected()
	if !ok {
		return nil
	}
	if m.config.OnItemSelect != nil {
		onSelect := m.config.OnItemSelect
		return func() tea.Msg { return onSelect(selected) }
	}
	return func() tea.Msg { return SelectMsg{Item: selected} }
}

// ensureCursorVisible adjusts scroll offset to keep cursor in view.
func (m Model) ensureCursorVisible() Model {
	maxVisible := m.config.MaxVisibleItems
	if m.cursor >= m.scrollOffset+maxVisible {
		m.scrollOffset = m.cursor - maxVisible + 1
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	return m
}

func (m Model) rowZone(i int) string {
	return fmt.Sprintf("autocomplete-%s-%d", m.id, i)
}

// Height returns the number of rows View renders.
func (m Model) Height() int {
	if !m.Visible() {
		return 0
	}
	return min(len(m.items), m.config.MaxVisibleItems)
}

// View renders the visible rows, or "" when hidden.
func (m Model) View() string {
	if !m.Visible() {
		return ""
	}

	width := m.config.Width
	nameWidth := m.nameColumnWidth()
	end := min(m.scrollOffset+m.config.MaxVisibleItems, len(m.items))

	rows := make([]string, 0, end-m.scrollOffset)
	for i := m.scrollOffset; i < end; i++ {
		rows = append(rows, zone.Mark(m.rowZone(i), m.renderRow(m.items[i], i == m.cursor, nameWidth, width)))
	}
	return strings.Join(rows, "\n")
}

func (m Model) nameColumnWidth() int {
	w := 0
	for _, item := range m.items {
		w = max(w, runewidth.StringWidth(item.Name))
	}
	return min(w, nameColumnMax, max(m.config.Width-4, 1))
}

// renderRow lays out "icon name  description" padded to width.
func (m Model) renderRow(item registry.Completion, selected bool, nameWidth, width int) string {
	base := lipgloss.NewStyle().Foreground(m.theme.PrimaryText)
	if selected {
		base = base.Background(m.theme.Selection).Bold(true)
	}
	muted := base.Foreground(m.theme.MutedText).Bold(false)
	match := base.Underline(true)

	icon := base.Foreground(m.iconColor(item.Type)).Render(Icon(item.Type))

	name := runewidth.Truncate(item.Name, nameWidth, "…")
	var b strings.Builder
	for i, r := range name {
		if slices.Contains(item.MatchedIndexes, i) {
			b.WriteString(match.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	gap := nameWidth - runewidth.StringWidth(name)

	// icon + space + name column + two spaces
	descWidth := width - 2 - nameWidth - 2
	desc := ""
	if descWidth > 0 {
		desc = runewidth.Truncate(item.Description, descWidth, "…")
	}
	tail := max(0, descWidth-runewidth.StringWidth(desc))

	return icon + base.Render(" ") + b.String() + base.Render(strings.Repeat(" ", gap+2)) +
		muted.Render(desc) + base.Render(strings.Repeat(" ", tail))
}

// Icon returns the glyph shown for an item type.
func Icon(t registry.ItemType) string {
	switch t {
	case registry.TypeFunction:
		return "ƒ"
	case registry.TypeClass:
		return "◆"
	case registry.TypeProperty:
		return "•"
	case registry.TypeNamespace:
		return "□"
	case registry.TypeEnum:
		return "≡"
	default:
		return "?"
	}
}

func (m Model) iconColor(t registry.ItemType) lipgloss.Color {
	syn := m.theme.Syntax
	if syn == nil {
		return m.theme.MutedText
	}
	var c string
	switch t {
	case registry.TypeFunction:
		c = syn.Function
	case registry.TypeClass:
		c = syn.String
	case registry.TypeProperty:
		c = syn.Variable
	case registry.TypeNamespace:
		c = syn.Keyword
	case registry.TypeEnum:
		c = syn.Number
	}
	if c == "" {
		return m.theme.MutedText
	}
	return lipgloss.Color(c)
}
