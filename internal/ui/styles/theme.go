package styles

import (
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// overlayAlpha is how much of the primary text color shows through the
// editable layer beneath the highlighted text.
const overlayAlpha = 0.25

// SyntaxColors is the palette handed to the highlighter, as hex strings.
type SyntaxColors struct {
	Keyword     string
	Function    string
	String      string
	Number      string
	Boolean     string
	Operator    string
	Variable    string
	Comment     string
	Punctuation string
	Illegal     string
}

// Theme is a resolved, read-only palette.
type Theme struct {
	Name string

	PrimaryBackground   lipgloss.Color
	SecondaryBackground lipgloss.Color
	PrimaryText         lipgloss.Color
	SecondaryText       lipgloss.Color
	PlaceholderText     lipgloss.Color
	MutedText           lipgloss.Color
	Border              lipgloss.Color
	FocusBorder         lipgloss.Color
	Selection           lipgloss.Color

	// OverlayText is the nearly transparent color of the editable layer.
	OverlayText lipgloss.Color

	Levels map[ColorToken]lipgloss.Color

	// Syntax is nil when the preset and overrides define no syntax palette.
	Syntax *SyntaxColors
}

// ThemeConfig mirrors config.ThemeConfig to avoid an import cycle.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// Default returns the default theme.
func Default() Theme {
	theme, _ := ApplyTheme(ThemeConfig{})
	return theme
}

// ApplyTheme resolves a theme:
//  1. default colors
//  2. preset colors (if any)
//  3. individual overrides
//
// A preset that omits every syntax token produces a theme without a syntax
// palette unless overrides add one.
func ApplyTheme(cfg ThemeConfig) (Theme, error) {
	colors := maps.Clone(DefaultPreset.Colors)
	name := "default"

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return Theme{}, fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		name = preset.Name
		if !hasSyntax(preset.Colors) {
			for _, tok := range syntaxTokens {
				delete(colors, tok)
			}
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !slices.Contains(AllTokens(), token) {
			return Theme{}, fmt.Errorf("unknown color token: %s", key)
		}
		hex, err := NormalizeHex(value)
		if err != nil {
			return Theme{}, fmt.Errorf("invalid hex color for %s: %w", key, err)
		}
		colors[token] = hex
	}

	return build(name, colors), nil
}

func hasSyntax(colors map[ColorToken]string) bool {
	for _, tok := range syntaxTokens {
		if _, ok := colors[tok]; ok {
			return true
		}
	}
	return false
}

func build(name string, colors map[ColorToken]string) Theme {
	get := func(tok ColorToken) lipgloss.Color {
		return lipgloss.Color(colors[tok])
	}

	t := Theme{
		Name:                name,
		PrimaryBackground:   get(TokenBackgroundPrimary),
		SecondaryBackground: get(TokenBackgroundSecondary),
		PrimaryText:         get(TokenTextPrimary),
		SecondaryText:       get(TokenTextSecondary),
		PlaceholderText:     get(TokenTextPlaceholder),
		MutedText:           get(TokenTextMuted),
		Border:              get(TokenBorderDefault),
		FocusBorder:         get(TokenBorderFocus),
		Selection:           get(TokenSelection),
		Levels:              make(map[ColorToken]lipgloss.Color),
	}
	for _, tok := range []ColorToken{TokenLevelVerbose, TokenLevelDebug, TokenLevelInfo, TokenLevelWarning, TokenLevelError, TokenLevelWtf} {
		t.Levels[tok] = get(tok)
	}
	t.OverlayText = lipgloss.Color(Blend(colors[TokenBackgroundSecondary], colors[TokenTextPrimary], overlayAlpha))

	if hasSyntax(colors) {
		t.Syntax = &SyntaxColors{
			Keyword:     colors[TokenSyntaxKeyword],
			Function:    colors[TokenSyntaxFunction],
			String:      colors[TokenSyntaxString],
			Number:      colors[TokenSyntaxNumber],
			Boolean:     colors[TokenSyntaxBoolean],
			Operator:    colors[TokenSyntaxOperator],
			Variable:    colors[TokenSyntaxVariable],
			Comment:     colors[TokenSyntaxComment],
			Punctuation: colors[TokenSyntaxPunctuation],
			Illegal:     colors[TokenSyntaxIllegal],
		}
	}
	return t
}

// NormalizeHex validates a "#rgb" or "#rrggbb" color and returns it as
// lowercase "#rrggbb".
func NormalizeHex(s string) (string, error) {
	if len(s) == 4 && s[0] == '#' {
		s = "#" + string([]byte{s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Blend mixes from toward to by t in Lab space. Invalid inputs return to.
func Blend(from, to string, t float64) string {
	a, errA := colorful.Hex(from)
	b, errB := colorful.Hex(to)
	if errA != nil || errB != nil {
		return to
	}
	return a.BlendLab(b, t).Clamped().Hex()
}

// LevelColor returns the color for a log level token, or the primary text
// color if the token is unknown.
func (t Theme) LevelColor(tok ColorToken) lipgloss.Color {
	if c, ok := t.Levels[tok]; ok && c != "" {
		return c
	}
	return t.PrimaryText
}

// ToHex converts a terminal color to lowercase "#rrggbb". Colors that do not
// resolve to RGB, such as the empty color, report false.
func ToHex(c lipgloss.TerminalColor) (string, bool) {
	if c == nil {
		return "", false
	}
	if col, ok := c.(lipgloss.Color); ok {
		if col == "" {
			return "", false
		}
		if hex, err := NormalizeHex(string(col)); err == nil {
			return hex, true
		}
	}
	rgb, ok := colorful.MakeColor(c)
	if !ok {
		return "", false
	}
	return rgb.Hex(), true
}
