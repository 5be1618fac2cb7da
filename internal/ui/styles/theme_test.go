package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestApplyTheme_Default(t *testing.T) {
	theme, err := ApplyTheme(ThemeConfig{})
	require.NoError(t, err)
	require.Equal(t, "default", theme.Name)
	require.Equal(t, lipgloss.Color("#212227"), theme.SecondaryBackground)
	require.NotNil(t, theme.Syntax)
	require.Equal(t, "#56B6C2", theme.Syntax.Keyword)
}

func TestApplyTheme_PresetOverridesDefault(t *testing.T) {
	theme, err := ApplyTheme(ThemeConfig{Preset: "dracula"})
	require.NoError(t, err)
	require.Equal(t, "dracula", theme.Name)
	require.Equal(t, "#FF79C6", theme.Syntax.Keyword)
	// Tokens the preset leaves alone keep their default value.
	require.Equal(t, lipgloss.Color("#FF6B6B"), theme.LevelColor(TokenLevelError))
}

func TestApplyTheme_PresetWithoutSyntax(t *testing.T) {
	theme, err := ApplyTheme(ThemeConfig{Preset: "high-contrast"})
	require.NoError(t, err)
	require.Nil(t, theme.Syntax)
}

func TestApplyTheme_OverrideAddsSyntaxBack(t *testing.T) {
	theme, err := ApplyTheme(ThemeConfig{
		Preset: "high-contrast",
		Colors: map[string]string{"syntax.keyword": "#F0F"},
	})
	require.NoError(t, err)
	require.NotNil(t, theme.Syntax)
	require.Equal(t, "#ff00ff", theme.Syntax.Keyword)
}

func TestApplyTheme_Errors(t *testing.T) {
	_, err := ApplyTheme(ThemeConfig{Preset: "solarized"})
	require.ErrorContains(t, err, "unknown theme preset")

	_, err = ApplyTheme(ThemeConfig{Colors: map[string]string{"nope": "#FFFFFF"}})
	require.ErrorContains(t, err, "unknown color token")

	_, err = ApplyTheme(ThemeConfig{Colors: map[string]string{"text.primary": "red"}})
	require.ErrorContains(t, err, "invalid hex color")
}

func TestNormalizeHex(t *testing.T) {
	hex, err := NormalizeHex("#ABC")
	require.NoError(t, err)
	require.Equal(t, "#aabbcc", hex)

	hex, err = NormalizeHex("#10B981")
	require.NoError(t, err)
	require.Equal(t, "#10b981", hex)

	_, err = NormalizeHex("10B981")
	require.Error(t, err)
}

func TestBlend(t *testing.T) {
	require.Equal(t, "#000000", Blend("#000000", "#ffffff", 0))
	require.Equal(t, "#ffffff", Blend("#000000", "#ffffff", 1))
	require.Equal(t, "#ffffff", Blend("bogus", "#ffffff", 0.5))
}

func TestOverlayTextIsBetweenBackgroundAndText(t *testing.T) {
	theme := Default()
	require.NotEqual(t, theme.SecondaryBackground, theme.OverlayText)
	require.NotEqual(t, theme.PrimaryText, theme.OverlayText)
}

func TestToHex(t *testing.T) {
	hex, ok := ToHex(lipgloss.Color("#212227"))
	require.True(t, ok)
	require.Equal(t, "#212227", hex)

	hex, ok = ToHex(lipgloss.Color("#FFF"))
	require.True(t, ok)
	require.Equal(t, "#ffffff", hex)

	_, ok = ToHex(lipgloss.Color(""))
	require.False(t, ok)

	_, ok = ToHex(nil)
	require.False(t, ok)
}
