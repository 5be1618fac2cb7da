package styles

// Preset is a named base palette.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains the built-in presets by name.
var Presets = map[string]Preset{
	"default":       DefaultPreset,
	"dracula":       DraculaPreset,
	"nord":          NordPreset,
	"high-contrast": HighContrastPreset,
}

// DefaultPreset matches the console's stock dark palette.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default Zircon theme",
	Colors: map[ColorToken]string{
		TokenBackgroundPrimary:   "#18191C",
		TokenBackgroundSecondary: "#212227",
		TokenTextPrimary:         "#C6CCD7",
		TokenTextSecondary:       "#8C8F96",
		TokenTextPlaceholder:     "#5C5F66",
		TokenTextMuted:           "#696969",
		TokenBorderDefault:       "#3A3B40",
		TokenBorderFocus:         "#54A0FF",
		TokenLevelVerbose:        "#5C5F66",
		TokenLevelDebug:          "#8C8F96",
		TokenLevelInfo:           "#54A0FF",
		TokenLevelWarning:        "#FECA57",
		TokenLevelError:          "#FF6B6B",
		TokenLevelWtf:            "#D46BFF",
		TokenSelection:           "#2E3A4F",
		TokenSyntaxKeyword:       "#56B6C2",
		TokenSyntaxFunction:      "#E0E0E0",
		TokenSyntaxString:        "#ADF195",
		TokenSyntaxNumber:        "#FFC600",
		TokenSyntaxBoolean:       "#FFC600",
		TokenSyntaxOperator:      "#DD77FF",
		TokenSyntaxVariable:      "#B57EDC",
		TokenSyntaxComment:       "#666666",
		TokenSyntaxPunctuation:   "#C6CCD7",
		TokenSyntaxIllegal:       "#FF6B6B",
	},
}

// DraculaPreset overrides the default with the Dracula palette.
var DraculaPreset = Preset{
	Name:        "dracula",
	Description: "Dracula",
	Colors: map[ColorToken]string{
		TokenBackgroundPrimary:   "#282A36",
		TokenBackgroundSecondary: "#343746",
		TokenTextPrimary:         "#F8F8F2",
		TokenTextSecondary:       "#BFBFBF",
		TokenTextPlaceholder:     "#6272A4",
		TokenSelection:           "#44475A",
		TokenSyntaxKeyword:       "#FF79C6",
		TokenSyntaxFunction:      "#50FA7B",
		TokenSyntaxString:        "#F1FA8C",
		TokenSyntaxNumber:        "#BD93F9",
		TokenSyntaxBoolean:       "#BD93F9",
		TokenSyntaxOperator:      "#FF79C6",
		TokenSyntaxVariable:      "#8BE9FD",
		TokenSyntaxComment:       "#6272A4",
	},
}

// NordPreset overrides the default with the Nord palette.
var NordPreset = Preset{
	Name:        "nord",
	Description: "Nord",
	Colors: map[ColorToken]string{
		TokenBackgroundPrimary:   "#2E3440",
		TokenBackgroundSecondary: "#3B4252",
		TokenTextPrimary:         "#ECEFF4",
		TokenTextSecondary:       "#D8DEE9",
		TokenTextPlaceholder:     "#4C566A",
		TokenSelection:           "#434C5E",
		TokenSyntaxKeyword:       "#81A1C1",
		TokenSyntaxFunction:      "#88C0D0",
		TokenSyntaxString:        "#A3BE8C",
		TokenSyntaxNumber:        "#B48EAD",
		TokenSyntaxBoolean:       "#81A1C1",
		TokenSyntaxOperator:      "#81A1C1",
		TokenSyntaxVariable:      "#D8DEE9",
		TokenSyntaxComment:       "#616E88",
	},
}

// HighContrastPreset drops syntax colors entirely; the highlighter falls back
// to its own defaults.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast, no syntax palette",
	Colors: map[ColorToken]string{
		TokenBackgroundPrimary:   "#000000",
		TokenBackgroundSecondary: "#000000",
		TokenTextPrimary:         "#FFFFFF",
		TokenTextSecondary:       "#FFFFFF",
		TokenTextPlaceholder:     "#AAAAAA",
		TokenSelection:           "#FFFFFF",
	},
}
