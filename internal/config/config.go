// Package config provides configuration types, defaults, and loading for the
// zircon console.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/zirconconsole/zircon/internal/log"
	"github.com/zirconconsole/zircon/internal/paths"
	"github.com/zirconconsole/zircon/internal/tracing"
	"github.com/zirconconsole/zircon/internal/ui/styles"
)

// Config holds all configuration options for zircon.
type Config struct {
	Console ConsoleConfig `mapstructure:"console"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	History HistoryConfig `mapstructure:"history"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Log     LogConfig     `mapstructure:"log"`

	// Flags toggles optional features by name (see internal/flags).
	Flags map[string]bool `mapstructure:"flags"`
}

// ConsoleConfig configures the console input.
type ConsoleConfig struct {
	MultiLine       bool     `mapstructure:"multi_line"`        // Enter inserts a newline instead of submitting
	AutoFocus       bool     `mapstructure:"auto_focus"`        // Input follows the console's focus state
	ClearOnFocus    bool     `mapstructure:"clear_on_focus"`    // Clear the input whenever it gains focus
	RefocusOnSubmit bool     `mapstructure:"refocus_on_submit"` // Keep focus after submitting
	CancelKeys      []string `mapstructure:"cancel_keys"`       // Keys that cancel input, e.g. "esc" or "ctrl+g"
	Placeholder     string   `mapstructure:"placeholder"`
	HistoryLimit    int      `mapstructure:"history_limit"` // Entries loaded for up/down traversal (0 = all)
	Group           string   `mapstructure:"group"`         // Permission group of the local user
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Colors overrides individual color tokens. Supports both nested YAML and
	// quoted dot notation:
	//   colors:
	//     syntax:
	//       keyword: "#FF79C6"
	//     "background.secondary": "#1E1F22"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns Colors flattened to dot-notation keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// Styles converts the section to the form the theme resolver takes.
func (t ThemeConfig) Styles() styles.ThemeConfig {
	return styles.ThemeConfig{Preset: t.Preset, Colors: t.FlattenedColors()}
}

func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			converted := make(map[string]any, len(val))
			for mk, mv := range val {
				if s, ok := mk.(string); ok {
					converted[s] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// HistoryConfig configures persistent command history.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // SQLite file (default ~/.config/zircon/history.db)
}

// TracingConfig configures command execution tracing.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"`  // "none", "file", "stdout" or "otlp"
	FilePath     string  `mapstructure:"file_path"` // Default ~/.config/zircon/traces/traces.jsonl
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// Provider converts the section to a tracing provider config.
func (t TracingConfig) Provider() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = t.Enabled
	if t.Exporter != "" {
		cfg.Exporter = t.Exporter
	}
	cfg.FilePath = t.FilePath
	if cfg.FilePath == "" {
		cfg.FilePath = DefaultTracesFilePath()
	}
	if t.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = t.OTLPEndpoint
	}
	if t.SampleRate > 0 {
		cfg.SampleRate = t.SampleRate
	}
	return cfg
}

// LogConfig configures the debug log.
type LogConfig struct {
	Path string `mapstructure:"path"` // Debug log file used with --debug (default debug.log)
}

// Dir returns the user config directory, ~/.config/zircon.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "zircon")
}

// DefaultHistoryPath returns ~/.config/zircon/history.db.
func DefaultHistoryPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

// DefaultTracesFilePath returns ~/.config/zircon/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Console: ConsoleConfig{
			MultiLine:       false,
			AutoFocus:       true,
			ClearOnFocus:    false,
			RefocusOnSubmit: true,
			CancelKeys:      []string{"esc"},
			Placeholder:     "Enter a command, or help",
			HistoryLimit:    500,
			Group:           "creator",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "stdout",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Log: LogConfig{
			Path: "debug.log",
		},
	}
}

// SetDefaults registers Defaults on v so keys missing from the file keep
// their default values.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	sep := "::"
	v.SetDefault("console"+sep+"multi_line", d.Console.MultiLine)
	v.SetDefault("console"+sep+"auto_focus", d.Console.AutoFocus)
	v.SetDefault("console"+sep+"clear_on_focus", d.Console.ClearOnFocus)
	v.SetDefault("console"+sep+"refocus_on_submit", d.Console.RefocusOnSubmit)
	v.SetDefault("console"+sep+"cancel_keys", d.Console.CancelKeys)
	v.SetDefault("console"+sep+"placeholder", d.Console.Placeholder)
	v.SetDefault("console"+sep+"history_limit", d.Console.HistoryLimit)
	v.SetDefault("console"+sep+"group", d.Console.Group)
	v.SetDefault("history"+sep+"enabled", d.History.Enabled)
	v.SetDefault("history"+sep+"path", d.History.Path)
	v.SetDefault("tracing"+sep+"enabled", d.Tracing.Enabled)
	v.SetDefault("tracing"+sep+"exporter", d.Tracing.Exporter)
	v.SetDefault("tracing"+sep+"otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing"+sep+"sample_rate", d.Tracing.SampleRate)
	v.SetDefault("log"+sep+"path", d.Log.Path)
}

// NewViper returns a viper instance using "::" as key delimiter, so dotted
// color tokens such as "syntax.keyword" stay single keys.
func NewViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	SetDefaults(v)
	return v
}

// Load reads the YAML file at path over the defaults and validates it.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Unmarshal(v)
}

// Unmarshal decodes v and validates the result.
func Unmarshal(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.History.Path = paths.Expand(cfg.History.Path)
	cfg.Tracing.FilePath = paths.Expand(cfg.Tracing.FilePath)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section and reports all problems together.
func Validate(c Config) error {
	var errs []error
	if err := ValidateConsole(c.Console); err != nil {
		errs = append(errs, err)
	}
	if _, err := styles.ApplyTheme(c.Theme.Styles()); err != nil {
		errs = append(errs, fmt.Errorf("theme: %w", err))
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, errors.New("history.path is required when history is enabled"))
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateConsole validates the console section.
func ValidateConsole(c ConsoleConfig) error {
	for i, k := range c.CancelKeys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("console.cancel_keys[%d] is empty", i)
		}
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("console.history_limit must be >= 0, got %d", c.HistoryLimit)
	}
	return nil
}

// ValidateTracing validates the tracing section.
func ValidateTracing(t TracingConfig) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	if t.Exporter != "" && !slices.Contains(tracing.Exporters, t.Exporter) {
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}
	if t.Enabled && t.Exporter == "otlp" && t.OTLPEndpoint == "" {
		return errors.New("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// DefaultConfigTemplate returns the commented config written on first run.
func DefaultConfigTemplate() string {
	return `# Zircon Configuration

console:
  multi_line: false          # Enter inserts a newline instead of submitting
  auto_focus: true           # Input follows the console's focus state
  clear_on_focus: false      # Clear the input whenever it gains focus
  refocus_on_submit: true    # Keep typing after submitting a command
  cancel_keys: [esc]         # Keys or chords that cancel input, e.g. ctrl+g
  placeholder: "Enter a command, or help"
  history_limit: 500         # Entries available to up/down (0 = all)
  group: creator             # Permission group of the local user

# Theme configuration
theme:
  # preset: dracula
  #
  # Available presets:
  #   default        - Default zircon theme
  #   dracula        - Dark theme with vibrant colors
  #   nord           - Arctic, north-bluish palette
  #   high-contrast  - High contrast, plain input text
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   background.secondary: "#1E1F22"
  #   syntax.keyword: "#FF79C6"

history:
  enabled: true
  # path: ~/.config/zircon/history.db

tracing:
  enabled: false
  exporter: stdout           # none, file, stdout, otlp
  # file_path: ~/.config/zircon/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0

log:
  path: debug.log            # Used with --debug

# Optional features
# flags:
#   live-logs: true          # Stream debug log entries into the console
#   trace-ids: true          # Show the trace id next to command errors
`
}

// WriteDefaultConfig writes DefaultConfigTemplate to configPath.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
