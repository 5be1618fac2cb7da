// Package markdown renders markdown for the console scrollback.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"

	"github.com/zirconconsole/zircon/internal/ui/styles"
)

// Renderer renders markdown at a fixed wrap width in a theme's colors.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	theme    string
}

// New creates a renderer wrapping at width.
func New(width int, theme styles.Theme) (*Renderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styleConfig(theme)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width, theme: theme.Name}, nil
}

// styleConfig starts from glamour's dark style, drops the document margins so
// output lines up with the rest of the scrollback, and takes text, heading
// and code colors from the theme.
func styleConfig(theme styles.Theme) ansi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	var zero uint
	cfg.Document.Margin = &zero
	cfg.Document.BlockPrefix = ""
	cfg.Document.BlockSuffix = ""
	cfg.Document.Color = colorRef(theme.PrimaryText)

	cfg.Heading.Color = colorRef(theme.FocusBorder)
	cfg.H1.Color = colorRef(theme.FocusBorder)
	cfg.H1.BackgroundColor = nil

	cfg.Code.Color = colorRef(theme.SecondaryText)
	if theme.Syntax != nil && theme.Syntax.Function != "" {
		fn := theme.Syntax.Function
		cfg.Code.Color = &fn
	}
	cfg.Code.BackgroundColor = nil
	return cfg
}

func colorRef[C ~string](c C) *string {
	if c == "" {
		return nil
	}
	s := string(c)
	return &s
}

// Matches reports whether the renderer was built for width and theme name.
func (r *Renderer) Matches(width int, theme string) bool {
	return r.width == width && r.theme == theme
}

// Width returns the wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render renders markdown with surrounding blank lines trimmed.
func (r *Renderer) Render(markdown string) (string, error) {
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
