package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/zirconconsole/zircon/internal/registry"
	"github.com/zirconconsole/zircon/internal/ui/styles"
	"github.com/zirconconsole/zircon/internal/zr"
)

const (
	promptGlyph = "›"
	timeLayout  = "15:04:05"
)

// renderOptions control how messages are drawn.
type renderOptions struct {
	width    int
	traceIDs bool
	// highlighter colors executed sources; nil uses zr.RichText.
	highlighter zr.Highlighter
}

// levelToken maps a level to its theme color token.
func levelToken(l Level) styles.ColorToken {
	switch l {
	case LevelVerbose:
		return styles.TokenLevelVerbose
	case LevelDebug:
		return styles.TokenLevelDebug
	case LevelWarning:
		return styles.TokenLevelWarning
	case LevelError:
		return styles.TokenLevelError
	case LevelWtf:
		return styles.TokenLevelWtf
	default:
		return styles.TokenLevelInfo
	}
}

// RenderMessage draws m wrapped to width.
func RenderMessage(m Message, theme styles.Theme, width int) string {
	return renderMessage(m, theme, renderOptions{width: width})
}

func renderMessage(m Message, theme styles.Theme, opts renderOptions) string {
	muted := lipgloss.NewStyle().Foreground(theme.MutedText)
	text := lipgloss.NewStyle().Foreground(theme.PrimaryText)
	errStyle := lipgloss.NewStyle().Foreground(theme.LevelColor(styles.TokenLevelError))

	var out string
	switch m.Type {
	case TypeExecution:
		h := opts.highlighter
		if h == nil {
			h = zr.RichText
		}
		lines := strings.Split(h.Highlight(m.Text, theme.Syntax), "\n")
		for i := range lines {
			if i == 0 {
				lines[i] = muted.Render(promptGlyph) + " " + lines[i]
			} else {
				lines[i] = "  " + lines[i]
			}
		}
		out = strings.Join(lines, "\n")

	case TypeOutput:
		out = text.Render(m.Text)

	case TypeError:
		out = errStyle.Render(m.Text)
		if opts.traceIDs && m.TraceID != "" {
			out += " " + muted.Render("trace="+m.TraceID)
		}

	case TypeScriptError:
		lines := []string{errStyle.Render(m.Text)}
		for _, frame := range m.StackTrace {
			lines = append(lines, muted.Render("  at "+frame))
		}
		out = strings.Join(lines, "\n")

	case TypeLogOutput, TypeStructuredLog, TypeStructuredError:
		out = renderLog(m, theme)

	default:
		out = m.Text
	}

	if IsContextMessage(m) && m.Context == ContextServer {
		out = muted.Render("[server]") + " " + out
	}
	return wrapText(out, opts.width)
}

func renderLog(m Message, theme styles.Theme) string {
	muted := lipgloss.NewStyle().Foreground(theme.MutedText)
	level := LogLevelOf(m)
	levelStyle := lipgloss.NewStyle().Foreground(theme.LevelColor(levelToken(level))).Bold(level >= LevelError)

	var b strings.Builder
	if !m.Time.IsZero() {
		b.WriteString(muted.Render(m.Time.Format(timeLayout)))
		b.WriteString(" ")
	}
	b.WriteString(levelStyle.Render(fmt.Sprintf("%-5s", level)))
	if m.Log != nil && m.Log.Tag != "" {
		b.WriteString(" ")
		b.WriteString(muted.Render("[" + m.Log.Tag + "]"))
	}
	b.WriteString(" ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.PrimaryText).Render(MessageText(m)))

	if m.Log != nil {
		if fields := formatFields(m.Log.Fields); fields != "" {
			b.WriteString(" ")
			b.WriteString(muted.Render(fields))
		}
	}
	return b.String()
}

// formatFields renders key/value pairs as "k=v k=v".
func formatFields(fields []any) string {
	parts := make([]string, 0, len(fields)/2+1)
	for i := 0; i+1 < len(fields); i += 2 {
		parts = append(parts, fmt.Sprintf("%v=%s", fields[i], registry.FormatValue(fields[i+1])))
	}
	if len(fields)%2 != 0 {
		parts = append(parts, fmt.Sprintf("%v=<missing>", fields[len(fields)-1]))
	}
	return strings.Join(parts, " ")
}

// wrapText word wraps s to width, breaking words longer than a line.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}
