package zr

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zirconconsole/zircon/internal/log"
	"github.com/zirconconsole/zircon/internal/ui/styles"
)

// Highlighter turns source text into terminal rich text.
// Implementations must tolerate arbitrary, partial or invalid input.
type Highlighter interface {
	Highlight(source string, colors *styles.SyntaxColors) string
}

// HighlighterFunc adapts a function to the Highlighter interface.
type HighlighterFunc func(source string, colors *styles.SyntaxColors) string

// Highlight implements Highlighter.
func (f HighlighterFunc) Highlight(source string, colors *styles.SyntaxColors) string {
	return f(source, colors)
}

// RichText is the default Zirconium highlighter.
var RichText Highlighter = HighlighterFunc(Highlight)

// DefaultColors is used when the theme supplies no syntax palette.
var DefaultColors = styles.SyntaxColors{
	Keyword:     "#56B6C2",
	Function:    "#E0E0E0",
	String:      "#ADF195",
	Number:      "#FFC600",
	Boolean:     "#FFC600",
	Operator:    "#DD77FF",
	Variable:    "#B57EDC",
	Comment:     "#666666",
	Punctuation: "#C6CCD7",
	Illegal:     "#FF6B6B",
}

// Highlight colors source token by token. Text between tokens is copied
// verbatim, so stripping the escape codes from the result gives back source.
// A nil palette uses DefaultColors.
func Highlight(source string, colors *styles.SyntaxColors) string {
	if source == "" {
		return ""
	}
	if colors == nil {
		colors = &DefaultColors
	}

	var out strings.Builder
	lexer := NewLexer(source)
	lastPos := 0
	statementStart := true
	// afterCommand and chained let a dotted name such as ns.fn read as one
	// command name.
	afterCommand, chained := false, false

	for {
		tok := lexer.NextToken()
		if tok.Type == TokenEOF {
			break
		}
		if tok.Start > lastPos {
			out.WriteString(source[lastPos:tok.Start])
		}

		isCommand := tok.Type == TokenIdent && (statementStart || chained || isCallee(source, tok))
		switch {
		case isCommand:
			out.WriteString(paint(colors.Function, tok.Literal))
		case tok.Type == TokenString:
			out.WriteString(highlightString(tok.Literal, colors))
		default:
			out.WriteString(paint(colorFor(tok.Type, colors), tok.Literal))
		}
		lastPos = tok.End

		switch {
		case tok.Type.endsStatement() || (tok.Type == TokenOperator && tok.Literal == "|"):
			statementStart, afterCommand, chained = true, false, false
		case tok.Type == TokenComment:
		case isCommand:
			statementStart, afterCommand, chained = false, true, false
		case tok.Type == TokenDot && afterCommand:
			statementStart, afterCommand, chained = false, false, true
		default:
			statementStart, afterCommand, chained = false, false, false
		}
	}

	if lastPos < len(source) {
		out.WriteString(source[lastPos:])
	}
	return out.String()
}

// isCallee reports whether an identifier is directly followed by "(".
func isCallee(source string, tok Token) bool {
	rest := strings.TrimLeft(source[tok.End:], " ")
	return strings.HasPrefix(rest, "(")
}

// highlightString colors a string literal and, inside double quotes, each
// $variable interpolation.
func highlightString(lit string, colors *styles.SyntaxColors) string {
	if !strings.HasPrefix(lit, `"`) || !strings.Contains(lit, "$") {
		return paint(colors.String, lit)
	}

	var out strings.Builder
	inner := NewLexer(lit)
	segStart := 0
	for i := 0; i < len(lit); i++ {
		if lit[i] != '$' || (i > 0 && lit[i-1] == '\\') {
			continue
		}
		inner.pos = i
		tok := inner.NextToken()
		if tok.Type != TokenVariable || tok.Start != i {
			continue
		}
		out.WriteString(paint(colors.String, lit[segStart:i]))
		out.WriteString(paint(colors.Variable, tok.Literal))
		segStart = tok.End
		i = tok.End - 1
	}
	out.WriteString(paint(colors.String, lit[segStart:]))
	return out.String()
}

func colorFor(t TokenType, colors *styles.SyntaxColors) string {
	switch {
	case t.IsKeyword():
		return colors.Keyword
	case t == TokenTrue || t == TokenFalse || t == TokenUndefined:
		return colors.Boolean
	}
	switch t {
	case TokenNumber:
		return colors.Number
	case TokenVariable:
		return colors.Variable
	case TokenComment:
		return colors.Comment
	case TokenOperator:
		return colors.Operator
	case TokenIllegal:
		return colors.Illegal
	case TokenLParen, TokenRParen, TokenLBrace, TokenRBrace, TokenLBracket,
		TokenRBracket, TokenComma, TokenDot, TokenSemicolon:
		return colors.Punctuation
	}
	return ""
}

// paint renders text in hex. An empty color or text is returned unchanged.
func paint(hex, text string) string {
	if hex == "" || text == "" || text == "\n" {
		return text
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex)).
		TabWidth(lipgloss.NoTabConversion).
		Render(text)
}

// Guard wraps h so that a panic or output that does not reproduce the source
// falls back to the plain source text.
func Guard(h Highlighter) Highlighter {
	return HighlighterFunc(func(source string, colors *styles.SyntaxColors) (out string) {
		defer func() {
			if r := recover(); r != nil {
				log.Warn(log.CatHighlight, "highlighter panicked, using plain text", "panic", fmt.Sprint(r))
				out = source
			}
		}()
		out = h.Highlight(source, colors)
		if ansi.Strip(out) != source {
			log.Warn(log.CatHighlight, "highlighter output does not match source, using plain text",
				"source_len", len(source))
			return source
		}
		return out
	})
}
