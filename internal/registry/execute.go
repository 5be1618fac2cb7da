package registry

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/zirconconsole/zircon/internal/log"
	"github.com/zirconconsole/zircon/internal/zr"
)

// call is one parsed statement.
type call struct {
	name string
	fn   Function
	args []any
}

// Execute parses source into calls and runs them in order. Statements are
// separated by newlines or semicolons and take the form name(a, b) or
// name a b; ns.fn resolves a namespace member. Every statement is parsed and
// validated before any handler runs. Outputs of calls that returned a value
// are collected even when a later call fails.
func (r *Registry) Execute(ctx context.Context, source string) ([]string, error) {
	calls, err := r.parse(source)
	if err != nil {
		return nil, err
	}

	var outputs []string
	for _, c := range calls {
		if err := ctx.Err(); err != nil {
			return outputs, err
		}
		log.Debug(log.CatRegistry, "executing", "function", c.name, "args", len(c.args))
		result, err := r.wrap(c.name, c.fn.Handler)(ctx, c.args)
		if err != nil {
			return outputs, fmt.Errorf("%s: %w", c.name, err)
		}
		if result != nil {
			outputs = append(outputs, FormatValue(result))
		}
	}
	return outputs, nil
}

func (r *Registry) wrap(name string, h Handler) Handler {
	for i := len(r.middleware) - 1; i >= 0; i-- {
		h = r.middleware[i](name, h)
	}
	return h
}

// FormatValue renders a handler result or argument for display.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "undefined"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

type parser struct {
	toks []zr.Token
	pos  int
	reg  *Registry
}

func (r *Registry) parse(source string) ([]call, error) {
	p := &parser{reg: r}
	for _, tok := range zr.Tokenize(source) {
		if tok.Type != zr.TokenComment {
			p.toks = append(p.toks, tok)
		}
	}

	var calls []call
	for {
		p.skipTerminators()
		if p.peek().Type == zr.TokenEOF {
			return calls, nil
		}
		c, err := p.statement()
		if err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}
}

func (p *parser) peek() zr.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return zr.Token{Type: zr.TokenEOF}
}

func (p *parser) next() zr.Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *parser) skipTerminators() {
	for {
		switch p.peek().Type {
		case zr.TokenNewline, zr.TokenSemicolon:
			p.pos++
		default:
			return
		}
	}
}

func atTerminator(t zr.TokenType) bool {
	return t == zr.TokenNewline || t == zr.TokenSemicolon || t == zr.TokenEOF
}

func (p *parser) statement() (call, error) {
	first := p.peek()
	switch {
	case first.Type.IsKeyword():
		return call{}, fmt.Errorf("%w: %q statements are not supported", ErrUnsupportedStatement, first.Literal)
	case first.Type == zr.TokenVariable:
		return call{}, fmt.Errorf("%w: variables are not supported", ErrUnsupportedStatement)
	case first.Type != zr.TokenIdent:
		return call{}, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, first.Literal, first.Start)
	}

	name := p.dottedName()
	fn, ok := p.reg.Function(name)
	if !ok {
		return call{}, &UnknownCommandError{Name: name, Suggestions: p.reg.Suggest(name, 3)}
	}

	var (
		args []any
		err  error
	)
	if p.peek().Type == zr.TokenLParen {
		args, err = p.parenArgs()
	} else {
		args, err = p.bareArgs()
	}
	if err != nil {
		return call{}, fmt.Errorf("%s: %w", name, err)
	}
	if !atTerminator(p.peek().Type) {
		tok := p.peek()
		return call{}, fmt.Errorf("%s: %w: unexpected %q at offset %d", name, ErrSyntax, tok.Literal, tok.Start)
	}
	if err := checkArgs(fn, args); err != nil {
		return call{}, fmt.Errorf("%s: %w", name, err)
	}
	return call{name: name, fn: fn, args: args}, nil
}

// dottedName consumes ident(.ident)*.
func (p *parser) dottedName() string {
	parts := []string{p.next().Literal}
	for p.peek().Type == zr.TokenDot && p.pos+1 < len(p.toks) && p.toks[p.pos+1].Type == zr.TokenIdent {
		p.pos++
		parts = append(parts, p.next().Literal)
	}
	return strings.Join(parts, ".")
}

func (p *parser) parenArgs() ([]any, error) {
	p.next() // (
	var args []any
	if p.peek().Type == zr.TokenRParen {
		p.next()
		return args, nil
	}
	for {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		args = append(args, v)

		switch tok := p.next(); tok.Type {
		case zr.TokenComma:
			continue
		case zr.TokenRParen:
			return args, nil
		case zr.TokenEOF, zr.TokenNewline:
			return nil, fmt.Errorf("%w: missing )", ErrSyntax)
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, tok.Literal, tok.Start)
		}
	}
}

func (p *parser) bareArgs() ([]any, error) {
	var args []any
	for !atTerminator(p.peek().Type) {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (p *parser) value() (any, error) {
	tok := p.next()
	switch tok.Type {
	case zr.TokenString:
		return unquote(tok.Literal)
	case zr.TokenNumber:
		return parseNumber(tok.Literal)
	case zr.TokenTrue:
		return true, nil
	case zr.TokenFalse:
		return false, nil
	case zr.TokenUndefined:
		return nil, nil
	case zr.TokenOperator:
		if tok.Literal == "-" && p.peek().Type == zr.TokenNumber {
			n, err := parseNumber(p.next().Literal)
			if err != nil {
				return nil, err
			}
			return -n, nil
		}
	case zr.TokenIdent:
		p.pos--
		name := p.dottedName()
		enumName, member, dotted := strings.Cut(name, ".")
		if !dotted {
			return name, nil
		}
		if e, ok := p.reg.Enum(enumName); ok {
			if !slices.Contains(e.Members, member) {
				return nil, fmt.Errorf("%w: %s is not a member of %s", ErrInvalidArgument, member, enumName)
			}
			return EnumItem{Enum: enumName, Name: member}, nil
		}
		return name, nil
	case zr.TokenVariable:
		return nil, fmt.Errorf("%w: variables are not supported", ErrUnsupportedStatement)
	case zr.TokenEOF:
		return nil, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
	}
	return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, tok.Literal, tok.Start)
}

func parseNumber(lit string) (float64, error) {
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, lit)
	}
	return n, nil
}

// unquote decodes a string literal including its quotes.
func unquote(lit string) (string, error) {
	quote := lit[0]
	var b strings.Builder
	for i := 1; i < len(lit); i++ {
		c := lit[i]
		switch {
		case c == '\\' && i+1 < len(lit):
			i++
			switch e := lit[i]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"', '$':
				b.WriteByte(e)
			default:
				b.WriteByte('\\')
				b.WriteByte(e)
			}
		case c == quote && i == len(lit)-1:
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
	return "", fmt.Errorf("%w: unterminated string", ErrSyntax)
}

func checkArgs(fn Function, args []any) error {
	required := 0
	for _, p := range fn.Params {
		if !p.Optional {
			required++
		}
	}
	if len(args) < required {
		return fmt.Errorf("%w: expected at least %d argument(s), got %d", ErrInvalidArgument, required, len(args))
	}
	if !fn.Variadic && len(args) > len(fn.Params) {
		return fmt.Errorf("%w: expected at most %d argument(s), got %d", ErrInvalidArgument, len(fn.Params), len(args))
	}
	for i, arg := range args {
		p := fn.Params[min(i, len(fn.Params)-1)]
		if arg == nil && p.Optional {
			continue
		}
		if !p.Accepts(arg) {
			return fmt.Errorf("%w: %s must be a %s, got %s", ErrInvalidArgument, p.Name, p.TypeName(), FormatValue(arg))
		}
	}
	return nil
}
