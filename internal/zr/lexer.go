package zr

import (
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes Zirconium input.
type Lexer struct {
	input string
	pos   int // offset of the next unread byte
}

// NewLexer creates a new lexer for the input string.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize returns every token of input, without the trailing EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// NextToken returns the next token, skipping spaces, tabs and carriage returns.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start := l.pos
	if start >= len(l.input) {
		return Token{Type: TokenEOF, Start: start, End: start}
	}

	ch := l.input[start]
	switch {
	case ch == '\n':
		l.pos++
		return l.token(TokenNewline, start)
	case ch == '#':
		for l.pos < len(l.input) && l.input[l.pos] != '\n' {
			l.pos++
		}
		return l.token(TokenComment, start)
	case ch == '"' || ch == '\'':
		l.readString(ch)
		return l.token(TokenString, start)
	case ch == '$':
		l.pos++
		if l.pos < len(l.input) && isIdentStart(l.peekRune()) {
			l.readIdentifier()
			return l.token(TokenVariable, start)
		}
		return l.token(TokenIllegal, start)
	case isDigit(ch):
		l.readNumber()
		return l.token(TokenNumber, start)
	}

	if tt, n := punctuation(l.input[start:]); n > 0 {
		l.pos += n
		return l.token(tt, start)
	}

	r := l.peekRune()
	if isIdentStart(r) {
		l.readIdentifier()
		tok := l.token(TokenIdent, start)
		tok.Type = LookupKeyword(tok.Literal)
		return tok
	}

	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	return l.token(TokenIllegal, start)
}

func (l *Lexer) token(tt TokenType, start int) Token {
	return Token{Type: tt, Literal: l.input[start:l.pos], Start: start, End: l.pos}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// readString consumes a quoted string starting at the opening quote. An
// unterminated string ends at the next newline or at end of input.
func (l *Lexer) readString(quote byte) {
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '\\':
			l.pos += 2
			if l.pos > len(l.input) {
				l.pos = len(l.input)
			}
			continue
		case '\n':
			return
		case quote:
			l.pos++
			return
		}
		l.pos++
	}
}

func (l *Lexer) readNumber() {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos+1 < len(l.input) && l.input[l.pos] == '.' && isDigit(l.input[l.pos+1]) {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
}

func (l *Lexer) readIdentifier() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isIdentPart(r) {
			return
		}
		l.pos += size
	}
}

// operators are matched longest first.
var operators = []string{"==", "!=", "<=", ">=", "&&", "||", "=", "<", ">", "!", "+", "-", "*", "/", "%", "|", ":"}

func punctuation(s string) (TokenType, int) {
	switch s[0] {
	case '(':
		return TokenLParen, 1
	case ')':
		return TokenRParen, 1
	case '{':
		return TokenLBrace, 1
	case '}':
		return TokenRBrace, 1
	case '[':
		return TokenLBracket, 1
	case ']':
		return TokenRBracket, 1
	case ',':
		return TokenComma, 1
	case '.':
		return TokenDot, 1
	case ';':
		return TokenSemicolon, 1
	}
	for _, op := range operators {
		if len(s) >= len(op) && s[:len(op)] == op {
			return TokenOperator, len(op)
		}
	}
	return TokenIllegal, 0
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
