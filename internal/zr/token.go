// Package zr tokenizes and highlights Zirconium, the console's command
// language. The tokenizer never fails: bytes it does not understand become
// TokenIllegal so that partial input can still be highlighted.
package zr

import "strings"

// TokenType represents the type of lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenIdent     // print, player, ns
	TokenVariable  // $name
	TokenString    // "text" or 'text'
	TokenNumber    // 10, 2.5
	TokenComment   // # to end of line
	TokenNewline   // \n
	TokenSemicolon // ;

	// Punctuation
	TokenLParen   // (
	TokenRParen   // )
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]
	TokenComma    // ,
	TokenDot      // .

	TokenOperator // = == != < > <= >= && || ! + - * / % | :

	// Keywords
	TokenIf
	TokenElse
	TokenFor
	TokenIn
	TokenFunction
	TokenLet
	TokenConst
	TokenExport
	TokenReturn
	TokenBreak
	TokenContinue

	// Literal keywords
	TokenTrue
	TokenFalse
	TokenUndefined
)

// String returns the string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenIdent:
		return "IDENT"
	case TokenVariable:
		return "VARIABLE"
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenComment:
		return "COMMENT"
	case TokenNewline:
		return "NEWLINE"
	case TokenSemicolon:
		return ";"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenComma:
		return ","
	case TokenDot:
		return "."
	case TokenOperator:
		return "OPERATOR"
	case TokenTrue:
		return "TRUE"
	case TokenFalse:
		return "FALSE"
	case TokenUndefined:
		return "UNDEFINED"
	}
	if t.IsKeyword() {
		for word, tt := range keywords {
			if tt == t {
				return strings.ToUpper(word)
			}
		}
	}
	return "UNKNOWN"
}

// Token is a lexical token. Source[Start:End] == Literal.
type Token struct {
	Type    TokenType
	Literal string
	Start   int
	End     int
}

var keywords = map[string]TokenType{
	"if":        TokenIf,
	"else":      TokenElse,
	"for":       TokenFor,
	"in":        TokenIn,
	"function":  TokenFunction,
	"let":       TokenLet,
	"const":     TokenConst,
	"export":    TokenExport,
	"return":    TokenReturn,
	"break":     TokenBreak,
	"continue":  TokenContinue,
	"true":      TokenTrue,
	"false":     TokenFalse,
	"undefined": TokenUndefined,
}

// LookupKeyword returns the keyword token type for ident, or TokenIdent.
// Keywords are case-sensitive.
func LookupKeyword(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

// IsKeyword reports whether t is a control keyword (not a literal keyword).
func (t TokenType) IsKeyword() bool {
	return t >= TokenIf && t <= TokenContinue
}

// IsLiteral reports whether t is a value literal.
func (t TokenType) IsLiteral() bool {
	switch t {
	case TokenString, TokenNumber, TokenTrue, TokenFalse, TokenUndefined:
		return true
	}
	return false
}

// endsStatement reports whether t starts a fresh statement after it.
func (t TokenType) endsStatement() bool {
	switch t {
	case TokenEOF, TokenNewline, TokenSemicolon, TokenLBrace, TokenRBrace:
		return true
	}
	return false
}
