package zr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenize_Command(t *testing.T) {
	tokens := Tokenize(`print "hello" $name 42`)
	require.Equal(t, []TokenType{TokenIdent, TokenString, TokenVariable, TokenNumber}, types(tokens))
	require.Equal(t, `"hello"`, tokens[1].Literal)
	require.Equal(t, "$name", tokens[2].Literal)
}

func TestTokenize_KeywordsAndLiterals(t *testing.T) {
	tokens := Tokenize("if true { let x = undefined } else { return false }")
	require.Equal(t, []TokenType{
		TokenIf, TokenTrue, TokenLBrace, TokenLet, TokenIdent, TokenOperator, TokenUndefined, TokenRBrace,
		TokenElse, TokenLBrace, TokenReturn, TokenFalse, TokenRBrace,
	}, types(tokens))
}

func TestTokenize_Operators(t *testing.T) {
	tokens := Tokenize("a == b != c <= d >= e && f || !g")
	var ops []string
	for _, tok := range tokens {
		if tok.Type == TokenOperator {
			ops = append(ops, tok.Literal)
		}
	}
	require.Equal(t, []string{"==", "!=", "<=", ">=", "&&", "||", "!"}, ops)
}

func TestTokenize_CommentAndNewline(t *testing.T) {
	tokens := Tokenize("kick # bye\nban")
	require.Equal(t, []TokenType{TokenIdent, TokenComment, TokenNewline, TokenIdent}, types(tokens))
	require.Equal(t, "# bye", tokens[1].Literal)
}

func TestTokenize_Numbers(t *testing.T) {
	tokens := Tokenize("1 2.5 3.")
	require.Equal(t, []string{"1", "2.5", "3", "."}, []string{tokens[0].Literal, tokens[1].Literal, tokens[2].Literal, tokens[3].Literal})
}

func TestTokenize_UnterminatedString(t *testing.T) {
	tokens := Tokenize(`print "oops`)
	require.Len(t, tokens, 2)
	require.Equal(t, TokenString, tokens[1].Type)
	require.Equal(t, `"oops`, tokens[1].Literal)
}

func TestTokenize_StringEndsAtNewline(t *testing.T) {
	tokens := Tokenize("print 'a\nb")
	require.Equal(t, []TokenType{TokenIdent, TokenString, TokenNewline, TokenIdent}, types(tokens))
}

func TestTokenize_EscapedQuote(t *testing.T) {
	tokens := Tokenize(`"a\"b" c`)
	require.Equal(t, `"a\"b"`, tokens[0].Literal)
	require.Equal(t, "c", tokens[1].Literal)
}

func TestTokenize_TrailingBackslash(t *testing.T) {
	tokens := Tokenize(`"abc\`)
	require.Len(t, tokens, 1)
	require.Equal(t, `"abc\`, tokens[0].Literal)
}

func TestTokenize_IllegalAndUnicode(t *testing.T) {
	tokens := Tokenize("héllo @ $ 日本")
	require.Equal(t, []TokenType{TokenIdent, TokenIllegal, TokenIllegal, TokenIdent}, types(tokens))
	require.Equal(t, "héllo", tokens[0].Literal)
	require.Equal(t, "日本", tokens[3].Literal)
}

func TestTokenize_DottedName(t *testing.T) {
	tokens := Tokenize("server.kick")
	require.Equal(t, []TokenType{TokenIdent, TokenDot, TokenIdent}, types(tokens))
}

func TestTokenType_String(t *testing.T) {
	require.Equal(t, "IDENT", TokenIdent.String())
	require.Equal(t, "FUNCTION", TokenFunction.String())
	require.Equal(t, "(", TokenLParen.String())
}

// Tokens must tile the source: every byte is covered by a token or skipped
// whitespace, and token offsets agree with their literals.
func TestTokenize_OffsetsCoverSource(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rapid.String().Draw(rt, "src")
		pos := 0
		for _, tok := range Tokenize(src) {
			require.Equal(rt, src[tok.Start:tok.End], tok.Literal)
			require.GreaterOrEqual(rt, tok.Start, pos)
			require.Empty(rt, strings.Trim(src[pos:tok.Start], " \t\r"))
			require.Greater(rt, tok.End, tok.Start)
			pos = tok.End
		}
		require.Empty(rt, strings.Trim(src[pos:], " \t\r"))
	})
}
