// Package styles holds the console's theme: a read-only palette resolved from a
// preset plus user overrides, handed to components on every render.
package styles

// ColorToken names a themeable color. These are the keys users override in
// the theme.colors section of the config.
type ColorToken string

const (
	TokenBackgroundPrimary   ColorToken = "background.primary"
	TokenBackgroundSecondary ColorToken = "background.secondary"

	TokenTextPrimary     ColorToken = "text.primary"
	TokenTextSecondary   ColorToken = "text.secondary"
	TokenTextPlaceholder ColorToken = "text.placeholder"
	TokenTextMuted       ColorToken = "text.muted"

	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	TokenLevelVerbose ColorToken = "level.verbose"
	TokenLevelDebug   ColorToken = "level.debug"
	TokenLevelInfo    ColorToken = "level.info"
	TokenLevelWarning ColorToken = "level.warning"
	TokenLevelError   ColorToken = "level.error"
	TokenLevelWtf     ColorToken = "level.wtf"

	TokenSelection ColorToken = "selection"

	// Syntax highlighter palette.
	TokenSyntaxKeyword     ColorToken = "syntax.keyword"
	TokenSyntaxFunction    ColorToken = "syntax.function"
	TokenSyntaxString      ColorToken = "syntax.string"
	TokenSyntaxNumber      ColorToken = "syntax.number"
	TokenSyntaxBoolean     ColorToken = "syntax.boolean"
	TokenSyntaxOperator    ColorToken = "syntax.operator"
	TokenSyntaxVariable    ColorToken = "syntax.variable"
	TokenSyntaxComment     ColorToken = "syntax.comment"
	TokenSyntaxPunctuation ColorToken = "syntax.punctuation"
	TokenSyntaxIllegal     ColorToken = "syntax.illegal"
)

// AllTokens returns every valid color token.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenBackgroundPrimary, TokenBackgroundSecondary,
		TokenTextPrimary, TokenTextSecondary, TokenTextPlaceholder, TokenTextMuted,
		TokenBorderDefault, TokenBorderFocus,
		TokenLevelVerbose, TokenLevelDebug, TokenLevelInfo, TokenLevelWarning, TokenLevelError, TokenLevelWtf,
		TokenSelection,
		TokenSyntaxKeyword, TokenSyntaxFunction, TokenSyntaxString, TokenSyntaxNumber,
		TokenSyntaxBoolean, TokenSyntaxOperator, TokenSyntaxVariable, TokenSyntaxComment,
		TokenSyntaxPunctuation, TokenSyntaxIllegal,
	}
}

// syntaxTokens are the tokens that make up SyntaxColors.
var syntaxTokens = []ColorToken{
	TokenSyntaxKeyword, TokenSyntaxFunction, TokenSyntaxString, TokenSyntaxNumber,
	TokenSyntaxBoolean, TokenSyntaxOperator, TokenSyntaxVariable, TokenSyntaxComment,
	TokenSyntaxPunctuation, TokenSyntaxIllegal,
}
