package console

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     []any
		want     string
	}{
		{"no holes", "plain text", nil, "plain text"},
		{"named in order", "{User} joined {Place}", []any{"ada", "lobby"}, "ada joined lobby"},
		{"numbered", "{1} before {0}", []any{"a", "b"}, "b before a"},
		{"at prefix", "{@Player} scored", []any{"ada"}, "ada scored"},
		{"numbers", "took {Ms}ms", []any{12.5}, "took 12.5ms"},
		{"missing var", "{A} and {B}", []any{"x"}, "x and {B}"},
		{"escaped braces", "{{literal}} {A}", []any{1.0}, "{literal} 1"},
		{"unterminated", "open {brace", []any{"x"}, "open {brace"},
		{"not a name", "{a b}", []any{"x"}, "{a b}"},
		{"nil var", "{A}", []any{nil}, "undefined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Format(tt.template, tt.vars))
		})
	}
}

func TestEscapeTemplate_RoundTripsThroughFormat(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		require.Equal(t, text, Format(EscapeTemplate(text), []any{"x", "y"}))
	})
}
