package token_test

import (
	"testing"

	"github.com/minipy-lang/minipy/internal/token"
)

func TestTokenPos(t *testing.T) {
	tok := token.Token{Kind: token.IDENT, Lit: "test", At: token.Position{Line: 5, Col: 10}}

	pos := tok.Pos()
	if pos.Line != 5 {
		t.Errorf("Expected line 5, got %d", pos.Line)
	}
	if pos.Col != 10 {
		t.Errorf("Expected col 10, got %d", pos.Col)
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok      token.Token
		expected string
	}{
		{token.Token{Kind: token.EOF}, "EOF"},
		{token.Token{Kind: token.NEWLINE}, "NEWLINE"},
		{token.Token{Kind: token.IDENT, Lit: "x"}, "IDENT(x)"},
		{token.Token{Kind: token.INT, Int: 42}, "INT(42)"},
		{token.Token{Kind: token.FLOAT, Float: 3.5}, "FLOAT(3.5)"},
		{token.Token{Kind: token.STRING, Lit: "hi"}, `STRING("hi")`},
		{token.Token{Kind: token.IF}, "if"},
		{token.Token{Kind: token.PLUS}, "+"},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.expected {
			t.Errorf("Token{%v}.String() = %q, want %q", tt.tok.Kind, got, tt.expected)
		}
	}
}

func TestKeywordsTable(t *testing.T) {
	for lit, kind := range token.Keywords {
		if kind.String() != lit {
			t.Errorf("Keywords[%q] = %v, whose String() is %q", lit, kind, kind.String())
		}
	}
}
