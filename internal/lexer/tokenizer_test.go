package lexer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/minipy-lang/minipy/internal/lexer"
	"github.com/minipy-lang/minipy/internal/token"
)

// lexAll tokenizes src written to a temp file and returns every token
// produced, including the trailing EOF.
func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.mpy")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tz, err := lexer.New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var toks []token.Token
	for {
		tok, err := tz.Current()
		if err != nil {
			t.Fatalf("tokenize %q: %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
		if err := tz.Advance(); err != nil {
			t.Fatalf("tokenize %q: %v", src, err)
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func assertKinds(t *testing.T, toks []token.Token, want []token.Kind) {
	t.Helper()
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i, k := range want {
		if got[i] != k {
			t.Errorf("token %d: expected %v, got %v", i, k, got[i])
		}
	}
}

func TestLexKeywords(t *testing.T) {
	toks := lexAll(t, "if elif else while def return")
	assertKinds(t, toks, []token.Kind{
		token.IF, token.ELIF, token.ELSE, token.WHILE, token.DEF, token.RETURN, token.EOF,
	})
}

func TestLexIdentifiers(t *testing.T) {
	toks := lexAll(t, "my_var foo123 _private")
	assertKinds(t, toks, []token.Kind{token.IDENT, token.IDENT, token.IDENT, token.EOF})
	for i, exp := range []string{"my_var", "foo123", "_private"} {
		if toks[i].Lit != exp {
			t.Errorf("token %d: expected literal %q, got %q", i, exp, toks[i].Lit)
		}
	}
}

func TestLexIntLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"42", 42},
		{"1000000", 1000000},
	}
	for _, tt := range tests {
		toks := lexAll(t, tt.input)
		if toks[0].Kind != token.INT {
			t.Errorf("Lex(%q): expected INT, got %v", tt.input, toks[0].Kind)
			continue
		}
		if toks[0].Int != tt.want {
			t.Errorf("Lex(%q): expected %d, got %d", tt.input, tt.want, toks[0].Int)
		}
	}
}

func TestLexLeadingZeroIsSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.mpy")
	if err := os.WriteFile(path, []byte("007"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	tz, err := lexer.New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := tz.Current(); err == nil {
		t.Fatalf("expected a SyntaxError for a leading-zero int literal, got nil")
	}
}

func TestLexFloatLiterals(t *testing.T) {
	toks := lexAll(t, "3.5 0.0")
	if toks[0].Kind != token.FLOAT || toks[0].Float != 3.5 {
		t.Errorf("expected FLOAT(3.5), got %v", toks[0])
	}
	if toks[1].Kind != token.FLOAT || toks[1].Float != 0.0 {
		t.Errorf("expected FLOAT(0.0), got %v", toks[1])
	}
}

func TestLexLeadingDotFloatLiteral(t *testing.T) {
	toks := lexAll(t, ".5")
	if toks[0].Kind != token.FLOAT || toks[0].Float != 0.5 {
		t.Errorf("expected FLOAT(0.5), got %v", toks[0])
	}
}

func TestLexBareDotIsDotToken(t *testing.T) {
	toks := lexAll(t, ". 5")
	assertKinds(t, toks, []token.Kind{token.DOT, token.INT, token.EOF})
}

func TestLexStringLiteral(t *testing.T) {
	toks := lexAll(t, `"hello\nworld"`)
	if toks[0].Kind != token.STRING {
		t.Fatalf("expected STRING, got %v", toks[0].Kind)
	}
	if toks[0].Lit != "hello\nworld" {
		t.Errorf("expected decoded literal %q, got %q", "hello\nworld", toks[0].Lit)
	}
}

func TestLexUnterminatedStringIsSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.mpy")
	if err := os.WriteFile(path, []byte("\"unterminated\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	tz, err := lexer.New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := tz.Current(); err == nil {
		t.Fatalf("expected a SyntaxError for an unterminated string, got nil")
	}
}

func TestLexOperators(t *testing.T) {
	toks := lexAll(t, "== != <= >= << >> = < > + - * / % ~ ^ & |")
	assertKinds(t, toks, []token.Kind{
		token.EQ, token.NEQ, token.LE, token.GE, token.LSHIFT, token.RSHIFT,
		token.ASSIGN, token.LT, token.GT, token.PLUS, token.MINUS, token.STAR,
		token.SLASH, token.PERCENT, token.TILDE, token.CARET, token.AMP, token.PIPE,
		token.EOF,
	})
}

func TestLexIndentAndDedent(t *testing.T) {
	src := "if True:\n    pass\nelse:\n    pass\n"
	toks := lexAll(t, src)
	assertKinds(t, toks, []token.Kind{
		token.IF, token.TRUE, token.COLON, token.NEWLINE,
		token.INDENT, token.PASS, token.NEWLINE,
		token.DEDENT, token.ELSE, token.COLON, token.NEWLINE,
		token.INDENT, token.PASS, token.NEWLINE,
		token.DEDENT, token.EOF,
	})
}

func TestLexCommentsAndBlankLinesAreSkipped(t *testing.T) {
	src := "x = 1 # a comment\n\n# another comment\ny = 2\n"
	toks := lexAll(t, src)
	assertKinds(t, toks, []token.Kind{
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF,
	})
}

func TestLexMismatchedDedentIsIndentationError(t *testing.T) {
	src := "if True:\n        pass\n    pass\n"
	dir := t.TempDir()
	path := filepath.Join(dir, "input.mpy")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	tz, err := lexer.New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var lastErr error
	for i := 0; i < 20; i++ {
		tok, err := tz.Current()
		if err != nil {
			lastErr = err
			break
		}
		if tok.Kind == token.EOF {
			break
		}
		if err := tz.Advance(); err != nil {
			lastErr = err
			break
		}
	}
	if lastErr == nil {
		t.Fatalf("expected an IndentationError for a mismatched dedent")
	}
}
