// Package lexer converts a CharStream into a pull-style stream of tokens,
// handling whitespace/comments and emitting synthetic INDENT/DEDENT/NEWLINE
// tokens per spec §4.2.
//
// Grounded on original_source/src/tokenizer.rs's indent-stack algorithm,
// restructured around a Current/Advance pull interface over the CharStream
// and the teacher (rust2go internal/lexer.lexer)'s table-driven keyword
// lookup.
package lexer

import (
	"strconv"
	"strings"

	"github.com/minipy-lang/minipy/internal/source"
	"github.com/minipy-lang/minipy/internal/token"
)

// Tokenizer is a pull-style iterator: Advance moves to the next token,
// Current returns the one last produced. The first token is produced
// lazily on the first Advance/Current call; EOF, once reached, is
// idempotent.
type Tokenizer struct {
	cs *source.CharStream

	indentStack  []int
	leadingSpace int

	current token.Token
	started bool
}

// New creates a tokenizer reading fileName, positioning the underlying
// CharStream at the first byte.
func New(fileName string) (*Tokenizer, error) {
	cs, err := source.NewCharStream(fileName)
	if err != nil {
		return nil, err
	}
	cs.Advance()
	return &Tokenizer{cs: cs, indentStack: []int{0}, current: token.Token{Kind: token.EMPTY}}, nil
}

// Current returns the most recently produced token, lazily producing the
// first one on the initial call.
func (t *Tokenizer) Current() (token.Token, error) {
	if !t.started {
		if err := t.Advance(); err != nil {
			return token.Token{}, err
		}
	}
	return t.current, nil
}

// Advance produces the next token and stores it as Current. Once EOF has
// been produced, further calls keep returning EOF.
func (t *Tokenizer) Advance() error {
	t.started = true
	if t.current.Kind == token.EOF {
		return nil
	}
	tok, err := t.next()
	if err != nil {
		return err
	}
	t.current = tok
	return nil
}

func (t *Tokenizer) fail(kind source.Kind, format string, args ...any) error {
	return source.New(kind, t.cs.FileName(), t.cs.Line(), t.cs.Col(), t.cs.LineText(), format, args...)
}

// next implements spec §4.2: skip whitespace/comments, resolve
// INDENT/DEDENT against the indent stack, then recognize a content token.
func (t *Tokenizer) next() (token.Token, error) {
	if err := t.skipSpaceAndComments(); err != nil {
		return token.Token{}, err
	}

	top := t.indentStack[len(t.indentStack)-1]
	switch {
	case t.leadingSpace > top:
		t.indentStack = append(t.indentStack, t.leadingSpace)
		return token.Token{Kind: token.INDENT, At: t.cs.Pos()}, nil
	case t.leadingSpace < top:
		t.indentStack = t.indentStack[:len(t.indentStack)-1]
		newTop := t.indentStack[len(t.indentStack)-1]
		if t.leadingSpace > newTop {
			return token.Token{}, t.fail(source.IndentationError, "unindent does not match any outer indentation level")
		}
		return token.Token{Kind: token.DEDENT, At: t.cs.Pos()}, nil
	}

	return t.scanContentToken()
}

// skipSpaceAndComments implements the `space` production from spec §4.2:
// spaces and `#`-comments are consumed; leading spaces on a fresh line are
// counted into leadingSpace; a line containing only spaces/a comment is
// skipped entirely and its count reset.
func (t *Tokenizer) skipSpaceAndComments() error {
	inLeadingSpace := t.cs.Col() <= 1
	inComment := false

	for {
		ch, ok := t.cs.CurrentRune()
		if !ok {
			return nil
		}
		switch {
		case ch == '#':
			inComment = true
		case ch == ' ':
			if inLeadingSpace {
				t.leadingSpace++
			}
		case ch == '\n':
			if inLeadingSpace {
				t.leadingSpace = 0
				inComment = false
				t.cs.Advance()
				continue
			}
			return nil
		case !inComment:
			return nil
		}
		t.cs.Advance()
	}
}

func (t *Tokenizer) scanContentToken() (token.Token, error) {
	pos := t.cs.Pos()
	ch, ok := t.cs.CurrentRune()
	if !ok {
		return token.Token{Kind: token.EOF, At: pos}, nil
	}

	switch {
	case ch == '\n':
		t.cs.Advance()
		t.leadingSpace = 0
		return token.Token{Kind: token.NEWLINE, At: pos}, nil
	case ch >= '0' && ch <= '9':
		return t.scanNumber(pos)
	case ch == '.':
		if next, ok := t.cs.PeekRune(); ok && next >= '0' && next <= '9' {
			return t.scanNumber(pos)
		}
		return t.scanOperator(pos, ch)
	case ch == '"':
		return t.scanString(pos)
	case isIdentStart(ch):
		return t.scanIdentOrKeyword(pos)
	default:
		return t.scanOperator(pos, ch)
	}
}

func (t *Tokenizer) scanOperator(pos token.Position, ch rune) (token.Token, error) {
	one := func(k token.Kind) (token.Token, error) {
		t.cs.Advance()
		return token.Token{Kind: k, At: pos}, nil
	}
	// two-character operators, maximally munched with one-char lookahead
	peekEq := func() bool {
		t.cs.Advance()
		n, _ := t.cs.CurrentRune()
		return n == '='
	}

	switch ch {
	case '=':
		if peekEq() {
			t.cs.Advance()
			return token.Token{Kind: token.EQ, At: pos}, nil
		}
		return token.Token{Kind: token.ASSIGN, At: pos}, nil
	case '!':
		if !peekEq() {
			return token.Token{}, t.fail(source.SyntaxError, "invalid syntax")
		}
		t.cs.Advance()
		return token.Token{Kind: token.NEQ, At: pos}, nil
	case '>':
		t.cs.Advance()
		switch n, _ := t.cs.CurrentRune(); n {
		case '=':
			t.cs.Advance()
			return token.Token{Kind: token.GE, At: pos}, nil
		case '>':
			t.cs.Advance()
			return token.Token{Kind: token.RSHIFT, At: pos}, nil
		default:
			return token.Token{Kind: token.GT, At: pos}, nil
		}
	case '<':
		t.cs.Advance()
		switch n, _ := t.cs.CurrentRune(); n {
		case '=':
			t.cs.Advance()
			return token.Token{Kind: token.LE, At: pos}, nil
		case '<':
			t.cs.Advance()
			return token.Token{Kind: token.LSHIFT, At: pos}, nil
		default:
			return token.Token{Kind: token.LT, At: pos}, nil
		}
	case '+':
		return one(token.PLUS)
	case '-':
		return one(token.MINUS)
	case '*':
		return one(token.STAR)
	case '/':
		return one(token.SLASH)
	case '%':
		return one(token.PERCENT)
	case '~':
		return one(token.TILDE)
	case '^':
		return one(token.CARET)
	case '&':
		return one(token.AMP)
	case '|':
		return one(token.PIPE)
	case '(':
		return one(token.LPAREN)
	case ')':
		return one(token.RPAREN)
	case '{':
		return one(token.LBRACE)
	case '}':
		return one(token.RBRACE)
	case '[':
		return one(token.LBRACKET)
	case ']':
		return one(token.RBRACKET)
	case '.':
		return one(token.DOT)
	case ',':
		return one(token.COMMA)
	case ':':
		return one(token.COLON)
	default:
		return token.Token{}, t.fail(source.SyntaxError, "invalid character %q", ch)
	}
}

func (t *Tokenizer) scanNumber(pos token.Position) (token.Token, error) {
	var buf strings.Builder
	for {
		ch, ok := t.cs.CurrentRune()
		if !ok || ch < '0' || ch > '9' {
			break
		}
		buf.WriteRune(ch)
		t.cs.Advance()
	}

	if ch, ok := t.cs.CurrentRune(); ok && ch == '.' {
		buf.WriteRune('.')
		t.cs.Advance()
		for {
			ch, ok := t.cs.CurrentRune()
			if !ok || ch < '0' || ch > '9' {
				break
			}
			buf.WriteRune(ch)
			t.cs.Advance()
		}
		f, err := strconv.ParseFloat(buf.String(), 64)
		if err != nil {
			return token.Token{}, t.fail(source.SyntaxError, "invalid float literal %q", buf.String())
		}
		return token.Token{Kind: token.FLOAT, Float: f, Lit: buf.String(), At: pos}, nil
	}

	lit := buf.String()
	if len(lit) > 1 && lit[0] == '0' {
		return token.Token{}, t.fail(source.SyntaxError, "invalid token")
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return token.Token{}, t.fail(source.SyntaxError, "invalid integer literal %q", lit)
	}
	return token.Token{Kind: token.INT, Int: n, Lit: lit, At: pos}, nil
}

func (t *Tokenizer) scanString(pos token.Position) (token.Token, error) {
	t.cs.Advance() // consume opening quote
	var buf strings.Builder
	inEscape := false
	for {
		ch, ok := t.cs.CurrentRune()
		if !ok || (ch == '\n' && !inEscape) {
			return token.Token{}, t.fail(source.SyntaxError, "EOL while scanning string literal")
		}
		if inEscape {
			buf.WriteRune(decodeEscape(ch))
			inEscape = false
			t.cs.Advance()
			continue
		}
		if ch == '\\' {
			inEscape = true
			t.cs.Advance()
			continue
		}
		if ch == '"' {
			t.cs.Advance()
			break
		}
		buf.WriteRune(ch)
		t.cs.Advance()
	}
	return token.Token{Kind: token.STRING, Lit: buf.String(), At: pos}, nil
}

func decodeEscape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return ch // \" \\ and anything else pass through literally
	}
}

func (t *Tokenizer) scanIdentOrKeyword(pos token.Position) (token.Token, error) {
	var buf strings.Builder
	for {
		ch, ok := t.cs.CurrentRune()
		if !ok || !isIdentCont(ch) {
			break
		}
		buf.WriteRune(ch)
		t.cs.Advance()
	}
	lit := buf.String()
	if kw, ok := token.Keywords[lit]; ok {
		return token.Token{Kind: kw, Lit: lit, At: pos}, nil
	}
	return token.Token{Kind: token.IDENT, Lit: lit, At: pos}, nil
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentCont(ch rune) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
