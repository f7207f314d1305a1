// internal/parser/parser.go

// Package parser implements a recursive-descent parser, redesigned from the
// teacher's error-collecting style into a fail-fast one: the first grammar
// violation panics a *source.Diagnostic that Parse recovers at the top,
// mirroring mattn-skylark/syntax/parse.go's errorf+recover idiom.
package parser

import (
	"os"
	"strings"

	"github.com/minipy-lang/minipy/internal/ast"
	"github.com/minipy-lang/minipy/internal/lexer"
	"github.com/minipy-lang/minipy/internal/source"
	"github.com/minipy-lang/minipy/internal/token"
)

// Parser drives a single current-token cursor over a TokenStream, per
// spec §4.3's "eat(expected)" contract.
type Parser struct {
	stream   TokenStream
	fileName string
	lines    []string
}

// tokenizerStream adapts a lexer.Tokenizer to TokenStream, panicking with
// the tokenizer's own diagnostic on a lexical failure so parse errors and
// lex errors unwind through the same recover point.
type tokenizerStream struct {
	tz *lexer.Tokenizer
}

func (s *tokenizerStream) Peek() token.Token {
	tok, err := s.tz.Current()
	if err != nil {
		panic(err)
	}
	return tok
}

func (s *tokenizerStream) Next() token.Token {
	tok := s.Peek()
	if err := s.tz.Advance(); err != nil {
		panic(err)
	}
	return tok
}

func (s *tokenizerStream) IsEOF() bool {
	return s.Peek().Kind == token.EOF
}

func (s *tokenizerStream) Pos() token.Position {
	return s.Peek().Pos()
}

// New opens fileName, tokenizes it lazily through a tokenizerStream, and
// returns a Parser ready for Parse.
func New(fileName string) (*Parser, error) {
	tz, err := lexer.New(fileName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return &Parser{
		stream:   &tokenizerStream{tz: tz},
		fileName: fileName,
		lines:    strings.Split(string(data), "\n"),
	}, nil
}

// NewFromTokens builds a Parser over an already-lexed token slice (the
// final entry must be EOF), for callers that separate tokenization from
// parsing.
func NewFromTokens(fileName string, lines []string, tokens []token.Token) *Parser {
	return &Parser{stream: NewTokenStream(tokens), fileName: fileName, lines: lines}
}

// Parse runs the module grammar and recovers any fail-fast panic raised by
// eat/fail or by the underlying tokenizer, returning it as a plain error.
func (p *Parser) Parse() (mod *ast.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	mod = p.parseModule()
	return mod, nil
}

func (p *Parser) lineText(line int) string {
	if line >= 1 && line <= len(p.lines) {
		return p.lines[line-1]
	}
	return ""
}

// fail aborts parsing with a SyntaxError positioned at tok.
func (p *Parser) fail(tok token.Token, format string, args ...any) {
	pos := tok.Pos()
	panic(source.New(source.SyntaxError, p.fileName, pos.Line, pos.Col, p.lineText(pos.Line), format, args...))
}

// eat asserts the current token's kind and advances past it, per spec
// §4.3's `eat(expected)`.
func (p *Parser) eat(kind token.Kind) token.Token {
	tok := p.stream.Peek()
	if tok.Kind != kind {
		p.fail(tok, "unexpected token: expected %s, got %s", kind, tok)
	}
	return p.stream.Next()
}
