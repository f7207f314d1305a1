// Package source provides the byte-level file reader MiniPy's tokenizer
// consumes, plus the diagnostic formatting shared by every pipeline stage
// that can fail (tokenizer, parser, evaluator).
//
// CharStream is grounded on original_source/src/char_stream.rs: advance()
// mirrors next_char()'s one-call-lag line-buffer reset (the buffer is
// cleared on the advance *after* a newline is seen, not the one that
// produces it), and line/column numbering is 1-based starting on the
// first successful read.
package source

import (
	"os"

	"github.com/minipy-lang/minipy/internal/token"
)

// CharStream exposes a one-byte lookahead view over a source file, tracking
// line, column, and the text of the current line for diagnostics.
type CharStream struct {
	fileName string
	data     []byte
	pos      int // index of the next byte to read in data

	current     byte
	hasCurrent  bool
	line        int
	col         int
	lineText    []byte
	sawNewline  bool // true once the previous advance produced '\n'
}

// NewCharStream reads fileName fully into memory and positions the stream
// before the first byte; call Advance once to load it.
func NewCharStream(fileName string) (*CharStream, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return &CharStream{fileName: fileName, data: data}, nil
}

// FileName returns the path the stream was opened from.
func (cs *CharStream) FileName() string { return cs.fileName }

// Advance consumes the current byte (if any) and loads the next one,
// updating line, column, and the current line's text buffer.
func (cs *CharStream) Advance() {
	if cs.sawNewline {
		cs.line++
		cs.col = 0
		cs.lineText = cs.lineText[:0]
		cs.sawNewline = false
	}
	if cs.pos >= len(cs.data) {
		cs.hasCurrent = false
		return
	}
	cs.current = cs.data[cs.pos]
	cs.pos++
	cs.hasCurrent = true
	cs.col++
	if cs.line == 0 {
		cs.line = 1
	}
	cs.lineText = append(cs.lineText, cs.current)
	if cs.current == '\n' {
		cs.sawNewline = true
	}
}

// Current returns the byte under the cursor and whether the stream has not
// yet reached EOF.
func (cs *CharStream) Current() (byte, bool) { return cs.current, cs.hasCurrent }

// CurrentRune returns the current byte widened to a rune (MiniPy source is
// treated as single-byte/ASCII for lexical purposes, matching the Rust
// reference's `u8`-based CharStream).
func (cs *CharStream) CurrentRune() (rune, bool) {
	if !cs.hasCurrent {
		return 0, false
	}
	return rune(cs.current), true
}

// PeekRune returns the byte one past the current one, without consuming it:
// the byte Advance would load as current on the next call. Used by the
// tokenizer to disambiguate a lone `.` operator from the leading dot of a
// float literal like `.5` before committing to either scan.
func (cs *CharStream) PeekRune() (rune, bool) {
	if cs.pos >= len(cs.data) {
		return 0, false
	}
	return rune(cs.data[cs.pos]), true
}

// Line returns the current 1-based line number.
func (cs *CharStream) Line() int { return cs.line }

// Col returns the current 1-based column number.
func (cs *CharStream) Col() int { return cs.col }

// LineText returns the text of the current line read so far, excluding the
// terminating newline.
func (cs *CharStream) LineText() string {
	s := cs.lineText
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
	}
	return string(s)
}

// Pos returns the stream's current position as a token.Position.
func (cs *CharStream) Pos() token.Position {
	return token.Position{Line: cs.line, Col: cs.col}
}
