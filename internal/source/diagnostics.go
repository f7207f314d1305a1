package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// Kind is the flat error taxonomy from spec §7. Every kind is fatal: the
// interpreter never recovers from one, it prints a diagnostic and exits
// non-zero.
type Kind int

const (
	IndentationError Kind = iota
	SyntaxError
	NameError
	TypeError
	IndexError
	ZeroDivisionError
	RuntimeError
)

func (k Kind) String() string {
	switch k {
	case IndentationError:
		return "IndentationError"
	case SyntaxError:
		return "SyntaxError"
	case NameError:
		return "NameError"
	case TypeError:
		return "TypeError"
	case IndexError:
		return "IndexError"
	case ZeroDivisionError:
		return "ZeroDivisionError"
	default:
		return "RuntimeError"
	}
}

// Diagnostic is the single fatal-error type every pipeline stage raises.
// It carries enough information to render spec §4.2/§7's required
// "File <name>, line <n>" + source line + caret + message.
type Diagnostic struct {
	Kind     Kind
	File     string
	Line     int
	Col      int
	LineText string
	Message  string
	Trace    []string // function back-trace, innermost last
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s (%s:%d:%d)", d.Kind, d.Message, d.File, d.Line, d.Col)
}

// New builds a Diagnostic wrapped with github.com/pkg/errors so callers
// further up the stack can still walk a cause chain if they need to.
func New(kind Kind, file string, line, col int, lineText, format string, args ...any) error {
	d := &Diagnostic{
		Kind:     kind,
		File:     file,
		Line:     line,
		Col:      col,
		LineText: lineText,
		Message:  fmt.Sprintf(format, args...),
	}
	return errors.WithStack(d)
}

// colorEnabled mirrors spec's "--no-color" ambient flag: auto-detect via
// go-isatty unless explicitly overridden.
var colorEnabled = isatty.IsTerminal(os.Stderr.Fd())

// SetColor overrides auto-detection; called by the CLI's --no-color flag.
func SetColor(enabled bool) { colorEnabled = enabled }

// Render writes the full spec §4.2/§7 diagnostic to w: file+line header,
// the offending source line, a caret under the offending column, and the
// message, with the caret/message colorized when colorEnabled is true.
func Render(w io.Writer, err error) {
	var d *Diagnostic
	if !errors.As(err, &d) {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintf(w, "File %s, line %d\n", d.File, d.Line)
	fmt.Fprintln(w, d.LineText)

	caretLine := strings.Repeat(" ", max(0, d.Col-1)) + "^"
	msgLine := fmt.Sprintf("%s: %s", d.Kind, d.Message)
	if colorEnabled {
		fmt.Fprintln(w, color.YellowString(caretLine))
		fmt.Fprintln(w, color.RedString(msgLine))
	} else {
		fmt.Fprintln(w, caretLine)
		fmt.Fprintln(w, msgLine)
	}
	if len(d.Trace) > 0 {
		fmt.Fprintln(w, "Back-trace (innermost last):")
		for _, fn := range d.Trace {
			fmt.Fprintf(w, "  in %s\n", fn)
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// WithTrace returns a copy of the diagnostic carrying the supplied
// back-trace, used by the evaluator when it unwinds a call stack on error.
func WithTrace(err error, trace []string) error {
	var d *Diagnostic
	if !errors.As(err, &d) {
		return err
	}
	cp := *d
	cp.Trace = append([]string(nil), trace...)
	return errors.WithStack(&cp)
}
