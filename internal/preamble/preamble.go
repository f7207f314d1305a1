// Package preamble loads the bundled standard-library source that the
// evaluator must run before any user code (spec §6 "Pre-evaluation
// preamble"): it binds every __op__ dispatcher the evaluator looks up by
// name to a type test over the typed builtins in internal/builtin.
//
// The source is embedded into the binary via go:embed so its location
// resolves relative to the installed binary rather than the working
// directory, satisfying spec §6's requirement.
package preamble

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/minipy-lang/minipy/internal/eval"
	"github.com/minipy-lang/minipy/internal/parser"
	"github.com/minipy-lang/minipy/internal/value"
)

//go:embed stdlib.mpy
var source string

// Load parses and evaluates the bundled preamble against ev's global
// environment, then seeds the `__name__` global to "__main__" (spec §8
// scenario 2: "the __name__ global is initialized to \"__main__\" by the
// preamble"). It must run before the user's module is evaluated.
//
// The tokenizer/parser pipeline reads source files from disk (spec §4.1
// CharStream), so the embedded text is spooled to a temp file rather than
// threading a second in-memory source path through the whole front end.
func Load(ev *eval.Evaluator) error {
	dir, err := os.MkdirTemp("", "minipy-preamble-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "stdlib.mpy")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return err
	}
	p, err := parser.New(path)
	if err != nil {
		return err
	}
	mod, err := p.Parse()
	if err != nil {
		return err
	}
	if err := ev.Run(mod); err != nil {
		return err
	}
	ev.Global().Set("__name__", value.MakeString("__main__"))
	return nil
}
