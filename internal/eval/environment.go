// Package eval implements the tree-walking evaluator (spec §4.5): a
// two-tier environment, operator-through-environment dispatch, and the
// four-way statement control-flow outcome.
//
// Grounded on original_source/src/eval/evaluator.rs's Evaluator/LocalEnv/
// GlobalEnv shape, translated from Rc<RefCell<..>> sharing into Go's plain
// GC-backed pointers (see DESIGN.md).
package eval

import "github.com/minipy-lang/minipy/internal/value"

// binding is a local_env slot. A real value is a true local; isGlobal marks
// the "explicit global" sentinel a `global` declaration installs (spec
// §4.5 step 2) — reads and writes of a sentinel name pass through to
// GlobalEnv instead.
type binding struct {
	value    value.Value
	isGlobal bool
}

// LocalEnv is the per-call frame that exists only inside a user-function
// invocation (spec §4.5 "Environments"). A nil *LocalEnv means top level.
type LocalEnv struct {
	vars map[string]*binding
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{vars: make(map[string]*binding)}
}

// GlobalEnv is the single process-global mapping, pre-populated with the
// built-in function table before any user code runs (spec §4.6).
type GlobalEnv struct {
	vars map[string]value.Value
}

// NewGlobalEnv returns an empty global environment.
func NewGlobalEnv() *GlobalEnv {
	return &GlobalEnv{vars: make(map[string]value.Value)}
}

// Get looks up name directly in the global mapping.
func (g *GlobalEnv) Get(name string) (value.Value, bool) {
	v, ok := g.vars[name]
	return v, ok
}

// Set installs or overwrites name's global binding.
func (g *GlobalEnv) Set(name string, v value.Value) {
	g.vars[name] = v
}
