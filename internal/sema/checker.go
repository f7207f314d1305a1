// Package sema performs a static pre-pass over a parsed MiniPy module,
// catching control-flow placement errors before the evaluator ever runs a
// line (spec §7 lists RuntimeError for "break/continue outside loop" and
// "return outside function" as fatal; this package raises the same
// diagnostics ahead of time instead of waiting for the offending statement
// to execute).
//
// The walk-the-tree-with-a-scope-stack shape is adapted from
// rust2go/internal/sema.Checker, which carried a symbol table and type
// environment through a Rust AST. MiniPy's evaluator resolves names and
// types dynamically (internal/eval/environment.go), so there is nothing
// left for a symbol table to do here; what survives is the checker's
// control-flow bookkeeping, retargeted at the one class of error MiniPy
// can catch statically: break/continue/return used outside the construct
// that gives them meaning.
package sema

import (
	"github.com/minipy-lang/minipy/internal/ast"
	"github.com/minipy-lang/minipy/internal/source"
)

// Checker walks a Module's statement tree tracking loop and function
// nesting, and collects every placement error it finds rather than
// stopping at the first one.
type Checker struct {
	file  string
	lines []string

	loopDepth int
	funcDepth int

	errors []error
}

// NewChecker builds a checker for a module parsed from file, whose source
// lines are used to render diagnostics (spec §4.2 "File <name>, line <n>"
// plus source line and caret).
func NewChecker(file string, lines []string) *Checker {
	return &Checker{file: file, lines: lines}
}

// Check walks mod and returns every control-flow placement error found, in
// source order. A nil/empty result means the module is safe to evaluate.
func (c *Checker) Check(mod *ast.Module) []error {
	c.checkStmts(mod.Body)
	return c.errors
}

func (c *Checker) lineText(line int) string {
	if line-1 < 0 || line-1 >= len(c.lines) {
		return ""
	}
	return c.lines[line-1]
}

func (c *Checker) errorf(pos ast.Position, format string, args ...any) {
	c.errors = append(c.errors, source.New(source.RuntimeError, c.file, pos.Line, pos.Col, c.lineText(pos.Line), format, args...))
}

func (c *Checker) checkStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		c.checkStmt(stmt)
	}
}

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch n := stmt.(type) {
	case *ast.FuncDef:
		c.funcDepth++
		savedLoop := c.loopDepth
		c.loopDepth = 0 // a loop does not reach through a nested function def
		c.checkStmts(n.Body)
		c.loopDepth = savedLoop
		c.funcDepth--
	case *ast.For:
		c.loopDepth++
		c.checkStmts(n.Body)
		c.loopDepth--
	case *ast.While:
		c.loopDepth++
		c.checkStmts(n.Body)
		c.loopDepth--
	case *ast.If:
		c.checkStmts(n.Body)
		c.checkStmts(n.Orelse)
	case *ast.Break:
		if c.loopDepth == 0 {
			c.errorf(n.Pos(), "break outside loop")
		}
	case *ast.Continue:
		if c.loopDepth == 0 {
			c.errorf(n.Pos(), "continue outside loop")
		}
	case *ast.Return:
		if c.funcDepth == 0 {
			c.errorf(n.Pos(), "return outside function")
		}
	}
}
