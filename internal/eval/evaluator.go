package eval

import (
	"github.com/minipy-lang/minipy/internal/ast"
	"github.com/minipy-lang/minipy/internal/builtin"
	"github.com/minipy-lang/minipy/internal/source"
	"github.com/minipy-lang/minipy/internal/value"
)

// outcomeKind is the four-way statement control-flow result (spec §4.5
// "Control-flow results"); modeled as data rather than Go exceptions or
// panics per spec §9 "Control flow as data".
type outcomeKind int

const (
	outcomeNext outcomeKind = iota
	outcomeBreak
	outcomeContinue
	outcomeReturn
)

type outcome struct {
	kind  outcomeKind
	value value.Value
}

var nextOutcome = outcome{kind: outcomeNext}

// Evaluator walks a parsed Module against a two-tier environment, per
// spec §4.5. Grounded on original_source/src/eval/evaluator.rs's
// Evaluator, translated statement-for-statement.
type Evaluator struct {
	global    *GlobalEnv
	backTrace []string
	fileName  string
	lines     []string
}

// New builds an Evaluator with the spec §4.6 built-in table already
// installed in global_env.
func New(fileName string, lines []string) *Evaluator {
	e := &Evaluator{
		global:   NewGlobalEnv(),
		fileName: fileName,
		lines:    lines,
	}
	for _, ent := range builtin.All() {
		e.global.Set(ent.Name, value.MakeNative(&value.NativeFuncValue{
			Name:  ent.Name,
			Arity: ent.Arity,
			Body:  ent.Body,
		}))
	}
	return e
}

// Global exposes global_env so the preamble loader can install bindings
// (including `__name__`) before user code runs.
func (e *Evaluator) Global() *GlobalEnv { return e.global }

func (e *Evaluator) lineText(line int) string {
	if line >= 1 && line <= len(e.lines) {
		return e.lines[line-1]
	}
	return ""
}

func (e *Evaluator) fail(pos ast.Position, kind source.Kind, format string, args ...any) error {
	err := source.New(kind, e.fileName, pos.Line, pos.Col, e.lineText(pos.Line), format, args...)
	return source.WithTrace(err, e.backTrace)
}

func builtinKindToSourceKind(k builtin.ErrorKind) source.Kind {
	switch k {
	case builtin.ZeroDivisionError:
		return source.ZeroDivisionError
	case builtin.IndexError:
		return source.IndexError
	case builtin.RuntimeError:
		return source.RuntimeError
	default:
		return source.TypeError
	}
}

// Run executes mod's top-level statements with a nil (top-level) local
// environment (spec §4.5 "At top level, only step 3 applies.").
func (e *Evaluator) Run(mod *ast.Module) error {
	res, err := e.evalStmts(mod.Body, nil)
	if err != nil {
		return err
	}
	if res.kind != outcomeNext {
		return e.fail(mod.Pos(), source.RuntimeError, "outside loop / outside function")
	}
	return nil
}

func (e *Evaluator) evalStmts(stmts []ast.Stmt, local *LocalEnv) (outcome, error) {
	for _, s := range stmts {
		res, err := e.evalStmt(s, local)
		if err != nil {
			return outcome{}, err
		}
		if res.kind != outcomeNext {
			return res, nil
		}
	}
	return nextOutcome, nil
}

func (e *Evaluator) evalStmt(stmt ast.Stmt, local *LocalEnv) (outcome, error) {
	switch n := stmt.(type) {
	case *ast.FuncDef:
		fn := value.MakeFunc(&value.FuncValue{Name: n.Name, Params: n.Params, Body: n.Body})
		if err := e.setEnv(local, n.Name, fn); err != nil {
			return outcome{}, err
		}
		return nextOutcome, nil

	case *ast.Return:
		if n.Value == nil {
			return outcome{kind: outcomeReturn, value: value.MakeNone()}, nil
		}
		v, err := e.evalExpr(n.Value, local)
		if err != nil {
			return outcome{}, err
		}
		return outcome{kind: outcomeReturn, value: v}, nil

	case *ast.Delete:
		return outcome{}, e.fail(n.Pos(), source.RuntimeError, "del is not implemented")

	case *ast.Assign:
		v, err := e.evalExpr(n.Value, local)
		if err != nil {
			return outcome{}, err
		}
		for _, target := range n.Targets {
			name, ok := target.(*ast.Name)
			if !ok {
				return outcome{}, e.fail(target.Pos(), source.RuntimeError, "cannot assign to %s", target.String())
			}
			if err := e.setEnv(local, name.Id, v); err != nil {
				return outcome{}, err
			}
		}
		return nextOutcome, nil

	case *ast.For:
		return e.evalFor(n, local)

	case *ast.While:
		return e.evalWhile(n, local)

	case *ast.If:
		test, err := e.evalExpr(n.Test, local)
		if err != nil {
			return outcome{}, err
		}
		if value.Truthy(test) {
			return e.evalStmts(n.Body, local)
		}
		return e.evalStmts(n.Orelse, local)

	case *ast.Global:
		if local != nil {
			for _, name := range n.Names {
				if b, ok := local.vars[name]; ok && !b.isGlobal {
					return outcome{}, e.fail(n.Pos(), source.RuntimeError,
						"name %s is assigned before global declaration", name)
				}
				local.vars[name] = &binding{isGlobal: true}
			}
		}
		return nextOutcome, nil

	case *ast.ExprStmt:
		if _, err := e.evalExpr(n.Value, local); err != nil {
			return outcome{}, err
		}
		return nextOutcome, nil

	case *ast.Pass:
		return nextOutcome, nil
	case *ast.Break:
		return outcome{kind: outcomeBreak}, nil
	case *ast.Continue:
		return outcome{kind: outcomeContinue}, nil

	default:
		return outcome{}, e.fail(stmt.Pos(), source.RuntimeError, "unhandled statement %T", stmt)
	}
}

func (e *Evaluator) evalFor(n *ast.For, local *LocalEnv) (outcome, error) {
	target, ok := n.Target.(*ast.Name)
	if !ok {
		return outcome{}, e.fail(n.Target.Pos(), source.RuntimeError, "for-loop target must be a name")
	}
	iterVal, err := e.evalExpr(n.Iter, local)
	if err != nil {
		return outcome{}, err
	}
	var items []value.Value
	switch iterVal.Kind {
	case value.List:
		items = iterVal.List.Elements
	case value.Tuple:
		items = iterVal.Tuple
	case value.String:
		for _, r := range iterVal.Str {
			items = append(items, value.MakeString(string(r)))
		}
	default:
		return outcome{}, e.fail(n.Iter.Pos(), source.TypeError, "cannot iterate over non iterable")
	}
	for _, item := range items {
		if err := e.setEnv(local, target.Id, item); err != nil {
			return outcome{}, err
		}
		res, err := e.evalStmts(n.Body, local)
		if err != nil {
			return outcome{}, err
		}
		switch res.kind {
		case outcomeBreak:
			return nextOutcome, nil
		case outcomeReturn:
			return res, nil
		}
	}
	return nextOutcome, nil
}

func (e *Evaluator) evalWhile(n *ast.While, local *LocalEnv) (outcome, error) {
	for {
		test, err := e.evalExpr(n.Test, local)
		if err != nil {
			return outcome{}, err
		}
		if !value.Truthy(test) {
			return nextOutcome, nil
		}
		res, err := e.evalStmts(n.Body, local)
		if err != nil {
			return outcome{}, err
		}
		switch res.kind {
		case outcomeBreak:
			return nextOutcome, nil
		case outcomeReturn:
			return res, nil
		}
	}
}

// setEnv implements spec §4.5 "Assignment": a real local unless the name
// is currently the explicit-global sentinel, in which case the global
// binding is updated; at top level, assignment always updates the global.
func (e *Evaluator) setEnv(local *LocalEnv, name string, v value.Value) error {
	if local == nil {
		e.global.Set(name, v)
		return nil
	}
	if b, ok := local.vars[name]; ok && b.isGlobal {
		e.global.Set(name, v)
		return nil
	}
	local.vars[name] = &binding{value: v}
	return nil
}

// getEnv implements spec §4.5's three-step name resolution algorithm.
func (e *Evaluator) getEnv(local *LocalEnv, name string, pos ast.Position) (value.Value, error) {
	if local != nil {
		if b, ok := local.vars[name]; ok {
			if !b.isGlobal {
				return b.value, nil
			}
			if v, ok := e.global.Get(name); ok {
				return v, nil
			}
			return value.Value{}, e.fail(pos, source.NameError, "Name Error: %s is not defined", name)
		}
	}
	if v, ok := e.global.Get(name); ok {
		return v, nil
	}
	return value.Value{}, e.fail(pos, source.NameError, "Name Error: %s is not defined", name)
}

var binOpFuncName = map[ast.BinOpKind]string{
	ast.Add: "__add__", ast.Sub: "__sub__", ast.Mul: "__mul__", ast.Div: "__div__", ast.Mod: "__mod__",
	ast.LShift: "__lshift__", ast.RShift: "__rshift__",
	ast.BitOr: "__or__", ast.BitXor: "__xor__", ast.BitAnd: "__and__",
}

var unaryOpFuncName = map[ast.UnaryOpKind]string{
	ast.Invert: "__invert__", ast.Not: "__not__", ast.UAdd: "__pos__", ast.USub: "__neg__",
}

var cmpOpFuncName = map[ast.CmpOpKind]string{
	ast.CmpLT: "__lt__", ast.CmpGT: "__gt__", ast.CmpEq: "__eq__",
	ast.CmpGE: "__ge__", ast.CmpLE: "__le__", ast.CmpNE: "__ne__",
}

func (e *Evaluator) evalExpr(expr ast.Expr, local *LocalEnv) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.BoolOp:
		if n.Op == ast.BoolAnd {
			for _, operand := range n.Operands {
				v, err := e.evalExpr(operand, local)
				if err != nil {
					return value.Value{}, err
				}
				if !value.Truthy(v) {
					return value.MakeBool(false), nil
				}
			}
			return value.MakeBool(true), nil
		}
		for _, operand := range n.Operands {
			v, err := e.evalExpr(operand, local)
			if err != nil {
				return value.Value{}, err
			}
			if value.Truthy(v) {
				return value.MakeBool(true), nil
			}
		}
		return value.MakeBool(false), nil

	case *ast.BinOp:
		left, err := e.evalExpr(n.Left, local)
		if err != nil {
			return value.Value{}, err
		}
		right, err := e.evalExpr(n.Right, local)
		if err != nil {
			return value.Value{}, err
		}
		return e.dispatch(binOpFuncName[n.Op], []value.Value{left, right}, n.Pos())

	case *ast.UnaryOp:
		operand, err := e.evalExpr(n.Operand, local)
		if err != nil {
			return value.Value{}, err
		}
		return e.dispatch(unaryOpFuncName[n.Op], []value.Value{operand}, n.Pos())

	case *ast.IfExp:
		test, err := e.evalExpr(n.Test, local)
		if err != nil {
			return value.Value{}, err
		}
		if value.Truthy(test) {
			return e.evalExpr(n.Body, local)
		}
		return e.evalExpr(n.Orelse, local)

	case *ast.Dict:
		d := value.NewDict()
		for i, k := range n.Keys {
			kv, err := e.evalExpr(k, local)
			if err != nil {
				return value.Value{}, err
			}
			vv, err := e.evalExpr(n.Values[i], local)
			if err != nil {
				return value.Value{}, err
			}
			if err := d.Set(kv, vv); err != nil {
				return value.Value{}, e.fail(n.Pos(), source.TypeError, "%s", err)
			}
		}
		return value.MakeDict(d), nil

	case *ast.Set:
		s := value.NewSet()
		for _, el := range n.Elements {
			v, err := e.evalExpr(el, local)
			if err != nil {
				return value.Value{}, err
			}
			if _, err := s.Add(v); err != nil {
				return value.Value{}, e.fail(n.Pos(), source.TypeError, "%s", err)
			}
		}
		return value.MakeSet(s), nil

	case *ast.Compare:
		return e.evalCompare(n, local)

	case *ast.Call:
		return e.evalCall(n, local)

	case *ast.Constant:
		switch n.Kind {
		case ast.ConstInt:
			return value.MakeInt(n.Int), nil
		case ast.ConstFloat:
			return value.MakeFloat(n.Float), nil
		case ast.ConstString:
			return value.MakeString(n.Str), nil
		case ast.ConstNone:
			return value.MakeNone(), nil
		case ast.ConstTrue:
			return value.MakeBool(true), nil
		default:
			return value.MakeBool(false), nil
		}

	case *ast.Subscript:
		idx, ok := n.Slice.(*ast.Index)
		if !ok {
			return value.Value{}, e.fail(n.Pos(), source.RuntimeError, "slice subscripts are not implemented")
		}
		container, err := e.evalExpr(n.Value, local)
		if err != nil {
			return value.Value{}, err
		}
		index, err := e.evalExpr(idx.Value, local)
		if err != nil {
			return value.Value{}, err
		}
		return e.getItem(container, index, n.Pos())

	case *ast.Name:
		return e.getEnv(local, n.Id, n.Pos())

	case *ast.List:
		elems := make([]value.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := e.evalExpr(el, local)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = v
		}
		return value.MakeList(elems), nil

	case *ast.Tuple:
		elems := make([]value.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := e.evalExpr(el, local)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = v
		}
		return value.MakeTuple(elems), nil

	default:
		return value.Value{}, e.fail(expr.Pos(), source.RuntimeError, "unhandled expression %T", expr)
	}
}

// getItem implements spec §4.5 "Subscript": it picks the typed builtin
// matching container's kind (__getitem_string__, __getitem_tuple__ or
// __getitem_list__) and dispatches to it by name through global_env. No
// `__getitem__` dispatcher is looked up, so rebinding `__getitem__` does
// not change subscripting.
func (e *Evaluator) getItem(container, index value.Value, pos ast.Position) (value.Value, error) {
	var name string
	switch container.Kind {
	case value.String:
		name = "__getitem_string__"
	case value.Tuple:
		name = "__getitem_tuple__"
	case value.List:
		name = "__getitem_list__"
	default:
		return value.Value{}, e.fail(pos, source.TypeError, "%s object is not subscriptable", container.Kind)
	}
	return e.dispatch(name, []value.Value{container, index}, pos)
}

// evalCompare implements spec §4.5 "Compare chains": short-circuits on
// the first false step; each comparator is evaluated at most once.
func (e *Evaluator) evalCompare(n *ast.Compare, local *LocalEnv) (value.Value, error) {
	left, err := e.evalExpr(n.Left, local)
	if err != nil {
		return value.Value{}, err
	}
	for i, op := range n.Ops {
		right, err := e.evalExpr(n.Comparators[i], local)
		if err != nil {
			return value.Value{}, err
		}
		ok, err := e.evalCompareStep(op, left, right, n.Pos())
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return value.MakeBool(false), nil
		}
		left = right
	}
	return value.MakeBool(true), nil
}

// evalCompareStep dispatches Eq/Ne/Lt/Gt/Le/Ge through global_env like any
// other operator; In/NotIn/Is/IsNot have no entry in spec §4.6's built-in
// table, so membership and identity are implemented directly here (see
// DESIGN.md).
func (e *Evaluator) evalCompareStep(op ast.CmpOpKind, left, right value.Value, pos ast.Position) (bool, error) {
	switch op {
	case ast.CmpIn, ast.CmpNotIn:
		member, err := e.contains(right, left, pos)
		if err != nil {
			return false, err
		}
		if op == ast.CmpNotIn {
			return !member, nil
		}
		return member, nil
	case ast.CmpIs:
		return isIdentical(left, right), nil
	case ast.CmpIsNot:
		return !isIdentical(left, right), nil
	default:
		v, err := e.dispatch(cmpOpFuncName[op], []value.Value{left, right}, pos)
		if err != nil {
			return false, err
		}
		return value.Truthy(v), nil
	}
}

func (e *Evaluator) contains(container, elem value.Value, pos ast.Position) (bool, error) {
	switch container.Kind {
	case value.List:
		for _, el := range container.List.Elements {
			if value.Equal(el, elem) {
				return true, nil
			}
		}
		return false, nil
	case value.Tuple:
		for _, el := range container.Tuple {
			if value.Equal(el, elem) {
				return true, nil
			}
		}
		return false, nil
	case value.String:
		if elem.Kind != value.String {
			return false, e.fail(pos, source.TypeError, "'in <string>' requires string as left operand")
		}
		return len(elem.Str) > 0 && containsSubstring(container.Str, elem.Str) || elem.Str == "", nil
	case value.Set:
		ok, err := container.Set.Contains(elem)
		if err != nil {
			return false, e.fail(pos, source.TypeError, "%s", err)
		}
		return ok, nil
	case value.Dict:
		_, ok, err := container.Dict.Get(elem)
		if err != nil {
			return false, e.fail(pos, source.TypeError, "%s", err)
		}
		return ok, nil
	default:
		return false, e.fail(pos, source.TypeError, "argument of type %s is not iterable", container.Kind)
	}
}

func containsSubstring(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// isIdentical implements `is`/`is not`: reference identity for mutable
// containers and callables, value identity for everything else (spec
// doesn't define object identity beyond list aliasing; see DESIGN.md).
func isIdentical(a, b value.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case value.List:
		return a.List == b.List
	case value.Dict:
		return a.Dict == b.Dict
	case value.Set:
		return a.Set == b.Set
	case value.Func:
		return a.Func == b.Func
	case value.NativeFunc:
		return a.Native == b.Native
	default:
		return value.Equal(a, b)
	}
}

func (e *Evaluator) evalCall(n *ast.Call, local *LocalEnv) (value.Value, error) {
	callee, err := e.evalExpr(n.Func, local)
	if err != nil {
		return value.Value{}, err
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.evalExpr(a, local)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}
	return e.callValue(callee, args, n.Pos())
}

// dispatch looks up name in global_env and invokes it with the already
// evaluated operands (spec §4.5 "Operator dispatch").
func (e *Evaluator) dispatch(name string, args []value.Value, pos ast.Position) (value.Value, error) {
	fn, ok := e.global.Get(name)
	if !ok {
		return value.Value{}, e.fail(pos, source.NameError, "Name Error: %s is not defined", name)
	}
	return e.callValue(fn, args, pos)
}

// callValue implements spec §4.5 "Call": arity-checks, pushes a
// back-trace frame, and either invokes a NativeFunc directly or executes
// a user Func's body in a fresh local environment.
func (e *Evaluator) callValue(callee value.Value, args []value.Value, pos ast.Position) (value.Value, error) {
	switch callee.Kind {
	case value.NativeFunc:
		nf := callee.Native
		if len(args) != nf.Arity {
			return value.Value{}, e.fail(pos, source.TypeError,
				"%s() takes %d argument(s) but %d were given", nf.Name, nf.Arity, len(args))
		}
		e.backTrace = append(e.backTrace, nf.Name)
		v, err := nf.Body(args)
		e.backTrace = e.backTrace[:len(e.backTrace)-1]
		if err != nil {
			if be, ok := err.(*builtin.Error); ok {
				return value.Value{}, e.fail(pos, builtinKindToSourceKind(be.Kind), "%s", be.Msg)
			}
			return value.Value{}, e.fail(pos, source.TypeError, "%s", err)
		}
		return v, nil

	case value.Func:
		fn := callee.Func
		if len(args) != len(fn.Params) {
			return value.Value{}, e.fail(pos, source.TypeError,
				"%s() takes %d argument(s) but %d were given", fn.Name, len(fn.Params), len(args))
		}
		frame := newLocalEnv()
		for i, p := range fn.Params {
			frame.vars[p] = &binding{value: args[i]}
		}
		e.backTrace = append(e.backTrace, fn.Name)
		res, err := e.evalStmts(fn.Body, frame)
		e.backTrace = e.backTrace[:len(e.backTrace)-1]
		if err != nil {
			return value.Value{}, err
		}
		switch res.kind {
		case outcomeReturn:
			return res.value, nil
		case outcomeBreak, outcomeContinue:
			return value.Value{}, e.fail(pos, source.RuntimeError, "break/continue outside loop")
		default:
			return value.MakeNone(), nil
		}

	default:
		return value.Value{}, e.fail(pos, source.TypeError, "%s object is not callable", callee.Kind)
	}
}
