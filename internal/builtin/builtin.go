// Package builtin implements the fixed (name, arity, body) table spec §4.6
// requires to be registered in global_env before any user code runs.
//
// Grounded on original_source/src/eval/native_func.rs's ntv_* functions,
// one-to-one, renamed to the double-underscore convention spec §4.6
// mandates (e.g. ntv_add_int -> __add_int__). Two of the reference
// implementation's bugs are intentionally NOT carried over: ntv_mul_int
// there computes lhs+rhs instead of lhs*rhs, and ntv_not returns is_truthy
// unnegated — both fixed here (see DESIGN.md).
package builtin

import (
	"fmt"
	"strconv"

	"github.com/minipy-lang/minipy/internal/value"
)

// ErrorKind classifies a builtin failure onto spec §7's flat taxonomy; the
// evaluator maps it to the matching source.Kind when building a diagnostic.
type ErrorKind int

const (
	TypeError ErrorKind = iota
	ZeroDivisionError
	IndexError
	RuntimeError
)

// Error is the error type every builtin body returns on failure.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func typeErrorf(format string, args ...any) error {
	return &Error{Kind: TypeError, Msg: fmt.Sprintf(format, args...)}
}

func indexErrorf(format string, args ...any) error {
	return &Error{Kind: IndexError, Msg: fmt.Sprintf(format, args...)}
}

func zeroDivErrorf(format string, args ...any) error {
	return &Error{Kind: ZeroDivisionError, Msg: fmt.Sprintf(format, args...)}
}

// Entry is one row of the built-in table.
type Entry struct {
	Name  string
	Arity int
	Body  value.NativeFuncBody
}

func wantInt(v value.Value) (int64, error) {
	if v.Kind != value.Int {
		return 0, typeErrorf("expected int, got %s", v.Kind)
	}
	return v.Int, nil
}

func wantFloat(v value.Value) (float64, error) {
	if v.Kind != value.Float {
		return 0, typeErrorf("expected float, got %s", v.Kind)
	}
	return v.Float, nil
}

func wantString(v value.Value) (string, error) {
	if v.Kind != value.String {
		return "", typeErrorf("expected string, got %s", v.Kind)
	}
	return v.Str, nil
}

// All returns the full spec §4.6 built-in table.
func All() []Entry {
	return []Entry{
		{"__itof__", 1, ntvItof},
		{"__ftoi__", 1, ntvFtoi},
		{"__repr_int__", 1, ntvReprInt},
		{"__repr_float__", 1, ntvReprFloat},

		{"__add_int__", 2, ntvAddInt},
		{"__sub_int__", 2, ntvSubInt},
		{"__mul_int__", 2, ntvMulInt},
		{"__div_int__", 2, ntvDivInt},
		{"__mod_int__", 2, ntvModInt},
		{"__cmp_int__", 2, ntvCmpInt},
		{"__eq_int__", 2, ntvEqInt},
		{"__ne_int__", 2, ntvNeInt},
		{"__gt_int__", 2, ntvGtInt},
		{"__ge_int__", 2, ntvGeInt},
		{"__lt_int__", 2, ntvLtInt},
		{"__le_int__", 2, ntvLeInt},
		{"__and_int__", 2, ntvAndInt},
		{"__or_int__", 2, ntvOrInt},
		{"__xor_int__", 2, ntvXorInt},
		{"__lshift_int__", 2, ntvLshiftInt},
		{"__rshift_int__", 2, ntvRshiftInt},
		{"__invert_int__", 1, ntvInvertInt},
		{"__neg_int__", 1, ntvNegInt},
		{"__pos_int__", 1, ntvPosInt},

		{"__add_float__", 2, ntvAddFloat},
		{"__sub_float__", 2, ntvSubFloat},
		{"__mul_float__", 2, ntvMulFloat},
		{"__div_float__", 2, ntvDivFloat},
		{"__mod_float__", 2, ntvModFloat},
		{"__cmp_float__", 2, ntvCmpFloat},
		{"__neg_float__", 1, ntvNegFloat},
		{"__pos_float__", 1, ntvPosFloat},

		{"__len_string__", 1, ntvLenString},
		{"__add_string__", 2, ntvAddString},
		{"__getitem_string__", 2, ntvGetitemString},
		{"__eq_string__", 2, ntvEqString},
		{"__ne_string__", 2, ntvNeString},

		{"__add_tuple__", 2, ntvAddTuple},
		{"__len_tuple__", 1, ntvLenTuple},
		{"__getitem_tuple__", 2, ntvGetitemTuple},

		{"__add_list__", 2, ntvAddList},
		{"__len_list__", 1, ntvLenList},
		{"__getitem_list__", 2, ntvGetitemList},

		{"__print__", 1, ntvPrint},
		{"__print_nl__", 1, ntvPrintNl},
		{"__range__", 1, ntvRange},
		{"__panic__", 0, ntvPanic},
		{"__not__", 1, ntvNot},

		{"__is_int__", 1, ntvIsInt},
		{"__is_float__", 1, ntvIsFloat},
		{"__is_string__", 1, ntvIsString},
		{"__is_tuple__", 1, ntvIsTuple},
		{"__is_list__", 1, ntvIsList},
		{"__is_dict__", 1, ntvIsDict},
		{"__is_set__", 1, ntvIsSet},

		{"__structeq__", 2, ntvStructEq},
	}
}

func ntvItof(args []value.Value) (value.Value, error) {
	n, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeFloat(float64(n)), nil
}

func ntvFtoi(args []value.Value) (value.Value, error) {
	f, err := wantFloat(args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(int64(f)), nil
}

func ntvReprInt(args []value.Value) (value.Value, error) {
	n, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeString(strconv.FormatInt(n, 10)), nil
}

func ntvReprFloat(args []value.Value) (value.Value, error) {
	return value.MakeString(value.Repr(args[0])), nil
}

func ntvAddInt(args []value.Value) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(l + r), nil
}

func ntvSubInt(args []value.Value) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(l - r), nil
}

// ntvMulInt multiplies. The reference implementation's ntv_mul_int adds
// instead of multiplying; not reproduced here.
func ntvMulInt(args []value.Value) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(l * r), nil
}

func ntvDivInt(args []value.Value) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	if r == 0 {
		return value.Value{}, zeroDivErrorf("integer division or modulo by zero")
	}
	return value.MakeInt(l / r), nil
}

func ntvModInt(args []value.Value) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	if r == 0 {
		return value.Value{}, zeroDivErrorf("integer division or modulo by zero")
	}
	return value.MakeInt(l % r), nil
}

func ntvCmpInt(args []value.Value) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	switch {
	case l < r:
		return value.MakeInt(-1), nil
	case l > r:
		return value.MakeInt(1), nil
	default:
		return value.MakeInt(0), nil
	}
}

func intCompare(args []value.Value, ok func(l, r int64) bool) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeBool(ok(l, r)), nil
}

func ntvEqInt(args []value.Value) (value.Value, error) {
	return intCompare(args, func(l, r int64) bool { return l == r })
}
func ntvNeInt(args []value.Value) (value.Value, error) {
	return intCompare(args, func(l, r int64) bool { return l != r })
}
func ntvGtInt(args []value.Value) (value.Value, error) {
	return intCompare(args, func(l, r int64) bool { return l > r })
}
func ntvGeInt(args []value.Value) (value.Value, error) {
	return intCompare(args, func(l, r int64) bool { return l >= r })
}
func ntvLtInt(args []value.Value) (value.Value, error) {
	return intCompare(args, func(l, r int64) bool { return l < r })
}
func ntvLeInt(args []value.Value) (value.Value, error) {
	return intCompare(args, func(l, r int64) bool { return l <= r })
}

func ntvInvertInt(args []value.Value) (value.Value, error) {
	n, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(^n), nil
}

func ntvNegInt(args []value.Value) (value.Value, error) {
	n, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(-n), nil
}

func ntvPosInt(args []value.Value) (value.Value, error) {
	n, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(n), nil
}

func ntvAndInt(args []value.Value) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(l & r), nil
}

func ntvOrInt(args []value.Value) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(l | r), nil
}

func ntvXorInt(args []value.Value) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(l ^ r), nil
}

func ntvLshiftInt(args []value.Value) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	if r < 0 {
		return value.Value{}, typeErrorf("negative shift count")
	}
	return value.MakeInt(l << uint(r)), nil
}

func ntvRshiftInt(args []value.Value) (value.Value, error) {
	l, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	if r < 0 {
		return value.Value{}, typeErrorf("negative shift count")
	}
	return value.MakeInt(l >> uint(r)), nil
}

func ntvAddFloat(args []value.Value) (value.Value, error) {
	l, err := wantFloat(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantFloat(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeFloat(l + r), nil
}

func ntvSubFloat(args []value.Value) (value.Value, error) {
	l, err := wantFloat(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantFloat(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeFloat(l - r), nil
}

func ntvMulFloat(args []value.Value) (value.Value, error) {
	l, err := wantFloat(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantFloat(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeFloat(l * r), nil
}

func ntvDivFloat(args []value.Value) (value.Value, error) {
	l, err := wantFloat(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantFloat(args[1])
	if err != nil {
		return value.Value{}, err
	}
	if r == 0 {
		return value.Value{}, zeroDivErrorf("float division by zero")
	}
	return value.MakeFloat(l / r), nil
}

func ntvModFloat(args []value.Value) (value.Value, error) {
	l, err := wantFloat(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantFloat(args[1])
	if err != nil {
		return value.Value{}, err
	}
	if r == 0 {
		return value.Value{}, zeroDivErrorf("float modulo by zero")
	}
	m := l - r*float64(int64(l/r))
	return value.MakeFloat(m), nil
}

func ntvCmpFloat(args []value.Value) (value.Value, error) {
	l, err := wantFloat(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantFloat(args[1])
	if err != nil {
		return value.Value{}, err
	}
	switch {
	case l < r:
		return value.MakeInt(-1), nil
	case l > r:
		return value.MakeInt(1), nil
	default:
		return value.MakeInt(0), nil
	}
}

func ntvNegFloat(args []value.Value) (value.Value, error) {
	f, err := wantFloat(args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeFloat(-f), nil
}

func ntvPosFloat(args []value.Value) (value.Value, error) {
	f, err := wantFloat(args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeFloat(f), nil
}

func ntvLenString(args []value.Value) (value.Value, error) {
	s, err := wantString(args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(int64(len([]rune(s)))), nil
}

func ntvAddString(args []value.Value) (value.Value, error) {
	l, err := wantString(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantString(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeString(l + r), nil
}

// ntvEqString and ntvNeString are not part of spec §4.6's listed table,
// which covers string length/concatenation/indexing but no comparison.
// `if __name__ == "__main__":` (spec §8 scenario 2) requires string
// equality, so the preamble needs a typed string comparison to dispatch
// to; these two fill that gap (see DESIGN.md).
func ntvEqString(args []value.Value) (value.Value, error) {
	l, err := wantString(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantString(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeBool(l == r), nil
}

func ntvNeString(args []value.Value) (value.Value, error) {
	l, err := wantString(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantString(args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeBool(l != r), nil
}

func ntvGetitemString(args []value.Value) (value.Value, error) {
	s, err := wantString(args[0])
	if err != nil {
		return value.Value{}, err
	}
	i, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	runes := []rune(s)
	if i < 0 || int(i) >= len(runes) {
		return value.Value{}, indexErrorf("string index out of range")
	}
	return value.MakeString(string(runes[i])), nil
}

func wantTuple(v value.Value) ([]value.Value, error) {
	if v.Kind != value.Tuple {
		return nil, typeErrorf("expected tuple, got %s", v.Kind)
	}
	return v.Tuple, nil
}

func ntvAddTuple(args []value.Value) (value.Value, error) {
	l, err := wantTuple(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantTuple(args[1])
	if err != nil {
		return value.Value{}, err
	}
	out := make([]value.Value, 0, len(l)+len(r))
	out = append(out, l...)
	out = append(out, r...)
	return value.MakeTuple(out), nil
}

func ntvLenTuple(args []value.Value) (value.Value, error) {
	t, err := wantTuple(args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(int64(len(t))), nil
}

func ntvGetitemTuple(args []value.Value) (value.Value, error) {
	t, err := wantTuple(args[0])
	if err != nil {
		return value.Value{}, err
	}
	i, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	if i < 0 || int(i) >= len(t) {
		return value.Value{}, indexErrorf("tuple index out of range")
	}
	return t[i], nil
}

func wantList(v value.Value) (*value.ListValue, error) {
	if v.Kind != value.List {
		return nil, typeErrorf("expected list, got %s", v.Kind)
	}
	return v.List, nil
}

func ntvAddList(args []value.Value) (value.Value, error) {
	l, err := wantList(args[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := wantList(args[1])
	if err != nil {
		return value.Value{}, err
	}
	out := make([]value.Value, 0, len(l.Elements)+len(r.Elements))
	out = append(out, l.Elements...)
	out = append(out, r.Elements...)
	return value.MakeList(out), nil
}

func ntvLenList(args []value.Value) (value.Value, error) {
	l, err := wantList(args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.MakeInt(int64(len(l.Elements))), nil
}

func ntvGetitemList(args []value.Value) (value.Value, error) {
	l, err := wantList(args[0])
	if err != nil {
		return value.Value{}, err
	}
	i, err := wantInt(args[1])
	if err != nil {
		return value.Value{}, err
	}
	if i < 0 || int(i) >= len(l.Elements) {
		return value.Value{}, indexErrorf("list index out of range")
	}
	return l.Elements[i], nil
}

func ntvPrint(args []value.Value) (value.Value, error) {
	fmt.Print(value.Repr(args[0]))
	return value.MakeNone(), nil
}

func ntvPrintNl(args []value.Value) (value.Value, error) {
	fmt.Println(value.Repr(args[0]))
	return value.MakeNone(), nil
}

func ntvRange(args []value.Value) (value.Value, error) {
	n, err := wantInt(args[0])
	if err != nil {
		return value.Value{}, err
	}
	if n < 0 {
		n = 0
	}
	elems := make([]value.Value, n)
	for i := int64(0); i < n; i++ {
		elems[i] = value.MakeInt(i)
	}
	return value.MakeList(elems), nil
}

func ntvPanic(args []value.Value) (value.Value, error) {
	return value.Value{}, &Error{Kind: RuntimeError, Msg: "__panic__"}
}

// ntvNot reports the logical negation of truthiness. The reference
// implementation's ntv_not returns is_truthy unnegated; fixed here.
func ntvNot(args []value.Value) (value.Value, error) {
	return value.MakeBool(!value.Truthy(args[0])), nil
}

func ntvIsInt(args []value.Value) (value.Value, error) {
	return value.MakeBool(args[0].Kind == value.Int), nil
}
func ntvIsFloat(args []value.Value) (value.Value, error) {
	return value.MakeBool(args[0].Kind == value.Float), nil
}
func ntvIsString(args []value.Value) (value.Value, error) {
	return value.MakeBool(args[0].Kind == value.String), nil
}
func ntvIsTuple(args []value.Value) (value.Value, error) {
	return value.MakeBool(args[0].Kind == value.Tuple), nil
}
func ntvIsList(args []value.Value) (value.Value, error) {
	return value.MakeBool(args[0].Kind == value.List), nil
}
func ntvIsDict(args []value.Value) (value.Value, error) {
	return value.MakeBool(args[0].Kind == value.Dict), nil
}
func ntvIsSet(args []value.Value) (value.Value, error) {
	return value.MakeBool(args[0].Kind == value.Set), nil
}

// ntvStructEq is not part of spec §4.6's listed table either, which names
// no comparison builtin for None/Bool/tuple/list/dict/set at all. The
// preamble's __eq__ dispatcher already special-cases int/float/string; this
// fills the remaining kinds with the evaluator's own structural equality
// (value.Equal), so `None == None`, `True == True`, and `(1,) == (1,)` hold
// per spec §3's "equality is structural for primitives and collections"
// instead of falling through to an unconditional False (see DESIGN.md).
func ntvStructEq(args []value.Value) (value.Value, error) {
	return value.MakeBool(value.Equal(args[0], args[1])), nil
}
