// Package value implements MiniPy's dynamic value representation
// (spec §3 "Value", §4.4 "Value representation").
//
// Grounded on original_source/src/eval/types.rs's py_val enum, but
// rendered as a plain Go tagged struct relying on the runtime's GC rather
// than the Rust reference's refcounted, pointer-tagged py_val_t — spec
// §4.4/§9 explicitly sanction either scheme, and a tagged union is the
// idiomatic Go shape (see DESIGN.md).
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/minipy-lang/minipy/internal/ast"
)

// Kind discriminates the dynamic type of a Value.
type Kind int

const (
	Int Kind = iota
	Float
	Bool
	None
	String
	List
	Tuple
	Dict
	Set
	Func
	NativeFunc
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case None:
		return "NoneType"
	case String:
		return "string"
	case List:
		return "list"
	case Tuple:
		return "tuple"
	case Dict:
		return "dict"
	case Set:
		return "set"
	case Func:
		return "function"
	default:
		return "native_function"
	}
}

// ListValue is mutable and shared by reference, giving Lists identity
// (spec §3: "List (ordered sequence, mutable identity)").
type ListValue struct {
	Elements []Value
}

// FuncValue is a user-defined function: name, parameter names, and body
// statements (spec §3 "Func (user-defined: name, parameter-name list,
// body-statements)"). Functions do not close over the lexical environment
// (spec §4.5 "FuncDef").
type FuncValue struct {
	Name   string
	Params []string
	Body   []ast.Stmt
}

// NativeFuncBody is the signature every built-in implements.
type NativeFuncBody func(args []Value) (Value, error)

// NativeFuncValue is a fixed-arity built-in registered in global_env
// before user code runs (spec §4.6).
type NativeFuncValue struct {
	Name  string
	Arity int
	Body  NativeFuncBody
}

// Value is MiniPy's single dynamic value type: a tag plus the field(s)
// that tag uses. Dict and Set are separate files (dict.go, set.go) since
// their hashable-subset bookkeeping is non-trivial.
type Value struct {
	Kind   Kind
	Int    int64
	Float  float64
	Bool   bool
	Str    string
	List   *ListValue
	Tuple  []Value
	Dict   *DictValue
	Set    *SetValue
	Func   *FuncValue
	Native *NativeFuncValue
}

func MakeInt(n int64) Value      { return Value{Kind: Int, Int: n} }
func MakeFloat(f float64) Value  { return Value{Kind: Float, Float: f} }
func MakeBool(b bool) Value      { return Value{Kind: Bool, Bool: b} }
func MakeNone() Value            { return Value{Kind: None} }
func MakeString(s string) Value  { return Value{Kind: String, Str: s} }
func MakeList(elems []Value) Value {
	return Value{Kind: List, List: &ListValue{Elements: elems}}
}
func MakeTuple(elems []Value) Value { return Value{Kind: Tuple, Tuple: elems} }
func MakeFunc(f *FuncValue) Value   { return Value{Kind: Func, Func: f} }
func MakeNative(n *NativeFuncValue) Value {
	return Value{Kind: NativeFunc, Native: n}
}
func MakeDict(d *DictValue) Value { return Value{Kind: Dict, Dict: d} }
func MakeSet(s *SetValue) Value   { return Value{Kind: Set, Set: s} }

// Truthy implements spec §4.4's truthiness rule: False, None, Int 0,
// Float 0.0, and empty String are falsy; everything else (including empty
// List/Dict/Set, left unspecified by the spec) is truthy.
func Truthy(v Value) bool {
	switch v.Kind {
	case Bool:
		return v.Bool
	case None:
		return false
	case Int:
		return v.Int != 0
	case Float:
		return v.Float != 0
	case String:
		return v.Str != ""
	default:
		return true
	}
}

// Equal implements spec §3's structural equality for Int/Float/String/
// Bool/None/Tuple/List/Dict/Set, and identity for callables.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Int:
		return a.Int == b.Int
	case Float:
		return a.Float == b.Float
	case Bool:
		return a.Bool == b.Bool
	case None:
		return true
	case String:
		return a.Str == b.Str
	case Tuple:
		return equalSlice(a.Tuple, b.Tuple)
	case List:
		return a.List == b.List || equalSlice(a.List.Elements, b.List.Elements)
	case Dict:
		return dictEqual(a.Dict, b.Dict)
	case Set:
		return setEqual(a.Set, b.Set)
	case Func:
		return a.Func == b.Func
	case NativeFunc:
		return a.Native == b.Native
	default:
		return false
	}
}

func equalSlice(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Repr renders v the way `print` displays it (spec §8 end-to-end
// scenarios: `print([1, 2, 3])` → `[1, 2, 3]`, float formatting must be
// consistent — this implementation appends ".0" when the shortest form has
// neither a fraction nor an exponent, so 1.0 prints as "1.0" while 1e6
// prints as "1e+06").
func Repr(v Value) string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		return formatFloat(v.Float)
	case Bool:
		if v.Bool {
			return "True"
		}
		return "False"
	case None:
		return "None"
	case String:
		return v.Str
	case List:
		return "[" + joinRepr(v.List.Elements) + "]"
	case Tuple:
		if len(v.Tuple) == 1 {
			return "(" + Repr(v.Tuple[0]) + ",)"
		}
		return "(" + joinRepr(v.Tuple) + ")"
	case Dict:
		return v.Dict.String()
	case Set:
		return v.Set.String()
	case Func:
		return fmt.Sprintf("<function %s>", v.Func.Name)
	default:
		return fmt.Sprintf("<native function %s>", v.Native.Name)
	}
}

func joinRepr(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Repr(v)
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
