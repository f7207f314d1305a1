// Package ast defines the algebraic data model shared by the parser and the
// evaluator (spec §3 "AST — statements"/"AST — expressions").
//
// Node shapes and the Pos()/String() contract are grounded on
// rust2go/internal/ast/nodes.go: every node carries its own position and a
// private discriminator method so Stmt and Expr stay closed interfaces.
package ast

import (
	"fmt"
	"strings"

	"github.com/minipy-lang/minipy/internal/token"
)

// Position aliases token.Position so AST nodes and tokens share one
// coordinate system.
type Position = token.Position

// Node is implemented by every statement and expression node.
type Node interface {
	Pos() Position
	String() string
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Module is the parsed top-level unit: an ordered sequence of statements.
type Module struct {
	Body []Stmt
}

func (m *Module) Pos() Position {
	if len(m.Body) == 0 {
		return Position{Line: 1, Col: 1}
	}
	return m.Body[0].Pos()
}

func (m *Module) String() string {
	var sb strings.Builder
	for _, s := range m.Body {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ---- Statements ----

type FuncDef struct {
	NamePos Position
	Name    string
	Params  []string
	Body    []Stmt
}

func (n *FuncDef) Pos() Position { return n.NamePos }
func (n *FuncDef) stmtNode()     {}
func (n *FuncDef) String() string {
	return fmt.Sprintf("FuncDef(%s, %v, %d stmts)", n.Name, n.Params, len(n.Body))
}

// Return holds the returned expression, or nil for a bare `return`.
type Return struct {
	KwPos Position
	Value Expr
}

func (n *Return) Pos() Position { return n.KwPos }
func (n *Return) stmtNode()     {}
func (n *Return) String() string {
	if n.Value == nil {
		return "Return()"
	}
	return fmt.Sprintf("Return(%s)", n.Value.String())
}

// Delete is reserved; the evaluator raises unimplemented for it.
type Delete struct {
	KwPos   Position
	Targets []Expr
}

func (n *Delete) Pos() Position { return n.KwPos }
func (n *Delete) stmtNode()     {}
func (n *Delete) String() string {
	return fmt.Sprintf("Delete(%s)", joinExprs(n.Targets))
}

// Assign supports chained assignment: Targets holds every target but the
// last-parsed testlist_star_expr, which becomes Value.
type Assign struct {
	EqPos   Position
	Targets []Expr
	Value   Expr
}

func (n *Assign) Pos() Position { return n.EqPos }
func (n *Assign) stmtNode()     {}
func (n *Assign) String() string {
	return fmt.Sprintf("Assign(%s, %s)", joinExprs(n.Targets), n.Value.String())
}

type For struct {
	ForPos Position
	Target Expr
	Iter   Expr
	Body   []Stmt
}

func (n *For) Pos() Position { return n.ForPos }
func (n *For) stmtNode()     {}
func (n *For) String() string {
	return fmt.Sprintf("For(%s, %s, %d stmts)", n.Target.String(), n.Iter.String(), len(n.Body))
}

type While struct {
	WhilePos Position
	Test     Expr
	Body     []Stmt
}

func (n *While) Pos() Position { return n.WhilePos }
func (n *While) stmtNode()     {}
func (n *While) String() string {
	return fmt.Sprintf("While(%s, %d stmts)", n.Test.String(), len(n.Body))
}

// If's Orelse is empty for no else, or a single nested *If for an elif
// (spec §4.3 "Elif lowering").
type If struct {
	IfPos  Position
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

func (n *If) Pos() Position { return n.IfPos }
func (n *If) stmtNode()     {}
func (n *If) String() string {
	return fmt.Sprintf("If(%s, %d stmts, %d orelse)", n.Test.String(), len(n.Body), len(n.Orelse))
}

type Global struct {
	KwPos Position
	Names []string
}

func (n *Global) Pos() Position { return n.KwPos }
func (n *Global) stmtNode()     {}
func (n *Global) String() string {
	return fmt.Sprintf("Global(%v)", n.Names)
}

// ExprStmt is a bare expression evaluated for effect.
type ExprStmt struct {
	Value Expr
}

func (n *ExprStmt) Pos() Position { return n.Value.Pos() }
func (n *ExprStmt) stmtNode()     {}
func (n *ExprStmt) String() string {
	return fmt.Sprintf("Expr(%s)", n.Value.String())
}

type Pass struct{ KwPos Position }

func (n *Pass) Pos() Position  { return n.KwPos }
func (n *Pass) stmtNode()      {}
func (n *Pass) String() string { return "Pass()" }

type Break struct{ KwPos Position }

func (n *Break) Pos() Position  { return n.KwPos }
func (n *Break) stmtNode()      {}
func (n *Break) String() string { return "Break()" }

type Continue struct{ KwPos Position }

func (n *Continue) Pos() Position  { return n.KwPos }
func (n *Continue) stmtNode()      {}
func (n *Continue) String() string { return "Continue()" }

// ---- Expressions ----

type BoolOpKind int

const (
	BoolAnd BoolOpKind = iota
	BoolOr
)

func (k BoolOpKind) String() string {
	if k == BoolAnd {
		return "and"
	}
	return "or"
}

type BoolOp struct {
	OpPos    Position
	Op       BoolOpKind
	Operands []Expr
}

func (n *BoolOp) Pos() Position { return n.OpPos }
func (n *BoolOp) exprNode()     {}
func (n *BoolOp) String() string {
	return fmt.Sprintf("BoolOp(%s, %s)", n.Op, joinExprs(n.Operands))
}

type BinOpKind int

const (
	Add BinOpKind = iota
	Sub
	Mul
	Div
	Mod
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
)

var binOpNames = map[BinOpKind]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	LShift: "<<", RShift: ">>", BitOr: "|", BitXor: "^", BitAnd: "&",
}

func (k BinOpKind) String() string { return binOpNames[k] }

type BinOp struct {
	OpPos Position
	Left  Expr
	Op    BinOpKind
	Right Expr
}

func (n *BinOp) Pos() Position { return n.OpPos }
func (n *BinOp) exprNode()     {}
func (n *BinOp) String() string {
	return fmt.Sprintf("BinOp(%s, %s, %s)", n.Left.String(), n.Op, n.Right.String())
}

type UnaryOpKind int

const (
	Invert UnaryOpKind = iota
	Not
	UAdd
	USub
)

var unaryOpNames = map[UnaryOpKind]string{
	Invert: "~", Not: "not", UAdd: "+", USub: "-",
}

func (k UnaryOpKind) String() string { return unaryOpNames[k] }

type UnaryOp struct {
	OpPos   Position
	Op      UnaryOpKind
	Operand Expr
}

func (n *UnaryOp) Pos() Position { return n.OpPos }
func (n *UnaryOp) exprNode()     {}
func (n *UnaryOp) String() string {
	return fmt.Sprintf("UnaryOp(%s, %s)", n.Op, n.Operand.String())
}

type IfExp struct {
	IfPos  Position
	Test   Expr
	Body   Expr
	Orelse Expr
}

func (n *IfExp) Pos() Position { return n.IfPos }
func (n *IfExp) exprNode()     {}
func (n *IfExp) String() string {
	return fmt.Sprintf("IfExp(%s, %s, %s)", n.Test.String(), n.Body.String(), n.Orelse.String())
}

type Dict struct {
	BracePos Position
	Keys     []Expr
	Values   []Expr
}

func (n *Dict) Pos() Position { return n.BracePos }
func (n *Dict) exprNode()     {}
func (n *Dict) String() string {
	return fmt.Sprintf("Dict(%s, %s)", joinExprs(n.Keys), joinExprs(n.Values))
}

type Set struct {
	BracePos Position
	Elements []Expr
}

func (n *Set) Pos() Position { return n.BracePos }
func (n *Set) exprNode()     {}
func (n *Set) String() string {
	return fmt.Sprintf("Set(%s)", joinExprs(n.Elements))
}

type CmpOpKind int

const (
	CmpLT CmpOpKind = iota
	CmpGT
	CmpEq
	CmpGE
	CmpLE
	CmpNE
	CmpIn
	CmpNotIn
	CmpIs
	CmpIsNot
)

var cmpOpNames = map[CmpOpKind]string{
	CmpLT: "<", CmpGT: ">", CmpEq: "==", CmpGE: ">=", CmpLE: "<=", CmpNE: "!=",
	CmpIn: "in", CmpNotIn: "not in", CmpIs: "is", CmpIsNot: "is not",
}

func (k CmpOpKind) String() string { return cmpOpNames[k] }

// Compare models a chain `left op1 c1 op2 c2 ...`; Ops and Comparators are
// equal-length (spec §3 invariant).
type Compare struct {
	StartPos    Position
	Left        Expr
	Ops         []CmpOpKind
	Comparators []Expr
}

func (n *Compare) Pos() Position { return n.StartPos }
func (n *Compare) exprNode()     {}
func (n *Compare) String() string {
	var sb strings.Builder
	sb.WriteString("Compare(")
	sb.WriteString(n.Left.String())
	for i, op := range n.Ops {
		fmt.Fprintf(&sb, ", %s, %s", op, n.Comparators[i].String())
	}
	sb.WriteString(")")
	return sb.String()
}

type Call struct {
	CallPos Position
	Func    Expr
	Args    []Expr
}

func (n *Call) Pos() Position { return n.CallPos }
func (n *Call) exprNode()     {}
func (n *Call) String() string {
	return fmt.Sprintf("Call(%s, %s)", n.Func.String(), joinExprs(n.Args))
}

// ConstKind discriminates the literal kinds a Constant can hold.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
	ConstNone
	ConstTrue
	ConstFalse
)

type Constant struct {
	ValPos Position
	Kind   ConstKind
	Int    int64
	Float  float64
	Str    string
}

func (n *Constant) Pos() Position { return n.ValPos }
func (n *Constant) exprNode()     {}
func (n *Constant) String() string {
	switch n.Kind {
	case ConstInt:
		return fmt.Sprintf("Constant(%d)", n.Int)
	case ConstFloat:
		return fmt.Sprintf("Constant(%g)", n.Float)
	case ConstString:
		return fmt.Sprintf("Constant(%q)", n.Str)
	case ConstNone:
		return "Constant(None)"
	case ConstTrue:
		return "Constant(True)"
	default:
		return "Constant(False)"
	}
}

// Slice is either an Index or a Slice(lower?, upper?, step?).
type Slice interface {
	Node
	sliceNode()
}

type Index struct {
	Value Expr
}

func (n *Index) Pos() Position  { return n.Value.Pos() }
func (n *Index) sliceNode()     {}
func (n *Index) String() string { return fmt.Sprintf("Index(%s)", n.Value.String()) }

type SliceRange struct {
	At                 Position
	Lower, Upper, Step Expr
}

func (n *SliceRange) Pos() Position { return n.At }
func (n *SliceRange) sliceNode()    {}
func (n *SliceRange) String() string {
	opt := func(e Expr) string {
		if e == nil {
			return "_"
		}
		return e.String()
	}
	return fmt.Sprintf("Slice(%s, %s, %s)", opt(n.Lower), opt(n.Upper), opt(n.Step))
}

type Subscript struct {
	BracketPos Position
	Value      Expr
	Slice      Slice
}

func (n *Subscript) Pos() Position { return n.BracketPos }
func (n *Subscript) exprNode()     {}
func (n *Subscript) String() string {
	return fmt.Sprintf("Subscript(%s, %s)", n.Value.String(), n.Slice.String())
}

type Name struct {
	NamePos Position
	Id      string
}

func (n *Name) Pos() Position  { return n.NamePos }
func (n *Name) exprNode()      {}
func (n *Name) String() string { return fmt.Sprintf("Name(%s)", n.Id) }

type List struct {
	BracketPos Position
	Elements   []Expr
}

func (n *List) Pos() Position { return n.BracketPos }
func (n *List) exprNode()     {}
func (n *List) String() string {
	return fmt.Sprintf("List(%s)", joinExprs(n.Elements))
}

type Tuple struct {
	ParenPos Position
	Elements []Expr
}

func (n *Tuple) Pos() Position { return n.ParenPos }
func (n *Tuple) exprNode()     {}
func (n *Tuple) String() string {
	return fmt.Sprintf("Tuple(%s)", joinExprs(n.Elements))
}

type Starred struct {
	StarPos Position
	Value   Expr
}

func (n *Starred) Pos() Position { return n.StarPos }
func (n *Starred) exprNode()     {}
func (n *Starred) String() string {
	return fmt.Sprintf("Starred(%s)", n.Value.String())
}

func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
