package ast_test

import (
	"strings"
	"testing"

	"github.com/minipy-lang/minipy/internal/ast"
	"github.com/minipy-lang/minipy/internal/token"
)

func TestStringMethods(t *testing.T) {
	pos := token.Position{Line: 1, Col: 1}

	tests := []struct {
		name     string
		node     ast.Node
		expected string
	}{
		{"FuncDef", &ast.FuncDef{NamePos: pos, Name: "add", Params: []string{"a", "b"}}, "FuncDef(add"},
		{"Return", &ast.Return{KwPos: pos}, "Return()"},
		{"Name", &ast.Name{NamePos: pos, Id: "x"}, "Name(x)"},
		{"Constant-Int", &ast.Constant{ValPos: pos, Kind: ast.ConstInt, Int: 42}, "Constant(42)"},
		{"Constant-String", &ast.Constant{ValPos: pos, Kind: ast.ConstString, Str: "hi"}, `Constant("hi")`},
		{"Pass", &ast.Pass{KwPos: pos}, "Pass()"},
		{"Break", &ast.Break{KwPos: pos}, "Break()"},
		{"Continue", &ast.Continue{KwPos: pos}, "Continue()"},
	}

	for _, tt := range tests {
		str := tt.node.String()
		if !strings.Contains(str, tt.expected) {
			t.Errorf("%s: expected substring %q in %q", tt.name, tt.expected, str)
		}
	}
}

func TestBinOpString(t *testing.T) {
	pos := token.Position{Line: 1, Col: 1}
	left := &ast.Constant{ValPos: pos, Kind: ast.ConstInt, Int: 5}
	right := &ast.Constant{ValPos: pos, Kind: ast.ConstInt, Int: 3}
	expr := &ast.BinOp{OpPos: pos, Left: left, Op: ast.Add, Right: right}

	if expr.Op.String() != "+" {
		t.Errorf("expected op '+', got %q", expr.Op.String())
	}
	if !strings.Contains(expr.String(), "BinOp(") {
		t.Errorf("expected BinOp( in %q", expr.String())
	}
}

func TestIfElifLowering(t *testing.T) {
	pos := token.Position{Line: 1, Col: 1}
	inner := &ast.If{
		IfPos: pos,
		Test:  &ast.Name{NamePos: pos, Id: "c2"},
		Body:  []ast.Stmt{&ast.Pass{KwPos: pos}},
	}
	outer := &ast.If{
		IfPos:  pos,
		Test:   &ast.Name{NamePos: pos, Id: "c1"},
		Body:   []ast.Stmt{&ast.Pass{KwPos: pos}},
		Orelse: []ast.Stmt{inner},
	}

	if len(outer.Orelse) != 1 {
		t.Fatalf("expected exactly one orelse statement, got %d", len(outer.Orelse))
	}
	if _, ok := outer.Orelse[0].(*ast.If); !ok {
		t.Fatalf("expected orelse to be a nested If, got %T", outer.Orelse[0])
	}
}

func TestPrettyPrintModule(t *testing.T) {
	pos := token.Position{Line: 1, Col: 1}
	module := &ast.Module{Body: []ast.Stmt{
		&ast.FuncDef{
			NamePos: pos,
			Name:    "main",
			Body: []ast.Stmt{
				&ast.ExprStmt{Value: &ast.Call{
					CallPos: pos,
					Func:    &ast.Name{NamePos: pos, Id: "print"},
					Args:    []ast.Expr{&ast.Constant{ValPos: pos, Kind: ast.ConstInt, Int: 1}},
				}},
			},
		},
	}}

	output := ast.PrettyPrint(module)
	if !strings.Contains(output, "main") {
		t.Errorf("expected 'main' in output, got %q", output)
	}
	if !strings.Contains(output, "Call(") {
		t.Errorf("expected Call( in output, got %q", output)
	}
}

func TestPrettyPrintNestedExpressions(t *testing.T) {
	pos := token.Position{Line: 1, Col: 1}
	inner := &ast.BinOp{
		OpPos: pos,
		Left:  &ast.Constant{ValPos: pos, Kind: ast.ConstInt, Int: 1},
		Op:    ast.Add,
		Right: &ast.Constant{ValPos: pos, Kind: ast.ConstInt, Int: 2},
	}
	outer := &ast.BinOp{
		OpPos: pos,
		Left:  inner,
		Op:    ast.Mul,
		Right: &ast.Constant{ValPos: pos, Kind: ast.ConstInt, Int: 3},
	}

	module := &ast.Module{Body: []ast.Stmt{&ast.ExprStmt{Value: outer}}}
	output := ast.PrettyPrint(module)
	entries := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " "), "BinOp(") {
			entries++
		}
	}
	if entries != 2 {
		t.Errorf("expected 2 nested BinOp( entries, got output %q", output)
	}
}

func TestInterfaceImplementation(t *testing.T) {
	pos := token.Position{Line: 1, Col: 1}

	var stmts []ast.Stmt
	var exprs []ast.Expr

	stmts = append(stmts,
		&ast.FuncDef{NamePos: pos, Name: "f"},
		&ast.Return{KwPos: pos},
		&ast.Delete{KwPos: pos},
		&ast.Assign{EqPos: pos, Value: &ast.Name{NamePos: pos, Id: "x"}},
		&ast.For{ForPos: pos, Target: &ast.Name{NamePos: pos, Id: "i"}, Iter: &ast.Name{NamePos: pos, Id: "xs"}},
		&ast.While{WhilePos: pos, Test: &ast.Name{NamePos: pos, Id: "c"}},
		&ast.If{IfPos: pos, Test: &ast.Name{NamePos: pos, Id: "c"}},
		&ast.Global{KwPos: pos},
		&ast.ExprStmt{Value: &ast.Name{NamePos: pos, Id: "x"}},
		&ast.Pass{KwPos: pos},
		&ast.Break{KwPos: pos},
		&ast.Continue{KwPos: pos},
	)

	exprs = append(exprs,
		&ast.BoolOp{OpPos: pos, Op: ast.BoolAnd},
		&ast.BinOp{OpPos: pos, Op: ast.Add},
		&ast.UnaryOp{OpPos: pos, Op: ast.Not},
		&ast.IfExp{IfPos: pos},
		&ast.Dict{BracePos: pos},
		&ast.Set{BracePos: pos},
		&ast.Compare{StartPos: pos},
		&ast.Call{CallPos: pos},
		&ast.Constant{ValPos: pos, Kind: ast.ConstNone},
		&ast.Subscript{BracketPos: pos, Value: &ast.Name{NamePos: pos, Id: "x"}, Slice: &ast.Index{Value: &ast.Constant{ValPos: pos, Kind: ast.ConstInt}}},
		&ast.Name{NamePos: pos, Id: "x"},
		&ast.List{BracketPos: pos},
		&ast.Tuple{ParenPos: pos},
		&ast.Starred{StarPos: pos, Value: &ast.Name{NamePos: pos, Id: "x"}},
	)

	_ = stmts
	_ = exprs
}
