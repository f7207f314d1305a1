// internal/ast/printer.go

// Package ast also provides a human-readable, indented dump of a parsed
// tree, used by the `parse` CLI subcommand for debugging.
package ast

import "strings"

// PrettyPrint returns an indented, line-per-node rendering of n. Each
// nesting level adds two spaces. A Module's own line is just "Module";
// every other node's line is its full String().
func PrettyPrint(n Node) string {
	var sb strings.Builder
	prettyPrintNode(&sb, n, 0)
	return sb.String()
}

// prettyPrintNode recursively walks n's children according to its concrete
// type; leaf nodes (Name, Constant, Pass, Break, Continue, Global) need no
// case since they carry no child nodes.
func prettyPrintNode(sb *strings.Builder, n Node, indent int) {
	if n == nil {
		return
	}
	prefix := strings.Repeat("  ", indent)
	sb.WriteString(prefix)
	if _, ok := n.(*Module); ok {
		sb.WriteString("Module")
	} else {
		sb.WriteString(n.String())
	}
	sb.WriteString("\n")

	switch node := n.(type) {
	case *Module:
		for _, s := range node.Body {
			prettyPrintNode(sb, s, indent+1)
		}
	case *FuncDef:
		for _, s := range node.Body {
			prettyPrintNode(sb, s, indent+1)
		}
	case *Return:
		prettyPrintNode(sb, node.Value, indent+1)
	case *Delete:
		for _, t := range node.Targets {
			prettyPrintNode(sb, t, indent+1)
		}
	case *Assign:
		for _, t := range node.Targets {
			prettyPrintNode(sb, t, indent+1)
		}
		prettyPrintNode(sb, node.Value, indent+1)
	case *For:
		prettyPrintNode(sb, node.Target, indent+1)
		prettyPrintNode(sb, node.Iter, indent+1)
		for _, s := range node.Body {
			prettyPrintNode(sb, s, indent+1)
		}
	case *While:
		prettyPrintNode(sb, node.Test, indent+1)
		for _, s := range node.Body {
			prettyPrintNode(sb, s, indent+1)
		}
	case *If:
		prettyPrintNode(sb, node.Test, indent+1)
		for _, s := range node.Body {
			prettyPrintNode(sb, s, indent+1)
		}
		for _, s := range node.Orelse {
			prettyPrintNode(sb, s, indent+1)
		}
	case *ExprStmt:
		prettyPrintNode(sb, node.Value, indent+1)
	case *BoolOp:
		for _, e := range node.Operands {
			prettyPrintNode(sb, e, indent+1)
		}
	case *BinOp:
		prettyPrintNode(sb, node.Left, indent+1)
		prettyPrintNode(sb, node.Right, indent+1)
	case *UnaryOp:
		prettyPrintNode(sb, node.Operand, indent+1)
	case *IfExp:
		prettyPrintNode(sb, node.Test, indent+1)
		prettyPrintNode(sb, node.Body, indent+1)
		prettyPrintNode(sb, node.Orelse, indent+1)
	case *Dict:
		for i := range node.Keys {
			prettyPrintNode(sb, node.Keys[i], indent+1)
			prettyPrintNode(sb, node.Values[i], indent+1)
		}
	case *Set:
		for _, e := range node.Elements {
			prettyPrintNode(sb, e, indent+1)
		}
	case *Compare:
		prettyPrintNode(sb, node.Left, indent+1)
		for _, c := range node.Comparators {
			prettyPrintNode(sb, c, indent+1)
		}
	case *Call:
		prettyPrintNode(sb, node.Func, indent+1)
		for _, a := range node.Args {
			prettyPrintNode(sb, a, indent+1)
		}
	case *Subscript:
		prettyPrintNode(sb, node.Value, indent+1)
		prettyPrintNode(sb, node.Slice, indent+1)
	case *List:
		for _, e := range node.Elements {
			prettyPrintNode(sb, e, indent+1)
		}
	case *Tuple:
		for _, e := range node.Elements {
			prettyPrintNode(sb, e, indent+1)
		}
	case *Starred:
		prettyPrintNode(sb, node.Value, indent+1)
	}
}
