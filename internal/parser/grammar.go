// internal/parser/grammar.go

// Grammar implements the precedence ladder and statement forms of
// spec §4.3, grounded structurally on rust2go/internal/parser/grammar.go's
// parseBinary-over-precedence-levels shape.
package parser

import (
	"github.com/minipy-lang/minipy/internal/ast"
	"github.com/minipy-lang/minipy/internal/token"
)

func (p *Parser) parseModule() *ast.Module {
	var body []ast.Stmt
	for !p.stream.IsEOF() {
		body = append(body, p.parseStatement())
	}
	return &ast.Module{Body: body}
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.stream.Peek().Kind {
	case token.DEF:
		return p.parseFuncDef()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	default:
		return p.parseSimpleStatementLine()
	}
}

func (p *Parser) parseSuite() []ast.Stmt {
	if p.stream.Peek().Kind == token.NEWLINE {
		p.stream.Next()
		p.eat(token.INDENT)
		var stmts []ast.Stmt
		for p.stream.Peek().Kind != token.DEDENT {
			stmts = append(stmts, p.parseStatement())
		}
		p.eat(token.DEDENT)
		return stmts
	}
	return []ast.Stmt{p.parseSimpleStatementLine()}
}

// parseSimpleStatementLine parses one small statement and consumes its
// terminating NEWLINE, except at EOF (spec §4.3 "Statement terminator").
func (p *Parser) parseSimpleStatementLine() ast.Stmt {
	stmt := p.parseSimpleStatement()
	if p.stream.Peek().Kind == token.NEWLINE {
		p.stream.Next()
	} else if !p.stream.IsEOF() {
		p.fail(p.stream.Peek(), "expected NEWLINE, got %s", p.stream.Peek())
	}
	return stmt
}

func (p *Parser) parseSimpleStatement() ast.Stmt {
	switch p.stream.Peek().Kind {
	case token.RETURN:
		return p.parseReturn()
	case token.DEL:
		return p.parseDelete()
	case token.GLOBAL:
		return p.parseGlobal()
	case token.PASS:
		tok := p.eat(token.PASS)
		return &ast.Pass{KwPos: tok.Pos()}
	case token.BREAK:
		tok := p.eat(token.BREAK)
		return &ast.Break{KwPos: tok.Pos()}
	case token.CONTINUE:
		tok := p.eat(token.CONTINUE)
		return &ast.Continue{KwPos: tok.Pos()}
	default:
		return p.parseExprOrAssignStatement()
	}
}

func (p *Parser) atStatementEnd() bool {
	k := p.stream.Peek().Kind
	return k == token.NEWLINE || k == token.EOF
}

func (p *Parser) parseReturn() ast.Stmt {
	tok := p.eat(token.RETURN)
	if p.atStatementEnd() {
		return &ast.Return{KwPos: tok.Pos()}
	}
	return &ast.Return{KwPos: tok.Pos(), Value: p.parseTestListStarExprAsExpr()}
}

func (p *Parser) parseDelete() ast.Stmt {
	tok := p.eat(token.DEL)
	targets := []ast.Expr{p.parseTest()}
	for p.stream.Peek().Kind == token.COMMA {
		p.stream.Next()
		targets = append(targets, p.parseTest())
	}
	return &ast.Delete{KwPos: tok.Pos(), Targets: targets}
}

func (p *Parser) parseGlobal() ast.Stmt {
	tok := p.eat(token.GLOBAL)
	names := []string{p.eat(token.IDENT).Lit}
	for p.stream.Peek().Kind == token.COMMA {
		p.stream.Next()
		names = append(names, p.eat(token.IDENT).Lit)
	}
	return &ast.Global{KwPos: tok.Pos(), Names: names}
}

// parseExprOrAssignStatement implements spec §4.3's "Assignment vs
// expression statement": parse testlist_star_expr repeatedly while '='
// follows; the last parsed expression is the value, the rest are targets.
func (p *Parser) parseExprOrAssignStatement() ast.Stmt {
	first := p.parseTestListStarExprAsExpr()
	if p.stream.Peek().Kind != token.ASSIGN {
		return &ast.ExprStmt{Value: first}
	}
	pos := p.stream.Peek().Pos()
	exprs := []ast.Expr{first}
	for p.stream.Peek().Kind == token.ASSIGN {
		p.stream.Next()
		exprs = append(exprs, p.parseTestListStarExprAsExpr())
	}
	value := exprs[len(exprs)-1]
	targets := exprs[:len(exprs)-1]
	return &ast.Assign{EqPos: pos, Targets: targets, Value: value}
}

func (p *Parser) parseFuncDef() ast.Stmt {
	defTok := p.eat(token.DEF)
	nameTok := p.eat(token.IDENT)
	p.eat(token.LPAREN)
	var params []string
	if p.stream.Peek().Kind != token.RPAREN {
		params = append(params, p.eat(token.IDENT).Lit)
		for p.stream.Peek().Kind == token.COMMA {
			p.stream.Next()
			params = append(params, p.eat(token.IDENT).Lit)
		}
	}
	p.eat(token.RPAREN)
	p.eat(token.COLON)
	body := p.parseSuite()
	return &ast.FuncDef{NamePos: defTok.Pos(), Name: nameTok.Lit, Params: params, Body: body}
}

func (p *Parser) parseWhile() ast.Stmt {
	tok := p.eat(token.WHILE)
	test := p.parseTest()
	p.eat(token.COLON)
	body := p.parseSuite()
	return &ast.While{WhilePos: tok.Pos(), Test: test, Body: body}
}

// parseFor requires a single Name target (spec §4.5 "For-loop": tuple
// unpacking is not supported).
func (p *Parser) parseFor() ast.Stmt {
	tok := p.eat(token.FOR)
	nameTok := p.eat(token.IDENT)
	p.eat(token.IN)
	iter := p.parseTest()
	p.eat(token.COLON)
	body := p.parseSuite()
	target := &ast.Name{NamePos: nameTok.Pos(), Id: nameTok.Lit}
	return &ast.For{ForPos: tok.Pos(), Target: target, Iter: iter, Body: body}
}

// parseIf and parseElif together implement spec §4.3's "Elif lowering":
// `elif` is folded into a single nested If in Orelse.
func (p *Parser) parseIf() ast.Stmt {
	tok := p.eat(token.IF)
	return p.finishIf(tok.Pos())
}

func (p *Parser) parseElif() ast.Stmt {
	tok := p.eat(token.ELIF)
	return p.finishIf(tok.Pos())
}

func (p *Parser) finishIf(ifPos ast.Position) ast.Stmt {
	test := p.parseTest()
	p.eat(token.COLON)
	body := p.parseSuite()
	var orelse []ast.Stmt
	switch p.stream.Peek().Kind {
	case token.ELIF:
		orelse = []ast.Stmt{p.parseElif()}
	case token.ELSE:
		p.stream.Next()
		p.eat(token.COLON)
		orelse = p.parseSuite()
	}
	return &ast.If{IfPos: ifPos, Test: test, Body: body, Orelse: orelse}
}

// ---- expression precedence ladder (spec §4.3 grammar) ----

func (p *Parser) parseTestListStarExprAsExpr() ast.Expr {
	first := p.parseTestOrStar()
	if p.stream.Peek().Kind != token.COMMA {
		return first
	}
	pos := first.Pos()
	elems := []ast.Expr{first}
	for p.stream.Peek().Kind == token.COMMA {
		p.stream.Next()
		if p.atStatementEnd() || p.stream.Peek().Kind == token.ASSIGN {
			break
		}
		elems = append(elems, p.parseTestOrStar())
	}
	return &ast.Tuple{ParenPos: pos, Elements: elems}
}

func (p *Parser) parseTestOrStar() ast.Expr {
	if p.stream.Peek().Kind == token.STAR {
		tok := p.stream.Next()
		return &ast.Starred{StarPos: tok.Pos(), Value: p.parseTest()}
	}
	return p.parseTest()
}

// test := or_test ('if' or_test 'else' test)?
func (p *Parser) parseTest() ast.Expr {
	body := p.parseOrTest()
	if p.stream.Peek().Kind != token.IF {
		return body
	}
	tok := p.stream.Next()
	test := p.parseOrTest()
	p.eat(token.ELSE)
	orelse := p.parseTest()
	return &ast.IfExp{IfPos: tok.Pos(), Test: test, Body: body, Orelse: orelse}
}

func (p *Parser) parseOrTest() ast.Expr {
	left := p.parseAndTest()
	if p.stream.Peek().Kind != token.OR {
		return left
	}
	pos := left.Pos()
	operands := []ast.Expr{left}
	for p.stream.Peek().Kind == token.OR {
		p.stream.Next()
		operands = append(operands, p.parseAndTest())
	}
	return &ast.BoolOp{OpPos: pos, Op: ast.BoolOr, Operands: operands}
}

func (p *Parser) parseAndTest() ast.Expr {
	left := p.parseNotTest()
	if p.stream.Peek().Kind != token.AND {
		return left
	}
	pos := left.Pos()
	operands := []ast.Expr{left}
	for p.stream.Peek().Kind == token.AND {
		p.stream.Next()
		operands = append(operands, p.parseNotTest())
	}
	return &ast.BoolOp{OpPos: pos, Op: ast.BoolAnd, Operands: operands}
}

func (p *Parser) parseNotTest() ast.Expr {
	if p.stream.Peek().Kind == token.NOT {
		tok := p.stream.Next()
		return &ast.UnaryOp{OpPos: tok.Pos(), Op: ast.Not, Operand: p.parseNotTest()}
	}
	return p.parseComparison()
}

// tryCompOp consumes a comp_op if the current token starts one, including
// the two-keyword forms 'not in' and 'is'('not')?, which need no
// multi-token lookahead because a comp_op position only ever begins with
// NOT when 'in' is grammatically mandatory to follow.
func (p *Parser) tryCompOp() (ast.CmpOpKind, bool) {
	switch p.stream.Peek().Kind {
	case token.LT:
		p.stream.Next()
		return ast.CmpLT, true
	case token.GT:
		p.stream.Next()
		return ast.CmpGT, true
	case token.EQ:
		p.stream.Next()
		return ast.CmpEq, true
	case token.GE:
		p.stream.Next()
		return ast.CmpGE, true
	case token.LE:
		p.stream.Next()
		return ast.CmpLE, true
	case token.NEQ:
		p.stream.Next()
		return ast.CmpNE, true
	case token.IN:
		p.stream.Next()
		return ast.CmpIn, true
	case token.NOT:
		p.stream.Next()
		p.eat(token.IN)
		return ast.CmpNotIn, true
	case token.IS:
		p.stream.Next()
		if p.stream.Peek().Kind == token.NOT {
			p.stream.Next()
			return ast.CmpIsNot, true
		}
		return ast.CmpIs, true
	default:
		return 0, false
	}
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseExpr()
	var ops []ast.CmpOpKind
	var comparators []ast.Expr
	for {
		op, ok := p.tryCompOp()
		if !ok {
			break
		}
		ops = append(ops, op)
		comparators = append(comparators, p.parseExpr())
	}
	if len(ops) == 0 {
		return left
	}
	return &ast.Compare{StartPos: left.Pos(), Left: left, Ops: ops, Comparators: comparators}
}

func (p *Parser) parseLeftAssoc(next func() ast.Expr, ops map[token.Kind]ast.BinOpKind) ast.Expr {
	left := next()
	for {
		opKind, ok := ops[p.stream.Peek().Kind]
		if !ok {
			return left
		}
		tok := p.stream.Next()
		right := next()
		left = &ast.BinOp{OpPos: tok.Pos(), Left: left, Op: opKind, Right: right}
	}
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parseLeftAssoc(p.parseXorExpr, map[token.Kind]ast.BinOpKind{token.PIPE: ast.BitOr})
}

func (p *Parser) parseXorExpr() ast.Expr {
	return p.parseLeftAssoc(p.parseAndExpr, map[token.Kind]ast.BinOpKind{token.CARET: ast.BitXor})
}

func (p *Parser) parseAndExpr() ast.Expr {
	return p.parseLeftAssoc(p.parseShiftExpr, map[token.Kind]ast.BinOpKind{token.AMP: ast.BitAnd})
}

func (p *Parser) parseShiftExpr() ast.Expr {
	return p.parseLeftAssoc(p.parseArithExpr, map[token.Kind]ast.BinOpKind{
		token.LSHIFT: ast.LShift, token.RSHIFT: ast.RShift,
	})
}

func (p *Parser) parseArithExpr() ast.Expr {
	return p.parseLeftAssoc(p.parseTerm, map[token.Kind]ast.BinOpKind{
		token.PLUS: ast.Add, token.MINUS: ast.Sub,
	})
}

func (p *Parser) parseTerm() ast.Expr {
	return p.parseLeftAssoc(p.parseFactor, map[token.Kind]ast.BinOpKind{
		token.STAR: ast.Mul, token.SLASH: ast.Div, token.PERCENT: ast.Mod,
	})
}

func (p *Parser) parseFactor() ast.Expr {
	switch p.stream.Peek().Kind {
	case token.PLUS:
		tok := p.stream.Next()
		return &ast.UnaryOp{OpPos: tok.Pos(), Op: ast.UAdd, Operand: p.parseFactor()}
	case token.MINUS:
		tok := p.stream.Next()
		return &ast.UnaryOp{OpPos: tok.Pos(), Op: ast.USub, Operand: p.parseFactor()}
	case token.TILDE:
		tok := p.stream.Next()
		return &ast.UnaryOp{OpPos: tok.Pos(), Op: ast.Invert, Operand: p.parseFactor()}
	default:
		return p.parseAtomExpr()
	}
}

func (p *Parser) parseAtomExpr() ast.Expr {
	expr := p.parseAtom()
	for {
		switch p.stream.Peek().Kind {
		case token.LPAREN:
			expr = p.parseCallTrailer(expr)
		case token.LBRACKET:
			expr = p.parseSubscriptTrailer(expr)
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallTrailer(callee ast.Expr) ast.Expr {
	tok := p.eat(token.LPAREN)
	var args []ast.Expr
	if p.stream.Peek().Kind != token.RPAREN {
		args = append(args, p.parseCallArg())
		for p.stream.Peek().Kind == token.COMMA {
			p.stream.Next()
			if p.stream.Peek().Kind == token.RPAREN {
				break
			}
			args = append(args, p.parseCallArg())
		}
	}
	p.eat(token.RPAREN)
	return &ast.Call{CallPos: tok.Pos(), Func: callee, Args: args}
}

func (p *Parser) parseCallArg() ast.Expr {
	if p.stream.Peek().Kind == token.STAR {
		tok := p.stream.Next()
		return &ast.Starred{StarPos: tok.Pos(), Value: p.parseTest()}
	}
	return p.parseTest()
}

func (p *Parser) parseSubscriptTrailer(value ast.Expr) ast.Expr {
	tok := p.eat(token.LBRACKET)
	sl := p.parseSubscript()
	p.eat(token.RBRACKET)
	return &ast.Subscript{BracketPos: tok.Pos(), Value: value, Slice: sl}
}

// parseSubscript implements the Index/Slice forms from spec §3; slices
// parse but the evaluator raises unimplemented for them (spec §4.5).
func (p *Parser) parseSubscript() ast.Slice {
	pos := p.stream.Pos()
	var lower, upper, step ast.Expr
	if p.stream.Peek().Kind != token.COLON {
		lower = p.parseTest()
	}
	if p.stream.Peek().Kind != token.COLON {
		return &ast.Index{Value: lower}
	}
	p.stream.Next()
	if p.stream.Peek().Kind != token.COLON && p.stream.Peek().Kind != token.RBRACKET {
		upper = p.parseTest()
	}
	if p.stream.Peek().Kind == token.COLON {
		p.stream.Next()
		if p.stream.Peek().Kind != token.RBRACKET {
			step = p.parseTest()
		}
	}
	return &ast.SliceRange{At: pos, Lower: lower, Upper: upper, Step: step}
}

func (p *Parser) parseAtom() ast.Expr {
	tok := p.stream.Peek()
	switch tok.Kind {
	case token.IDENT:
		p.stream.Next()
		return &ast.Name{NamePos: tok.Pos(), Id: tok.Lit}
	case token.INT:
		p.stream.Next()
		return &ast.Constant{ValPos: tok.Pos(), Kind: ast.ConstInt, Int: tok.Int}
	case token.FLOAT:
		p.stream.Next()
		return &ast.Constant{ValPos: tok.Pos(), Kind: ast.ConstFloat, Float: tok.Float}
	case token.STRING:
		p.stream.Next()
		return &ast.Constant{ValPos: tok.Pos(), Kind: ast.ConstString, Str: tok.Lit}
	case token.NONE:
		p.stream.Next()
		return &ast.Constant{ValPos: tok.Pos(), Kind: ast.ConstNone}
	case token.TRUE:
		p.stream.Next()
		return &ast.Constant{ValPos: tok.Pos(), Kind: ast.ConstTrue}
	case token.FALSE:
		p.stream.Next()
		return &ast.Constant{ValPos: tok.Pos(), Kind: ast.ConstFalse}
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.LBRACKET:
		return p.parseListDisplay()
	case token.LBRACE:
		return p.parseDictOrSetDisplay()
	default:
		p.fail(tok, "invalid syntax")
		panic("unreachable")
	}
}

// parseParenOrTuple implements spec §4.3 "Tuples vs parentheses".
func (p *Parser) parseParenOrTuple() ast.Expr {
	tok := p.eat(token.LPAREN)
	if p.stream.Peek().Kind == token.RPAREN {
		p.stream.Next()
		return &ast.Tuple{ParenPos: tok.Pos()}
	}
	first := p.parseTest()
	if p.stream.Peek().Kind != token.COMMA {
		p.eat(token.RPAREN)
		return first
	}
	elements := []ast.Expr{first}
	for p.stream.Peek().Kind == token.COMMA {
		p.stream.Next()
		if p.stream.Peek().Kind == token.RPAREN {
			break
		}
		elements = append(elements, p.parseTest())
	}
	p.eat(token.RPAREN)
	return &ast.Tuple{ParenPos: tok.Pos(), Elements: elements}
}

func (p *Parser) parseListDisplay() ast.Expr {
	tok := p.eat(token.LBRACKET)
	var elems []ast.Expr
	if p.stream.Peek().Kind != token.RBRACKET {
		elems = append(elems, p.parseTest())
		for p.stream.Peek().Kind == token.COMMA {
			p.stream.Next()
			if p.stream.Peek().Kind == token.RBRACKET {
				break
			}
			elems = append(elems, p.parseTest())
		}
	}
	p.eat(token.RBRACKET)
	return &ast.List{BracketPos: tok.Pos(), Elements: elems}
}

func (p *Parser) parseDictOrSetDisplay() ast.Expr {
	tok := p.eat(token.LBRACE)
	if p.stream.Peek().Kind == token.RBRACE {
		p.stream.Next()
		return &ast.Dict{BracePos: tok.Pos()}
	}
	firstKey := p.parseTest()
	if p.stream.Peek().Kind == token.COLON {
		p.stream.Next()
		firstVal := p.parseTest()
		keys := []ast.Expr{firstKey}
		vals := []ast.Expr{firstVal}
		for p.stream.Peek().Kind == token.COMMA {
			p.stream.Next()
			if p.stream.Peek().Kind == token.RBRACE {
				break
			}
			k := p.parseTest()
			p.eat(token.COLON)
			v := p.parseTest()
			keys = append(keys, k)
			vals = append(vals, v)
		}
		p.eat(token.RBRACE)
		return &ast.Dict{BracePos: tok.Pos(), Keys: keys, Values: vals}
	}
	elems := []ast.Expr{firstKey}
	for p.stream.Peek().Kind == token.COMMA {
		p.stream.Next()
		if p.stream.Peek().Kind == token.RBRACE {
			break
		}
		elems = append(elems, p.parseTest())
	}
	p.eat(token.RBRACE)
	return &ast.Set{BracePos: tok.Pos(), Elements: elems}
}
