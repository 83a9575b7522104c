package parser

import (
	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/token"
)

// parseExpr is the grammar's "expr" production: either an assignment
// ("IDENT = expr" or "array_access = expr") or a plain or_expr. The
// IDENT "=" case needs a two-token lookahead (cur is the IDENT, the
// stream's front is "="), which is exactly the window New() sets up.
func (p *Parser) parseExpr() ast.Expr {
	if p.at(token.IDENT) && p.lookahead().Kind == token.Assign {
		name := p.cur
		p.advance() // IDENT
		p.advance() // "="
		value := p.parseExpr() // right-associative
		return &ast.Assign{Pos: pos(name), Target: name.Lexeme, Value: value}
	}

	left := p.parseOr()
	if left == nil {
		return nil
	}
	if idx, ok := left.(*ast.ArrayIndex); ok && p.at(token.Assign) {
		p.advance()
		value := p.parseExpr()
		return &ast.ArrayAssign{Pos: idx.Pos, Target: idx, Value: value}
	}
	return left
}

func pos(t token.Token) ast.Pos { return ast.Pos{Line: t.Line, Column: t.Column} }

// parseCondition parses an if/while condition: a full expression, but one
// that is rejected as a syntax-level policy violation if it turns out to
// be an assignment (spec.md's isAssignment() check — "did you mean ==?").
func (p *Parser) parseCondition() ast.Expr {
	tok := p.cur
	e := p.parseExpr()
	switch e.(type) {
	case *ast.Assign, *ast.ArrayAssign:
		p.errorf(diag.Syntax, tok, "assignment used as a condition; did you mean '=='?")
		return nil
	}
	return e
}

// binaryLevel is one row of the precedence ladder: the set of operator
// tokens accepted at this level and the BinOp each maps to.
type binaryLevel struct {
	kinds []token.Kind
	ops   []ast.BinOp
	next  func(*Parser) ast.Expr
}

func (p *Parser) parseLeftAssoc(level binaryLevel) ast.Expr {
	left := level.next(p)
	if left == nil {
		return nil
	}
	for {
		matched := -1
		for i, k := range level.kinds {
			if p.at(k) {
				matched = i
				break
			}
		}
		if matched < 0 {
			return left
		}
		opTok := p.advance()
		right := level.next(p)
		if right == nil {
			return nil
		}
		left = &ast.BinaryOp{Pos: pos(opTok), Op: level.ops[matched], Left: left, Right: right}
	}
}

func (p *Parser) parseOr() ast.Expr {
	return p.parseLeftAssoc(binaryLevel{
		kinds: []token.Kind{token.OrOr},
		ops:   []ast.BinOp{ast.Or},
		next:  (*Parser).parseAnd,
	})
}

func (p *Parser) parseAnd() ast.Expr {
	return p.parseLeftAssoc(binaryLevel{
		kinds: []token.Kind{token.AndAnd},
		ops:   []ast.BinOp{ast.And},
		next:  (*Parser).parseEquality,
	})
}

func (p *Parser) parseEquality() ast.Expr {
	return p.parseLeftAssoc(binaryLevel{
		kinds: []token.Kind{token.Eq, token.NotEq},
		ops:   []ast.BinOp{ast.Eq, ast.Ne},
		next:  (*Parser).parseRelational,
	})
}

func (p *Parser) parseRelational() ast.Expr {
	return p.parseLeftAssoc(binaryLevel{
		kinds: []token.Kind{token.Less, token.LessEq, token.Greater, token.GreaterEq},
		ops:   []ast.BinOp{ast.Lt, ast.Le, ast.Gt, ast.Ge},
		next:  (*Parser).parseAdditive,
	})
}

func (p *Parser) parseAdditive() ast.Expr {
	return p.parseLeftAssoc(binaryLevel{
		kinds: []token.Kind{token.Plus, token.Minus},
		ops:   []ast.BinOp{ast.Add, ast.Sub},
		next:  (*Parser).parseMultiplicative,
	})
}

func (p *Parser) parseMultiplicative() ast.Expr {
	return p.parseLeftAssoc(binaryLevel{
		kinds: []token.Kind{token.Star, token.Slash, token.Percent},
		ops:   []ast.BinOp{ast.Mul, ast.Div, ast.Mod},
		next:  (*Parser).parseUnary,
	})
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur.Kind {
	case token.Minus:
		tok := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryOp{Pos: pos(tok), Op: ast.Neg, Operand: operand}
	case token.Not:
		tok := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryOp{Pos: pos(tok), Op: ast.Not, Operand: operand}
	default:
		return p.parsePrimary()
	}
}

const maxArrayDims = 3

func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur.Kind {
	case token.LParen:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RParen, "')'")
		return e

	case token.INT_LIT:
		tok := p.advance()
		return &ast.IntLit{Pos: pos(tok), Value: int32(parseIntLiteral(tok.Lexeme))}

	case token.FLOAT_LIT:
		tok := p.advance()
		return &ast.FloatLit{Pos: pos(tok), Value: parseFloatLiteral(tok.Lexeme)}

	case token.KwTrue:
		tok := p.advance()
		return &ast.BoolLit{Pos: pos(tok), Value: true}

	case token.KwFalse:
		tok := p.advance()
		return &ast.BoolLit{Pos: pos(tok), Value: false}

	case token.IDENT:
		return p.parseIdentPrimary()

	default:
		p.errorf(diag.Syntax, p.cur, "unexpected %s in expression", p.cur.Kind)
		p.resyncPastBadToken()
		return nil
	}
}

// parseIdentPrimary disambiguates, after consuming IDENT, among a call
// "name(...)", an array access "name[i]...", or a plain variable
// reference — the last LL(2) decision point in the expression grammar.
func (p *Parser) parseIdentPrimary() ast.Expr {
	nameTok := p.advance()

	if p.at(token.LParen) {
		p.advance()
		args := p.parseArgs()
		p.expect(token.RParen, "')'")
		return &ast.Call{Pos: pos(nameTok), Callee: nameTok.Lexeme, Args: args}
	}

	if p.at(token.LBracket) {
		indices := []ast.Expr{}
		for p.at(token.LBracket) && len(indices) < maxArrayDims {
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBracket, "']'")
			if idx != nil {
				indices = append(indices, idx)
			}
		}
		if p.at(token.LBracket) {
			p.errorf(diag.Syntax, p.cur, "array access has more than %d dimensions", maxArrayDims)
			for p.at(token.LBracket) {
				p.advance()
				p.parseExpr()
				p.expect(token.RBracket, "']'")
			}
		}
		return &ast.ArrayIndex{Pos: pos(nameTok), Name: nameTok.Lexeme, Indices: indices}
	}

	return &ast.VarRef{Pos: pos(nameTok), Name: nameTok.Lexeme}
}

func (p *Parser) parseArgs() []ast.Expr {
	args := []ast.Expr{}
	if p.at(token.RParen) {
		return args
	}
	for {
		a := p.parseExpr()
		if a != nil {
			args = append(args, a)
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return args
}
