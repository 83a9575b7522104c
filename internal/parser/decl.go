package parser

import (
	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/token"
)

// parseExtern parses "extern" type IDENT "(" params ")" ";".
func (p *Parser) parseExtern() (ast.Stmt, bool) {
	externTok := p.advance()
	ty, ok := p.parseType()
	if !ok {
		return nil, false
	}
	nameTok, ok := p.expect(token.IDENT, "a function name")
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.LParen, "'('"); !ok {
		return nil, false
	}
	params := p.parseParams()
	if _, ok := p.expect(token.RParen, "')'"); !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Semicolon, "';'"); !ok {
		return nil, false
	}
	return &ast.FnProto{Pos: pos(externTok), Name: nameTok.Lexeme, ReturnType: ty, Params: params, IsExtern: true}, true
}

// parseDeclOrDef parses the "type IDENT ..." family: a scalar declaration,
// an array declaration, or (top-level only) a function definition.
// atTopLevel controls whether "(" is accepted as the start of a function
// body; inside a block only scalar/array local declarations are legal.
func (p *Parser) parseDeclOrDef(atTopLevel bool) (ast.Stmt, bool) {
	ty, ok := p.parseType()
	if !ok {
		return nil, false
	}
	nameTok, ok := p.expect(token.IDENT, "an identifier")
	if !ok {
		return nil, false
	}

	switch p.cur.Kind {
	case token.Semicolon:
		p.advance()
		if atTopLevel {
			return &ast.GlobalVarDecl{Pos: pos(nameTok), Name: nameTok.Lexeme, Type: ty}, true
		}
		return &ast.VarDecl{Pos: pos(nameTok), Name: nameTok.Lexeme, Type: ty}, true

	case token.LBracket:
		dims, ok := p.parseArrayDims()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Semicolon, "';'"); !ok {
			return nil, false
		}
		return &ast.ArrayDecl{Pos: pos(nameTok), Name: nameTok.Lexeme, ElemType: ty, Dims: dims, IsGlobal: atTopLevel}, true

	case token.LParen:
		if !atTopLevel {
			p.errorf(diag.Syntax, p.cur, "a function cannot be defined inside a block")
			return nil, false
		}
		p.advance()
		params := p.parseParams()
		if _, ok := p.expect(token.RParen, "')'"); !ok {
			return nil, false
		}
		body := p.parseBlock()
		if body == nil {
			return nil, false
		}
		proto := &ast.FnProto{Pos: pos(nameTok), Name: nameTok.Lexeme, ReturnType: ty, Params: params}
		return &ast.FnDef{Pos: pos(nameTok), Proto: proto, Body: body}, true

	default:
		p.errorf(diag.Syntax, p.cur, "expected ';', '[', or '(' after %s %s", ty, nameTok.Lexeme)
		return nil, false
	}
}

// parseLocalDecl parses one local declaration inside a block: a scalar or
// array VarDecl/ArrayDecl, never a function.
func (p *Parser) parseLocalDecl() ast.Stmt {
	d, _ := p.parseDeclOrDef(false)
	if d == nil {
		p.resyncPastStatement()
	}
	return d
}

// parseParams parses the parameter list between "(" and ")": empty, the
// literal "void", or a comma-separated list of typed parameters.
func (p *Parser) parseParams() []ast.Param {
	if p.at(token.RParen) {
		return nil
	}
	if p.at(token.KwVoid) && p.lookahead().Kind == token.RParen {
		p.advance()
		return nil
	}

	var params []ast.Param
	for {
		param, ok := p.parseParam()
		if ok {
			params = append(params, param)
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return params
}

func (p *Parser) parseParam() (ast.Param, bool) {
	ty, ok := p.parseType()
	if !ok {
		return ast.Param{}, false
	}
	nameTok, ok := p.expect(token.IDENT, "a parameter name")
	if !ok {
		return ast.Param{}, false
	}
	param := ast.Param{Pos: pos(nameTok), Name: nameTok.Lexeme, Type: ty}

	for p.at(token.LBracket) && len(param.Dims) < maxArrayDims {
		p.advance()
		dim := 0 // 0 means "elided"; only meaningful for the first (decayed-away) dimension
		if p.at(token.INT_LIT) {
			tok := p.advance()
			dim = parseIntLiteral(tok.Lexeme)
		}
		p.expect(token.RBracket, "']'")
		param.Dims = append(param.Dims, dim)
	}
	if p.at(token.LBracket) {
		p.errorf(diag.Syntax, p.cur, "array parameter has more than %d dimensions", maxArrayDims)
	}
	return param, true
}

// parseArrayDims parses up to 3 bracketed integer-literal dimensions for a
// variable or array declaration, e.g. "[10][5]". Every dimension here must
// be a literal (unlike a parameter's first dimension, which may decay).
func (p *Parser) parseArrayDims() ([]int, bool) {
	var dims []int
	for p.at(token.LBracket) && len(dims) < maxArrayDims {
		p.advance()
		tok, ok := p.expect(token.INT_LIT, "an array size")
		if !ok {
			return nil, false
		}
		n := parseIntLiteral(tok.Lexeme)
		if n <= 0 {
			p.errorf(diag.Syntax, tok, "array dimension must be a positive integer literal")
		}
		dims = append(dims, n)
		if _, ok := p.expect(token.RBracket, "']'"); !ok {
			return nil, false
		}
	}
	if p.at(token.LBracket) {
		p.errorf(diag.Syntax, p.cur, "array has more than %d dimensions", maxArrayDims)
		return nil, false
	}
	if len(dims) == 0 {
		p.errorf(diag.Syntax, p.cur, "expected an array dimension")
		return nil, false
	}
	return dims, true
}
