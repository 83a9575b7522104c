// Package parser implements the Mini-C LL(2) recursive-descent parser
// (spec.md component E). Every production that yields a top-level
// declaration hands it to a Lowerer immediately, interleaving parsing and
// lowering per declaration rather than running them as separate phases.
package parser

import (
	"fmt"
	"strconv"

	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/lexer"
	"minicc/internal/token"
)

// Lowerer is the subset of internal/lower's API the parser drives. Kept as
// an interface here (rather than importing internal/lower's concrete type)
// so the dependency runs one way: parser -> lower, never the reverse.
type Lowerer interface {
	LowerTopLevel(decl ast.Stmt)
	Finish()
}

// Parser holds all parsing state for one source file.
type Parser struct {
	ts   *lexer.TokenStream
	bag  *diag.Bag
	file string
	src  []string // source lines, 1-indexed via src[line-1], for diagnostic echo

	cur token.Token
}

// New creates a Parser over src's tokens. sourceLines is used only to echo
// the offending line in diagnostics; it may be nil.
func New(ts *lexer.TokenStream, bag *diag.Bag, file string, sourceLines []string) *Parser {
	p := &Parser{ts: ts, bag: bag, file: file, src: sourceLines}
	p.cur = p.nextToken()
	return p
}

// nextToken pulls the next token from the stream, reporting and silently
// discarding any illegal byte the lexer could not classify (Testable
// Property 1: the lexer itself never fails; the parser is what turns an
// illegal byte into a Lexical diagnostic) so scanning continues past it.
func (p *Parser) nextToken() token.Token {
	for {
		t := p.ts.Next()
		if !t.IsIllegal() {
			return t
		}
		p.errorf(diag.Lexical, t, "illegal character %s", t.Kind)
	}
}

// lookahead returns the token after cur without consuming anything: the
// second half of the parser's LL(2) window.
func (p *Parser) lookahead() token.Token { return p.ts.Peek(0) }

func (p *Parser) advance() token.Token {
	old := p.cur
	p.cur = p.nextToken()
	return old
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) sourceLine(line int) string {
	if line <= 0 || line > len(p.src) {
		return ""
	}
	return p.src[line-1]
}

func (p *Parser) errorf(class diag.Class, tok token.Token, format string, args ...any) {
	d := diag.Diagnostic{
		Class:      class,
		File:       p.file,
		Line:       tok.Line,
		Column:     tok.Column,
		Message:    fmt.Sprintf(format, args...),
		SourceLine: p.sourceLine(tok.Line),
	}
	p.bag.Add(d)
}

// expect consumes the current token if it has kind k, else logs a Syntax
// diagnostic and returns ok=false. The faulty token is left unconsumed by
// design for most callers, but many call sites consume it anyway via
// resync to avoid infinite loops; see resyncPastBadToken.
func (p *Parser) expect(k token.Kind, what string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errorf(diag.Syntax, p.cur, "expected %s, found %s", what, p.cur.Kind)
	return token.Token{}, false
}

// resyncPastBadToken consumes exactly one token so a caller that hit an
// unexpected token does not loop forever re-inspecting the same token.
func (p *Parser) resyncPastBadToken() {
	if !p.at(token.EOF) {
		p.advance()
	}
}

func isTypeKeyword(k token.Kind) bool {
	switch k {
	case token.KwInt, token.KwFloat, token.KwBool, token.KwVoid:
		return true
	default:
		return false
	}
}

func (p *Parser) parseType() (ast.ScalarKind, bool) {
	switch p.cur.Kind {
	case token.KwInt:
		p.advance()
		return ast.TInt, true
	case token.KwFloat:
		p.advance()
		return ast.TFloat, true
	case token.KwBool:
		p.advance()
		return ast.TBool, true
	case token.KwVoid:
		p.advance()
		return ast.TVoid, true
	default:
		p.errorf(diag.Syntax, p.cur, "expected a type, found %s", p.cur.Kind)
		return ast.TInt, false
	}
}

func parseIntLiteral(lexeme string) int {
	n, _ := strconv.Atoi(lexeme)
	return n
}

// parseFloatLiteral parses the lexer's three accepted float forms
// ("N.M", "N.", ".M") via ParseFloat, which handles all three directly.
func parseFloatLiteral(lexeme string) float32 {
	f, _ := strconv.ParseFloat(lexeme, 32)
	return float32(f)
}

//  Top-level driver

// ParseProgram consumes the whole token stream, lowering each top-level
// declaration as it is parsed, then finalizes the lowerer (the
// missing-main check happens there). It never returns an error itself:
// failures are recorded in the Bag passed to New, per spec.md §7's
// accumulate-don't-throw policy.
func (p *Parser) ParseProgram(low Lowerer) {
	for !p.at(token.EOF) {
		decl, ok := p.parseTopLevel()
		if ok && decl != nil {
			low.LowerTopLevel(decl)
		} else {
			p.resyncToNextTopLevel()
		}
	}
	low.Finish()
}

// resyncToNextTopLevel is the parser's error-recovery strategy: after a
// broken top-level declaration, skip tokens until one that plausibly
// starts the next declaration (a type keyword, "extern", or EOF).
func (p *Parser) resyncToNextTopLevel() {
	for !p.at(token.EOF) && !isTypeKeyword(p.cur.Kind) && !p.at(token.KwExtern) {
		p.advance()
	}
}

func (p *Parser) parseTopLevel() (ast.Stmt, bool) {
	if p.at(token.KwExtern) {
		return p.parseExtern()
	}
	return p.parseDeclOrDef(true)
}
