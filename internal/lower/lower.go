// Package lower implements semantic checking and LLVM-IR emission (spec.md
// components G and H), fused into one pass: each AST node is type-checked
// and immediately lowered, so there is no separate typed-AST
// representation. Diagnostics accumulate in a shared Bag; lowering never
// panics on a semantic error, it just stops emitting the broken subtree
// and keeps going so later, independent errors are still reported.
package lower

import (
	"fmt"

	"github.com/llir/llvm/ir"

	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/symbols"
	"minicc/internal/trace"
	itypes "minicc/internal/types"
)

// Lowerer drives component H over one source file's worth of top-level
// declarations, handed to it one at a time by the parser.
type Lowerer struct {
	mod      *ir.Module
	syms     *symbols.Table
	bag      *diag.Bag
	tr       *trace.Tracer
	file     string
	funcVals map[string]*ir.Func

	// curFn/curBlock/curRet are valid only while lowering one function body.
	curFn    *ir.Func
	curBlock *ir.Block
	curRet   itypes.Type
	blockSeq int
}

// newBlock appends a fresh, uniquely-named block to the function currently
// being lowered. Names are cosmetic (label.N) but must be unique within a
// function for the printed IR to be valid.
func (lw *Lowerer) newBlock(label string) *ir.Block {
	lw.blockSeq++
	return lw.curFn.NewBlock(fmt.Sprintf("%s.%d", label, lw.blockSeq))
}

// New creates a Lowerer that will build a fresh LLVM module.
func New(file string, bag *diag.Bag, tr *trace.Tracer) *Lowerer {
	if tr == nil {
		tr = trace.Discard()
	}
	return &Lowerer{mod: ir.NewModule(), syms: symbols.New(), bag: bag, tr: tr, file: file, funcVals: make(map[string]*ir.Func)}
}

// Module returns the LLVM module built so far; valid to call once parsing
// and lowering of the whole file have finished.
func (lw *Lowerer) Module() *ir.Module { return lw.mod }

func (lw *Lowerer) errorf(class diag.Class, pos ast.Pos, format string, args ...any) {
	lw.bag.Add(diag.Diagnostic{
		Class:   class,
		File:    lw.file,
		Line:    pos.Line,
		Column:  pos.Column,
		Message: fmt.Sprintf(format, args...),
	})
}

// LowerTopLevel dispatches one parsed top-level declaration. Called once
// per declaration, immediately after the parser produces it.
func (lw *Lowerer) LowerTopLevel(decl ast.Stmt) {
	switch d := decl.(type) {
	case *ast.FnProto:
		lw.lowerExternDecl(d)
	case *ast.GlobalVarDecl:
		lw.lowerGlobalScalar(d)
	case *ast.ArrayDecl:
		lw.lowerGlobalArray(d)
	case *ast.FnDef:
		lw.lowerFuncDef(d)
	default:
		// Unreachable: the parser only ever hands top-level declarations
		// to the lowerer.
	}
}

// Finish runs the whole-program checks that can only be decided once every
// top-level declaration has been seen (spec.md invariant: a compilable
// program has exactly one function named "main").
func (lw *Lowerer) Finish() {
	if _, ok := lw.syms.LookupFunction("main"); !ok {
		lw.bag.Add(diag.Diagnostic{Class: diag.Semantic, File: lw.file, Message: `program has no function named "main"`})
	}
}

func scalarKindToType(k ast.ScalarKind) itypes.Type {
	switch k {
	case ast.TInt:
		return itypes.TInt
	case ast.TFloat:
		return itypes.TFloat
	case ast.TBool:
		return itypes.TBool
	default:
		return itypes.TVoid
	}
}

