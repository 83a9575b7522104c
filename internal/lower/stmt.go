package lower

import (
	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/symbols"
	itypes "minicc/internal/types"
)

// lowerBlock lowers "{ locals stmts }" under a fresh scope. Once the
// current block has a terminator (a return, or a branch out of an if/while
// arm), any further statements in this block are unreachable and are
// skipped rather than appended after the terminator, which LLVM forbids.
func (lw *Lowerer) lowerBlock(b *ast.Block) {
	if b == nil {
		// The parser already reported the missing block.
		return
	}
	lw.syms.EnterBlock()
	defer lw.syms.ExitBlock()

	for _, d := range b.Locals {
		lw.lowerLocalDecl(d)
	}
	for _, s := range b.Stmts {
		if lw.curBlock.Term != nil {
			break
		}
		lw.lowerStmt(s)
	}
}

func (lw *Lowerer) lowerLocalDecl(decl ast.Stmt) {
	switch d := decl.(type) {
	case *ast.VarDecl:
		ty := scalarKindToType(d.Type)
		if ty.Kind == itypes.Void {
			lw.errorf(diag.Type, d.Pos, "variable %q cannot have type void", d.Name)
			return
		}
		alloca := lw.curBlock.NewAlloca(llvmType(ty))
		alloca.SetName(d.Name)
		lw.declareLocal(d.Pos, d.Name, symbols.LocalSymbol{Type: ty, Handle: alloca})

	case *ast.ArrayDecl:
		elemTy := scalarKindToType(d.ElemType)
		arrTy := itypes.NewArray(elemTy, d.Dims)
		alloca := lw.curBlock.NewAlloca(llvmType(arrTy))
		alloca.SetName(d.Name)
		lw.declareLocal(d.Pos, d.Name, symbols.LocalSymbol{Type: arrTy, Handle: alloca})
	}
}

func (lw *Lowerer) declareLocal(pos ast.Pos, name string, sym symbols.LocalSymbol) {
	switch lw.syms.DeclareLocal(name, sym) {
	case symbols.ConflictShadowsParam:
		lw.errorf(diag.Scope, pos, "declaration of %q shadows a parameter of the enclosing function", name)
	case symbols.ConflictIsFunction:
		lw.errorf(diag.Scope, pos, "%q is already declared as a function", name)
	case symbols.ConflictRedeclared:
		lw.errorf(diag.Scope, pos, "%q is already declared in this block", name)
	}
}

func (lw *Lowerer) lowerStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		lw.lowerBlock(s)
	case *ast.If:
		lw.lowerIf(s)
	case *ast.While:
		lw.lowerWhile(s)
	case *ast.Return:
		lw.lowerReturn(s)
	case *ast.ExprStmt:
		if s.X != nil {
			lw.lowerExpr(s.X)
		}
	}
}

func (lw *Lowerer) lowerIf(s *ast.If) {
	condVal := lw.lowerCondition(s.Cond)

	thenBlk := lw.newBlock("if.then")
	endBlk := lw.newBlock("if.end")
	var elseBlk = endBlk
	if s.Else != nil {
		elseBlk = lw.newBlock("if.else")
	}

	if condVal != nil {
		lw.curBlock.NewCondBr(condVal, thenBlk, elseBlk)
	} else {
		// The condition failed to type-check; still emit a deterministic
		// skeleton so later, independent diagnostics keep surfacing.
		lw.curBlock.NewBr(endBlk)
	}

	lw.curBlock = thenBlk
	lw.lowerBlock(s.Then)
	if lw.curBlock.Term == nil {
		lw.curBlock.NewBr(endBlk)
	}

	if s.Else != nil {
		lw.curBlock = elseBlk
		lw.lowerBlock(s.Else)
		if lw.curBlock.Term == nil {
			lw.curBlock.NewBr(endBlk)
		}
	}

	lw.curBlock = endBlk
}

func (lw *Lowerer) lowerWhile(s *ast.While) {
	headBlk := lw.newBlock("while.cond")
	bodyBlk := lw.newBlock("while.body")
	endBlk := lw.newBlock("while.end")

	lw.curBlock.NewBr(headBlk)

	lw.curBlock = headBlk
	condVal := lw.lowerCondition(s.Cond)
	if condVal != nil {
		lw.curBlock.NewCondBr(condVal, bodyBlk, endBlk)
	} else {
		lw.curBlock.NewBr(endBlk)
	}

	lw.curBlock = bodyBlk
	lw.lowerStmt(s.Body)
	if lw.curBlock.Term == nil {
		lw.curBlock.NewBr(headBlk)
	}

	lw.curBlock = endBlk
}

func (lw *Lowerer) lowerReturn(s *ast.Return) {
	if s.Value == nil {
		if lw.curRet.Kind != itypes.Void {
			lw.errorf(diag.Type, s.Pos, "function must return a value of type %s", lw.curRet)
			return
		}
		lw.curBlock.NewRet(nil)
		return
	}

	if lw.curRet.Kind == itypes.Void {
		lw.errorf(diag.Type, s.Pos, "void function cannot return a value")
		return
	}
	val, ty := lw.lowerExpr(s.Value)
	if val == nil {
		return
	}
	widened, ok := lw.widenTo(s.Pos, val, ty, lw.curRet)
	if !ok {
		lw.errorf(diag.Type, s.Pos, "cannot return %s where %s is expected", ty, lw.curRet)
		return
	}
	lw.curBlock.NewRet(widened)
}
