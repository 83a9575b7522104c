package lower

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/symbols"
	itypes "minicc/internal/types"
)

func suggestionSuffix(name string, candidates []string) string {
	if s := diag.Suggest(name, candidates); s != "" {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}

// lowerExpr lowers any expression node to its LLVM value plus its Mini-C
// semantic type. A nil value signals that a diagnostic was already
// recorded and the caller should stop trying to use this subtree.
func (lw *Lowerer) lowerExpr(e ast.Expr) (value.Value, itypes.Type) {
	switch n := e.(type) {
	case *ast.IntLit:
		return constant.NewInt(lltypes.I32, int64(n.Value)), itypes.TInt
	case *ast.FloatLit:
		return constant.NewFloat(lltypes.Float, float64(n.Value)), itypes.TFloat
	case *ast.BoolLit:
		if n.Value {
			return constant.True, itypes.TBool
		}
		return constant.False, itypes.TBool
	case *ast.VarRef:
		return lw.lowerVarRef(n)
	case *ast.Assign:
		return lw.lowerAssign(n)
	case *ast.ArrayIndex:
		return lw.lowerArrayIndexLoad(n)
	case *ast.ArrayAssign:
		return lw.lowerArrayAssign(n)
	case *ast.UnaryOp:
		return lw.lowerUnary(n)
	case *ast.BinaryOp:
		return lw.lowerBinary(n)
	case *ast.Call:
		return lw.lowerCall(n)
	default:
		return nil, itypes.Type{}
	}
}

func (lw *Lowerer) lowerVarRef(n *ast.VarRef) (value.Value, itypes.Type) {
	r := lw.syms.Resolve(n.Name)
	switch r.Kind {
	case symbols.NotFound:
		lw.errorf(diag.Scope, n.Pos, "undeclared identifier %q%s", n.Name, suggestionSuffix(n.Name, lw.syms.KnownNames()))
		return nil, itypes.Type{}
	case symbols.KindFunction:
		lw.errorf(diag.Type, n.Pos, "%q is a function; it must be called", n.Name)
		return nil, itypes.Type{}
	default:
		if r.Type.Kind == itypes.Array {
			// A bare array name denotes its own base address; no load.
			return r.Value, r.Type
		}
		return lw.curBlock.NewLoad(llvmType(r.Type), r.Value), r.Type
	}
}

// lowerCondition lowers e and coerces it to i1 for use as a branch
// condition, per types.CoercesToBool (spec.md: numeric types silently
// compare against zero; bool passes through unchanged).
func (lw *Lowerer) lowerCondition(e ast.Expr) value.Value {
	if e == nil {
		return nil
	}
	val, ty := lw.lowerExpr(e)
	if val == nil {
		return nil
	}
	if !itypes.CoercesToBool(ty) {
		lw.errorf(diag.Type, e.Loc(), "value of type %s cannot be used as a condition", ty)
		return nil
	}
	switch ty.Kind {
	case itypes.Bool:
		return val
	case itypes.Int:
		return lw.curBlock.NewICmp(enum.IPredNE, val, constant.NewInt(lltypes.I32, 0))
	case itypes.Float:
		return lw.curBlock.NewFCmp(enum.FPredONE, val, constant.NewFloat(lltypes.Float, 0))
	default:
		return nil
	}
}

// widenTo converts val of type from to type to along the bool -> int ->
// float chain. Reports ok=false (without emitting a diagnostic itself —
// callers attribute the error to their own construct) when from cannot
// widen to to.
func (lw *Lowerer) widenTo(pos ast.Pos, val value.Value, from, to itypes.Type) (value.Value, bool) {
	if from.Equal(to) {
		return val, true
	}
	if !itypes.Widens(from, to) {
		return nil, false
	}
	switch {
	case from.Kind == itypes.Bool && to.Kind == itypes.Int:
		return lw.curBlock.NewZExt(val, lltypes.I32), true
	case from.Kind == itypes.Bool && to.Kind == itypes.Float:
		asInt := lw.curBlock.NewZExt(val, lltypes.I32)
		return lw.curBlock.NewSIToFP(asInt, lltypes.Float), true
	case from.Kind == itypes.Int && to.Kind == itypes.Float:
		return lw.curBlock.NewSIToFP(val, lltypes.Float), true
	default:
		return nil, false
	}
}

func rankOf(k itypes.Kind) (int, bool) {
	switch k {
	case itypes.Bool:
		return 0, true
	case itypes.Int:
		return 1, true
	case itypes.Float:
		return 2, true
	default:
		return 0, false
	}
}

// commonNumericType is the promotion rule for "==" and "!=": unlike
// arithmetic, a direct comparison between a bool and a numeric type is
// meaningful (bool widens to int/float like everywhere else), so this
// does not reject a bool operand the way types.ArithResult does.
func commonNumericType(l, r itypes.Type) (itypes.Type, bool) {
	rl, okl := rankOf(l.Kind)
	rr, okr := rankOf(r.Kind)
	if !okl || !okr {
		return itypes.Type{}, false
	}
	m := rl
	if rr > m {
		m = rr
	}
	switch m {
	case 0:
		return itypes.TBool, true
	case 1:
		return itypes.TInt, true
	default:
		return itypes.TFloat, true
	}
}

func (lw *Lowerer) lowerUnary(n *ast.UnaryOp) (value.Value, itypes.Type) {
	val, ty := lw.lowerExpr(n.Operand)
	if val == nil {
		return nil, itypes.Type{}
	}
	switch n.Op {
	case ast.Neg:
		if !itypes.IsNumeric(ty) || ty.Kind == itypes.Bool {
			lw.errorf(diag.Type, n.Pos, "unary '-' requires an int or float operand, found %s", ty)
			return nil, itypes.Type{}
		}
		if ty.Kind == itypes.Float {
			return lw.curBlock.NewFNeg(val), itypes.TFloat
		}
		return lw.curBlock.NewSub(constant.NewInt(lltypes.I32, 0), val), itypes.TInt
	case ast.Not:
		b := lw.coerceValueToBool(n.Pos, val, ty)
		if b == nil {
			return nil, itypes.Type{}
		}
		return lw.curBlock.NewXor(b, constant.True), itypes.TBool
	default:
		return nil, itypes.Type{}
	}
}

func (lw *Lowerer) coerceValueToBool(pos ast.Pos, val value.Value, ty itypes.Type) value.Value {
	switch ty.Kind {
	case itypes.Bool:
		return val
	case itypes.Int:
		return lw.curBlock.NewICmp(enum.IPredNE, val, constant.NewInt(lltypes.I32, 0))
	case itypes.Float:
		return lw.curBlock.NewFCmp(enum.FPredONE, val, constant.NewFloat(lltypes.Float, 0))
	default:
		lw.errorf(diag.Type, pos, "value of type %s cannot be coerced to bool", ty)
		return nil
	}
}

// lowerBinary dispatches "&&"/"||" to real short-circuit branching
// (spec.md Testable Property 4 — a deliberate departure from the original
// implementation's eager, non-short-circuit evaluation) and every other
// operator to eager evaluation with arithmetic promotion.
func (lw *Lowerer) lowerBinary(n *ast.BinaryOp) (value.Value, itypes.Type) {
	if n.Op == ast.And || n.Op == ast.Or {
		return lw.lowerShortCircuit(n)
	}

	lval, lty := lw.lowerExpr(n.Left)
	rval, rty := lw.lowerExpr(n.Right)
	if lval == nil || rval == nil {
		return nil, itypes.Type{}
	}

	switch n.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div:
		return lw.lowerArith(n, lval, lty, rval, rty)
	case ast.Mod:
		return lw.lowerMod(n, lval, lty, rval, rty)
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return lw.lowerRelational(n, lval, lty, rval, rty)
	case ast.Eq, ast.Ne:
		return lw.lowerEquality(n, lval, lty, rval, rty)
	default:
		return nil, itypes.Type{}
	}
}

func (lw *Lowerer) lowerArith(n *ast.BinaryOp, lval value.Value, lty itypes.Type, rval value.Value, rty itypes.Type) (value.Value, itypes.Type) {
	promoted, ok := itypes.ArithResult(lty, rty)
	if !ok {
		lw.errorf(diag.Type, n.Pos, "operator %s is not defined for %s and %s", n.Op, lty, rty)
		return nil, itypes.Type{}
	}
	lv, _ := lw.widenTo(n.Pos, lval, lty, promoted)
	rv, _ := lw.widenTo(n.Pos, rval, rty, promoted)

	isFloat := promoted.Kind == itypes.Float
	switch n.Op {
	case ast.Add:
		if isFloat {
			return lw.curBlock.NewFAdd(lv, rv), promoted
		}
		return lw.curBlock.NewAdd(lv, rv), promoted
	case ast.Sub:
		if isFloat {
			return lw.curBlock.NewFSub(lv, rv), promoted
		}
		return lw.curBlock.NewSub(lv, rv), promoted
	case ast.Mul:
		if isFloat {
			return lw.curBlock.NewFMul(lv, rv), promoted
		}
		return lw.curBlock.NewMul(lv, rv), promoted
	case ast.Div:
		if isFloat {
			return lw.curBlock.NewFDiv(lv, rv), promoted
		}
		if isZeroIntLiteral(n.Right) {
			lw.errorf(diag.Semantic, n.Pos, "division by the literal constant 0")
			return nil, itypes.Type{}
		}
		return lw.curBlock.NewSDiv(lv, rv), promoted
	default:
		return nil, itypes.Type{}
	}
}

func (lw *Lowerer) lowerMod(n *ast.BinaryOp, lval value.Value, lty itypes.Type, rval value.Value, rty itypes.Type) (value.Value, itypes.Type) {
	if _, ok := itypes.ModResult(lty, rty); !ok {
		lw.errorf(diag.Type, n.Pos, "operator %% requires two int operands, found %s and %s", lty, rty)
		return nil, itypes.Type{}
	}
	if isZeroIntLiteral(n.Right) {
		lw.errorf(diag.Semantic, n.Pos, "modulo by the literal constant 0")
		return nil, itypes.Type{}
	}
	return lw.curBlock.NewSRem(lval, rval), itypes.TInt
}

// isZeroIntLiteral detects the specific literal-divisor case the original
// compiler's diagnostic covers: "x / 0", not the general case of a
// zero-valued runtime expression, which cannot be known at compile time.
func isZeroIntLiteral(e ast.Expr) bool {
	lit, ok := e.(*ast.IntLit)
	return ok && lit.Value == 0
}

func (lw *Lowerer) lowerRelational(n *ast.BinaryOp, lval value.Value, lty itypes.Type, rval value.Value, rty itypes.Type) (value.Value, itypes.Type) {
	promoted, ok := itypes.ArithResult(lty, rty)
	if !ok {
		lw.errorf(diag.Type, n.Pos, "operator %s is not defined for %s and %s", n.Op, lty, rty)
		return nil, itypes.Type{}
	}
	lv, _ := lw.widenTo(n.Pos, lval, lty, promoted)
	rv, _ := lw.widenTo(n.Pos, rval, rty, promoted)

	if promoted.Kind == itypes.Float {
		pred := map[ast.BinOp]enum.FPred{ast.Lt: enum.FPredOLT, ast.Le: enum.FPredOLE, ast.Gt: enum.FPredOGT, ast.Ge: enum.FPredOGE}[n.Op]
		return lw.curBlock.NewFCmp(pred, lv, rv), itypes.TBool
	}
	pred := map[ast.BinOp]enum.IPred{ast.Lt: enum.IPredSLT, ast.Le: enum.IPredSLE, ast.Gt: enum.IPredSGT, ast.Ge: enum.IPredSGE}[n.Op]
	return lw.curBlock.NewICmp(pred, lv, rv), itypes.TBool
}

func (lw *Lowerer) lowerEquality(n *ast.BinaryOp, lval value.Value, lty itypes.Type, rval value.Value, rty itypes.Type) (value.Value, itypes.Type) {
	promoted, ok := commonNumericType(lty, rty)
	if !ok {
		lw.errorf(diag.Type, n.Pos, "operator %s is not defined for %s and %s", n.Op, lty, rty)
		return nil, itypes.Type{}
	}
	lv, _ := lw.widenTo(n.Pos, lval, lty, promoted)
	rv, _ := lw.widenTo(n.Pos, rval, rty, promoted)

	switch promoted.Kind {
	case itypes.Float:
		pred := enum.FPredOEQ
		if n.Op == ast.Ne {
			pred = enum.FPredONE
		}
		return lw.curBlock.NewFCmp(pred, lv, rv), itypes.TBool
	default:
		pred := enum.IPredEQ
		if n.Op == ast.Ne {
			pred = enum.IPredNE
		}
		return lw.curBlock.NewICmp(pred, lv, rv), itypes.TBool
	}
}

// lowerShortCircuit lowers "&&"/"||" via real conditional branches and a
// phi node, so the right operand's side effects genuinely do not happen
// when the left operand already determines the result.
func (lw *Lowerer) lowerShortCircuit(n *ast.BinaryOp) (value.Value, itypes.Type) {
	lval := lw.lowerCondition(n.Left)
	if lval == nil {
		return nil, itypes.Type{}
	}
	entryBlk := lw.curBlock

	label := "and"
	if n.Op == ast.Or {
		label = "or"
	}
	rhsBlk := lw.newBlock(label + ".rhs")
	mergeBlk := lw.newBlock(label + ".end")

	if n.Op == ast.And {
		entryBlk.NewCondBr(lval, rhsBlk, mergeBlk)
	} else {
		entryBlk.NewCondBr(lval, mergeBlk, rhsBlk)
	}

	lw.curBlock = rhsBlk
	rval := lw.lowerCondition(n.Right)
	if rval == nil {
		return nil, itypes.Type{}
	}
	rhsEndBlk := lw.curBlock
	rhsEndBlk.NewBr(mergeBlk)

	lw.curBlock = mergeBlk
	shortCircuitValue := constant.False
	if n.Op == ast.Or {
		shortCircuitValue = constant.True
	}
	phi := mergeBlk.NewPhi(
		ir.NewIncoming(shortCircuitValue, entryBlk),
		ir.NewIncoming(rval, rhsEndBlk),
	)
	return phi, itypes.TBool
}

func (lw *Lowerer) lowerCall(n *ast.Call) (value.Value, itypes.Type) {
	sig, ok := lw.syms.LookupFunction(n.Callee)
	if !ok {
		lw.errorf(diag.Scope, n.Pos, "call to undeclared function %q%s", n.Callee, suggestionSuffix(n.Callee, lw.syms.FunctionNames()))
		for _, a := range n.Args {
			lw.lowerExpr(a)
		}
		return nil, itypes.Type{}
	}
	if len(n.Args) != len(sig.ParamTypes) {
		lw.errorf(diag.Semantic, n.Pos, "function %q expects %d argument(s), found %d", n.Callee, len(sig.ParamTypes), len(n.Args))
		for _, a := range n.Args {
			lw.lowerExpr(a)
		}
		return nil, itypes.Type{}
	}

	callee := lw.lookupFuncValue(n.Callee)
	args := make([]value.Value, len(n.Args))
	okAll := callee != nil
	for i, a := range n.Args {
		av, aty := lw.lowerExpr(a)
		if av == nil {
			okAll = false
			continue
		}
		converted, ok := lw.convertArgument(a.Loc(), av, aty, sig.ParamTypes[i])
		if !ok {
			lw.errorf(diag.Type, a.Loc(), "argument %d of %q: cannot convert %s to %s", i+1, n.Callee, aty, sig.ParamTypes[i])
			okAll = false
			continue
		}
		args[i] = converted
	}
	if !okAll {
		return nil, itypes.Type{}
	}
	call := lw.curBlock.NewCall(callee, args...)
	return call, sig.ReturnType
}

// convertArgument applies either ordinary numeric widening or, when a
// whole array variable is passed where its decayed pointer type is
// expected, the array-to-pointer decay GEP (spec.md §3).
func (lw *Lowerer) convertArgument(pos ast.Pos, val value.Value, from, to itypes.Type) (value.Value, bool) {
	if from.Kind == itypes.Array && to.Kind == itypes.Pointer {
		return lw.decayArrayToPointer(val, from), true
	}
	if from.Kind == itypes.Pointer && to.Kind == itypes.Pointer && from.Equal(to) {
		return val, true
	}
	return lw.widenTo(pos, val, from, to)
}

func (lw *Lowerer) decayArrayToPointer(arrPtr value.Value, arrTy itypes.Type) value.Value {
	fullLLType := llvmArrayType(arrTy.Elem.Kind, arrTy.InnerDims)
	zero := constant.NewInt(lltypes.I32, 0)
	return lw.curBlock.NewGetElementPtr(fullLLType, arrPtr, zero, zero)
}

// lookupFuncValue returns the *ir.Func created when name was declared
// (extern or definition); both lowering paths register it in funcVals.
func (lw *Lowerer) lookupFuncValue(name string) value.Value {
	if f, ok := lw.funcVals[name]; ok {
		return f
	}
	return nil
}
