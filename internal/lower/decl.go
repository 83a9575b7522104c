package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"

	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/symbols"
	itypes "minicc/internal/types"
)

// paramSigTypes converts a parsed parameter list to the semantic types
// used for the function's signature, applying array-parameter decay
// (spec.md §3: "int a[10][5]" becomes PointerTo(int, [5])).
func paramSigTypes(params []ast.Param) []itypes.Type {
	out := make([]itypes.Type, len(params))
	for i, p := range params {
		base := scalarKindToType(p.Type)
		if p.Dims == nil {
			out[i] = base
			continue
		}
		inner := p.Dims[1:]
		out[i] = itypes.NewPointer(base, inner)
	}
	return out
}

// checkParamDims rejects an array parameter whose inner (non-decayed)
// dimensions are not all positive literal sizes: the first dimension is
// discarded by decay and so may be elided, but any dimension that
// survives into the decayed pointer type must be a known constant for
// the GEP arithmetic that addresses it (spec.md §3).
func (lw *Lowerer) checkParamDims(params []ast.Param) bool {
	ok := true
	for _, p := range params {
		for i, dim := range p.Dims {
			if i == 0 {
				continue
			}
			if dim <= 0 {
				lw.errorf(diag.Type, p.Pos, "array parameter %q's dimension %d must be a positive literal size", p.Name, i+1)
				ok = false
			}
		}
	}
	return ok
}

func (lw *Lowerer) lowerExternDecl(d *ast.FnProto) {
	if !lw.checkParamDims(d.Params) {
		return
	}
	ret := scalarKindToType(d.ReturnType)
	paramTypes := paramSigTypes(d.Params)

	sig := symbols.FuncSig{ReturnType: ret, ParamTypes: paramTypes}
	switch lw.syms.DeclareFunction(d.Name, sig) {
	case symbols.ConflictIsGlobal:
		lw.errorf(diag.Scope, d.Pos, "%q is already declared as a global variable", d.Name)
		return
	case symbols.ConflictRedeclared:
		lw.errorf(diag.Scope, d.Pos, "function %q is already declared", d.Name)
		return
	case symbols.ConflictSignatureMismatch:
		lw.errorf(diag.Type, d.Pos, "function %q redeclared with a different signature", d.Name)
		return
	}

	// A repeated prototype (this extern seen again, or an extern after the
	// matching definition already ran) reuses the existing *ir.Func rather
	// than emitting a second, colliding @name.
	if _, ok := lw.funcVals[d.Name]; ok {
		lw.tr.Codegen("re-declared extern %s", d.Name)
		return
	}

	llParams := make([]*ir.Param, len(d.Params))
	for i, p := range d.Params {
		llParams[i] = ir.NewParam(p.Name, llvmType(paramTypes[i]))
	}
	fn := lw.mod.NewFunc(d.Name, llvmScalar(ret.Kind), llParams...)
	lw.funcVals[d.Name] = fn
	lw.tr.Codegen("declared extern %s", d.Name)
}

func (lw *Lowerer) lowerGlobalScalar(d *ast.GlobalVarDecl) {
	ty := scalarKindToType(d.Type)
	if ty.Kind == itypes.Void {
		lw.errorf(diag.Type, d.Pos, "variable %q cannot have type void", d.Name)
		return
	}
	g := lw.mod.NewGlobalDef(d.Name, zeroScalarConstant(ty.Kind))
	switch lw.syms.DeclareGlobal(d.Name, symbols.GlobalSymbol{Type: ty, Handle: g}) {
	case symbols.ConflictIsFunction:
		lw.errorf(diag.Scope, d.Pos, "%q is already declared as a function", d.Name)
	case symbols.ConflictRedeclared:
		lw.errorf(diag.Scope, d.Pos, "global %q is already declared", d.Name)
	}
	lw.tr.Codegen("declared global %s: %s", d.Name, ty)
}

func (lw *Lowerer) lowerGlobalArray(d *ast.ArrayDecl) {
	elemTy := scalarKindToType(d.ElemType)
	arrTy := itypes.NewArray(elemTy, d.Dims)
	llArr := llvmArrayType(elemTy.Kind, d.Dims)
	g := lw.mod.NewGlobalDef(d.Name, constant.NewZeroInitializer(llArr))

	switch lw.syms.DeclareGlobal(d.Name, symbols.GlobalSymbol{Type: arrTy, Handle: g}) {
	case symbols.ConflictIsFunction:
		lw.errorf(diag.Scope, d.Pos, "%q is already declared as a function", d.Name)
	case symbols.ConflictRedeclared:
		lw.errorf(diag.Scope, d.Pos, "global %q is already declared", d.Name)
	}
	lw.tr.Codegen("declared global array %s%v", d.Name, d.Dims)
}

func (lw *Lowerer) lowerFuncDef(d *ast.FnDef) {
	proto := d.Proto
	if !lw.checkParamDims(proto.Params) {
		return
	}
	ret := scalarKindToType(proto.ReturnType)
	paramTypes := paramSigTypes(proto.Params)

	sig := symbols.FuncSig{ReturnType: ret, ParamTypes: paramTypes, Defined: true}
	switch lw.syms.DeclareFunction(proto.Name, sig) {
	case symbols.ConflictIsGlobal:
		lw.errorf(diag.Scope, proto.Pos, "%q is already declared as a global variable", proto.Name)
		return
	case symbols.ConflictRedeclared:
		lw.errorf(diag.Scope, proto.Pos, "function %q is already defined", proto.Name)
		return
	case symbols.ConflictSignatureMismatch:
		lw.errorf(diag.Type, proto.Pos, "function %q redeclared with a different signature", proto.Name)
		return
	}

	// A prior extern/forward prototype of this name (the standard
	// mutual-recursion idiom) already has an *ir.Func; attach this body to
	// it instead of creating a second, colliding @name.
	fn, ok := lw.funcVals[proto.Name]
	if !ok {
		llParams := make([]*ir.Param, len(proto.Params))
		for i, p := range proto.Params {
			llParams[i] = ir.NewParam(p.Name, llvmType(paramTypes[i]))
		}
		fn = lw.mod.NewFunc(proto.Name, llvmScalar(ret.Kind), llParams...)
		lw.funcVals[proto.Name] = fn
	}
	entry := fn.NewBlock("entry")

	lw.curFn = fn
	lw.curBlock = entry
	lw.curRet = ret

	paramNames := make([]string, len(proto.Params))
	for i := range proto.Params {
		paramNames[i] = proto.Params[i].Name
	}
	lw.syms.EnterFunction(paramNames)

	for i, p := range proto.Params {
		alloca := entry.NewAlloca(llvmType(paramTypes[i]))
		alloca.SetName(p.Name + ".addr")
		entry.NewStore(fn.Params[i], alloca)
		lw.syms.DeclareParam(p.Name, symbols.LocalSymbol{Type: paramTypes[i], Handle: alloca})
	}

	lw.lowerBlock(d.Body)

	if lw.curBlock.Term == nil {
		if ret.Kind == itypes.Void {
			lw.curBlock.NewRet(nil)
		} else {
			lw.errorf(diag.Semantic, d.Body.Pos, "function %q may fall off its end without returning a value", proto.Name)
			lw.curBlock.NewUnreachable()
		}
	}

	lw.syms.ExitFunction()
	lw.curFn = nil
	lw.curBlock = nil
	lw.tr.Codegen("lowered function %s", proto.Name)
}
