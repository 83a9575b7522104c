package lower

import (
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/symbols"
	itypes "minicc/internal/types"
)

func (lw *Lowerer) lowerAssign(n *ast.Assign) (value.Value, itypes.Type) {
	r := lw.syms.Resolve(n.Target)
	switch r.Kind {
	case symbols.NotFound:
		lw.errorf(diag.Scope, n.Pos, "undeclared identifier %q%s", n.Target, suggestionSuffix(n.Target, lw.syms.KnownNames()))
		lw.lowerExpr(n.Value)
		return nil, itypes.Type{}
	case symbols.KindFunction:
		lw.errorf(diag.Type, n.Pos, "%q is a function; it cannot be assigned to", n.Target)
		lw.lowerExpr(n.Value)
		return nil, itypes.Type{}
	}
	if r.Type.Kind == itypes.Array || r.Type.Kind == itypes.Pointer {
		lw.errorf(diag.Type, n.Pos, "%q is an array; assign to one of its elements instead", n.Target)
		lw.lowerExpr(n.Value)
		return nil, itypes.Type{}
	}

	val, vty := lw.lowerExpr(n.Value)
	if val == nil {
		return nil, itypes.Type{}
	}
	widened, ok := lw.widenTo(n.Pos, val, vty, r.Type)
	if !ok {
		lw.errorf(diag.Type, n.Pos, "cannot assign %s to %q of type %s", vty, n.Target, r.Type)
		return nil, itypes.Type{}
	}
	lw.curBlock.NewStore(widened, r.Value)
	return widened, r.Type
}

// arrayElementAddress resolves an ArrayIndex to the address of the
// addressed element plus its scalar type. It handles both addressing
// shapes from spec.md §3: a non-decayed Array variable needs a leading
// zero index to "enter" the pointer-to-array before walking dimensions; a
// decayed Pointer parameter is already a true pointer, so the first
// subscript is itself the first GEP index.
func (lw *Lowerer) arrayElementAddress(n *ast.ArrayIndex) (value.Value, itypes.Type, bool) {
	r := lw.syms.Resolve(n.Name)
	switch r.Kind {
	case symbols.NotFound:
		lw.errorf(diag.Scope, n.Pos, "undeclared identifier %q%s", n.Name, suggestionSuffix(n.Name, lw.syms.KnownNames()))
		return nil, itypes.Type{}, false
	case symbols.KindFunction:
		lw.errorf(diag.Type, n.Pos, "%q is a function; it cannot be indexed", n.Name)
		return nil, itypes.Type{}, false
	}

	var elemTy itypes.Type
	var dims []int
	var basePtr value.Value
	var leadingZero bool

	switch r.Type.Kind {
	case itypes.Array:
		elemTy = *r.Type.Elem
		dims = r.Type.InnerDims
		basePtr = r.Value
		leadingZero = true
	case itypes.Pointer:
		elemTy = *r.Type.Elem
		dims = r.Type.InnerDims
		basePtr = lw.curBlock.NewLoad(llvmType(r.Type), r.Value)
		leadingZero = false
	default:
		lw.errorf(diag.Type, n.Pos, "%q is not an array", n.Name)
		return nil, itypes.Type{}, false
	}

	expected := len(dims)
	if !leadingZero {
		expected++ // the decayed dimension must be supplied back by the first subscript
	}
	if len(n.Indices) != expected {
		lw.errorf(diag.Semantic, n.Pos, "%q takes %d subscript(s), found %d", n.Name, expected, len(n.Indices))
		for _, ix := range n.Indices {
			lw.lowerExpr(ix)
		}
		return nil, itypes.Type{}, false
	}

	idxVals := make([]value.Value, 0, len(n.Indices))
	ok := true
	for _, ix := range n.Indices {
		v, ty := lw.lowerExpr(ix)
		if v == nil {
			ok = false
			continue
		}
		if ty.Kind == itypes.Float {
			lw.errorf(diag.Type, ix.Loc(), "array subscript must be int or bool, found %s", ty)
			ok = false
			continue
		}
		widened, widenOK := lw.widenTo(ix.Loc(), v, ty, itypes.TInt)
		if !widenOK {
			ok = false
			continue
		}
		idxVals = append(idxVals, widened)
	}
	if !ok {
		return nil, itypes.Type{}, false
	}

	gepElemType := llvmArrayType(elemTy.Kind, dims)
	indices := idxVals
	if leadingZero {
		indices = append([]value.Value{constant.NewInt(lltypes.I32, 0)}, idxVals...)
	}
	addr := lw.curBlock.NewGetElementPtr(gepElemType, basePtr, indices...)
	return addr, elemTy, true
}

func (lw *Lowerer) lowerArrayIndexLoad(n *ast.ArrayIndex) (value.Value, itypes.Type) {
	addr, elemTy, ok := lw.arrayElementAddress(n)
	if !ok {
		return nil, itypes.Type{}
	}
	return lw.curBlock.NewLoad(llvmType(elemTy), addr), elemTy
}

func (lw *Lowerer) lowerArrayAssign(n *ast.ArrayAssign) (value.Value, itypes.Type) {
	addr, elemTy, ok := lw.arrayElementAddress(n.Target)
	if !ok {
		lw.lowerExpr(n.Value)
		return nil, itypes.Type{}
	}
	val, vty := lw.lowerExpr(n.Value)
	if val == nil {
		return nil, itypes.Type{}
	}
	widened, widenOK := lw.widenTo(n.Pos, val, vty, elemTy)
	if !widenOK {
		lw.errorf(diag.Type, n.Pos, "cannot assign %s to array element of type %s", vty, elemTy)
		return nil, itypes.Type{}
	}
	lw.curBlock.NewStore(widened, addr)
	return widened, elemTy
}
