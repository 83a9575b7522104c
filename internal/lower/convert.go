package lower

import (
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"

	itypes "minicc/internal/types"
)

// llvmScalar maps a Mini-C scalar kind to its LLVM representation: bool is
// i1 (never i8), int is the 32-bit signed integer, float is IEEE-754
// single precision (spec.md §3 — never double).
func llvmScalar(k itypes.Kind) lltypes.Type {
	switch k {
	case itypes.Bool:
		return lltypes.I1
	case itypes.Int:
		return lltypes.I32
	case itypes.Float:
		return lltypes.Float
	case itypes.Void:
		return lltypes.Void
	default:
		return lltypes.I32
	}
}

// llvmArrayType builds the LLVM array type for a fixed-size Mini-C array
// with the given element kind and dimensions, nesting outer-to-inner:
// dims [10][5] of int becomes [10 x [5 x i32]].
func llvmArrayType(elem itypes.Kind, dims []int) lltypes.Type {
	t := llvmScalar(elem)
	for i := len(dims) - 1; i >= 0; i-- {
		t = lltypes.NewArray(uint64(dims[i]), t)
	}
	return t
}

// llvmType maps a full semantic Type (scalar or decayed-pointer) to its
// LLVM representation. A Pointer type's InnerDims are the dimensions that
// survive decay (spec.md §3: the leading dimension is discarded), so the
// pointee is the array type built from exactly those.
func llvmType(t itypes.Type) lltypes.Type {
	switch t.Kind {
	case itypes.Pointer:
		return lltypes.NewPointer(llvmArrayType(t.Elem.Kind, t.InnerDims))
	case itypes.Array:
		return llvmArrayType(t.Elem.Kind, t.InnerDims)
	default:
		return llvmScalar(t.Kind)
	}
}

// zeroScalarConstant is the default initializer for a scalar global
// declared without one (Mini-C has no initializer syntax: every global
// starts at its type's zero value).
func zeroScalarConstant(k itypes.Kind) constant.Constant {
	switch k {
	case itypes.Bool:
		return constant.False
	case itypes.Float:
		return constant.NewFloat(lltypes.Float, 0)
	default:
		return constant.NewInt(lltypes.I32, 0)
	}
}
