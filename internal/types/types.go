// Package types implements the Mini-C semantic type lattice (spec.md
// component G): the primitive types, the bool -> int -> float widening
// chain, and the promotion/conversion rules used throughout lowering.
package types

import "fmt"

// Kind is a primitive semantic type, or Pointer for a decayed array
// parameter.
type Kind int

const (
	Bool Kind = iota
	Int
	Float
	Void
	Pointer // a decayed array parameter
	Array   // a non-decayed, fixed-size local or global array
)

// Type is a Mini-C semantic type. For Pointer, Elem is the element type
// and InnerDims holds the dimensions after the first (spec.md §3: a source
// parameter "int a[10][5]" decays to PointerTo(int, [5])). For Array,
// InnerDims holds every declared dimension undiminished: a local or global
// array variable never decays, only a function parameter does.
type Type struct {
	Kind      Kind
	Elem      *Type
	InnerDims []int
}

// NewArray builds the semantic type of a non-decayed fixed-size array
// variable with the given element type and full dimension list.
func NewArray(elem Type, dims []int) Type {
	e := elem
	return Type{Kind: Array, Elem: &e, InnerDims: dims}
}

var (
	TBool  = Type{Kind: Bool}
	TInt   = Type{Kind: Int}
	TFloat = Type{Kind: Float}
	TVoid  = Type{Kind: Void}
)

// NewPointer builds the decayed-parameter type PointerTo(elem, innerDims).
func NewPointer(elem Type, innerDims []int) Type {
	e := elem
	return Type{Kind: Pointer, Elem: &e, InnerDims: innerDims}
}

func (t Type) String() string {
	switch t.Kind {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Void:
		return "void"
	case Pointer:
		return fmt.Sprintf("%s*%v", t.Elem, t.InnerDims)
	case Array:
		return fmt.Sprintf("%s%v", t.Elem, t.InnerDims)
	default:
		return "?"
	}
}

func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind != Pointer && t.Kind != Array {
		return true
	}
	if len(t.InnerDims) != len(o.InnerDims) {
		return false
	}
	for i := range t.InnerDims {
		if t.InnerDims[i] != o.InnerDims[i] {
			return false
		}
	}
	return t.Elem.Equal(*o.Elem)
}

// rank returns a primitive's position on the widening chain
// bool(0) -> int(1) -> float(2). ok is false for Void/Pointer, which do not
// participate in the numeric lattice at all.
func rank(k Kind) (int, bool) {
	switch k {
	case Bool:
		return 0, true
	case Int:
		return 1, true
	case Float:
		return 2, true
	default:
		return 0, false
	}
}

// IsNumeric reports whether t is bool, int, or float.
func IsNumeric(t Type) bool {
	_, ok := rank(t.Kind)
	return ok
}

// Widens reports whether from can be implicitly converted to to by walking
// only forward along bool -> int -> float. Equal types trivially widen.
func Widens(from, to Type) bool {
	if from.Equal(to) {
		return true
	}
	rf, okf := rank(from.Kind)
	rt, okt := rank(to.Kind)
	if !okf || !okt {
		return false
	}
	return rf <= rt
}

// IsNarrowing reports whether converting from to to goes backward along
// the widening chain (e.g. float -> int, int -> bool) and is therefore
// disallowed everywhere an implicit conversion is required.
func IsNarrowing(from, to Type) bool {
	if from.Equal(to) {
		return false
	}
	rf, okf := rank(from.Kind)
	rt, okt := rank(to.Kind)
	if !okf || !okt {
		return true
	}
	return rf > rt
}

// CoercesToBool reports whether t may be coerced to bool in a condition
// position (if/while conditions, operands of !, &&, ||). This is a
// narrowing-but-safe coercion by design: it always lowers to a comparison
// against zero, never to a diagnostic.
func CoercesToBool(t Type) bool {
	return IsNumeric(t)
}

// ArithResult applies the binary arithmetic/comparison promotion contract
// of spec.md §4.G to two numeric operand types, returning the type both
// operands are promoted to before the operation and true, or a false ok
// when the combination is rejected outright (bool operand, or int/float
// mixed with anything that would need a different rule such as %).
func ArithResult(l, r Type) (promoted Type, ok bool) {
	if l.Kind == Bool || r.Kind == Bool {
		return Type{}, false
	}
	if !IsNumeric(l) || !IsNumeric(r) {
		return Type{}, false
	}
	if l.Kind == Float || r.Kind == Float {
		return TFloat, true
	}
	return TInt, true
}

// ModResult applies rule 2 of spec.md §4.G: "%" requires two int operands.
func ModResult(l, r Type) (Type, bool) {
	if l.Kind == Int && r.Kind == Int {
		return TInt, true
	}
	return Type{}, false
}
