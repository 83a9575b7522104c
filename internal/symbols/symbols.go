// Package symbols implements the Mini-C symbol tables (spec.md component
// F): globals, functions, per-function locals with a shadow stack, the
// current function's parameter set, and a typed symbol index for
// diagnostics.
package symbols

import (
	"minicc/internal/types"

	"github.com/llir/llvm/ir/value"
)

// GlobalSymbol is a top-level variable or array binding.
type GlobalSymbol struct {
	Type   types.Type
	Handle value.Value // *ir.Global
}

// FuncSig is a function's declared signature. Defined marks a signature
// that came from a full definition (a body), as opposed to an extern or
// forward prototype.
type FuncSig struct {
	ReturnType types.Type
	ParamTypes []types.Type
	Defined    bool
}

// sameSignature compares return type and parameter types, ignoring Defined.
func (s FuncSig) sameSignature(o FuncSig) bool {
	if !s.ReturnType.Equal(o.ReturnType) {
		return false
	}
	if len(s.ParamTypes) != len(o.ParamTypes) {
		return false
	}
	for i := range s.ParamTypes {
		if !s.ParamTypes[i].Equal(o.ParamTypes[i]) {
			return false
		}
	}
	return true
}

// LocalSymbol is a binding local to the function currently being lowered.
type LocalSymbol struct {
	Type   types.Type
	Handle value.Value // *ir.InstAlloca
}

// IndexEntry is the typed-symbol-index record used for diagnostics and
// type-consistency audits: name -> (type string, is-global, decl location).
type IndexEntry struct {
	TypeString string
	IsGlobal   bool
	Line, Col  int
}

type shadowEntry struct {
	name    string
	prev    LocalSymbol
	existed bool
}

type blockFrame struct {
	declaredHere map[string]bool
	shadow       []shadowEntry
}

// Table is the process-wide symbol-table state: created at compile start,
// cleared per function body, destroyed at end.
type Table struct {
	Globals   map[string]GlobalSymbol
	Functions map[string]FuncSig
	Index     map[string]IndexEntry

	locals map[string]LocalSymbol // flat map, shadow stack restores it on block exit
	frames []blockFrame
	params map[string]bool
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{
		Globals:   make(map[string]GlobalSymbol),
		Functions: make(map[string]FuncSig),
		Index:     make(map[string]IndexEntry),
	}
}

// Conflict describes why a declaration was rejected; the caller (the
// checker) turns this into a diag.Diagnostic with source location.
type Conflict int

const (
	NoConflict Conflict = iota
	ConflictRedeclared        // same name declared twice in this block, or a function defined twice
	ConflictShadowsParam      // name collides with a parameter of the enclosing function
	ConflictIsFunction        // name is already a function
	ConflictIsGlobal          // name is already a global (for DeclareFunction/DeclareGlobal)
	ConflictSignatureMismatch // function redeclared with a different signature
)

//  Functions

// DeclareFunction registers name in the Functions map, or — the standard
// mutual-recursion idiom — lets a definition complete a prior bodyless
// prototype of the same name. A repeated prototype (extern seen twice, or
// an extern after the matching definition) is harmless and returns
// NoConflict; a true second *definition*, or any redeclaration whose
// signature does not match the first one, is rejected.
func (t *Table) DeclareFunction(name string, sig FuncSig) Conflict {
	if _, ok := t.Globals[name]; ok {
		return ConflictIsGlobal
	}
	existing, ok := t.Functions[name]
	if !ok {
		t.Functions[name] = sig
		return NoConflict
	}
	if !sig.sameSignature(existing) {
		return ConflictSignatureMismatch
	}
	if sig.Defined && existing.Defined {
		return ConflictRedeclared
	}
	if sig.Defined {
		existing.Defined = true
		t.Functions[name] = existing
	}
	return NoConflict
}

// LookupFunction resolves a function name.
func (t *Table) LookupFunction(name string) (FuncSig, bool) {
	sig, ok := t.Functions[name]
	return sig, ok
}

// FunctionNames returns every declared function name, used to build "did
// you mean" suggestion candidates for an unresolved callee.
func (t *Table) FunctionNames() []string {
	names := make([]string, 0, len(t.Functions))
	for n := range t.Functions {
		names = append(names, n)
	}
	return names
}

//  Globals

// DeclareGlobal registers a top-level variable or array. Globals are never
// removed once added.
func (t *Table) DeclareGlobal(name string, sym GlobalSymbol) Conflict {
	if _, ok := t.Functions[name]; ok {
		return ConflictIsFunction
	}
	if _, ok := t.Globals[name]; ok {
		return ConflictRedeclared
	}
	t.Globals[name] = sym
	return NoConflict
}

func (t *Table) LookupGlobal(name string) (GlobalSymbol, bool) {
	sym, ok := t.Globals[name]
	return sym, ok
}

//  Function-body lifecycle

// EnterFunction resets the local frame stack and records the parameter
// set for the function about to be lowered.
func (t *Table) EnterFunction(paramNames []string) {
	t.locals = make(map[string]LocalSymbol)
	t.frames = nil
	t.params = make(map[string]bool, len(paramNames))
	for _, p := range paramNames {
		t.params[p] = true
	}
}

// ExitFunction clears the local frame; local entries do not outlive the
// function body.
func (t *Table) ExitFunction() {
	t.locals = nil
	t.frames = nil
	t.params = nil
}

// IsParameter reports whether name is a parameter of the function
// currently being lowered.
func (t *Table) IsParameter(name string) bool {
	return t.params != nil && t.params[name]
}

// DeclareParam binds a parameter as a local without going through the
// shadow-conflict checks DeclareLocal applies: a parameter is defined
// once, at function entry, before any block has been entered.
func (t *Table) DeclareParam(name string, sym LocalSymbol) {
	t.locals[name] = sym
}

//  Block scope (shadow stack)

// EnterBlock pushes a fresh block frame.
func (t *Table) EnterBlock() {
	t.frames = append(t.frames, blockFrame{declaredHere: make(map[string]bool)})
}

// ExitBlock pops the current block frame, restoring every shadowed binding
// (or removing the binding if none existed before). The postcondition is
// that the set of live locals equals the pre-entry set (spec.md Testable
// Property 6).
func (t *Table) ExitBlock() {
	if len(t.frames) == 0 {
		return
	}
	frame := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]

	for i := len(frame.shadow) - 1; i >= 0; i-- {
		e := frame.shadow[i]
		if e.existed {
			t.locals[e.name] = e.prev
		} else {
			delete(t.locals, e.name)
		}
	}
}

// DeclareLocal binds name in the current block. It enforces: no
// redeclaration within the same block, no shadowing a parameter of the
// enclosing function, and no collision with an existing function name.
// A local is always permitted to shadow an outer local or a global.
func (t *Table) DeclareLocal(name string, sym LocalSymbol) Conflict {
	if t.IsParameter(name) {
		return ConflictShadowsParam
	}
	if _, ok := t.Functions[name]; ok {
		return ConflictIsFunction
	}
	if len(t.frames) == 0 {
		t.EnterBlock()
	}
	frame := &t.frames[len(t.frames)-1]
	if frame.declaredHere[name] {
		return ConflictRedeclared
	}

	prev, existed := t.locals[name]
	frame.shadow = append(frame.shadow, shadowEntry{name: name, prev: prev, existed: existed})
	frame.declaredHere[name] = true
	t.locals[name] = sym
	return NoConflict
}

//  Resolution

// Kind identifies what namespace a resolved name belongs to.
type Kind int

const (
	NotFound Kind = iota
	KindLocal
	KindGlobal
	KindFunction
)

// Resolved is the result of Resolve: innermost local, then global, then
// function (spec.md invariant I1).
type Resolved struct {
	Kind  Kind
	Type  types.Type
	Value value.Value // nil for KindFunction
	Sig   FuncSig     // valid for KindFunction
}

// Resolve looks a name up following I1's precedence.
func (t *Table) Resolve(name string) Resolved {
	if sym, ok := t.locals[name]; ok {
		return Resolved{Kind: KindLocal, Type: sym.Type, Value: sym.Handle}
	}
	if sym, ok := t.Globals[name]; ok {
		return Resolved{Kind: KindGlobal, Type: sym.Type, Value: sym.Handle}
	}
	if sig, ok := t.Functions[name]; ok {
		return Resolved{Kind: KindFunction, Sig: sig}
	}
	return Resolved{Kind: NotFound}
}

// KnownNames returns every locally-bound, global, and function name in
// scope, used to build "did you mean" suggestion candidates for an
// unresolved variable reference.
func (t *Table) KnownNames() []string {
	names := make([]string, 0, len(t.locals)+len(t.Globals)+len(t.Functions))
	for n := range t.locals {
		names = append(names, n)
	}
	for n := range t.Globals {
		names = append(names, n)
	}
	for n := range t.Functions {
		names = append(names, n)
	}
	return names
}
