package diag

import "fmt"

// Bag is an append-only diagnostic accumulator. A single Bag is shared by
// the lexer, parser, and lowering stages for one compile; order of
// diagnostics is the order they were discovered, never reordered.
type Bag struct {
	file  string
	items []Diagnostic
}

// NewBag creates a diagnostic bag for a single source file.
func NewBag(file string) *Bag {
	return &Bag{file: file}
}

// Add appends a diagnostic, filling in the bag's file path if the caller
// left it blank.
func (b *Bag) Add(d Diagnostic) {
	if d.File == "" {
		d.File = b.file
	}
	b.items = append(b.items, d)
}

// Errorf is a convenience for the common case of a located error with no
// source echo or suggestion.
func (b *Bag) Errorf(class Class, line, col int, format string, args ...any) {
	b.Add(Diagnostic{Class: class, Line: line, Column: col, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic has been recorded. Every
// recorded Diagnostic is an error in this compiler (there are no warnings
// in spec.md's taxonomy), so this is equivalent to "non-empty".
func (b *Bag) HasErrors() bool { return len(b.items) > 0 }

// Count returns the number of accumulated diagnostics.
func (b *Bag) Count() int { return len(b.items) }

// All returns the accumulated diagnostics in discovery order. The returned
// slice is owned by the caller; the bag's own slice is not aliased.
func (b *Bag) All() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}
