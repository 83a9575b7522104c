// Package diag implements the compiler's diagnostic model: typed error
// records with source location, accumulated during a compile and printed
// at the end rather than thrown as Go errors.
package diag

import "fmt"

// Class is the error taxonomy from the error handling design: every
// diagnostic belongs to exactly one of these five classes.
type Class int

const (
	Lexical Class = iota
	Syntax
	Type
	Scope
	Semantic
)

func (c Class) String() string {
	switch c {
	case Lexical:
		return "Lexical Error"
	case Syntax:
		return "Syntax Error"
	case Type:
		return "Type Error"
	case Scope:
		return "Scope Error"
	case Semantic:
		return "Semantic Error"
	default:
		return "Error"
	}
}

// hint is the one-line error-class guidance shown below every diagnostic of
// that class.
func (c Class) hint() string {
	switch c {
	case Lexical:
		return "check for invalid characters or malformed literals"
	case Syntax:
		return "check for a missing semicolon, brace, or misplaced keyword"
	case Type:
		return "verify operand and conversion types; narrowing is never implicit"
	case Scope:
		return "verify the name is declared and visible in this scope"
	case Semantic:
		return "a well-formed but meaningless construct was found"
	default:
		return ""
	}
}

// Diagnostic is a single compiler error record.
type Diagnostic struct {
	Class      Class
	File       string
	Line       int // 0 means unknown
	Column     int // 0 means unknown
	Message    string
	SourceLine string // optional echo of the offending source line
	Suggestion string // optional "did you mean" identifier
}

func (d Diagnostic) HasLocation() bool { return d.Line > 0 }

func (d Diagnostic) String() string {
	if d.HasLocation() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Class, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.File, d.Class, d.Message)
}
