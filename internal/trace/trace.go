// Package trace is the compiler's debug-tracing collaborator: a leveled
// writer gated by the four verbosity levels named in spec.md §6
// (user, parser, codegen, verbose, cumulative in that order). Its call
// sites are well-defined (one per phase); its exact formatting is not
// pinned by the spec, so it follows the original implementation's
// DEBUG_* macro family.
package trace

import (
	"fmt"
	"io"
	"os"
)

// Level is the compiler's debug verbosity.
type Level int

const (
	Off Level = iota
	User
	Parser
	Codegen
	Verbose
)

// ParseLevel maps the four accepted spellings from -d/--debug and
// MCCOMP_DEBUG to a Level. The empty string and unrecognized spellings
// both mean Off.
func ParseLevel(s string) Level {
	switch s {
	case "user":
		return User
	case "parser":
		return Parser
	case "codegen":
		return Codegen
	case "verbose":
		return Verbose
	default:
		return Off
	}
}

// Tracer is the package-wide handle the driver configures once per compile
// and passes (or defaults) to every stage.
type Tracer struct {
	level Level
	w     io.Writer
}

// New creates a Tracer writing to w at the given level.
func New(level Level, w io.Writer) *Tracer {
	return &Tracer{level: level, w: w}
}

// Discard is a Tracer that never writes; used when tracing is off.
func Discard() *Tracer { return New(Off, io.Discard) }

func (t *Tracer) emit(min Level, tag string, format string, args ...any) {
	if t == nil || t.level < min {
		return
	}
	fmt.Fprintf(t.w, "[%s] %s\n", tag, fmt.Sprintf(format, args...))
}

// User logs a top-level phase-progress message, shown at every non-Off level.
func (t *Tracer) User(format string, args ...any) { t.emit(User, "USER", format, args...) }

// Phase prints the banner shown at phase boundaries (lex done, parse done, ...).
func (t *Tracer) Phase(name string) { t.emit(User, "USER", "%s complete", name) }

// Parser logs a parser production entry/exit.
func (t *Tracer) Parser(format string, args ...any) { t.emit(Parser, "PARSER", format, args...) }

// Codegen logs an instruction-emission step in lowering.
func (t *Tracer) Codegen(format string, args ...any) { t.emit(Codegen, "CODEGEN", format, args...) }

// Verbose logs the most granular detail (type-resolution steps, symbol
// lookups, and the like).
func (t *Tracer) Verbose(format string, args ...any) { t.emit(Verbose, "VERBOSE", format, args...) }

// FromEnv resolves the effective level from an explicit flag value (which
// wins if non-empty) and the MCCOMP_DEBUG environment variable, matching
// the precedence in spec.md §6.
func FromEnv(flagValue string) Level {
	if flagValue != "" {
		return ParseLevel(flagValue)
	}
	return ParseLevel(os.Getenv("MCCOMP_DEBUG"))
}
