package diag

import (
	"fmt"
	"io"
	"strings"
)

// ansi colors, one per Class; used only when Emitter.Color is set by the
// driver (a terminal check is the driver's concern, not this package's).
const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorBold   = "\x1b[1m"
	colorReset  = "\x1b[0m"
)

func (c Class) color() string {
	switch c {
	case Lexical, Syntax:
		return colorRed
	default:
		return colorYellow
	}
}

// Emitter prints a Bag's diagnostics to a writer in the stable structure
// required by spec.md §6: class, file:line:col, summary, optional source
// echo with caret, optional "did you mean", and an error-class hint.
type Emitter struct {
	W     io.Writer
	Color bool
}

// NewEmitter creates an emitter writing to w with color disabled; the
// driver enables Color after checking whether w is a terminal.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{W: w}
}

// EmitAll prints every diagnostic in b, in accumulation order, followed by
// a one-line summary.
func (e *Emitter) EmitAll(b *Bag) {
	for _, d := range b.All() {
		e.Emit(d)
	}
	if n := b.Count(); n > 0 {
		fmt.Fprintf(e.W, "\ncompilation failed with %d error(s)\n", n)
	}
}

// Emit prints a single diagnostic.
func (e *Emitter) Emit(d Diagnostic) {
	color, reset := "", ""
	if e.Color {
		color, reset = d.Class.color(), colorReset
	}

	fmt.Fprintf(e.W, "%s%s%s", color, d.Class, reset)
	if d.HasLocation() {
		fmt.Fprintf(e.W, " %s:%d:%d", d.File, d.Line, d.Column)
	} else if d.File != "" {
		fmt.Fprintf(e.W, " %s", d.File)
	}
	fmt.Fprintf(e.W, ": %s\n", d.Message)

	if d.SourceLine != "" {
		fmt.Fprintf(e.W, "  %s\n", d.SourceLine)
		if d.Column > 0 {
			fmt.Fprintf(e.W, "  %s^\n", strings.Repeat(" ", d.Column-1))
		}
	}

	if d.Suggestion != "" {
		fmt.Fprintf(e.W, "  did you mean '%s'?\n", d.Suggestion)
	}

	fmt.Fprintf(e.W, "  %s\n", d.Class.hint())
}
