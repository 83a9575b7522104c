// Package irw is the thin writer that turns a built *ir.Module into the
// textual LLVM-IR the compiler emits (spec.md component I). llir/llvm's
// (*ir.Module).String() already produces well-formed, parseable textual
// IR, so this package's entire job is deciding where that text goes.
package irw

import (
	"io"
	"os"

	"github.com/llir/llvm/ir"
)

// Write renders mod as textual LLVM-IR and writes it to w.
func Write(w io.Writer, mod *ir.Module) error {
	_, err := io.WriteString(w, mod.String())
	return err
}

// WriteFile renders mod and writes it to path, creating or truncating the
// file (spec.md §6: the driver only ever produces "output.ll" as a whole
// file, never appends to one).
func WriteFile(path string, mod *ir.Module) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, mod)
}
