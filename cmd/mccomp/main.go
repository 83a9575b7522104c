// Command mccomp compiles a single Mini-C source file to textual LLVM-IR.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"minicc/internal/diag"
	"minicc/internal/irw"
	"minicc/internal/lexer"
	"minicc/internal/lower"
	"minicc/internal/parser"
	"minicc/internal/trace"
)

// Exit codes follow spec.md §6 exactly: 0 on success; 1 on any
// compilation error (a missing input file included, since that is
// compilation never getting a source to compile) or missing main; 2 is
// reserved for an internal invariant failure, never a user-facing one.
const (
	exitOK       = 0
	exitError    = 1
	exitInternal = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mccomp", flag.ContinueOnError)
	debugFlag := fs.String("d", "", "debug verbosity: user, parser, codegen, or verbose")
	fs.StringVar(debugFlag, "debug", *debugFlag, "alias for -d")
	outPath := fs.String("o", "", "output .ll path (default: output.ll in the current directory)")
	color := fs.Bool("color", true, "colorize diagnostics written to stderr")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mccomp [-d level] [-o output.ll] <source.mc>")
		return exitError
	}
	inPath := fs.Arg(0)

	tr := trace.New(trace.FromEnv(*debugFlag), os.Stderr)

	data, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mccomp: cannot read %q: %v\n", inPath, err)
		return exitError
	}
	src := string(data)
	tr.Phase("read source")

	bag := diag.NewBag(inPath)
	ts := lexer.NewTokenStream(lexer.New(src))
	lines := strings.Split(src, "\n")

	low := lower.New(inPath, bag, tr)
	p := parser.New(ts, bag, inPath, lines)
	p.ParseProgram(low)
	tr.Phase("parse and lower")

	if bag.HasErrors() {
		em := diag.NewEmitter(os.Stderr)
		fi, statErr := os.Stderr.Stat()
		isTerminal := statErr == nil && fi.Mode()&os.ModeCharDevice != 0
		em.Color = *color && isTerminal
		em.EmitAll(bag)
		return exitError
	}

	dest := *outPath
	if dest == "" {
		dest = "output.ll"
	}
	if err := irw.WriteFile(dest, low.Module()); err != nil {
		fmt.Fprintf(os.Stderr, "mccomp: cannot write %q: %v\n", dest, err)
		return exitError
	}
	tr.Phase("write output")
	tr.User("wrote %s", dest)
	return exitOK
}
