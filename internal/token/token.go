// Package token defines the lexical units of Mini-C.
package token

import "fmt"

// Kind identifies the category of a lexed token.
type Kind int

const (
	EOF Kind = iota // sentinel: end of input, never consumed beyond

	IDENT     // variable, function, or parameter name
	INT_LIT   // decimal integer literal
	FLOAT_LIT // floating literal, "N.M", "N.", or ".M"

	// Keywords
	KwInt
	KwFloat
	KwBool
	KwVoid
	KwExtern
	KwIf
	KwElse
	KwWhile
	KwReturn
	KwTrue
	KwFalse

	// Paired delimiters
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket

	// Punctuation
	Comma
	Semicolon

	// Operators
	Assign   // =
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Percent  // %
	Less     // <
	LessEq   // <=
	Greater  // >
	GreaterEq // >=
	Eq       // ==
	NotEq    // !=
	AndAnd   // &&
	OrOr     // ||
	Not      // !

	// illegalSentinel offsets an unrecognised byte's Kind well past every
	// real Kind above, so it can never collide with one (a raw ASCII value
	// like '"' == 34 used to alias NotEq). See Illegal/IsIllegal below.
	illegalSentinel = 1 << 16
)

// Illegal builds the Kind the lexer emits for a byte it could not
// otherwise classify, tagging it with its own value for diagnostics
// without risking collision with any real Kind.
func Illegal(r rune) Kind { return illegalSentinel + Kind(r) }

var keywords = map[string]Kind{
	"int":    KwInt,
	"float":  KwFloat,
	"bool":   KwBool,
	"void":   KwVoid,
	"extern": KwExtern,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"return": KwReturn,
	"true":   KwTrue,
	"false":  KwFalse,
}

// Lookup re-classifies an identifier lexeme as a keyword Kind, if it is one.
func Lookup(lexeme string) (Kind, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}

var names = map[Kind]string{
	EOF:       "EOF",
	IDENT:     "IDENT",
	INT_LIT:   "INT_LIT",
	FLOAT_LIT: "FLOAT_LIT",
	KwInt:     "int",
	KwFloat:   "float",
	KwBool:    "bool",
	KwVoid:    "void",
	KwExtern:  "extern",
	KwIf:      "if",
	KwElse:    "else",
	KwWhile:   "while",
	KwReturn:  "return",
	KwTrue:    "true",
	KwFalse:   "false",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
	Comma:     ",",
	Semicolon: ";",
	Assign:    "=",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Less:      "<",
	LessEq:    "<=",
	Greater:   ">",
	GreaterEq: ">=",
	Eq:        "==",
	NotEq:     "!=",
	AndAnd:    "&&",
	OrOr:      "||",
	Not:       "!",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	if k >= illegalSentinel {
		return fmt.Sprintf("%q", rune(k-illegalSentinel))
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexical unit produced by the Lexer. Invariant: Column
// points at the first character of Lexeme.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-10q line %d col %d", t.Kind, t.Lexeme, t.Line, t.Column)
}

// IsIllegal reports whether t was produced for a byte the lexer could not
// otherwise classify (see Illegal).
func (t Token) IsIllegal() bool { return t.Kind >= illegalSentinel }
