// Package token defines the lexical token kinds shared by the lexer,
// preprocessor and parser, plus the source-origin information every
// downstream AST node carries for diagnostics.
package token

import "fmt"

// Kind tags the variant a Token carries. Tokens are a closed set, matched
// exhaustively by the lexer, preprocessor and parser.
type Kind int

const (
	Invalid Kind = iota
	Identifier
	Primitive
	CharLit
	StringLit
	HeaderName
	Operator
	Pragma
	Newline
	Eof
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case Primitive:
		return "primitive"
	case CharLit:
		return "char"
	case StringLit:
		return "string"
	case HeaderName:
		return "header-name"
	case Operator:
		return "operator"
	case Pragma:
		return "pragma"
	case Newline:
		return "newline"
	case Eof:
		return "eof"
	default:
		return "invalid"
	}
}

// NumberWidth classifies the suffix on a numeric literal.
type NumberWidth int

const (
	WidthDefault NumberWidth = iota
	WidthLong
	WidthLongLong
	WidthFloat
	WidthDouble
)

// FileOrigin is the (file, line, column, byte offset) tuple propagated from
// every token into every AST node built from it, plus the chain of
// #include origins that led here.
type FileOrigin struct {
	File         string
	Line         int
	Column       int
	Offset       int
	IncludedFrom *FileOrigin
}

func (o FileOrigin) String() string {
	if o.File == "" {
		return fmt.Sprintf("%d:%d", o.Line, o.Column)
	}
	return fmt.Sprintf("%s:%d:%d", o.File, o.Line, o.Column)
}

// Before reports whether o is not-after other within the same file,
// ignoring include-chain position. Used by the monotonic-origin invariant
// in tests.
func (o FileOrigin) Before(other FileOrigin) bool {
	if o.File != other.File {
		return true
	}
	if o.Line != other.Line {
		return o.Line < other.Line
	}
	return o.Column <= other.Column
}

// Token is a tagged union over the lexical categories of spec.md §3. Only
// the fields relevant to Kind are populated; zero values elsewhere.
type Token struct {
	Kind   Kind
	Origin FileOrigin

	// Identifier / Pragma text, or the raw spelling for diagnostics.
	Text string

	// Primitive: numeric value (kept as both the literal text and a
	// parsed width/sign class; floats and out-of-range integers are
	// evaluated lazily by the expression engine).
	NumberText  string
	NumberWidth NumberWidth
	IsUnsigned  bool
	IsFloat     bool

	// CharLit / StringLit.
	Encoding  string // "", "u8", "u", "U", "L"
	Raw       string // the literal's content, decoded
	UserQuote string // raw-string end delimiter, if any

	// HeaderName.
	System bool // true for <...>, false for "..."

	// Operator.
	Op *Operator
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier, Pragma:
		return t.Text
	case Primitive:
		return t.NumberText
	case CharLit:
		return "'" + t.Raw + "'"
	case StringLit:
		return "\"" + t.Raw + "\""
	case HeaderName:
		if t.System {
			return "<" + t.Text + ">"
		}
		return "\"" + t.Text + "\""
	case Operator:
		if t.Op != nil {
			return t.Op.Symbol
		}
		return ""
	case Newline:
		return "\n"
	case Eof:
		return "<eof>"
	default:
		return "<invalid>"
	}
}

// Spelling returns the raw text the token was lexed from, used by the
// preprocessor's `#` stringification operator.
func (t Token) Spelling() string {
	return t.String()
}

// IsOp reports whether the token is an operator with the given symbol.
func (t Token) IsOp(symbol string) bool {
	return t.Kind == Operator && t.Op != nil && t.Op.Symbol == symbol
}
