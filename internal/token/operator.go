package token

// Category is a bitmask of the roles an operator can play; an operator may
// carry several (e.g. '-' is both UnaryLeft and Binary).
type Category uint32

const (
	UnaryLeft Category = 1 << iota
	UnaryRight
	Binary
	Ternary
	Assignment
	Comparison
	Bitwise
	Shift
	PairOpen
	PairClose
	Punctuation
	CommentMarker
	PreprocessorMarker
)

// Associativity of a binary/assignment operator.
type Assoc int

const (
	LeftToRight Assoc = iota
	RightToLeft
)

// Operator is an immutable entry in the process-wide operator table.
// Operators are data: the parser looks them up by reference rather than
// dispatching on type, per the "dynamic operator dispatch" design note.
type Operator struct {
	Symbol     string
	Categories Category
	Precedence int // higher binds tighter
	Assoc      Assoc
}

func (op *Operator) Is(c Category) bool { return op.Categories&c != 0 }

// Precedence table. Comma is lowest; assignment and ternary are
// right-to-left; `::` binds tighter than member access per spec.md §4.D.
var operatorTable = []*Operator{
	{",", Binary, 1, LeftToRight},
	{"=", Assignment, 2, RightToLeft},
	{"+=", Assignment, 2, RightToLeft},
	{"-=", Assignment, 2, RightToLeft},
	{"*=", Assignment, 2, RightToLeft},
	{"/=", Assignment, 2, RightToLeft},
	{"%=", Assignment, 2, RightToLeft},
	{"&=", Assignment, 2, RightToLeft},
	{"|=", Assignment, 2, RightToLeft},
	{"^=", Assignment, 2, RightToLeft},
	{"<<=", Assignment, 2, RightToLeft},
	{">>=", Assignment, 2, RightToLeft},
	{"?", Ternary, 3, RightToLeft},
	{":", Ternary, 3, RightToLeft},
	{"||", Binary, 4, LeftToRight},
	{"&&", Binary, 5, LeftToRight},
	{"|", Binary | Bitwise, 6, LeftToRight},
	{"^", Binary | Bitwise, 7, LeftToRight},
	{"&", Binary | Bitwise | UnaryLeft, 8, LeftToRight},
	{"==", Binary | Comparison, 9, LeftToRight},
	{"!=", Binary | Comparison, 9, LeftToRight},
	{"<", Binary | Comparison | PairOpen, 10, LeftToRight},
	{">", Binary | Comparison | PairClose, 10, LeftToRight},
	{"<=", Binary | Comparison, 10, LeftToRight},
	{">=", Binary | Comparison, 10, LeftToRight},
	{"<<", Binary | Shift, 11, LeftToRight},
	{">>", Binary | Shift, 11, LeftToRight},
	{"+", Binary | UnaryLeft, 12, LeftToRight},
	{"-", Binary | UnaryLeft, 12, LeftToRight},
	{"*", Binary | UnaryLeft, 13, LeftToRight},
	{"/", Binary, 13, LeftToRight},
	{"%", Binary, 13, LeftToRight},
	{"->*", Binary, 14, LeftToRight},
	{".*", Binary, 14, LeftToRight},
	{"!", UnaryLeft, 15, RightToLeft},
	{"~", UnaryLeft, 15, RightToLeft},
	{"++", UnaryLeft | UnaryRight, 15, RightToLeft},
	{"--", UnaryLeft | UnaryRight, 15, RightToLeft},
	{"sizeof", UnaryLeft, 15, RightToLeft},
	{".", Binary | Punctuation, 16, LeftToRight},
	{"->", Binary | Punctuation, 16, LeftToRight},
	{"::", Binary | Punctuation, 17, LeftToRight},
	{"(", PairOpen, 18, LeftToRight},
	{")", PairClose, 18, LeftToRight},
	{"[", PairOpen, 18, LeftToRight},
	{"]", PairClose, 18, LeftToRight},
	{"{", PairOpen, 18, LeftToRight},
	{"}", PairClose, 18, LeftToRight},
	{";", Punctuation, 0, LeftToRight},
	{"...", Punctuation, 0, LeftToRight},
	{"//", CommentMarker, 0, LeftToRight},
	{"/*", CommentMarker, 0, LeftToRight},
	{"*/", CommentMarker, 0, LeftToRight},
	{"#", PreprocessorMarker, 0, LeftToRight},
	{"##", PreprocessorMarker, 0, LeftToRight},
	{"<<<", Punctuation, 18, LeftToRight},
	{">>>", Punctuation, 18, LeftToRight},
	{"@", Punctuation, 18, LeftToRight},
}

var operatorsBySymbol = func() map[string]*Operator {
	m := make(map[string]*Operator, len(operatorTable))
	for _, op := range operatorTable {
		m[op.Symbol] = op
	}
	return m
}()

// Lookup returns the operator registered under symbol, or nil.
func Lookup(symbol string) *Operator {
	return operatorsBySymbol[symbol]
}

// Operators exposes the full table, for callers (e.g. the trie builder,
// extension registration) that need to range over it. The slice is not to
// be mutated; the table is immutable after package init per spec.md §5.
func Operators() []*Operator { return operatorTable }
