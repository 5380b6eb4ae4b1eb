// Package exprengine implements the expression engine of spec.md §4.D: a
// shunting-yard expression parser over the operator table building a typed
// expression tree (exprNode in spec.md's naming), plus the compile-time
// constant folder.
package exprengine

import "github.com/occa-go/okl/internal/token"

// Kind tags which exprNode variant a Node is. The set is closed and every
// transform/fold matches it exhaustively via a type switch, per the
// "Polymorphism" design note (sum types, not runtime-type inspection).
type Kind int

const (
	Empty Kind = iota
	PrimitiveKind
	CharKind
	StringKind
	IdentifierKind
	VariableKind
	LeftUnaryKind
	RightUnaryKind
	BinaryKind
	TernaryKind
	SubscriptKind
	CallKind
	NewKind
	DeleteKind
	ThrowKind
	SizeofKind
	CastKind
	ParenthesesKind
	TupleKind
	PairKind
	CudaCallKind
)

// CastForm distinguishes the six cast spellings of spec.md §3 without
// repeating an almost-identical struct six times.
type CastForm int

const (
	FuncCast CastForm = iota
	ParenCast
	ConstCast
	StaticCast
	ReinterpretCast
	DynamicCast
)

// VariableRef is the narrow interface a VariableNode points through,
// avoiding a dependency from exprengine on internal/types (which itself
// depends on exprengine for array-size and attribute-argument
// expressions); internal/types.Variable implements this.
type VariableRef interface {
	VarName() string
}

// Node is the interface every exprNode variant satisfies. Empty returns
// Kind() == Empty.
type Node interface {
	Kind() Kind
	Token() token.Token
	// CanEvaluate reports whether this subtree is a compile-time integer
	// or floating constant expression (spec.md §3).
	CanEvaluate() bool
	// Clone returns a deep copy; constant folding and transforms never
	// mutate the receiver (spec.md §3 "Constant-folding never mutates
	// input nodes").
	Clone() Node
	String() string
}

type baseNode struct{ Tok token.Token }

func (b baseNode) Token() token.Token { return b.Tok }

// EmptyNode is the placeholder for an absent expression (e.g. an omitted
// for-loop clause or array-size expression).
type EmptyNode struct{ baseNode }

func (n *EmptyNode) Kind() Kind        { return Empty }
func (n *EmptyNode) CanEvaluate() bool { return false }
func (n *EmptyNode) Clone() Node       { return &EmptyNode{n.baseNode} }
func (n *EmptyNode) String() string    { return "" }

// PrimitiveNode is a literal numeric constant.
type PrimitiveNode struct {
	baseNode
	Value Value
}

func (n *PrimitiveNode) Kind() Kind        { return PrimitiveKind }
func (n *PrimitiveNode) CanEvaluate() bool { return true }
func (n *PrimitiveNode) Clone() Node       { return &PrimitiveNode{n.baseNode, n.Value} }
func (n *PrimitiveNode) String() string    { return n.Value.String() }

// CharNode is a character literal.
type CharNode struct {
	baseNode
	Encoding string
	Value    string
}

func (n *CharNode) Kind() Kind        { return CharKind }
func (n *CharNode) CanEvaluate() bool { return false }
func (n *CharNode) Clone() Node       { return &CharNode{n.baseNode, n.Encoding, n.Value} }
func (n *CharNode) String() string    { return "'" + n.Value + "'" }

// StringNode is a string literal.
type StringNode struct {
	baseNode
	Encoding string
	Value    string
}

func (n *StringNode) Kind() Kind        { return StringKind }
func (n *StringNode) CanEvaluate() bool { return false }
func (n *StringNode) Clone() Node       { return &StringNode{n.baseNode, n.Encoding, n.Value} }
func (n *StringNode) String() string    { return "\"" + n.Value + "\"" }

// IdentifierNode is an as-yet-unresolved name (before scope binding).
type IdentifierNode struct {
	baseNode
	Name string
}

func (n *IdentifierNode) Kind() Kind        { return IdentifierKind }
func (n *IdentifierNode) CanEvaluate() bool { return false }
func (n *IdentifierNode) Clone() Node       { return &IdentifierNode{n.baseNode, n.Name} }
func (n *IdentifierNode) String() string    { return n.Name }

// VariableNode is an identifier resolved (via the owning statement's scope
// chain) to the Variable it references.
type VariableNode struct {
	baseNode
	Ref VariableRef
}

func (n *VariableNode) Kind() Kind        { return VariableKind }
func (n *VariableNode) CanEvaluate() bool { return false }
func (n *VariableNode) Clone() Node       { return &VariableNode{n.baseNode, n.Ref} }
func (n *VariableNode) String() string {
	if n.Ref == nil {
		return "<unresolved>"
	}
	return n.Ref.VarName()
}

// LeftUnaryNode is a prefix unary operator (++x, -x, !x, *x, &x, ...).
type LeftUnaryNode struct {
	baseNode
	Op    *token.Operator
	Child Node
}

func (n *LeftUnaryNode) Kind() Kind        { return LeftUnaryKind }
func (n *LeftUnaryNode) CanEvaluate() bool { return n.Child.CanEvaluate() }
func (n *LeftUnaryNode) Clone() Node {
	return &LeftUnaryNode{n.baseNode, n.Op, n.Child.Clone()}
}
func (n *LeftUnaryNode) String() string { return n.Op.Symbol + n.Child.String() }

// RightUnaryNode is a postfix unary operator (x++, x--).
type RightUnaryNode struct {
	baseNode
	Op    *token.Operator
	Child Node
}

func (n *RightUnaryNode) Kind() Kind        { return RightUnaryKind }
func (n *RightUnaryNode) CanEvaluate() bool { return n.Child.CanEvaluate() }
func (n *RightUnaryNode) Clone() Node {
	return &RightUnaryNode{n.baseNode, n.Op, n.Child.Clone()}
}
func (n *RightUnaryNode) String() string { return n.Child.String() + n.Op.Symbol }

// BinaryNode is a binary operator application.
type BinaryNode struct {
	baseNode
	Op          *token.Operator
	Left, Right Node
}

func (n *BinaryNode) Kind() Kind { return BinaryKind }
func (n *BinaryNode) CanEvaluate() bool {
	return n.Left.CanEvaluate() && n.Right.CanEvaluate()
}
func (n *BinaryNode) Clone() Node {
	return &BinaryNode{n.baseNode, n.Op, n.Left.Clone(), n.Right.Clone()}
}
func (n *BinaryNode) String() string {
	return "(" + n.Left.String() + " " + n.Op.Symbol + " " + n.Right.String() + ")"
}

// TernaryNode is `cond ? then : else`.
type TernaryNode struct {
	baseNode
	Cond, Then, Else Node
}

func (n *TernaryNode) Kind() Kind { return TernaryKind }
func (n *TernaryNode) CanEvaluate() bool {
	return n.Cond.CanEvaluate() && n.Then.CanEvaluate() && n.Else.CanEvaluate()
}
func (n *TernaryNode) Clone() Node {
	return &TernaryNode{n.baseNode, n.Cond.Clone(), n.Then.Clone(), n.Else.Clone()}
}
func (n *TernaryNode) String() string {
	return "(" + n.Cond.String() + " ? " + n.Then.String() + " : " + n.Else.String() + ")"
}

// SubscriptNode is `base[index]`.
type SubscriptNode struct {
	baseNode
	Base, Index Node
}

func (n *SubscriptNode) Kind() Kind        { return SubscriptKind }
func (n *SubscriptNode) CanEvaluate() bool { return false }
func (n *SubscriptNode) Clone() Node {
	return &SubscriptNode{n.baseNode, n.Base.Clone(), n.Index.Clone()}
}
func (n *SubscriptNode) String() string { return n.Base.String() + "[" + n.Index.String() + "]" }

// CallNode is `callee(args...)`.
type CallNode struct {
	baseNode
	Callee Node
	Args   []Node
}

func (n *CallNode) Kind() Kind        { return CallKind }
func (n *CallNode) CanEvaluate() bool { return false }
func (n *CallNode) Clone() Node {
	args := make([]Node, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.Clone()
	}
	return &CallNode{n.baseNode, n.Callee.Clone(), args}
}
func (n *CallNode) String() string {
	s := n.Callee.String() + "("
	for i, a := range n.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// NewNode is `new Type(init)` or `new Type[size]`.
type NewNode struct {
	baseNode
	TypeName string
	Init     Node
	Size     Node // nil unless array-new
}

func (n *NewNode) Kind() Kind        { return NewKind }
func (n *NewNode) CanEvaluate() bool { return false }
func (n *NewNode) Clone() Node {
	var size Node
	if n.Size != nil {
		size = n.Size.Clone()
	}
	var init Node
	if n.Init != nil {
		init = n.Init.Clone()
	}
	return &NewNode{n.baseNode, n.TypeName, init, size}
}
func (n *NewNode) String() string { return "new " + n.TypeName }

// DeleteNode is `delete x` or `delete[] x`.
type DeleteNode struct {
	baseNode
	IsArray bool
	Child   Node
}

func (n *DeleteNode) Kind() Kind        { return DeleteKind }
func (n *DeleteNode) CanEvaluate() bool { return false }
func (n *DeleteNode) Clone() Node       { return &DeleteNode{n.baseNode, n.IsArray, n.Child.Clone()} }
func (n *DeleteNode) String() string {
	if n.IsArray {
		return "delete[] " + n.Child.String()
	}
	return "delete " + n.Child.String()
}

// ThrowNode is `throw x`.
type ThrowNode struct {
	baseNode
	Child Node
}

func (n *ThrowNode) Kind() Kind        { return ThrowKind }
func (n *ThrowNode) CanEvaluate() bool { return false }
func (n *ThrowNode) Clone() Node       { return &ThrowNode{n.baseNode, n.Child.Clone()} }
func (n *ThrowNode) String() string    { return "throw " + n.Child.String() }

// SizeofNode is `sizeof(x)`.
type SizeofNode struct {
	baseNode
	Child Node
}

func (n *SizeofNode) Kind() Kind        { return SizeofKind }
func (n *SizeofNode) CanEvaluate() bool { return false }
func (n *SizeofNode) Clone() Node       { return &SizeofNode{n.baseNode, n.Child.Clone()} }
func (n *SizeofNode) String() string    { return "sizeof(" + n.Child.String() + ")" }

// CastNode unifies FuncCast/ParenCast/ConstCast/StaticCast/
// ReinterpretCast/DynamicCast: each differs only in spelling and the form
// discriminant, not in shape.
type CastNode struct {
	baseNode
	Form     CastForm
	TypeName string
	Child    Node
}

func (n *CastNode) Kind() Kind        { return CastKind }
func (n *CastNode) CanEvaluate() bool { return false }
func (n *CastNode) Clone() Node {
	return &CastNode{n.baseNode, n.Form, n.TypeName, n.Child.Clone()}
}
func (n *CastNode) String() string {
	switch n.Form {
	case ParenCast:
		return "(" + n.TypeName + ")" + n.Child.String()
	case FuncCast:
		return n.TypeName + "(" + n.Child.String() + ")"
	default:
		return castFormName(n.Form) + "<" + n.TypeName + ">(" + n.Child.String() + ")"
	}
}

func castFormName(f CastForm) string {
	switch f {
	case ConstCast:
		return "const_cast"
	case StaticCast:
		return "static_cast"
	case ReinterpretCast:
		return "reinterpret_cast"
	case DynamicCast:
		return "dynamic_cast"
	default:
		return "cast"
	}
}

// ParenthesesNode wraps a sub-expression that was explicitly parenthesized
// in source, preserved for round-trip fidelity.
type ParenthesesNode struct {
	baseNode
	Child Node
}

func (n *ParenthesesNode) Kind() Kind        { return ParenthesesKind }
func (n *ParenthesesNode) CanEvaluate() bool { return n.Child.CanEvaluate() }
func (n *ParenthesesNode) Clone() Node       { return &ParenthesesNode{n.baseNode, n.Child.Clone()} }
func (n *ParenthesesNode) String() string    { return "(" + n.Child.String() + ")" }

// TupleNode is a brace-enclosed initializer list, `{a, b, c}`.
type TupleNode struct {
	baseNode
	Args []Node
}

func (n *TupleNode) Kind() Kind        { return TupleKind }
func (n *TupleNode) CanEvaluate() bool { return false }
func (n *TupleNode) Clone() Node {
	args := make([]Node, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.Clone()
	}
	return &TupleNode{n.baseNode, args}
}
func (n *TupleNode) String() string {
	s := "{"
	for i, a := range n.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + "}"
}

// PairNode is the transient parser token produced while an opening pair
// ('(', '[', '{') awaits its closer; it never survives into a finished
// tree returned to a caller.
type PairNode struct {
	baseNode
	Op    *token.Operator
	Child Node
}

func (n *PairNode) Kind() Kind        { return PairKind }
func (n *PairNode) CanEvaluate() bool { return n.Child != nil && n.Child.CanEvaluate() }
func (n *PairNode) Clone() Node {
	var c Node
	if n.Child != nil {
		c = n.Child.Clone()
	}
	return &PairNode{n.baseNode, n.Op, c}
}
func (n *PairNode) String() string {
	if n.Child == nil {
		return n.Op.Symbol
	}
	return n.Op.Symbol + n.Child.String()
}

// CudaCallNode is CUDA's `callee<<<blocks, threads>>>(args...)` launch
// syntax; Args are folded into Callee as an ordinary CallNode by the
// parser, so this node only carries the launch configuration.
type CudaCallNode struct {
	baseNode
	Callee          Node
	Blocks, Threads Node
}

func (n *CudaCallNode) Kind() Kind        { return CudaCallKind }
func (n *CudaCallNode) CanEvaluate() bool { return false }
func (n *CudaCallNode) Clone() Node {
	return &CudaCallNode{n.baseNode, n.Callee.Clone(), n.Blocks.Clone(), n.Threads.Clone()}
}
func (n *CudaCallNode) String() string {
	return n.Callee.String() + "<<<" + n.Blocks.String() + ", " + n.Threads.String() + ">>>"
}
