package exprengine

import "github.com/occa-go/okl/internal/token"

// The constructors below let other packages (internal/transform's @dim and
// @tile rewrites) build replacement expression trees without reaching
// through baseNode, which stays unexported so only this package's own
// parser and fold can construct a Node directly from a raw Kind.

// NewBinary builds a binary operator application, e.g. the `a + d*i`
// linearisation the @dim rewrite assembles.
func NewBinary(tok token.Token, op *token.Operator, left, right Node) Node {
	return &BinaryNode{baseNode{tok}, op, left, right}
}

// NewParentheses wraps child in an explicit parenthesisation, preserving
// the precedence a rewrite relies on.
func NewParentheses(tok token.Token, child Node) Node {
	return &ParenthesesNode{baseNode{tok}, child}
}

// NewSubscript builds `base[index]`, the @dim rewrite's replacement for a
// call-syntax array access.
func NewSubscript(tok token.Token, base, index Node) Node {
	return &SubscriptNode{baseNode{tok}, base, index}
}

// NewEmpty builds the placeholder node for an omitted clause, e.g. a
// @tile-split for-loop's now-absent check or update.
func NewEmpty(tok token.Token) Node {
	return &EmptyNode{baseNode{tok}}
}

// NewPrimitiveInt builds an integer literal node, e.g. the implicit `1`
// step a @tile rewrite substitutes for a bare `++i`/`i--` update.
func NewPrimitiveInt(tok token.Token, i int64) Node {
	return &PrimitiveNode{baseNode{tok}, IntValue(i)}
}

// NewIdentifier builds a bare-name reference, e.g. the renamed iterator a
// @tile rewrite substitutes through a loop's check and update clauses.
func NewIdentifier(tok token.Token, name string) Node {
	return &IdentifierNode{baseNode{tok}, name}
}

// NewCall builds `callee(args...)`, e.g. the @tile rewrite's synthesized
// `min(xTile+T, E)` bound.
func NewCall(tok token.Token, callee Node, args []Node) Node {
	return &CallNode{baseNode{tok}, callee, args}
}
