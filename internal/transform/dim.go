package transform

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/attributes"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
)

// RewriteDim rewrites every `var(a0, ..., a_{k-1})` call-syntax access
// reachable from root, where var carries @dim(d0, ..., d_{k-1}), into
// `var[index]` with
//
//	index = a[p_{k-1}]
//	for i = k-2 downto 0: index = (a[p_i]) + (d[p_i]) * (index)
//
// where p is the identity permutation unless var also carries a companion
// @dimOrder, per spec.md §4.I. Grounded on the arity-mismatch checking and
// linearisation order of original_source/parser_sandbox/src/builtins/
// transforms/dim.cpp's isValidDim/getDimOrder/transformExprNode, which
// this formula matches exactly.
//
// Identifiers are resolved against each statement's nearest enclosing
// block Scope, the same workaround internal/analyzer's exprHasAttrVar
// uses for the same underlying fact: internal/exprengine never resolves a
// bare name to a Variable on its own.
func RewriteDim(root ast.Statement, sink diagnostics.Sink) {
	rewriteDimIn(root, nil, sink)
}

func rewriteDimIn(stmt ast.Statement, scope *ast.Scope, sink diagnostics.Sink) {
	if stmt == nil {
		return
	}
	if b, ok := stmt.(*ast.BlockStatement); ok {
		scope = b.Scope
	}
	dt := &dimTransform{scope: scope, sink: sink}
	for _, field := range exprFields(stmt) {
		*field = ApplyExpr(*field, dt)
	}
	forEachChild(stmt, func(c ast.Statement) {
		rewriteDimIn(c, scope, sink)
	})
}

// dimTransform is the ExprTransform RewriteDim applies at each statement;
// it is rebuilt with the current scope every time RewriteDim descends
// into a new block, rather than threaded as mutable state, so it stays
// safe to reuse across sibling subtrees.
type dimTransform struct {
	scope *ast.Scope
	sink  diagnostics.Sink
}

func (d *dimTransform) TransformExprNode(n exprengine.Node) exprengine.Node {
	call, ok := n.(*exprengine.CallNode)
	if !ok {
		return n
	}
	v := resolveVariable(call.Callee, d.scope)
	if v == nil {
		return n
	}
	dimAttr, ok := v.Attribute("dim").(*attributes.DimAttribute)
	if !ok {
		return n
	}

	dimCount := len(dimAttr.Sizes)
	if len(call.Args) != dimCount {
		reportErr(d.sink, call.Token().Origin,
			"%q has @dim with %d dimension(s) but is called with %d argument(s)",
			v.Name, dimCount, len(call.Args))
		return n
	}

	order := identityOrder(dimCount)
	if raw := v.Attribute("dimOrder"); raw != nil {
		orderAttr, ok := raw.(*attributes.DimOrderAttribute)
		if !ok || len(orderAttr.Order) != dimCount {
			reportErr(d.sink, call.Token().Origin,
				"%q has @dimOrder whose argument count doesn't match its @dim", v.Name)
		} else {
			order = orderAttr.Order
		}
	}

	tok := call.Token()
	index := exprengine.NewParentheses(tok, call.Args[order[dimCount-1]].Clone())
	for i := dimCount - 2; i >= 0; i-- {
		p := order[i]
		arg := exprengine.NewParentheses(tok, call.Args[p].Clone())
		size := exprengine.NewParentheses(tok, dimAttr.Sizes[p].Clone())
		mul := exprengine.NewBinary(tok, mustLookup("*"), size, index)
		index = exprengine.NewBinary(tok, mustLookup("+"), arg, mul)
	}
	return exprengine.NewSubscript(tok, call.Callee.Clone(), index)
}

// resolveVariable follows the same dual VariableNode/IdentifierNode
// handling as internal/analyzer's exprHasAttrVar: an IdentifierNode
// resolves by name through scope, a VariableNode (were one ever
// constructed upstream) is used directly.
func resolveVariable(n exprengine.Node, scope *ast.Scope) *types.Variable {
	switch c := n.(type) {
	case *exprengine.IdentifierNode:
		if scope == nil {
			return nil
		}
		b, ok := scope.Lookup(c.Name)
		if !ok {
			return nil
		}
		return b.Variable
	case *exprengine.VariableNode:
		v, _ := c.Ref.(*types.Variable)
		return v
	default:
		return nil
	}
}

func identityOrder(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func mustLookup(symbol string) *token.Operator {
	op := token.Lookup(symbol)
	if op == nil {
		panic("transform: operator table missing " + symbol)
	}
	return op
}
