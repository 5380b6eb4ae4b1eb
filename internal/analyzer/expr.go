package analyzer

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/types"
)

// exprHasAttrVar reports whether any name reachable from node resolves,
// through scope, to a *types.Variable carrying the given attribute (e.g.
// "shared", "exclusive"). Bare names surface from the expression engine as
// IdentifierNode (internal/exprengine performs no scope resolution of its
// own), so resolution happens here against the declaring block's Scope;
// VariableNode is also handled, for a reference already resolved by an
// earlier pass.
func exprHasAttrVar(node exprengine.Node, scope *ast.Scope, attr string) bool {
	if node == nil {
		return false
	}
	switch n := node.(type) {
	case *exprengine.IdentifierNode:
		if scope == nil {
			return false
		}
		b, ok := scope.Lookup(n.Name)
		return ok && b.Variable != nil && b.Variable.HasAttribute(attr)
	case *exprengine.VariableNode:
		if v, ok := n.Ref.(*types.Variable); ok {
			return v.HasAttribute(attr)
		}
		return false
	case *exprengine.LeftUnaryNode:
		return exprHasAttrVar(n.Child, scope, attr)
	case *exprengine.RightUnaryNode:
		return exprHasAttrVar(n.Child, scope, attr)
	case *exprengine.BinaryNode:
		return exprHasAttrVar(n.Left, scope, attr) || exprHasAttrVar(n.Right, scope, attr)
	case *exprengine.TernaryNode:
		return exprHasAttrVar(n.Cond, scope, attr) || exprHasAttrVar(n.Then, scope, attr) || exprHasAttrVar(n.Else, scope, attr)
	case *exprengine.SubscriptNode:
		return exprHasAttrVar(n.Base, scope, attr) || exprHasAttrVar(n.Index, scope, attr)
	case *exprengine.CallNode:
		if exprHasAttrVar(n.Callee, scope, attr) {
			return true
		}
		for _, a := range n.Args {
			if exprHasAttrVar(a, scope, attr) {
				return true
			}
		}
		return false
	case *exprengine.NewNode:
		return exprHasAttrVar(n.Init, scope, attr) || exprHasAttrVar(n.Size, scope, attr)
	case *exprengine.DeleteNode:
		return exprHasAttrVar(n.Child, scope, attr)
	case *exprengine.ThrowNode:
		return exprHasAttrVar(n.Child, scope, attr)
	case *exprengine.SizeofNode:
		return exprHasAttrVar(n.Child, scope, attr)
	case *exprengine.CastNode:
		return exprHasAttrVar(n.Child, scope, attr)
	case *exprengine.ParenthesesNode:
		return exprHasAttrVar(n.Child, scope, attr)
	case *exprengine.TupleNode:
		for _, a := range n.Args {
			if exprHasAttrVar(a, scope, attr) {
				return true
			}
		}
		return false
	case *exprengine.PairNode:
		return exprHasAttrVar(n.Child, scope, attr)
	case *exprengine.CudaCallNode:
		return exprHasAttrVar(n.Callee, scope, attr) || exprHasAttrVar(n.Blocks, scope, attr) || exprHasAttrVar(n.Threads, scope, attr)
	default:
		return false
	}
}

// refersToVariable reports whether node is, or directly wraps, a reference
// to v — by name, since the expression engine surfaces bare names as
// IdentifierNode rather than resolving them itself — used to match a
// for-loop's check/update clause against its declared iterator (spec.md
// §4.H rule 3).
func refersToVariable(node exprengine.Node, v *types.Variable) bool {
	switch n := node.(type) {
	case *exprengine.IdentifierNode:
		return n.Name == v.Name
	case *exprengine.VariableNode:
		vn, ok := n.Ref.(*types.Variable)
		return ok && vn == v
	case *exprengine.ParenthesesNode:
		return refersToVariable(n.Child, v)
	default:
		return false
	}
}
