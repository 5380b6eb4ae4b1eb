package transform

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/types"
	"golang.org/x/exp/slices"
)

// StatementFinder collects every statement reachable from a root for which
// Match reports true, in source (pre-)order. Grounded on the historical
// statementFinder/statementAttrFinder pair of original_source/
// parser_sandbox/include/builtins/transforms/finders.hpp, which collect by
// running a statementTransform over the tree and recording rather than
// rewriting every match.
type StatementFinder struct {
	Match func(ast.Statement) bool
}

// Find returns every matching statement reachable from root, root itself
// included.
func (f *StatementFinder) Find(root ast.Statement) []ast.Statement {
	var out []ast.Statement
	collectStatements(root, f.Match, &out)
	return out
}

func collectStatements(stmt ast.Statement, match func(ast.Statement) bool, out *[]ast.Statement) {
	if stmt == nil {
		return
	}
	if match(stmt) {
		*out = append(*out, stmt)
	}
	forEachChild(stmt, func(c ast.Statement) {
		collectStatements(c, match, out)
	})
}

// forEachChild visits stmt's direct statement-valued children, in source
// order. It mirrors descendStatement's case set but only reads — nothing
// here rewrites or reparents.
func forEachChild(stmt ast.Statement, visit func(ast.Statement)) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		for _, c := range s.Children {
			visit(c)
		}
	case *ast.NamespaceStatement:
		visit(s.Body)
	case *ast.IfStatement:
		visit(s.Body)
		if s.Next != nil {
			visit(s.Next)
		}
	case *ast.ElifStatement:
		visit(s.Body)
		if s.Next != nil {
			visit(s.Next)
		}
	case *ast.ElseStatement:
		visit(s.Body)
	case *ast.ForStatement:
		if s.Init != nil {
			visit(s.Init)
		}
		visit(s.Body)
	case *ast.WhileStatement:
		visit(s.Body)
	case *ast.SwitchStatement:
		visit(s.Body)
	case *ast.FunctionDeclStatement:
		if s.Body != nil {
			visit(s.Body)
		}
	}
}

// StatementAttrFinder builds a StatementFinder matching any statement
// carrying an attribute named attr.
func StatementAttrFinder(attr string) *StatementFinder {
	return &StatementFinder{Match: func(s ast.Statement) bool {
		return slices.ContainsFunc(s.Attributes(), func(a types.Attribute) bool {
			return a.AttributeName() == attr
		})
	}}
}

// StatementKindFinder builds a StatementFinder matching any statement of
// the given Kind.
func StatementKindFinder(kind ast.Kind) *StatementFinder {
	return &StatementFinder{Match: func(s ast.Statement) bool { return s.Kind() == kind }}
}

// ExprNodeFinder collects every expression node reachable from a root
// (via ApplyExpr's traversal) for which Match reports true.
type ExprNodeFinder struct {
	Match func(exprengine.Node) bool
}

// Find returns every matching node reachable from root, root itself
// included, in post-order.
func (f *ExprNodeFinder) Find(root exprengine.Node) []exprengine.Node {
	var out []exprengine.Node
	ApplyExpr(root, ExprTransformFunc(func(n exprengine.Node) exprengine.Node {
		if f.Match(n) {
			out = append(out, n)
		}
		return n
	}))
	return out
}

// ExprNodeTypeFinder builds an ExprNodeFinder matching nodes of the given
// Kind.
func ExprNodeTypeFinder(kind exprengine.Kind) *ExprNodeFinder {
	return &ExprNodeFinder{Match: func(n exprengine.Node) bool { return n.Kind() == kind }}
}

// ExprNodeAttrFinder builds an ExprNodeFinder matching a CallNode whose
// callee is an identifier named fn — the shape a @dim-rewritten call site
// has before rewriting.
func ExprNodeAttrFinder(fn string) *ExprNodeFinder {
	return &ExprNodeFinder{Match: func(n exprengine.Node) bool {
		call, ok := n.(*exprengine.CallNode)
		if !ok {
			return false
		}
		id, ok := call.Callee.(*exprengine.IdentifierNode)
		return ok && id.Name == fn
	}}
}

// TreeNode is one node of a StatementTreeFinder's filtered tree: a
// matching statement plus the matching descendants found beneath it,
// skipping any non-matching statement in between (so a tree edge may
// correspond to several source levels of nesting).
type TreeNode struct {
	Stmt     ast.Statement
	Children []*TreeNode
}

// StatementTreeFinder builds a tree whose nodes are the statements
// reachable from a root that satisfy Match, and whose edges preserve
// source nesting while skipping intermediate non-matching statements.
// Grounded on the historical smntTreeNode/smntTreeHistory/smntTreeFinder
// machinery and findStatementTree free function of original_source/
// parser_sandbox/include/builtins/transforms/finders.hpp.
// internal/analyzer's OKL-rule-specific @outer/@inner nesting check is a
// separate implementation of the same idea; this one is generalized for any
// rewrite that
// needs the same filtered-tree shape (e.g. a future @shared/@exclusive
// placement rewrite).
type StatementTreeFinder struct {
	Match func(ast.Statement) bool
}

// Roots returns the top-level matching nodes reachable from root (root
// itself included if it matches).
func (f *StatementTreeFinder) Roots(root ast.Statement) []*TreeNode {
	var roots []*TreeNode
	f.walk(root, nil, &roots)
	return roots
}

func (f *StatementTreeFinder) walk(stmt ast.Statement, parent *TreeNode, roots *[]*TreeNode) {
	if stmt == nil {
		return
	}
	cur := parent
	if f.Match(stmt) {
		node := &TreeNode{Stmt: stmt}
		if parent == nil {
			*roots = append(*roots, node)
		} else {
			parent.Children = append(parent.Children, node)
		}
		cur = node
	}
	forEachChild(stmt, func(c ast.Statement) {
		f.walk(c, cur, roots)
	})
}
