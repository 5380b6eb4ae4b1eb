// Package transform implements the OKL transform framework of spec.md
// §4.I: statement- and expression-tree rewrites over the statement model of
// internal/ast and the expression trees of internal/exprengine. Two
// interfaces generalize every rewrite pass — StatementTransform over
// statements, ExprTransform over expression nodes — plus a family of
// finders (finders.go) that collect matching nodes by type or attribute,
// including a tree finder that preserves source nesting while skipping
// non-matching intermediates. dim.go and tile.go are the two concrete
// rewrites spec.md §4.I names: the @dim/@dimOrder call-to-subscript
// rewrite and the @tile/@safeTile loop-blocking rewrite.
//
// Modeled on the historical OCCA C++ parser's statementTransform/
// exprTransform base classes (original_source/parser_sandbox/include/
// builtins/transforms/finders.hpp) adapted to OKL's sum-typed AST, matched
// exhaustively via type switch in the same idiom internal/analyzer's
// kernel.go walk uses rather than double-dispatch through a Visitor.
package transform

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/exprengine"
)

// StatementTransform rewrites one statement, returning its replacement or
// nil to drop it from its parent block. ApplyStatement visits pre-order by
// default — a statement is offered to TransformStatement before its
// children are visited — so a rewrite can redirect the descent (e.g. skip
// re-entering a loop it just produced). Passing downToUp=true visits
// post-order instead, children before parent.
type StatementTransform interface {
	TransformStatement(s ast.Statement) ast.Statement
}

// ExprTransform rewrites one expression node, returning its replacement.
// ApplyExpr always visits post-order: every child is rewritten before the
// node itself is offered to TransformExprNode, so a rewrite can inspect
// already-rewritten children (e.g. a call's already-rewritten arguments).
type ExprTransform interface {
	TransformExprNode(n exprengine.Node) exprengine.Node
}

// StatementTransformFunc adapts a plain function to StatementTransform.
type StatementTransformFunc func(ast.Statement) ast.Statement

func (f StatementTransformFunc) TransformStatement(s ast.Statement) ast.Statement { return f(s) }

// ExprTransformFunc adapts a plain function to ExprTransform.
type ExprTransformFunc func(exprengine.Node) exprengine.Node

func (f ExprTransformFunc) TransformExprNode(n exprengine.Node) exprengine.Node { return f(n) }

// ApplyStatement rewrites root and every statement reachable from it in
// place, returning root's own (possibly different) replacement; nil means
// root itself was dropped. A container statement whose child is dropped
// removes that child (a block stops listing it; a single-child field like
// ForStatement.Body is left nil, which callers that need a body present
// must guard against — none of this package's own rewrites drop a
// required child).
func ApplyStatement(root ast.Statement, t StatementTransform, downToUp bool) ast.Statement {
	if root == nil {
		return nil
	}
	if !downToUp {
		root = t.TransformStatement(root)
		if root == nil {
			return nil
		}
	}
	descendStatement(root, t, downToUp)
	if downToUp {
		root = t.TransformStatement(root)
	}
	return root
}

// descendStatement visits stmt's direct statement-valued children,
// rewriting each in place and keeping Parent() correct via
// BlockStatement.SetChildren/ast.Reparent.
func descendStatement(stmt ast.Statement, t StatementTransform, downToUp bool) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		children := make([]ast.Statement, 0, len(s.Children))
		for _, c := range s.Children {
			if nc := ApplyStatement(c, t, downToUp); nc != nil {
				children = append(children, nc)
			}
		}
		s.SetChildren(children)
	case *ast.NamespaceStatement:
		if nc := ApplyStatement(s.Body, t, downToUp); nc != nil {
			s.Body = nc.(*ast.BlockStatement)
		}
	case *ast.IfStatement:
		s.Body = applyReparented(s.Body, s, t, downToUp)
		if s.Next != nil {
			s.Next = applyReparented(s.Next, s, t, downToUp)
		}
	case *ast.ElifStatement:
		s.Body = applyReparented(s.Body, s, t, downToUp)
		if s.Next != nil {
			s.Next = applyReparented(s.Next, s, t, downToUp)
		}
	case *ast.ElseStatement:
		s.Body = applyReparented(s.Body, s, t, downToUp)
	case *ast.ForStatement:
		if s.Init != nil {
			s.Init = applyReparented(s.Init, s, t, downToUp)
		}
		s.Body = applyReparented(s.Body, s, t, downToUp)
	case *ast.WhileStatement:
		s.Body = applyReparented(s.Body, s, t, downToUp)
	case *ast.SwitchStatement:
		if nc := ApplyStatement(s.Body, t, downToUp); nc != nil {
			s.Body = nc.(*ast.BlockStatement)
		}
	case *ast.FunctionDeclStatement:
		if s.Body != nil {
			if nc := ApplyStatement(s.Body, t, downToUp); nc != nil {
				s.Body = nc.(*ast.BlockStatement)
			}
		}
	}
}

func applyReparented(child ast.Statement, parent ast.Statement, t StatementTransform, downToUp bool) ast.Statement {
	nc := ApplyStatement(child, t, downToUp)
	ast.Reparent(nc, parent)
	return nc
}

// ApplyExpr rewrites node and every expression node reachable from it,
// post-order (children before the node itself), returning the (possibly
// different) replacement for node. nil is returned unchanged, never
// offered to t: optional Node fields, such as an empty for-loop Check or
// Update clause or a bare return's ReturnStatement.Value, hold a literal
// Go nil.
func ApplyExpr(node exprengine.Node, t ExprTransform) exprengine.Node {
	if node == nil {
		return nil
	}
	switch n := node.(type) {
	case *exprengine.LeftUnaryNode:
		n.Child = ApplyExpr(n.Child, t)
	case *exprengine.RightUnaryNode:
		n.Child = ApplyExpr(n.Child, t)
	case *exprengine.BinaryNode:
		n.Left = ApplyExpr(n.Left, t)
		n.Right = ApplyExpr(n.Right, t)
	case *exprengine.TernaryNode:
		n.Cond = ApplyExpr(n.Cond, t)
		n.Then = ApplyExpr(n.Then, t)
		n.Else = ApplyExpr(n.Else, t)
	case *exprengine.SubscriptNode:
		n.Base = ApplyExpr(n.Base, t)
		n.Index = ApplyExpr(n.Index, t)
	case *exprengine.CallNode:
		n.Callee = ApplyExpr(n.Callee, t)
		for i, a := range n.Args {
			n.Args[i] = ApplyExpr(a, t)
		}
	case *exprengine.NewNode:
		if n.Init != nil {
			n.Init = ApplyExpr(n.Init, t)
		}
		if n.Size != nil {
			n.Size = ApplyExpr(n.Size, t)
		}
	case *exprengine.DeleteNode:
		n.Child = ApplyExpr(n.Child, t)
	case *exprengine.ThrowNode:
		n.Child = ApplyExpr(n.Child, t)
	case *exprengine.SizeofNode:
		n.Child = ApplyExpr(n.Child, t)
	case *exprengine.CastNode:
		n.Child = ApplyExpr(n.Child, t)
	case *exprengine.ParenthesesNode:
		n.Child = ApplyExpr(n.Child, t)
	case *exprengine.TupleNode:
		for i, a := range n.Args {
			n.Args[i] = ApplyExpr(a, t)
		}
	case *exprengine.PairNode:
		if n.Child != nil {
			n.Child = ApplyExpr(n.Child, t)
		}
	case *exprengine.CudaCallNode:
		n.Callee = ApplyExpr(n.Callee, t)
		n.Blocks = ApplyExpr(n.Blocks, t)
		n.Threads = ApplyExpr(n.Threads, t)
	}
	return t.TransformExprNode(node)
}

// exprFields returns the expression-node fields directly reachable from
// stmt, by reference, so a caller can rewrite each in place with
// ApplyExpr. Declaration initializers come back in the same order as
// s.Decls.
func exprFields(stmt ast.Statement) []*exprengine.Node {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return []*exprengine.Node{&s.Expr}
	case *ast.ReturnStatement:
		if s.Value == nil {
			return nil
		}
		return []*exprengine.Node{&s.Value}
	case *ast.DeclarationStatement:
		var out []*exprengine.Node
		for _, d := range s.Decls {
			if d.Init != nil {
				out = append(out, &d.Init)
			}
		}
		return out
	case *ast.IfStatement:
		return []*exprengine.Node{&s.Cond}
	case *ast.ElifStatement:
		return []*exprengine.Node{&s.Cond}
	case *ast.WhileStatement:
		return []*exprengine.Node{&s.Check}
	case *ast.SwitchStatement:
		return []*exprengine.Node{&s.Cond}
	case *ast.CaseStatement:
		return []*exprengine.Node{&s.Value}
	case *ast.ForStatement:
		var out []*exprengine.Node
		if s.Check != nil {
			out = append(out, &s.Check)
		}
		if s.Update != nil {
			out = append(out, &s.Update)
		}
		return out
	default:
		return nil
	}
}

// ApplyExprInStatements walks every statement reachable from root and
// rewrites each of its directly-held expression fields with t, via
// ApplyExpr. It does not itself recurse into sub-expressions beyond what
// ApplyExpr already does, and it does not rewrite statements — compose it
// with ApplyStatement (e.g. as a StatementTransform that calls this per
// node) when both are needed together.
func ApplyExprInStatements(root ast.Statement, t ExprTransform) {
	ApplyStatement(root, StatementTransformFunc(func(s ast.Statement) ast.Statement {
		for _, field := range exprFields(s) {
			*field = ApplyExpr(*field, t)
		}
		return s
	}), false)
}
