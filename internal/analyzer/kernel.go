package analyzer

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/diagnostics"
)

// kernelWalkCtx carries ancestor context down through a kernel body's
// recursive descent. ast.Statement.Parent() isn't reliably wired for
// control-flow bodies that were never passed through BlockStatement.Add, so
// ancestor context is threaded explicitly instead of climbed after the
// fact.
type kernelWalkCtx struct {
	inOuter, inInner bool
	loopParent       *loopNode // current position in the filtered @outer/@inner tree
	scope            *ast.Scope // nearest enclosing block's scope, for name resolution
}

// kernelAnalysis holds the per-kernel state accumulated while walking one
// @kernel function's body.
type kernelAnalysis struct {
	sink    diagnostics.Sink
	fn      *ast.FunctionDeclStatement
	roots   []*loopNode
	sawFor  struct{ outer, inner bool }
}

func analyzeKernel(sink diagnostics.Sink, fn *ast.FunctionDeclStatement) {
	ka := &kernelAnalysis{sink: sink, fn: fn}
	if fn.Body != nil {
		ka.walk(fn.Body, kernelWalkCtx{})
	}
	if !ka.sawFor.outer {
		reportErr(sink, fn.Tok.Origin, "kernel %q has no [@outer] for-loop", fn.Function.Name)
	}
	if !ka.sawFor.inner {
		reportErr(sink, fn.Tok.Origin, "kernel %q has no [@inner] for-loop", fn.Function.Name)
	}
	checkLoopTreeConsistency(sink, fn.Function.Name, fn.Tok.Origin, ka.roots)
}

func (ka *kernelAnalysis) walk(stmt ast.Statement, ctx kernelWalkCtx) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		ctx.scope = s.Scope
		for _, c := range s.Children {
			ka.walk(c, ctx)
		}
	case *ast.NamespaceStatement:
		ka.walk(s.Body, ctx)
	case *ast.IfStatement:
		ka.walk(s.Body, ctx)
		if s.Next != nil {
			ka.walk(s.Next, ctx)
		}
	case *ast.ElifStatement:
		ka.walk(s.Body, ctx)
		if s.Next != nil {
			ka.walk(s.Next, ctx)
		}
	case *ast.ElseStatement:
		ka.walk(s.Body, ctx)
	case *ast.SwitchStatement:
		ka.walk(s.Body, ctx)
	case *ast.WhileStatement:
		ka.walk(s.Body, ctx)
	case *ast.ForStatement:
		ka.handleFor(s, ctx)
	case *ast.DeclarationStatement:
		ka.handleDeclaration(s, ctx)
	case *ast.ExpressionStatement:
		ka.handleExpression(s, ctx)
	case *ast.FunctionDeclStatement:
		if s.Body != nil {
			ka.walk(s.Body, ctx)
		}
	}
}

func (ka *kernelAnalysis) handleFor(s *ast.ForStatement, ctx kernelWalkCtx) {
	isOuter := hasAttr(s, "outer")
	isInner := hasAttr(s, "inner")
	if isOuter && isInner {
		reportErr(ka.sink, s.Tok.Origin, "for-loop cannot have both [@outer] and [@inner] attributes")
	}

	childCtx := ctx
	if isOuter || isInner {
		if isOuter {
			ka.sawFor.outer = true
		}
		if isInner {
			ka.sawFor.inner = true
		}
		if isInner && !ctx.inOuter {
			reportErr(ka.sink, s.Tok.Origin, "[@inner] loops should be contained inside [@outer] loops")
		}
		if isOuter && ctx.inInner {
			reportErr(ka.sink, s.Tok.Origin, "[@outer] loops shouldn't be contained inside [@inner] loops")
		}
		checkSimpleLoop(ka.sink, s)

		node := &loopNode{stmt: s, isOuter: isOuter}
		if ctx.loopParent == nil {
			ka.roots = append(ka.roots, node)
		} else {
			ctx.loopParent.children = append(ctx.loopParent.children, node)
		}
		childCtx.loopParent = node
		if isOuter {
			childCtx.inOuter = true
		}
		if isInner {
			childCtx.inInner = true
		}
	}

	if s.Init != nil {
		ka.walk(s.Init, childCtx)
	}
	ka.walk(s.Body, childCtx)
}

// handleDeclaration validates spec.md §4.H rules 5 and 6 for a declaration
// that names a @shared or @exclusive variable: it must sit between an
// enclosing @outer and @inner, never inside the @inner itself.
func (ka *kernelAnalysis) handleDeclaration(s *ast.DeclarationStatement, ctx kernelWalkCtx) {
	for _, d := range s.Decls {
		v := d.Variable
		switch {
		case v.HasAttribute("shared"):
			ka.checkDeclPlacement(s, ctx, "shared")
		case v.HasAttribute("exclusive"):
			ka.checkDeclPlacement(s, ctx, "exclusive")
		}
	}
}

func (ka *kernelAnalysis) checkDeclPlacement(s *ast.DeclarationStatement, ctx kernelWalkCtx, attr string) {
	if ctx.inInner {
		reportErr(ka.sink, s.Tok.Origin, "@%s variable cannot be declared inside an [@inner] loop", attr)
		return
	}
	if !ctx.inOuter {
		reportErr(ka.sink, s.Tok.Origin, "@%s variable must be declared between an [@outer] and an [@inner] loop", attr)
	}
}

// handleExpression validates spec.md §4.H rules 5 and 6 for a use of a
// @shared or @exclusive variable: every use must be inside an @inner loop.
func (ka *kernelAnalysis) handleExpression(s *ast.ExpressionStatement, ctx kernelWalkCtx) {
	if !ctx.inInner {
		if exprHasAttrVar(s.Expr, ctx.scope, "shared") {
			reportErr(ka.sink, s.Tok.Origin, "@shared variable cannot be used outside an [@inner] loop")
		}
		if exprHasAttrVar(s.Expr, ctx.scope, "exclusive") {
			reportErr(ka.sink, s.Tok.Origin, "@exclusive variable cannot be used outside an [@inner] loop")
		}
	}
}
