package transform_test

import (
	"testing"

	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/lexer"
	"github.com/occa-go/okl/internal/parser"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/transform"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*ast.BlockStatement, *diagnostics.CollectingSink) {
	t.Helper()
	sink := diagnostics.NewCollectingSink()
	l := lexer.New("test.okl", src, nil, nil, sink)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.Eof {
			break
		}
	}
	require.False(t, sink.HasErrors(), "lex errors: %v", sink.Diagnostics())
	p := parser.New(toks, sink)
	unit := p.ParseTranslationUnit()
	require.False(t, sink.HasErrors(), "parse errors: %v", sink.Diagnostics())
	return unit, sink
}

func firstFunction(unit *ast.BlockStatement) *ast.FunctionDeclStatement {
	for _, c := range unit.Children {
		if fn, ok := c.(*ast.FunctionDeclStatement); ok {
			return fn
		}
	}
	return nil
}

func firstExpressionStatement(stmts []ast.Statement) *ast.ExpressionStatement {
	for _, s := range stmts {
		if es, ok := s.(*ast.ExpressionStatement); ok {
			return es
		}
	}
	return nil
}

func TestDimRewriteLinearisesSimpleCall(t *testing.T) {
	src := `
	void k(float *p) {
		@dim(16) float *a = p;
		a(3);
	}
	`
	unit, sink := parse(t, src)
	transform.RewriteDim(unit, sink)
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())

	fn := firstFunction(unit)
	require.NotNil(t, fn)
	es := firstExpressionStatement(fn.Body.Children)
	require.NotNil(t, es)
	sub, ok := es.Expr.(*exprengine.SubscriptNode)
	require.True(t, ok, "expected a subscript, got %T", es.Expr)
	require.Equal(t, "(3)", sub.Index.String())
}

func TestDimRewriteLinearisesTwoDimensionalCall(t *testing.T) {
	src := `
	void k(float *p, int i, int j) {
		@dim(16, 32) float *a = p;
		a(i, j);
	}
	`
	unit, sink := parse(t, src)
	transform.RewriteDim(unit, sink)
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())

	fn := firstFunction(unit)
	es := firstExpressionStatement(fn.Body.Children)
	require.NotNil(t, es)
	sub, ok := es.Expr.(*exprengine.SubscriptNode)
	require.True(t, ok, "expected a subscript, got %T", es.Expr)
	// index = (i) + (16) * (j)
	require.Equal(t, "((i) + ((16) * (j)))", sub.Index.String())
}

func TestDimRewriteReportsArityMismatch(t *testing.T) {
	src := `
	void k(float *p, int i) {
		@dim(16, 32) float *a = p;
		a(i);
	}
	`
	unit, sink := parse(t, src)
	transform.RewriteDim(unit, sink)
	require.True(t, sink.HasErrors())
}

func TestDimOrderPermutesLinearisation(t *testing.T) {
	src := `
	void k(float *p, int i, int j) {
		@dim(16, 32) @dimOrder(1, 0) float *a = p;
		a(i, j);
	}
	`
	unit, sink := parse(t, src)
	transform.RewriteDim(unit, sink)
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())

	fn := firstFunction(unit)
	es := firstExpressionStatement(fn.Body.Children)
	require.NotNil(t, es)
	sub, ok := es.Expr.(*exprengine.SubscriptNode)
	require.True(t, ok, "expected a subscript, got %T", es.Expr)
	// order = (1, 0): index = (j) + (32) * (i)
	require.Equal(t, "((j) + ((32) * (i)))", sub.Index.String())
}

func TestTileRewriteSplitsSimpleLoop(t *testing.T) {
	src := `
	void k(int n, float *a) {
		@tile(16, @outer, @inner) for (int i = 0; i < n; ++i) {
			a[i] = 0;
		}
	}
	`
	unit, sink := parse(t, src)
	fn := firstFunction(unit)
	require.NotNil(t, fn)

	rewritten := transform.RewriteTile(fn.Body, sink)
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())
	fn.Body = rewritten.(*ast.BlockStatement)

	blockFor := findForStatement(t, fn.Body)
	require.NotNil(t, blockFor)
	require.True(t, hasAttrNamed(blockFor, "outer"))
	require.False(t, hasAttrNamed(blockFor, "tile"))

	innerBlock, ok := blockFor.Body.(*ast.BlockStatement)
	require.True(t, ok)
	require.Len(t, innerBlock.Children, 1)
	innerFor, ok := innerBlock.Children[0].(*ast.ForStatement)
	require.True(t, ok)
	require.True(t, hasAttrNamed(innerFor, "inner"))

	require.Contains(t, innerFor.Check.String(), "min(")
	require.Contains(t, blockFor.Update.String(), "16")
}

func TestTileRewriteRejectsNonSimpleLoop(t *testing.T) {
	src := `
	void k(int n, float *a) {
		@tile(16) for (int i = 0; i == n; ++i) {
			a[i] = 0;
		}
	}
	`
	unit, sink := parse(t, src)
	fn := firstFunction(unit)
	require.NotNil(t, fn)
	transform.RewriteTile(fn.Body, sink)
	require.True(t, sink.HasErrors())
}

func findForStatement(t *testing.T, root ast.Statement) *ast.ForStatement {
	t.Helper()
	block, ok := root.(*ast.BlockStatement)
	require.True(t, ok)
	for _, c := range block.Children {
		if f, ok := c.(*ast.ForStatement); ok {
			return f
		}
	}
	return nil
}

func hasAttrNamed(s ast.Statement, name string) bool {
	for _, a := range s.Attributes() {
		if a.AttributeName() == name {
			return true
		}
	}
	return false
}

func TestStatementFinderCollectsByAttribute(t *testing.T) {
	src := `
	void k(int n) {
		@outer for (int i = 0; i < n; ++i) {
			@inner for (int j = 0; j < n; ++j) {
				j;
			}
		}
	}
	`
	unit, _ := parse(t, src)
	fn := firstFunction(unit)
	finder := transform.StatementAttrFinder("inner")
	found := finder.Find(fn.Body)
	require.Len(t, found, 1)
	require.Equal(t, ast.ForKind, found[0].Kind())
}

func TestStatementTreeFinderSkipsIntermediates(t *testing.T) {
	src := `
	void k(int n) {
		@outer for (int i = 0; i < n; ++i) {
			if (i > 0) {
				@inner for (int j = 0; j < n; ++j) {
					j;
				}
			}
		}
	}
	`
	unit, _ := parse(t, src)
	fn := firstFunction(unit)
	finder := &transform.StatementTreeFinder{Match: func(s ast.Statement) bool {
		return hasAttrNamed(s, "outer") || hasAttrNamed(s, "inner")
	}}
	roots := finder.Roots(fn.Body)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1, "the intervening if-statement should be skipped, not counted as a tree node")
}
