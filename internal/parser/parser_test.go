package parser_test

import (
	"testing"

	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/attributes"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/lexer"
	"github.com/occa-go/okl/internal/parser"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
	"github.com/stretchr/testify/require"
)

// scan lexes src through the real tokenizer, the way the preprocessor's
// output would reach the parser once macro expansion is wired in.
func scan(t *testing.T, src string) []token.Token {
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
	return toks
}

func parse(t *testing.T, src string) (*ast.BlockStatement, *diagnostics.CollectingSink) {
	t.Helper()
	sink := diagnostics.NewCollectingSink()
	p := parser.New(scan(t, src), sink)
	return p.ParseTranslationUnit(), sink
}

func TestDeclarationVsExpressionDisambiguation(t *testing.T) {
	unit, sink := parse(t, "int a = 1;\na = a + 1;")
	require.False(t, sink.HasErrors())
	require.Len(t, unit.Children, 2)

	decl, ok := unit.Children[0].(*ast.DeclarationStatement)
	require.True(t, ok)
	require.Len(t, decl.Decls, 1)
	require.Equal(t, "a", decl.Decls[0].Variable.Name)

	expr, ok := unit.Children[1].(*ast.ExpressionStatement)
	require.True(t, ok)
	require.Contains(t, expr.Expr.String(), "a")
}

func TestMultiDeclaratorList(t *testing.T) {
	unit, sink := parse(t, "int a = 1, b, *c;")
	require.False(t, sink.HasErrors())
	require.Len(t, unit.Children, 1)
	decl := unit.Children[0].(*ast.DeclarationStatement)
	require.Len(t, decl.Decls, 3)
	require.Equal(t, "a", decl.Decls[0].Variable.Name)
	require.NotNil(t, decl.Decls[0].Init)
	require.Equal(t, "b", decl.Decls[1].Variable.Name)
	require.Nil(t, decl.Decls[1].Init)
	require.Equal(t, "c", decl.Decls[2].Variable.Name)
	require.True(t, decl.Decls[2].Variable.VarType.IsPointer())
}

func TestQualifiedAndMultiWordPrimitive(t *testing.T) {
	unit, sink := parse(t, "const unsigned long long total;")
	require.False(t, sink.HasErrors())
	decl := unit.Children[0].(*ast.DeclarationStatement)
	vt := decl.Decls[0].Variable.VarType
	require.True(t, vt.Qualifiers.Has(types.Const))
	require.Equal(t, "unsigned long long", vt.Base.TypeName())
}

func TestIfElseIfElseChain(t *testing.T) {
	unit, sink := parse(t, `
		if (a) {
			b;
		} else if (c) {
			d;
		} else {
			e;
		}
	`)
	require.False(t, sink.HasErrors())
	require.Len(t, unit.Children, 1)

	ifStmt, ok := unit.Children[0].(*ast.IfStatement)
	require.True(t, ok)
	require.Equal(t, ast.IfKind, ifStmt.Kind())

	elif, ok := ifStmt.Next.(*ast.ElifStatement)
	require.True(t, ok)

	els, ok := elif.Next.(*ast.ElseStatement)
	require.True(t, ok)
	require.Equal(t, ast.BlockKind, els.Body.Kind())
}

func TestForLoopWithAllClauses(t *testing.T) {
	unit, sink := parse(t, "for (int i = 0; i < 10; i = i + 1) { x; }")
	require.False(t, sink.HasErrors())
	forStmt := unit.Children[0].(*ast.ForStatement)

	init, ok := forStmt.Init.(*ast.DeclarationStatement)
	require.True(t, ok)
	require.Equal(t, "i", init.Decls[0].Variable.Name)
	require.NotNil(t, forStmt.Check)
	require.NotNil(t, forStmt.Update)
}

func TestForLoopAllClausesEmpty(t *testing.T) {
	unit, sink := parse(t, "for (;;) { break; }")
	require.False(t, sink.HasErrors())
	forStmt := unit.Children[0].(*ast.ForStatement)
	require.Nil(t, forStmt.Init)
	require.Nil(t, forStmt.Check)
	require.Nil(t, forStmt.Update)
}

func TestWhileAndDoWhile(t *testing.T) {
	unit, sink := parse(t, "while (a) { b; } do { c; } while (d);")
	require.False(t, sink.HasErrors())
	require.Len(t, unit.Children, 2)

	w := unit.Children[0].(*ast.WhileStatement)
	require.False(t, w.IsDoWhile)

	dw := unit.Children[1].(*ast.WhileStatement)
	require.True(t, dw.IsDoWhile)
}

func TestSwitchCaseDefault(t *testing.T) {
	unit, sink := parse(t, `
		switch (x) {
			case 1:
				a;
				break;
			default:
				b;
		}
	`)
	require.False(t, sink.HasErrors())
	sw := unit.Children[0].(*ast.SwitchStatement)
	require.Equal(t, ast.CaseKind, sw.Body.Children[0].Kind())
	require.Equal(t, ast.DefaultKind, sw.Body.Children[3].Kind())
}

func TestFunctionForwardDeclarationHasNilBody(t *testing.T) {
	unit, sink := parse(t, "int add(int a, int b);")
	require.False(t, sink.HasErrors())
	fn := unit.Children[0].(*ast.FunctionDeclStatement)
	require.Nil(t, fn.Body)
	require.Len(t, fn.Function.Args, 2)
	require.Equal(t, "add", fn.Function.Name)
}

func TestFunctionDefinitionBindsParamsInBodyScope(t *testing.T) {
	unit, sink := parse(t, "int add(int a, int b) { return a + b; }")
	require.False(t, sink.HasErrors())
	fn := unit.Children[0].(*ast.FunctionDeclStatement)
	require.NotNil(t, fn.Body)
	require.Same(t, fn.Body, fn.Function.Body)

	ret := fn.Body.Children[0].(*ast.ReturnStatement)
	require.Contains(t, ret.Value.String(), "a")
}

func TestTypedefRegistersTypeName(t *testing.T) {
	unit, sink := parse(t, "typedef unsigned int myuint;\nmyuint x;")
	require.False(t, sink.HasErrors())
	require.Len(t, unit.Children, 2)

	td := unit.Children[0].(*ast.TypeDeclStatement)
	require.True(t, td.IsTypedef)
	require.Equal(t, "myuint", td.TypeName)

	decl := unit.Children[1].(*ast.DeclarationStatement)
	require.Equal(t, "x", decl.Decls[0].Variable.Name)
}

func TestStructWithMembers(t *testing.T) {
	unit, sink := parse(t, "struct Point { int x; int y; };")
	require.False(t, sink.HasErrors())
	td := unit.Children[0].(*ast.TypeDeclStatement)
	require.Equal(t, "Point", td.TypeName)
}

func TestEnumWithValues(t *testing.T) {
	unit, sink := parse(t, "enum Color { Red, Green, Blue = 5 };")
	require.False(t, sink.HasErrors())
	td := unit.Children[0].(*ast.TypeDeclStatement)
	require.Equal(t, "Color", td.TypeName)
}

func TestKernelAttributeAttachesToFunction(t *testing.T) {
	unit, sink := parse(t, "@kernel void addVectors(int n) { n; }")
	require.False(t, sink.HasErrors())
	fn := unit.Children[0].(*ast.FunctionDeclStatement)
	require.True(t, fn.Function.HasAttribute("kernel"))
}

func TestDimAttributeAttachesToVariable(t *testing.T) {
	unit, sink := parse(t, "@dim(4, 4) float *matrix;")
	require.False(t, sink.HasErrors())
	decl := unit.Children[0].(*ast.DeclarationStatement)
	v := decl.Decls[0].Variable
	require.True(t, v.HasAttribute("dim"))
	dimAttr, ok := v.Attribute("dim").(*attributes.DimAttribute)
	require.True(t, ok)
	require.Len(t, dimAttr.Sizes, 2)
}

func TestOuterInnerAttributesOnlyAttachToForLoops(t *testing.T) {
	unit, sink := parse(t, `
		@outer for (int i = 0; i < 10; i = i + 1) {
			@inner for (int j = 0; j < 10; j = j + 1) {
				x;
			}
		}
	`)
	require.False(t, sink.HasErrors())
	outer := unit.Children[0].(*ast.ForStatement)
	require.True(t, hasAttribute(outer, "outer"))

	inner := outer.Body.(*ast.BlockStatement).Children[0].(*ast.ForStatement)
	require.True(t, hasAttribute(inner, "inner"))
}

func TestLoopAttributeRejectsNonLoopStatement(t *testing.T) {
	_, sink := parse(t, "@outer int x;")
	require.True(t, sink.HasErrors())
}

func TestTileAttributeWithCompanions(t *testing.T) {
	unit, sink := parse(t, "@tile(16, @outer, @inner) for (int i = 0; i < n; i = i + 1) { x; }")
	require.False(t, sink.HasErrors())
	forStmt := unit.Children[0].(*ast.ForStatement)
	require.True(t, hasAttribute(forStmt, "tile"))
	tile := findAttribute(forStmt, "tile").(*attributes.TileAttribute)
	require.Len(t, tile.Companions, 2)
	require.Equal(t, "outer", tile.Companions[0].AttributeName())
	require.Equal(t, "inner", tile.Companions[1].AttributeName())
}

func hasAttribute(s ast.Statement, name string) bool {
	return findAttribute(s, name) != nil
}

func findAttribute(s ast.Statement, name string) attributes.Attribute {
	for _, a := range s.Attributes() {
		if a.AttributeName() == name {
			if attr, ok := a.(attributes.Attribute); ok {
				return attr
			}
		}
	}
	return nil
}

func TestNamespaceBlockParsesNestedDeclarations(t *testing.T) {
	unit, sink := parse(t, "namespace foo { int x; }")
	require.False(t, sink.HasErrors())
	ns := unit.Children[0].(*ast.NamespaceStatement)
	require.Equal(t, "foo", ns.Name)
	require.Len(t, ns.Body.Children, 1)
}

func TestGotoAndLabel(t *testing.T) {
	unit, sink := parse(t, "start: x; goto start;")
	require.False(t, sink.HasErrors())
	require.Len(t, unit.Children, 3)
	require.Equal(t, ast.GotoLabelKind, unit.Children[0].Kind())
	require.Equal(t, ast.GotoKind, unit.Children[2].Kind())
}
