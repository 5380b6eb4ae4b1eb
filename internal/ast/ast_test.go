package ast_test

import (
	"testing"

	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
	"github.com/stretchr/testify/require"
)

func idNode(name string) exprengine.Node {
	return &exprengine.IdentifierNode{Name: name}
}

func TestScopeLookupChainsToParent(t *testing.T) {
	root := ast.NewScope(nil)
	root.Define("x", ast.Binding{Kind: token.KeywordVariable}, nil)
	child := ast.NewScope(root)

	b, ok := child.Lookup("x")
	require.True(t, ok)
	require.Equal(t, token.KeywordVariable, b.Kind)

	_, ok = child.LookupLocal("x")
	require.False(t, ok)
}

func TestScopeRedefinitionReportsFirstOrigin(t *testing.T) {
	sc := ast.NewScope(nil)
	first := token.FileOrigin{Line: 1}
	second := token.FileOrigin{Line: 5}
	sink := diagnostics.NewCollectingSink()

	require.True(t, sc.Define("n", ast.Binding{Kind: token.KeywordVariable, Origin: first}, sink))
	require.False(t, sc.Define("n", ast.Binding{Kind: token.KeywordVariable, Origin: second}, sink))
	require.True(t, sink.HasErrors())
	diags := sink.Diagnostics()
	require.Equal(t, second, diags[0].Origin)
	require.Equal(t, []token.FileOrigin{first}, diags[0].Secondary)
}

func TestBlockAddSetsParent(t *testing.T) {
	block := ast.NewBlock(nil)
	child := &ast.ExpressionStatement{Expr: idNode("x")}
	block.Add(child)
	require.Equal(t, ast.Statement(block), child.Parent())
	require.Len(t, block.Children, 1)
}

func TestIfChainStringIncludesElifAndElse(t *testing.T) {
	s := &ast.IfStatement{
		Cond: idNode("a"),
		Body: &ast.BreakStatement{},
		Next: &ast.ElifStatement{
			Cond: idNode("b"),
			Body: &ast.ContinueStatement{},
			Next: &ast.ElseStatement{Body: &ast.ReturnStatement{}},
		},
	}
	out := s.String()
	require.Contains(t, out, "if (a)")
	require.Contains(t, out, "else if (b)")
	require.Contains(t, out, "else ")
}

func TestForStatementClonesAllFields(t *testing.T) {
	f := &ast.ForStatement{
		Init:   &ast.DeclarationStatement{},
		Check:  idNode("i"),
		Update: idNode("i"),
		Body:   &ast.BreakStatement{},
	}
	clone := f.Clone().(*ast.ForStatement)
	require.NotSame(t, f, clone)
	require.NotSame(t, f.Check, clone.Check)
	require.Equal(t, f.Check.String(), clone.Check.String())
}

func TestFunctionDeclStatementStringsForwardDecl(t *testing.T) {
	fn := types.NewFunction("add", types.VarType{Base: types.LookupPrimitive("int")}, nil, token.FileOrigin{})
	decl := &ast.FunctionDeclStatement{Function: fn}
	require.Equal(t, "int add();", decl.String())
}

func TestDeclarationStatementMultipleDeclarators(t *testing.T) {
	intType := types.VarType{Base: types.LookupPrimitive("int")}
	decl := &ast.DeclarationStatement{Decls: []*ast.VariableDeclarator{
		{Variable: types.NewVariable("a", intType, token.FileOrigin{})},
		{Variable: types.NewVariable("b", intType, token.FileOrigin{}), Init: idNode("a")},
	}}
	require.Equal(t, "int a, int b = a;", decl.String())
}

func TestSwitchBodyHoldsCaseAndDefaultChildren(t *testing.T) {
	body := ast.NewBlock(nil)
	body.Add(&ast.CaseStatement{Value: idNode("1")})
	body.Add(&ast.BreakStatement{})
	body.Add(&ast.DefaultStatement{})
	sw := &ast.SwitchStatement{Cond: idNode("x"), Body: body}
	require.Len(t, sw.Body.Children, 3)
	require.Equal(t, ast.CaseKind, sw.Body.Children[0].Kind())
	require.Equal(t, ast.DefaultKind, sw.Body.Children[2].Kind())
}
