package exprengine_test

import (
	"testing"

	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
	"github.com/stretchr/testify/require"
)

func tok(kind token.Kind, text string) token.Token {
	return token.Token{Kind: kind, Text: text}
}

func opTok(symbol string) token.Token {
	return token.Token{Kind: token.Operator, Op: token.Lookup(symbol)}
}

func numTok(text string) token.Token {
	return token.Token{Kind: token.Primitive, NumberText: text}
}

func eof() token.Token { return token.Token{Kind: token.Eof} }

func parse(toks []token.Token) (exprengine.Node, *diagnostics.CollectingSink) {
	sink := diagnostics.NewCollectingSink()
	eng := exprengine.New(toks, nil, sink)
	return eng.Parse(), sink
}

func TestPrecedenceMultiplyBindsTighterThanAdd(t *testing.T) {
	// 1 + 2 * 3
	n, sink := parse([]token.Token{
		numTok("1"), opTok("+"), numTok("2"), opTok("*"), numTok("3"), eof(),
	})
	require.False(t, sink.HasErrors())
	v, ok := exprengine.Evaluate(n)
	require.True(t, ok)
	require.Equal(t, "7", v.String())
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	// a = b = c  ->  (a = (b = c))
	n, _ := parse([]token.Token{
		tok(token.Identifier, "a"), opTok("="), tok(token.Identifier, "b"), opTok("="), tok(token.Identifier, "c"), eof(),
	})
	top, ok := n.(*exprengine.BinaryNode)
	require.True(t, ok)
	require.Equal(t, "=", top.Op.Symbol)
	inner, ok := top.Right.(*exprengine.BinaryNode)
	require.True(t, ok)
	require.Equal(t, "=", inner.Op.Symbol)
}

func TestTernaryParsesCondThenElse(t *testing.T) {
	// 1 ? 2 : 3
	n, sink := parse([]token.Token{numTok("1"), opTok("?"), numTok("2"), opTok(":"), numTok("3"), eof()})
	require.False(t, sink.HasErrors())
	v, ok := exprengine.Evaluate(n)
	require.True(t, ok)
	require.Equal(t, "2", v.String())
}

func TestCommaIsLowestPrecedence(t *testing.T) {
	// a = 1, b = 2
	n, _ := parse([]token.Token{
		tok(token.Identifier, "a"), opTok("="), numTok("1"), opTok(","),
		tok(token.Identifier, "b"), opTok("="), numTok("2"), eof(),
	})
	top, ok := n.(*exprengine.BinaryNode)
	require.True(t, ok)
	require.Equal(t, ",", top.Op.Symbol)
}

func TestPrefixIncrementBindsToOperand(t *testing.T) {
	// ++x
	n, sink := parse([]token.Token{opTok("++"), tok(token.Identifier, "x"), eof()})
	require.False(t, sink.HasErrors())
	u, ok := n.(*exprengine.LeftUnaryNode)
	require.True(t, ok)
	require.Equal(t, "++", u.Op.Symbol)
}

func TestPostfixIncrementBindsToOperand(t *testing.T) {
	// x++
	n, sink := parse([]token.Token{tok(token.Identifier, "x"), opTok("++"), eof()})
	require.False(t, sink.HasErrors())
	u, ok := n.(*exprengine.RightUnaryNode)
	require.True(t, ok)
	require.Equal(t, "++", u.Op.Symbol)
}

func TestCallWithArguments(t *testing.T) {
	// f(1, 2)
	n, sink := parse([]token.Token{
		tok(token.Identifier, "f"), opTok("("), numTok("1"), opTok(","), numTok("2"), opTok(")"), eof(),
	})
	require.False(t, sink.HasErrors())
	c, ok := n.(*exprengine.CallNode)
	require.True(t, ok)
	require.Len(t, c.Args, 2)
}

func TestSubscriptChain(t *testing.T) {
	// a[0][1]
	n, sink := parse([]token.Token{
		tok(token.Identifier, "a"), opTok("["), numTok("0"), opTok("]"),
		opTok("["), numTok("1"), opTok("]"), eof(),
	})
	require.False(t, sink.HasErrors())
	outer, ok := n.(*exprengine.SubscriptNode)
	require.True(t, ok)
	_, ok = outer.Base.(*exprengine.SubscriptNode)
	require.True(t, ok)
}

func TestMemberAccessChain(t *testing.T) {
	// a.b.c
	n, sink := parse([]token.Token{
		tok(token.Identifier, "a"), opTok("."), tok(token.Identifier, "b"),
		opTok("."), tok(token.Identifier, "c"), eof(),
	})
	require.False(t, sink.HasErrors())
	top, ok := n.(*exprengine.BinaryNode)
	require.True(t, ok)
	require.Equal(t, ".", top.Op.Symbol)
}

func TestParenCastWhenTypeNamerRecognizes(t *testing.T) {
	// (float) x
	isType := func(name string) bool { return name == "float" }
	sink := diagnostics.NewCollectingSink()
	eng := exprengine.New([]token.Token{
		opTok("("), tok(token.Identifier, "float"), opTok(")"), tok(token.Identifier, "x"), eof(),
	}, isType, sink)
	n := eng.Parse()
	require.False(t, sink.HasErrors())
	c, ok := n.(*exprengine.CastNode)
	require.True(t, ok)
	require.Equal(t, exprengine.ParenCast, c.Form)
	require.Equal(t, "float", c.TypeName)
}

func TestGroupedExpressionWhenNotATypeName(t *testing.T) {
	// (a)
	n, sink := parse([]token.Token{opTok("("), tok(token.Identifier, "a"), opTok(")"), eof()})
	require.False(t, sink.HasErrors())
	_, ok := n.(*exprengine.ParenthesesNode)
	require.True(t, ok)
}

func TestFunctionalCastWhenTypeNamerRecognizes(t *testing.T) {
	// int(x)
	isType := func(name string) bool { return name == "int" }
	sink := diagnostics.NewCollectingSink()
	eng := exprengine.New([]token.Token{
		tok(token.Identifier, "int"), opTok("("), tok(token.Identifier, "x"), opTok(")"), eof(),
	}, isType, sink)
	n := eng.Parse()
	require.False(t, sink.HasErrors())
	c, ok := n.(*exprengine.CastNode)
	require.True(t, ok)
	require.Equal(t, exprengine.FuncCast, c.Form)
}

func TestSizeofType(t *testing.T) {
	// sizeof(int)
	n, sink := parse([]token.Token{
		tok(token.Identifier, "sizeof"), opTok("("), tok(token.Identifier, "int"), opTok(")"), eof(),
	})
	require.False(t, sink.HasErrors())
	_, ok := n.(*exprengine.SizeofNode)
	require.True(t, ok)
}

func TestCudaLaunchFoldsArgsIntoCall(t *testing.T) {
	// kernel<<<blocks, threads>>>(a)
	n, sink := parse([]token.Token{
		tok(token.Identifier, "kernel"), opTok("<<<"),
		tok(token.Identifier, "blocks"), opTok(","), tok(token.Identifier, "threads"), opTok(">>>"),
		opTok("("), tok(token.Identifier, "a"), opTok(")"), eof(),
	})
	require.False(t, sink.HasErrors())
	call, ok := n.(*exprengine.CallNode)
	require.True(t, ok)
	_, ok = call.Callee.(*exprengine.CudaCallNode)
	require.True(t, ok)
}

func TestUnbalancedParenReportsDiagnostic(t *testing.T) {
	_, sink := parse([]token.Token{opTok("("), tok(token.Identifier, "a"), eof()})
	require.True(t, sink.HasErrors())
}

func TestDivisionByZeroFoldsToNaN(t *testing.T) {
	n, sink := parse([]token.Token{numTok("1"), opTok("/"), numTok("0"), eof()})
	require.False(t, sink.HasErrors())
	v, ok := exprengine.Evaluate(n)
	require.True(t, ok)
	require.True(t, v.IsNaN())
}
