package lexer_test

import (
	"testing"

	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/lexer"
	"github.com/occa-go/okl/internal/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]token.Token, *diagnostics.CollectingSink) {
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
	return toks, sink
}

func TestIdentifiersAndNumbers(t *testing.T) {
	toks, sink := scanAll(t, "int a = 42;")
	require.False(t, sink.HasErrors())
	require.Equal(t, token.Identifier, toks[0].Kind)
	require.Equal(t, "int", toks[0].Text)
	require.Equal(t, token.Primitive, toks[2].Kind)
	require.Equal(t, "42", toks[2].NumberText)
}

func TestStringEncodingPrefixes(t *testing.T) {
	toks, sink := scanAll(t, `u8"hi" u"wide" L'a'`)
	require.False(t, sink.HasErrors())
	require.Equal(t, "u8", toks[0].Encoding)
	require.Equal(t, "hi", toks[0].Raw)
	require.Equal(t, "u", toks[1].Encoding)
	require.Equal(t, token.CharLit, toks[2].Kind)
	require.Equal(t, "L", toks[2].Encoding)
}

func TestLineContinuationSplicesLines(t *testing.T) {
	src := "int a =\\\n1;\nint b = 2;"
	toks, sink := scanAll(t, src)
	require.False(t, sink.HasErrors())
	// the '1' literal should report line 2 despite the splice, and the
	// following newline/decl should be on line 2 as well.
	var sawLine2 bool
	for _, tk := range toks {
		if tk.Kind == token.Primitive && tk.NumberText == "1" {
			require.Equal(t, 2, tk.Origin.Line)
			sawLine2 = true
		}
	}
	require.True(t, sawLine2)
}

func TestUnterminatedStringReportsError(t *testing.T) {
	_, sink := scanAll(t, `"unterminated`)
	require.True(t, sink.HasErrors())
}

func TestCommentsConsumedSilently(t *testing.T) {
	toks, sink := scanAll(t, "a /* block */ b // line\nc")
	require.False(t, sink.HasErrors())
	var idents []string
	for _, tk := range toks {
		if tk.Kind == token.Identifier {
			idents = append(idents, tk.Text)
		}
	}
	require.Equal(t, []string{"a", "b", "c"}, idents)
}

func TestOperatorLongestMatch(t *testing.T) {
	toks, sink := scanAll(t, "a <<= b")
	require.False(t, sink.HasErrors())
	require.Equal(t, token.Operator, toks[1].Kind)
	require.Equal(t, "<<=", toks[1].Op.Symbol)
}

func TestUnknownCharacterIsDiagnosedAndSkipped(t *testing.T) {
	toks, sink := scanAll(t, "a ` b")
	require.True(t, sink.HasErrors())
	var idents []string
	for _, tk := range toks {
		if tk.Kind == token.Identifier {
			idents = append(idents, tk.Text)
		}
	}
	require.Equal(t, []string{"a", "b"}, idents)
}
