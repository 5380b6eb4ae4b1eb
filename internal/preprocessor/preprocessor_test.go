package preprocessor_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/lexer"
	"github.com/occa-go/okl/internal/preprocessor"
	"github.com/occa-go/okl/internal/token"
	"github.com/stretchr/testify/require"
)

// mapLoader resolves #include targets from an in-memory map, standing in
// for the real file-system loader a compiler driver would inject.
type mapLoader map[string]string

func (m mapLoader) Load(name string, system bool, includePaths []string) (string, string, error) {
	text, ok := m[name]
	if !ok {
		return "", "", fmt.Errorf("no such file %q", name)
	}
	return text, name, nil
}

func run(t *testing.T, src string, loader lexer.FileLoader) ([]token.Token, *diagnostics.CollectingSink) {
	t.Helper()
	sink := diagnostics.NewCollectingSink()
	l := lexer.New("test.okl", src, loader, nil, sink)
	pp := preprocessor.New(l, sink)
	var out []token.Token
	for {
		tok, ok := pp.Pop()
		if !ok {
			break
		}
		out = append(out, tok)
		if tok.Kind == token.Eof {
			break
		}
	}
	return out, sink
}

func texts(toks []token.Token) []string {
	var out []string
	for _, t := range toks {
		if t.Kind == token.Newline || t.Kind == token.Eof {
			continue
		}
		out = append(out, t.String())
	}
	return out
}

func TestObjectLikeMacroExpansion(t *testing.T) {
	toks, sink := run(t, "#define PI 3\nx = PI;", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"x", "=", "3", ";"}, texts(toks))
}

func TestFunctionLikeMacroExpansion(t *testing.T) {
	toks, sink := run(t, "#define ADD(a, b) ((a) + (b))\ny = ADD(1, 2);", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"y", "=", "(", "(", "1", ")", "+", "(", "2", ")", ")", ";"}, texts(toks))
}

func TestMacroNotReExpandedDuringOwnExpansion(t *testing.T) {
	toks, sink := run(t, "#define X (1 + X)\nv = X;", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"v", "=", "(", "1", "+", "X", ")", ";"}, texts(toks))
}

func TestStringizeOperator(t *testing.T) {
	toks, sink := run(t, `#define STR(x) #x
s = STR(hello);`, nil)
	require.False(t, sink.HasErrors())
	require.Len(t, toks, 5) // s = "hello" ; eof
	require.Equal(t, token.StringLit, toks[2].Kind)
	require.Equal(t, "hello", toks[2].Raw)
}

func TestPasteOperator(t *testing.T) {
	toks, sink := run(t, "#define CAT(a, b) a ## b\nCAT(foo, bar);", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"foobar", ";"}, texts(toks))
}

func TestVariadicMacroJoinsRemainingArgsWithCommas(t *testing.T) {
	toks, sink := run(t, `#define LOG(fmt, ...) printf(fmt, __VA_ARGS__)
LOG("%d %d", 1, 2);`, nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"printf", "(", `"%d %d"`, ",", "1", ",", "2", ")", ";"}, texts(toks))
}

func TestIfdefTakesDefinedBranch(t *testing.T) {
	toks, sink := run(t, "#define FEATURE\n#ifdef FEATURE\na;\n#else\nb;\n#endif\n", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"a", ";"}, texts(toks))
}

func TestIfndefSkipsDefinedBranch(t *testing.T) {
	toks, sink := run(t, "#define FEATURE\n#ifndef FEATURE\na;\n#else\nb;\n#endif\n", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"b", ";"}, texts(toks))
}

func TestIfElifElseChain(t *testing.T) {
	toks, sink := run(t, "#define LEVEL 2\n#if LEVEL == 1\na;\n#elif LEVEL == 2\nb;\n#else\nc;\n#endif\n", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"b", ";"}, texts(toks))
}

func TestNestedConditionalsInSkippedBranchAreIgnored(t *testing.T) {
	toks, sink := run(t, "#if 0\n#if 1\nshould_not_appear;\n#endif\n#endif\nokay;\n", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"okay", ";"}, texts(toks))
}

func TestUndefRemovesMacro(t *testing.T) {
	toks, sink := run(t, "#define X 1\n#undef X\n#ifdef X\nyes;\n#else\nno;\n#endif\n", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"no", ";"}, texts(toks))
}

func TestDefinedOperatorInIfExpression(t *testing.T) {
	toks, sink := run(t, "#define X\n#if defined(X) && !defined(Y)\nyes;\n#endif\n", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"yes", ";"}, texts(toks))
}

func TestUndefinedIdentifierInIfEvaluatesToZeroWithWarning(t *testing.T) {
	toks, sink := run(t, "#if UNDEFINED\na;\n#else\nb;\n#endif\n", nil)
	require.Equal(t, []string{"b", ";"}, texts(toks))
	require.False(t, sink.HasErrors())
	found := false
	for _, d := range sink.Diagnostics() {
		if d.Severity == diagnostics.Warning {
			found = true
		}
	}
	require.True(t, found, "expected a warning diagnostic for the undefined identifier")
}

func TestIfConditionOverflowingPlainIntDiagnoses(t *testing.T) {
	_, sink := run(t, "#if 1 << 31\na;\n#endif\n", nil)
	require.True(t, sink.HasErrors())
	found := false
	for _, d := range sink.Diagnostics() {
		if strings.Contains(d.Message, "overflows a 32-bit signed int") {
			found = true
		}
	}
	require.True(t, found, "expected an overflow diagnostic, got %v", sink.Diagnostics())
}

func TestIfConditionWithLongLongLiteralDoesNotOverflow(t *testing.T) {
	toks, sink := run(t, "#if 1LL << 31\nyes;\n#else\nno;\n#endif\n", nil)
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())
	require.Equal(t, []string{"yes", ";"}, texts(toks))
}

func TestErrorDirectiveReportsError(t *testing.T) {
	_, sink := run(t, "#error something is wrong\n", nil)
	require.True(t, sink.HasErrors())
}

func TestPragmaDirectiveSurfacesAsToken(t *testing.T) {
	toks, sink := run(t, "#pragma unroll 4\nx;\n", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, token.Pragma, toks[0].Kind)
	require.Equal(t, "unroll 4", toks[0].Text)
}

func TestIncludeSplicesFileContents(t *testing.T) {
	loader := mapLoader{"inc.okh": "#define FROM_INCLUDE 7\n"}
	toks, sink := run(t, "#include \"inc.okh\"\nv = FROM_INCLUDE;", loader)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"v", "=", "7", ";"}, texts(toks))
}

func TestBuiltinLineAndCounterMacros(t *testing.T) {
	toks, sink := run(t, "a = __LINE__;\nb = __COUNTER__;\nc = __COUNTER__;", nil)
	require.False(t, sink.HasErrors())
	require.Equal(t, []string{"a", "=", "1", ";", "b", "=", "0", ";", "c", "=", "1", ";"}, texts(toks))
}

func TestMismatchedEndifReportsError(t *testing.T) {
	_, sink := run(t, "#endif\n", nil)
	require.True(t, sink.HasErrors())
}
