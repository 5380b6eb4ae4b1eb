package analyzer_test

import (
	"strings"
	"testing"

	"github.com/occa-go/okl/internal/analyzer"
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/lexer"
	"github.com/occa-go/okl/internal/parser"
	"github.com/occa-go/okl/internal/token"
	"github.com/stretchr/testify/require"
)

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

func parse(t *testing.T, src string) *ast.BlockStatement {
	t.Helper()
	sink := diagnostics.NewCollectingSink()
	p := parser.New(scan(t, src), sink)
	unit := p.ParseTranslationUnit()
	require.False(t, sink.HasErrors(), "parse errors: %v", sink.Diagnostics())
	return unit
}

func analyze(t *testing.T, src string) *diagnostics.CollectingSink {
	t.Helper()
	unit := parse(t, src)
	sink := diagnostics.NewCollectingSink()
	analyzer.New().Analyze(unit, sink)
	return sink
}

const validKernel = `
@kernel void addVectors(int n, float *a, float *b, float *out) {
	@outer for (int i = 0; i < n; i += 16) {
		@shared float cache[16];
		@inner for (int j = 0; j < 16; ++j) {
			cache[j] = a[i + j];
		}
		@inner for (int j = 0; j < 16; ++j) {
			out[i + j] = cache[j] + b[i + j];
		}
	}
}
`

func TestValidKernelPasses(t *testing.T) {
	sink := analyze(t, validKernel)
	require.False(t, sink.HasErrors(), "%v", sink.Diagnostics())
}

func TestNoKernelsIsAnError(t *testing.T) {
	sink := analyze(t, "void helper(int n) { n; }")
	require.True(t, sink.HasErrors())
}

func TestMissingOuterLoopIsAnError(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@inner for (int j = 0; j < n; ++j) {
			j;
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestMissingInnerLoopIsAnError(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer for (int i = 0; i < n; ++i) {
			i;
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestLoopCannotBeBothOuterAndInner(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer @inner for (int i = 0; i < n; ++i) {
			i;
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestInnerWithoutEnclosingOuterIsAnError(t *testing.T) {
	src := `
	@kernel void k(int n) {
		for (int i = 0; i < n; ++i) {
			@inner for (int j = 0; j < n; ++j) {
				j;
			}
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestOuterInsideInnerIsAnError(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer for (int i = 0; i < n; ++i) {
			@inner for (int j = 0; j < n; ++j) {
				@outer for (int k = 0; k < n; ++k) {
					k;
				}
			}
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestInconsistentLoopNestingDepthIsAnError(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer for (int i = 0; i < n; ++i) {
			@inner for (int j = 0; j < n; ++j) {
				j;
			}
		}
		@outer for (int i = 0; i < n; ++i) {
			i;
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestSimpleLoopRejectsMultipleIteratorDeclarations(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer for (int i = 0, j = 0; i < n; ++i) {
			@inner for (int m = 0; m < n; ++m) {
				m;
			}
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())

	var found *diagnostics.Diagnostic
	for i, d := range sink.Diagnostics() {
		if strings.Contains(d.Message, "Can only transform 1 iterator variable") {
			found = &sink.Diagnostics()[i]
			break
		}
	}
	require.NotNil(t, found, "expected a diagnostic mentioning \"Can only transform 1 iterator variable\", got %v", sink.Diagnostics())
	require.Equal(t, 3, found.Origin.Line, "error should be reported at the second declarator (j), not the for-loop's own token")
}

func TestSimpleLoopRejectsNonIntegerIterator(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer for (float i = 0; i < n; ++i) {
			@inner for (int m = 0; m < n; ++m) {
				m;
			}
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestSimpleLoopRejectsEqualityCheck(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer for (int i = 0; i == n; ++i) {
			@inner for (int m = 0; m < n; ++m) {
				m;
			}
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestSimpleLoopRejectsAssignmentUpdate(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer for (int i = 0; i < n; i = i + 1) {
			@inner for (int m = 0; m < n; ++m) {
				m;
			}
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestSharedVariableCannotBeDeclaredInsideInner(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer for (int i = 0; i < n; ++i) {
			@inner for (int j = 0; j < n; ++j) {
				@shared float cache[16];
				j;
			}
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestSharedVariableCannotBeDeclaredOutsideOuter(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@shared float cache[16];
		@outer for (int i = 0; i < n; ++i) {
			@inner for (int j = 0; j < n; ++j) {
				j;
			}
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestSharedVariableCannotBeUsedOutsideInner(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer for (int i = 0; i < n; ++i) {
			@shared float cache[16];
			cache[0] = 1;
			@inner for (int j = 0; j < n; ++j) {
				j;
			}
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestExclusiveVariableCannotBeDeclaredInsideInner(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer for (int i = 0; i < n; ++i) {
			@inner for (int j = 0; j < n; ++j) {
				@exclusive int reg;
				reg = j;
			}
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}

func TestExclusiveVariableCannotBeUsedOutsideInner(t *testing.T) {
	src := `
	@kernel void k(int n) {
		@outer for (int i = 0; i < n; ++i) {
			@exclusive int reg;
			reg = i;
			@inner for (int j = 0; j < n; ++j) {
				j;
			}
		}
	}
	`
	sink := analyze(t, src)
	require.True(t, sink.HasErrors())
}
