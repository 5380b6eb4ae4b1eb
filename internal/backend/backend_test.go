package backend_test

import (
	"strings"
	"testing"

	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/backend"
	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/lexer"
	"github.com/occa-go/okl/internal/parser"
	"github.com/occa-go/okl/internal/token"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.BlockStatement {
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
	return unit
}

const addVectors = `
@kernel void addVectors(int n, float *a, float *b, float *out) {
	@outer for (int i = 0; i < n; i += 16) {
		@inner for (int j = 0; j < 16; ++j) {
			out[i + j] = a[i + j] + b[i + j];
		}
	}
}
`

const exclusiveKernel = `
@kernel void scan(int n, float *a, float *out) {
	@outer for (int i = 0; i < n; i += 16) {
		@exclusive float value;
		@inner for (int j = 0; j < 16; ++j) {
			value = a[i + j];
		}
		@inner for (int j = 0; j < 16; ++j) {
			out[i + j] = value;
		}
	}
}
`

func TestSerialLowerWrapsExternCAndReferenceArgs(t *testing.T) {
	unit := parse(t, addVectors)
	sink := diagnostics.NewCollectingSink()
	b := backend.New(config.BackendSerial)
	require.NotNil(t, b)

	src, meta, ok := b.Lower(unit, config.NewProperties(), sink)
	require.True(t, ok, "%v", sink.Diagnostics())
	require.Contains(t, src, `extern "C"`)
	require.Contains(t, src, "int & n")
	require.Contains(t, src, "(out[(i + j)] = (a[(i + j)] + b[(i + j)]));", "serial leaves @outer/@inner loops as ordinary for-loops")

	km, found := meta["addVectors"]
	require.True(t, found)
	require.Len(t, km.Arguments, 4)
}

func TestSerialLowerTurnsExclusiveScalarIntoIndexedArray(t *testing.T) {
	unit := parse(t, exclusiveKernel)
	sink := diagnostics.NewCollectingSink()
	b := backend.New(config.BackendSerial)

	src, _, ok := b.Lower(unit, config.NewProperties(), sink)
	require.True(t, ok, "%v", sink.Diagnostics())
	require.Contains(t, src, "_occa_exclusive_index = 0")
	require.Contains(t, src, "_occa_exclusive_index += 1")
	require.Contains(t, src, "value[_occa_exclusive_index]")
}

func TestOpenMPLowerAddsPragmaBeforeOutermostOuter(t *testing.T) {
	unit := parse(t, addVectors)
	sink := diagnostics.NewCollectingSink()
	b := backend.New(config.BackendOpenMP)

	src, _, ok := b.Lower(unit, config.NewProperties(), sink)
	require.True(t, ok, "%v", sink.Diagnostics())
	require.Contains(t, src, "#pragma omp parallel for")

	pragmaIdx := strings.Index(src, "#pragma omp parallel for")
	forIdx := strings.Index(src, "for (int i")
	require.True(t, pragmaIdx >= 0 && forIdx >= 0 && pragmaIdx < forIdx, "pragma must precede the @outer loop")
}

func TestOpenCLLowerReplacesOuterInnerWithBuiltinIndices(t *testing.T) {
	unit := parse(t, addVectors)
	sink := diagnostics.NewCollectingSink()
	b := backend.New(config.BackendOpenCL)

	src, meta, ok := b.Lower(unit, config.NewProperties(), sink)
	require.True(t, ok, "%v", sink.Diagnostics())
	require.Contains(t, src, "__kernel")
	require.Contains(t, src, "__global")
	require.Contains(t, src, "get_group_id(0)")
	require.Contains(t, src, "get_local_id(0)")
	require.NotContains(t, src, "@outer")
	require.NotContains(t, src, "@inner")

	km := meta["addVectors"]
	require.True(t, km.ArgMatchesVarType(1, km.Arguments[1].VarType))
}

func TestOpenCLLowerEmitsSortedEnabledExtensionPragmas(t *testing.T) {
	unit := parse(t, addVectors)
	sink := diagnostics.NewCollectingSink()
	b := backend.New(config.BackendOpenCL)

	props := config.NewProperties()
	props["opencl/extensions/cl_khr_fp64"] = true
	props["opencl/extensions/cl_khr_int64_base_atomics"] = true
	props["opencl/extensions/cl_khr_disabled"] = false

	src, _, ok := b.Lower(unit, props, sink)
	require.True(t, ok, "%v", sink.Diagnostics())
	fp64Idx := strings.Index(src, "#pragma OPENCL EXTENSION cl_khr_fp64 : enable")
	atomicsIdx := strings.Index(src, "#pragma OPENCL EXTENSION cl_khr_int64_base_atomics : enable")
	require.True(t, fp64Idx >= 0 && atomicsIdx >= 0)
	require.True(t, fp64Idx < atomicsIdx, "extensions render in sorted order")
	require.NotContains(t, src, "cl_khr_disabled")
}

func TestCUDALowerEmitsBlockAndThreadIndicesPlusLauncher(t *testing.T) {
	unit := parse(t, addVectors)
	sink := diagnostics.NewCollectingSink()
	b := backend.New(config.BackendCUDA)

	src, _, ok := b.Lower(unit, config.NewProperties(), sink)
	require.True(t, ok, "%v", sink.Diagnostics())
	require.Contains(t, src, "__global__")
	require.Contains(t, src, "blockIdx.x")
	require.Contains(t, src, "threadIdx.x")
	require.Contains(t, src, "addVectors<<<occaOuterDims, occaInnerDims>>>(")
}

func TestHIPLowerUsesLaunchKernelGGL(t *testing.T) {
	unit := parse(t, addVectors)
	sink := diagnostics.NewCollectingSink()
	b := backend.New(config.BackendHIP)

	src, _, ok := b.Lower(unit, config.NewProperties(), sink)
	require.True(t, ok, "%v", sink.Diagnostics())
	require.Contains(t, src, "hipLaunchKernelGGL(addVectors,")
}

func TestMetalLowerUsesThreadgroupIndices(t *testing.T) {
	unit := parse(t, addVectors)
	sink := diagnostics.NewCollectingSink()
	b := backend.New(config.BackendMetal)

	src, _, ok := b.Lower(unit, config.NewProperties(), sink)
	require.True(t, ok, "%v", sink.Diagnostics())
	require.Contains(t, src, "kernel")
	require.Contains(t, src, "device")
	require.Contains(t, src, "threadgroup_position_in_grid.x")
	require.Contains(t, src, "thread_position_in_threadgroup.x")
}

func TestLowerFailsValidationReportsDiagnosticAndNoSource(t *testing.T) {
	unit := parse(t, `
	@kernel void broken(int n) {
		n = n + 1;
	}
	`)
	sink := diagnostics.NewCollectingSink()
	b := backend.New(config.BackendSerial)

	_, _, ok := b.Lower(unit, config.NewProperties(), sink)
	require.False(t, ok)
	require.True(t, sink.HasErrors())
}

func TestValidationSkippedWhenPropertyDisablesIt(t *testing.T) {
	unit := parse(t, `
	@kernel void broken(int n) {
		n = n + 1;
	}
	`)
	sink := diagnostics.NewCollectingSink()
	b := backend.New(config.BackendSerial)

	props := config.NewProperties()
	props["okl/validate"] = false
	_, _, ok := b.Lower(unit, props, sink)
	require.True(t, ok, "%v", sink.Diagnostics())
}

func TestNewReturnsNilForUnknownBackend(t *testing.T) {
	require.Nil(t, backend.New("not-a-real-backend"))
}
