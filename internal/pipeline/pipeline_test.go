package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/pipeline"
)

const addVectors = `
@kernel void addVectors(const int n, const float *a, const float *b, float *out) {
  for (int i = 0; i < n; ++i; @tile(16, @outer, @inner)) {
    out[i] = a[i] + b[i];
  }
}
`

func run(t *testing.T, source, backendName string, props config.Properties) *pipeline.PipelineContext {
	t.Helper()
	ctx := pipeline.NewPipelineContext("addVectors.okl", source)
	ctx.BackendName = backendName
	if props != nil {
		ctx.Properties = props
	}
	p := pipeline.New(&pipeline.LexProcessor{}, &pipeline.ParseProcessor{}, &pipeline.BackendProcessor{})
	return p.Run(ctx)
}

func TestPipelineLowersSerialKernelEndToEnd(t *testing.T) {
	ctx := run(t, addVectors, config.BackendSerial, nil)
	require.False(t, ctx.HasErrors(), "%v", ctx.Errors())
	require.NotEmpty(t, ctx.TokenStream)
	require.NotNil(t, ctx.AstRoot)
	require.Contains(t, ctx.Source, `extern "C"`)
	require.NotEmpty(t, ctx.Metadata)
	require.NotEmpty(t, ctx.RequestID)
}

func TestPipelineLowersOpenCLKernelEndToEnd(t *testing.T) {
	ctx := run(t, addVectors, config.BackendOpenCL, nil)
	require.False(t, ctx.HasErrors(), "%v", ctx.Errors())
	require.Contains(t, ctx.Source, "__kernel")
	require.Contains(t, ctx.Source, "get_group_id(0)")
}

func TestPipelineDefinesSeedCompilerMacros(t *testing.T) {
	props := config.NewProperties()
	props["defines"] = map[string]interface{}{"TILE_SIZE": "16"}
	ctx := run(t, `
@kernel void useMacro(int *out) {
  for (int i = 0; i < TILE_SIZE; ++i; @outer) {
    for (int j = 0; j < TILE_SIZE; ++j; @inner) {
      out[i] = i;
    }
  }
}
`, config.BackendSerial, props)
	require.False(t, ctx.HasErrors(), "%v", ctx.Errors())
	require.NotContains(t, ctx.Source, "TILE_SIZE")
}

func TestPipelineStopsAtParseErrorsBeforeLowering(t *testing.T) {
	ctx := run(t, `@kernel void broken( {{{`, config.BackendSerial, nil)
	require.True(t, ctx.HasErrors())
	require.Empty(t, ctx.Source)
}

func TestPipelineReportsUnknownBackend(t *testing.T) {
	ctx := run(t, addVectors, "not-a-real-backend", nil)
	require.True(t, ctx.HasErrors())
	require.Empty(t, ctx.Source)
}
