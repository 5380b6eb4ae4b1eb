package occa_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/kernelcache"
	"github.com/occa-go/okl/pkg/occa"
)

const addVectors = `
@kernel void addVectors(const int n, const float *a, const float *b, float *out) {
  for (int i = 0; i < n; ++i; @tile(16, @outer, @inner)) {
    out[i] = a[i] + b[i];
  }
}
`

func TestCompileLowersToSerialBackend(t *testing.T) {
	result, err := occa.Compile(addVectors, occa.Options{Backend: config.BackendSerial})
	require.NoError(t, err)
	require.False(t, result.CacheHit)
	require.Contains(t, result.Source, `extern "C"`)
	require.NotEmpty(t, result.Metadata)
	require.NotEmpty(t, result.RequestID)
}

func TestCompileRequiresBackend(t *testing.T) {
	_, err := occa.Compile(addVectors, occa.Options{})
	require.Error(t, err)
}

func TestCompileReturnsErrorWithDiagnosticsOnFailure(t *testing.T) {
	_, err := occa.Compile(`@kernel void broken( {{{`, occa.Options{Backend: config.BackendSerial})
	require.Error(t, err)
}

func TestCompilePopulatesAndServesFromCache(t *testing.T) {
	cache, err := kernelcache.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, cache.Close()) })

	first, err := occa.Compile(addVectors, occa.Options{Backend: config.BackendSerial, Cache: cache})
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := occa.Compile(addVectors, occa.Options{Backend: config.BackendSerial, Cache: cache})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Source, second.Source)
}
