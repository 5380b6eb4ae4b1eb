package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/occa-go/okl/pkg/cli"
)

const addVectors = `
@kernel void addVectors(const int n, const float *a, const float *b, float *out) {
  for (int i = 0; i < n; ++i; @tile(16, @outer, @inner)) {
    out[i] = a[i] + b[i];
  }
}
`

func TestRunCompileWritesLoweredSourceToStdout(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "addVectors.okl")
	require.NoError(t, os.WriteFile(src, []byte(addVectors), 0o644))

	var stdout, stderr bytes.Buffer
	code := cli.Run([]string{"compile", src}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	require.Contains(t, stdout.String(), `extern "C"`)
}

func TestRunCompileWithUnknownBackendFails(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "addVectors.okl")
	require.NoError(t, os.WriteFile(src, []byte(addVectors), 0o644))

	var stdout, stderr bytes.Buffer
	code := cli.Run([]string{"compile", "-backend=not-a-backend", src}, &stdout, &stderr)
	require.Equal(t, 1, code)
}

func TestRunCompileMissingFileReportsError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cli.Run([]string{"compile", "/nonexistent/path.okl"}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "reading")
}

func TestRunBackendsListsEveryBackendName(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cli.Run([]string{"backends"}, &stdout, &stderr)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "serial")
	require.Contains(t, stdout.String(), "opencl")
	require.Contains(t, stdout.String(), "metal")
}

func TestRunWithNoArgsPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cli.Run(nil, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "usage:")
}

func TestRunStatsReportsCacheFileSize(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "cache.sqlite")
	require.NoError(t, os.WriteFile(cachePath, []byte("not a real db, just needs a size"), 0o644))

	var stdout, stderr bytes.Buffer
	code := cli.Run([]string{"--stats", "-cache=" + cachePath}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	require.Contains(t, stdout.String(), cachePath)
}
