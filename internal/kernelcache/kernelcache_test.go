package kernelcache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/kernelcache"
	"github.com/occa-go/okl/internal/metadata"
)

func openTestCache(t *testing.T) *kernelcache.Cache {
	t.Helper()
	c, err := kernelcache.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close()) })
	return c
}

func TestGetMissesOnEmptyCache(t *testing.T) {
	c := openTestCache(t)
	key := kernelcache.Key("source", "", "", config.NewProperties())

	entry, ok, err := c.Get(key)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, entry.Source)
}

func TestPutThenGetRoundTrips(t *testing.T) {
	c := openTestCache(t)
	key := kernelcache.Key("@kernel void noop() {}", "", "", config.NewProperties())

	meta := metadata.Map{}
	meta.Add(metadata.KernelMetadata{Name: "noop"})
	want := kernelcache.Entry{Source: "void noop() {}", Metadata: meta}

	require.NoError(t, c.Put(key, want))

	got, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want.Source, got.Source)
	require.Contains(t, got.Metadata, "noop")
}

func TestPutOverwritesExistingKey(t *testing.T) {
	c := openTestCache(t)
	key := kernelcache.Key("source", "", "", config.NewProperties())

	require.NoError(t, c.Put(key, kernelcache.Entry{Source: "v1", Metadata: metadata.Map{}}))
	require.NoError(t, c.Put(key, kernelcache.Entry{Source: "v2", Metadata: metadata.Map{}}))

	got, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", got.Source)
}

func TestKeyVariesWithPropertiesAndHeaderFooter(t *testing.T) {
	base := kernelcache.Key("source", "", "", config.NewProperties())

	withHeader := kernelcache.Key("source", "#define X 1\n", "", config.NewProperties())
	require.NotEqual(t, base, withHeader)

	props := config.NewProperties()
	props["okl/validate"] = false
	withProps := kernelcache.Key("source", "", "", props)
	require.NotEqual(t, base, withProps)
}
