package seqno

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/emberdb/pkg/logger"
	"github.com/iamNilotpal/emberdb/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, path string, writable bool) *Index {
	t.Helper()

	defaults := options.NewDefaultOptions()
	index, err := New(&Config{
		Path:     path,
		Writable: writable,
		Options:  &defaults,
		Logger:   logger.NewNop(),
	})
	require.NoError(t, err)
	return index
}

func TestIndexAppendAndGet(t *testing.T) {
	index := newTestIndex(t, "", true)
	defer index.Close()

	offsets := []uint64{0, 17, 99, 1<<40 + 5}

	base, ok, err := index.Append(offsets)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(0), base)
	require.Equal(t, uint64(len(offsets)), index.Size())

	for i, want := range offsets {
		got, found := index.Get(uint64(i))
		require.True(t, found, "entry %d", i)
		assert.Equal(t, want, got)
	}

	_, found := index.Get(uint64(len(offsets)))
	assert.False(t, found)
}

func TestIndexAppendReturnsBase(t *testing.T) {
	index := newTestIndex(t, "", true)
	defer index.Close()

	base, ok, err := index.Append([]uint64{0, 10})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(0), base)

	base, ok, err = index.Append([]uint64{20, 30, 40})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(2), base)

	assert.Equal(t, uint64(5), index.Size())
}

func TestIndexEmptyAppend(t *testing.T) {
	index := newTestIndex(t, "", true)
	defer index.Close()

	_, ok, err := index.Append(nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), index.Size())
}

func TestIndexReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seqno")

	index := newTestIndex(t, path, true)
	_, _, err := index.Append([]uint64{3, 7, 31})
	require.NoError(t, err)
	require.NoError(t, index.Close())

	reopened := newTestIndex(t, path, true)
	defer reopened.Close()

	require.Equal(t, uint64(3), reopened.Size())
	got, found := reopened.Get(2)
	require.True(t, found)
	assert.Equal(t, uint64(31), got)
}
