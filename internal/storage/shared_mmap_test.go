package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heapShared(data []byte) SharedMmap {
	return newSharedMmap(newMapping(data, nil), data)
}

func TestSharedMmapSlice(t *testing.T) {
	shared := heapShared([]byte("abcdefgh"))
	defer shared.Release()

	view := shared.Slice(2, 5)
	defer view.Release()

	require.Equal(t, uint64(3), view.Len())
	assert.Equal(t, []byte("cde"), view.Bytes())

	// Sub-views point into the same mapping.
	sub := view.Slice(1, 3)
	defer sub.Release()
	assert.Equal(t, []byte("de"), sub.Bytes())
}

func TestSharedMmapSliceClamps(t *testing.T) {
	shared := heapShared([]byte("abcd"))
	defer shared.Release()

	tests := []struct {
		name       string
		start, end uint64
		want       []byte
	}{
		{name: "empty range", start: 2, end: 2, want: []byte{}},
		{name: "end clamped", start: 1, end: 99, want: []byte("bcd")},
		{name: "start past length", start: 99, end: 100, want: []byte{}},
		{name: "inverted range", start: 3, end: 1, want: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := shared.Slice(tt.start, tt.end)
			defer view.Release()

			assert.Equal(t, len(tt.want), int(view.Len()))
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, view.Bytes())
			}
			assert.Equal(t, len(tt.want) == 0, view.IsEmpty())
		})
	}
}

func TestSharedMmapReferenceCounting(t *testing.T) {
	m := newMapping([]byte("xyz"), nil)
	shared := newSharedMmap(m, m.data)

	view := shared.Slice(0, 2)
	require.Equal(t, int64(2), m.refs.Load())

	require.NoError(t, shared.Release())
	require.Equal(t, int64(1), m.refs.Load())

	// The remaining view still reads valid bytes.
	assert.Equal(t, []byte("xy"), view.Bytes())

	require.NoError(t, view.Release())
	assert.Equal(t, int64(0), m.refs.Load())
}
