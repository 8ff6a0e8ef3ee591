package emberdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/emberdb/pkg/emberdb"
	"github.com/iamNilotpal/emberdb/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *emberdb.Database {
	t.Helper()

	db, err := emberdb.OpenMemory(context.Background(), "emberdb-test")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMemoryRoundTrip(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, db.Append([][]byte{[]byte("alpha"), []byte("beta"), []byte("gamma")}))
	require.Equal(t, uint64(3), db.Len())

	got, ok := db.GetBySeqNo(0)
	require.True(t, ok)
	assert.Equal(t, []byte("alpha"), got)

	got, ok = db.Last()
	require.True(t, ok)
	assert.Equal(t, []byte("gamma"), got)
}

func TestPut(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, db.Put([]byte("solo")))
	require.Equal(t, uint64(1), db.Len())

	got, ok := db.GetBySeqNo(0)
	require.True(t, ok)
	assert.Equal(t, []byte("solo"), got)
}

func TestAppendWithSeqNo(t *testing.T) {
	db := openMemory(t)

	base, ok, err := db.AppendWithSeqNo([][]byte{[]byte("a"), []byte("b")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(0), base)

	base, ok, err = db.AppendWithSeqNo([][]byte{[]byte("c")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(2), base)

	_, ok, err = db.AppendWithSeqNo(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIteratorBoundaries(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, db.Append([][]byte{[]byte("a"), []byte("bb"), []byte("ccc")}))

	t.Run("iteration from the middle", func(t *testing.T) {
		iter, ok := db.IterFromSeqNo(1)
		require.True(t, ok)

		var collected [][]byte
		for {
			item, more := iter.Next()
			if !more {
				break
			}
			collected = append(collected, item)
		}
		assert.Equal(t, [][]byte{[]byte("bb"), []byte("ccc")}, collected)
	})

	t.Run("iteration at the end terminates immediately", func(t *testing.T) {
		iter, ok := db.IterFromSeqNo(db.Len())
		require.True(t, ok)

		_, more := iter.Next()
		assert.False(t, more)
	})

	t.Run("iteration past the end is refused", func(t *testing.T) {
		_, ok := db.IterFromSeqNo(db.Len() + 1)
		assert.False(t, ok)
	})
}

func TestIterationMatchesAppendOrder(t *testing.T) {
	db := openMemory(t)

	records := [][]byte{[]byte("x"), []byte("yy"), []byte("zzz"), []byte("w")}
	require.NoError(t, db.Append(records))

	iter, ok := db.IterFromSeqNo(0)
	require.True(t, ok)

	for i := 0; ; i++ {
		item, more := iter.Next()
		if !more {
			require.Equal(t, len(records), i)
			break
		}
		require.Equal(t, records[i], item)
	}
}

func TestFileReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	db, err := emberdb.OpenFile(ctx, "emberdb-test", dir)
	require.NoError(t, err)
	require.NoError(t, db.Append([][]byte{[]byte("persisted")}))
	require.NoError(t, db.Close())

	reopened, err := emberdb.OpenFile(ctx, "emberdb-test", dir)
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, uint64(1), reopened.Len())
	got, ok := reopened.GetBySeqNo(0)
	require.True(t, ok)
	assert.Equal(t, []byte("persisted"), got)
}

func TestReadOnlyMode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	db, err := emberdb.OpenFile(ctx, "emberdb-test", dir)
	require.NoError(t, err)
	require.NoError(t, db.Append([][]byte{[]byte("sealed")}))
	require.NoError(t, db.Close())

	ro, err := emberdb.OpenFileReadOnly(ctx, "emberdb-test", dir)
	require.NoError(t, err)
	defer ro.Close()

	got, ok := ro.GetBySeqNo(0)
	require.True(t, ok)
	assert.Equal(t, []byte("sealed"), got)

	err = ro.Put([]byte("rejected"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeReadOnly, errors.GetErrorCode(err))
}

func TestReadOnlyMissingDirectory(t *testing.T) {
	_, err := emberdb.OpenFileReadOnly(
		context.Background(), "emberdb-test", filepath.Join(t.TempDir(), "missing"),
	)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodePathNotFound, errors.GetErrorCode(err))
}
