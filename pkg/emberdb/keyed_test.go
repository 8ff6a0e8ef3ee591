package emberdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/emberdb/pkg/emberdb"
	"github.com/iamNilotpal/emberdb/pkg/errors"
	"github.com/iamNilotpal/emberdb/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedPutAndGet(t *testing.T) {
	db := openMemory(t)

	keyed, err := emberdb.NewKeyed(db, record.BasicSerializer{})
	require.NoError(t, err)
	defer keyed.Close()

	require.NoError(t, keyed.Put(record.New([]byte("qwerty"), []byte("some data"))))
	require.True(t, keyed.Contains([]byte("qwerty")))

	got, err := keyed.GetByKey([]byte("qwerty"))
	require.NoError(t, err)
	assert.Equal(t, []byte("qwerty"), got.Key())
	assert.Equal(t, []byte("some data"), got.Value())
}

func TestKeyedMissingKey(t *testing.T) {
	db := openMemory(t)

	keyed, err := emberdb.NewKeyed(db, record.BasicSerializer{})
	require.NoError(t, err)
	defer keyed.Close()

	assert.False(t, keyed.Contains([]byte("ghost")))

	_, err = keyed.GetByKey([]byte("ghost"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeIndexKeyNotFound, errors.GetErrorCode(err))
}

func TestKeyedLastWriteWins(t *testing.T) {
	db := openMemory(t)

	keyed, err := emberdb.NewKeyed(db, record.BasicSerializer{})
	require.NoError(t, err)
	defer keyed.Close()

	require.NoError(t, keyed.Put(record.New([]byte("k"), []byte("v1"))))
	require.NoError(t, keyed.Put(record.New([]byte("k"), []byte("v2"))))

	got, err := keyed.GetByKey([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got.Value())

	// Both versions stay in the core store; only the index moved.
	assert.Equal(t, uint64(2), db.Len())
}

func TestKeyedRebuildOnReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	db, err := emberdb.OpenFile(ctx, "emberdb-test", dir)
	require.NoError(t, err)

	keyed, err := emberdb.NewKeyed(db, record.BasicSerializer{})
	require.NoError(t, err)
	require.NoError(t, keyed.Put(record.New([]byte("a"), []byte("1"))))
	require.NoError(t, keyed.Put(record.New([]byte("b"), []byte("2"))))
	require.NoError(t, keyed.Put(record.New([]byte("a"), []byte("3"))))
	require.NoError(t, keyed.Close())
	require.NoError(t, db.Close())

	db, err = emberdb.OpenFile(ctx, "emberdb-test", dir)
	require.NoError(t, err)
	defer db.Close()

	rebuilt, err := emberdb.NewKeyed(db, record.BasicSerializer{})
	require.NoError(t, err)
	defer rebuilt.Close()

	got, err := rebuilt.GetByKey([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), got.Value())

	got, err = rebuilt.GetByKey([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got.Value())
}
