package filesys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db")

	require.NoError(t, CreateDir(path, 0755, true))

	exists, err := Exists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	isDir, err := IsDir(path)
	require.NoError(t, err)
	assert.True(t, isDir)

	// Creating again with force succeeds.
	require.NoError(t, CreateDir(path, 0755, true))
}

func TestCreateDirOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	err := CreateDir(path, 0755, true)
	require.ErrorIs(t, err, ErrIsNotDir)
}

func TestExistsAndIsDirOnMissingPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	exists, err := Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	isDir, err := IsDir(path)
	require.NoError(t, err)
	assert.False(t, isDir)
}

func TestDeleteDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doomed")
	require.NoError(t, CreateDir(path, 0755, true))
	require.NoError(t, os.WriteFile(filepath.Join(path, "data"), []byte("x"), 0644))

	require.NoError(t, DeleteDir(path))

	exists, err := Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)
}
