package storage

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/emberdb/pkg/errors"
	"github.com/iamNilotpal/emberdb/pkg/logger"
	"github.com/iamNilotpal/emberdb/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(opts ...options.OptionFunc) *options.Options {
	defaults := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaults)
	}
	return &defaults
}

func newTestMmap(t *testing.T, path string, writable bool, opts ...options.OptionFunc) *GrowableMmap {
	t.Helper()

	m, err := NewGrowableMmap(&Config{
		Path:        path,
		FileName:    options.DataFileName,
		Writable:    writable,
		DamagedCode: errors.ErrorCodeDataFileDamaged,
		Options:     testOptions(opts...),
		Logger:      logger.NewNop(),
	})
	require.NoError(t, err)
	return m
}

func mustWrite(t *testing.T, m *GrowableMmap, payload []byte) {
	t.Helper()
	err := m.GrowAndApply(uint64(len(payload)), func(buf []byte) error {
		copy(buf, payload)
		return nil
	})
	require.NoError(t, err)
}

func readAll(t *testing.T, m *GrowableMmap, address, limit uint64) []byte {
	t.Helper()
	var out []byte
	ok := m.GetAndApply(address, limit, func(data []byte) {
		out = append([]byte(nil), data...)
	})
	require.True(t, ok)
	return out
}

func TestGrowableMmapMemoryGrowAndRead(t *testing.T) {
	m := newTestMmap(t, "", true)
	defer m.Close()

	mustWrite(t, m, []byte("hello "))
	mustWrite(t, m, []byte("world"))

	// The first in-memory segment holds exactly "hello ", so the second write
	// lands in a new segment and reads stop at the segment boundary.
	require.Equal(t, uint64(11), m.MemorySize())
	assert.Equal(t, []byte("hello "), readAll(t, m, 0, 11))
	assert.Equal(t, []byte("o "), readAll(t, m, 4, 11))
	assert.Equal(t, []byte("world"), readAll(t, m, 6, 11))

	// Addresses at or past the limit are invisible.
	assert.False(t, m.GetAndApply(11, 11, func([]byte) {}))
	assert.False(t, m.GetAndApply(5, 5, func([]byte) {}))
}

func TestGrowableMmapMemoryRotation(t *testing.T) {
	m := newTestMmap(t, "", true)
	defer m.Close()

	// The first in-memory segment is sized to the first write exactly, so a
	// second write must freeze it and create a larger one.
	mustWrite(t, m, []byte("0123456789"))
	require.Equal(t, 1, m.SegmentCount())

	mustWrite(t, m, []byte("abcde"))
	require.Equal(t, 2, m.SegmentCount())
	require.Equal(t, uint64(15), m.MemorySize())

	// Reads stop at the frozen segment boundary.
	assert.Equal(t, []byte("56789"), readAll(t, m, 5, 15))
	assert.Equal(t, []byte("abcde"), readAll(t, m, 10, 15))
}

func TestGrowableMmapMemoryReadOnlyRejectsWrites(t *testing.T) {
	m := newTestMmap(t, "", false)
	defer m.Close()

	err := m.GrowAndApply(4, func(buf []byte) error { return nil })
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeReadOnly, errors.GetErrorCode(err))
}

func TestGrowableMmapFilePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")

	m := newTestMmap(t, path, true, options.WithInitialCapacity(64))
	mustWrite(t, m, []byte("persisted payload"))
	require.NoError(t, m.Close())

	// The header carries the committed size; the file keeps reserved space
	// beyond it from the bootstrap capacity.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, uint64(17), binary.LittleEndian.Uint64(raw[0:8]))
	require.Equal(t, HeaderSize+64, len(raw))

	reopened := newTestMmap(t, path, true, options.WithInitialCapacity(64))
	defer reopened.Close()

	require.Equal(t, uint64(17), reopened.MemorySize())
	assert.Equal(t, []byte("persisted payload"), readAll(t, reopened, 0, 17))

	// The recovered region arrives as one frozen segment; new writes rotate
	// into a fresh active segment after it.
	mustWrite(t, reopened, []byte(" and more"))
	require.Equal(t, uint64(26), reopened.MemorySize())
	assert.Equal(t, []byte(" and more"), readAll(t, reopened, 17, 26))
}

func TestGrowableMmapFileGeometricGrowth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")

	m := newTestMmap(t, path, true, options.WithInitialCapacity(64))
	defer m.Close()

	payload := make([]byte, 48)
	for i := range payload {
		payload[i] = byte(i)
	}

	// 64-byte bootstrap: the second write overflows and rotates to a
	// max(48, 2*64) = 128 byte segment.
	mustWrite(t, m, payload)
	require.Equal(t, 1, m.SegmentCount())

	mustWrite(t, m, payload)
	require.Equal(t, 2, m.SegmentCount())

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(HeaderSize+48+128), stat.Size())

	assert.Equal(t, payload, readAll(t, m, 48, 96))
}

func TestGrowableMmapFileReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")

	m := newTestMmap(t, path, true)
	mustWrite(t, m, []byte("frozen forever"))
	require.NoError(t, m.Close())

	ro := newTestMmap(t, path, false)
	defer ro.Close()

	assert.Equal(t, []byte("frozen forever"), readAll(t, ro, 0, 14))

	err := ro.GrowAndApply(1, func([]byte) error { return nil })
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeReadOnly, errors.GetErrorCode(err))
}

func TestGrowableMmapDetectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")

	m := newTestMmap(t, path, true)
	mustWrite(t, m, []byte("soon to be damaged"))
	require.NoError(t, m.Close())

	// Chop the file below what the header claims is committed.
	require.NoError(t, os.Truncate(path, HeaderSize+4))

	_, err := NewGrowableMmap(&Config{
		Path:        path,
		FileName:    options.DataFileName,
		Writable:    true,
		DamagedCode: errors.ErrorCodeDataFileDamaged,
		Options:     testOptions(),
		Logger:      logger.NewNop(),
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeDataFileDamaged, errors.GetErrorCode(err))
}

func TestGrowableMmapClosedOperationsFail(t *testing.T) {
	m := newTestMmap(t, "", true)
	mustWrite(t, m, []byte("x"))
	require.NoError(t, m.Close())

	require.ErrorIs(t, m.Close(), ErrStorageClosed)
	require.ErrorIs(t, m.GrowAndApply(1, func([]byte) error { return nil }), ErrStorageClosed)
	assert.False(t, m.GetAndApply(0, 1, func([]byte) {}))
}
