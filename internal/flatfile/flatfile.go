// Package flatfile adapts the raw stream layer into the main record file of
// the database. Records are stored back to back without framing, delimiters
// or padding; boundaries live entirely in the sequence-number index. The file
// is accessed through mmap and relies on the OS page cache for read
// performance.
package flatfile

import (
	"github.com/iamNilotpal/emberdb/internal/storage"
	"github.com/iamNilotpal/emberdb/pkg/errors"
	"github.com/iamNilotpal/emberdb/pkg/options"
	"go.uber.org/zap"
)

// FlatFile appends opaque records through an Appender and serves random
// reads at known offsets.
type FlatFile struct {
	inner *storage.Appender
}

// Config encapsulates the parameters for opening the payload stream.
type Config struct {
	Path     string // Empty for anonymous in-memory storage.
	Writable bool
	Options  *options.Options
	Logger   *zap.SugaredLogger
}

// New opens the payload stream. Inconsistencies between the stream header
// and the physical file surface as DataFileDamaged.
func New(config *Config) (*FlatFile, error) {
	mmap, err := storage.NewGrowableMmap(&storage.Config{
		Path:        config.Path,
		FileName:    options.DataFileName,
		Writable:    config.Writable,
		DamagedCode: errors.ErrorCodeDataFileDamaged,
		Options:     config.Options,
		Logger:      config.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &FlatFile{inner: storage.NewAppender(mmap)}, nil
}

// Append writes the records as one contiguous chunk at the stream tail.
// Zero-length records are rejected: record boundaries are recovered from
// strictly increasing offsets, which an empty record would break. Writing the
// whole batch in a single reservation also guarantees no record straddles a
// segment boundary, because a new segment is always at least batch-sized.
func (f *FlatFile) Append(records [][]byte) error {
	if len(records) == 0 {
		return nil
	}

	var total uint64
	for position, record := range records {
		if len(record) == 0 {
			return errors.NewEmptyRecordError(position)
		}
		total += uint64(len(record))
	}

	return f.inner.Append(total, func(buf []byte) error {
		for _, record := range records {
			copy(buf[:len(record)], record)
			buf = buf[len(record):]
		}
		return nil
	})
}

// GetAt returns a copy of exactly length bytes at the given offset, or false
// when the published region (or the containing segment) is too short. Note
// that this function does not check whether offset is the start of an actual
// record; the sequence-number index is the authority on boundaries.
func (f *FlatFile) GetAt(offset, length uint64) ([]byte, bool) {
	var out []byte
	ok := f.inner.GetData(offset, func(data []byte) {
		if uint64(len(data)) < length {
			return
		}
		out = make([]byte, length)
		copy(out, data[:length])
	})
	return out, ok && out != nil
}

// Size returns the published byte length of the payload stream.
func (f *FlatFile) Size() uint64 {
	return f.inner.Size()
}

// SegmentCount reports how many segments back the payload stream.
func (f *FlatFile) SegmentCount() int {
	return f.inner.SegmentCount()
}

// Close releases the stream.
func (f *FlatFile) Close() error {
	return f.inner.Close()
}
