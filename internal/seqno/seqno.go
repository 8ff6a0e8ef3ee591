// Package seqno implements the dense index from a record's sequence number
// to its byte offset in the payload stream. The index is itself an
// append-only stream of fixed 8-byte little-endian entries, so entry k of the
// index is simply the 8 bytes at offset 8k and the record count is the stream
// size divided by the entry width.
package seqno

import (
	"encoding/binary"

	"github.com/iamNilotpal/emberdb/internal/storage"
	"github.com/iamNilotpal/emberdb/pkg/errors"
	"github.com/iamNilotpal/emberdb/pkg/options"
	"go.uber.org/zap"
)

// EntryWidth is the on-disk size of one index entry.
const EntryWidth = 8

// Index maps sequence numbers to payload offsets.
type Index struct {
	inner *storage.Appender
}

// Config encapsulates the parameters for opening the sequence-number stream.
type Config struct {
	Path     string // Empty for anonymous in-memory storage.
	Writable bool
	Options  *options.Options
	Logger   *zap.SugaredLogger
}

// New opens the sequence-number stream. Inconsistencies between the stream
// header and the physical file surface as SeqNoIndexDamaged.
func New(config *Config) (*Index, error) {
	mmap, err := storage.NewGrowableMmap(&storage.Config{
		Path:        config.Path,
		FileName:    options.SeqNoFileName,
		Writable:    config.Writable,
		DamagedCode: errors.ErrorCodeSeqNoIndexDamaged,
		Options:     config.Options,
		Logger:      config.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Index{inner: storage.NewAppender(mmap)}, nil
}

// Append writes one entry per offset and returns the sequence number
// assigned to the first new entry. Returns ok=false for an empty batch.
func (i *Index) Append(offsets []uint64) (base uint64, ok bool, err error) {
	if len(offsets) == 0 {
		return 0, false, nil
	}

	base = i.inner.Size() / EntryWidth

	err = i.inner.Append(uint64(len(offsets)*EntryWidth), func(buf []byte) error {
		for _, offset := range offsets {
			binary.LittleEndian.PutUint64(buf[:EntryWidth], offset)
			buf = buf[EntryWidth:]
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	return base, true, nil
}

// Get returns the payload offset of record seqNo, or false when no such
// entry has been published yet.
func (i *Index) Get(seqNo uint64) (uint64, bool) {
	var value uint64
	var complete bool

	ok := i.inner.GetData(seqNo*EntryWidth, func(data []byte) {
		// An entry never straddles a segment boundary because batches are
		// written as one reservation, but the published size could in theory
		// cut an entry short mid-crash; treat that as absent.
		if len(data) < EntryWidth {
			return
		}
		value = binary.LittleEndian.Uint64(data[:EntryWidth])
		complete = true
	})

	return value, ok && complete
}

// Size returns the number of published index entries.
func (i *Index) Size() uint64 {
	return i.inner.Size() / EntryWidth
}

// SizeBytes returns the published byte length of the stream, entry-aligned
// or not. Recovery validation uses it to detect truncated entries.
func (i *Index) SizeBytes() uint64 {
	return i.inner.Size()
}

// SegmentCount reports how many segments back the index stream.
func (i *Index) SegmentCount() int {
	return i.inner.SegmentCount()
}

// Close releases the stream.
func (i *Index) Close() error {
	return i.inner.Close()
}
