package storage

import (
	"os"
	"sync/atomic"

	"github.com/iamNilotpal/emberdb/pkg/errors"
	"github.com/iamNilotpal/emberdb/pkg/options"
	"github.com/tysonmote/gommap"
	"go.uber.org/zap"
)

// segmentSnapshot is the immutable view of a stream that readers navigate.
// The writer never mutates a published snapshot; every structural change
// (freezing a segment, creating a new active one) builds a new snapshot and
// publishes it atomically. Readers therefore walk a consistent segment chain
// without taking any lock.
type segmentSnapshot struct {
	index       *SegmentIndex // Cumulative logical ends of the frozen segments.
	frozen      []SharedMmap  // One read-only window per frozen segment.
	active      []byte        // Writable view of the active segment, full capacity; nil if none.
	activeStart uint64        // Logical address where the active segment begins.
}

// GrowableMmap backs one logical byte stream with an optional file, a chain
// of frozen read-only segments and at most one active writable segment.
// Reader-visible state lives in the published snapshot; the remaining fields
// are writer-side bookkeeping mutated only under the database write lock.
type GrowableMmap struct {
	file *os.File // Backing file; nil for anonymous in-memory storage.
	hdr  *header  // Mapped stream header; nil for in-memory storage.

	snap atomic.Pointer[segmentSnapshot]

	activeMap gommap.MMap // Raw mapping of the active segment; nil in memory mode.
	activeCap uint64      // Capacity of the most recent active segment.
	written   uint64      // Bytes committed into the active segment so far.

	writable bool
	closed   atomic.Bool

	fileName    string
	damagedCode errors.ErrorCode
	opts        *options.Options
	log         *zap.SugaredLogger
}

// Config encapsulates the parameters required to open one stream.
type Config struct {
	// Path of the stream file. An empty path selects anonymous in-memory
	// storage with no durability.
	Path string

	// FileName is the short stream name ("data", "seqno") used in logs and
	// error context.
	FileName string

	// Writable selects read-write or read-only mode for file-backed streams.
	Writable bool

	// DamagedCode is the error code reported when the stream header and the
	// file length disagree at open. The payload stream and the
	// sequence-number stream surface different codes for the same defect.
	DamagedCode errors.ErrorCode

	Options *options.Options
	Logger  *zap.SugaredLogger
}
