// Package engine provides the core database engine implementation for the
// emberdb record store.
//
// The engine composes the two append-only streams into one database: the flat
// payload stream holding raw record bytes, and the sequence-number stream
// mapping each record ordinal to its byte offset. It owns the single write
// mutex that serializes appends, runs recovery validation when a database is
// opened, and derives every public operation (append, point reads, iteration,
// length) from the two streams' atomically published sizes.
//
// Appends publish the sequence-number entries first and the payload bytes
// second. A reader that observes a fresh entry before its payload has been
// published simply fails the payload-side boundary check and reports the
// record as absent; crucially, the entry for record k also serves as the
// authoritative end offset of record k-1, so a reader can never compute a
// record boundary that overlaps a write in flight.
package engine

import (
	stdErrors "errors"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/emberdb/internal/flatfile"
	"github.com/iamNilotpal/emberdb/internal/seqno"
	"github.com/iamNilotpal/emberdb/pkg/errors"
	"github.com/iamNilotpal/emberdb/pkg/filesys"
	"github.com/iamNilotpal/emberdb/pkg/options"
	"go.uber.org/zap"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
	ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")
)

// Engine represents the database engine coordinating the two streams.
// It is safe for concurrent use: appends are serialized by an internal mutex
// while reads run lock-free against the published stream boundaries.
type Engine struct {
	options  *options.Options   // Configuration parameters for the engine and its streams.
	log      *zap.SugaredLogger // Structured logging throughout the engine.
	closed   atomic.Bool        // Tracks the engine's lifecycle state.
	readonly bool               // Whether the database was opened read-only.

	writeMu sync.Mutex         // Serializes writers; readers never take it.
	flat    *flatfile.FlatFile // Flat payload stream.
	index   *seqno.Index       // Sequence-number stream.
}

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	// Dir is the database directory holding the `data` and `seqno` stream
	// files. An empty Dir selects an anonymous in-memory database.
	Dir string

	// ReadOnly opens an existing directory without write access. Invalid for
	// in-memory databases, which would be permanently empty.
	ReadOnly bool

	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes an Engine: it prepares the database directory,
// opens both streams and runs recovery validation so that a damaged database
// is rejected before any operation can observe it.
func New(config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewConfigurationValidationError("config", "engine configuration is required")
	}
	if config.Dir == "" && config.ReadOnly {
		return nil, errors.NewConfigurationValidationError("readOnly", "read-only mode requires a database directory")
	}

	var dataPath, seqnoPath string
	if config.Dir != "" {
		if err := prepareDirectory(config.Dir, config.ReadOnly); err != nil {
			return nil, err
		}
		dataPath = filepath.Join(config.Dir, options.DataFileName)
		seqnoPath = filepath.Join(config.Dir, options.SeqNoFileName)
	}

	flat, err := flatfile.New(&flatfile.Config{
		Path:     dataPath,
		Writable: !config.ReadOnly,
		Options:  config.Options,
		Logger:   config.Logger,
	})
	if err != nil {
		return nil, err
	}

	index, err := seqno.New(&seqno.Config{
		Path:     seqnoPath,
		Writable: !config.ReadOnly,
		Options:  config.Options,
		Logger:   config.Logger,
	})
	if err != nil {
		flat.Close()
		return nil, err
	}

	engine := &Engine{
		options:  config.Options,
		log:      config.Logger,
		readonly: config.ReadOnly,
		flat:     flat,
		index:    index,
	}

	if err := engine.validate(); err != nil {
		index.Close()
		flat.Close()
		return nil, err
	}

	config.Logger.Infow(
		"Database opened",
		"dir", config.Dir,
		"readOnly", config.ReadOnly,
		"records", engine.Len(),
		"dataBytes", flat.Size(),
	)

	return engine, nil
}

// prepareDirectory enforces the directory predicates of the two open modes:
// read-write mode creates a missing directory, read-only mode refuses it, and
// both reject a path that exists but is not a directory.
func prepareDirectory(dir string, readOnly bool) error {
	exists, err := filesys.Exists(dir)
	if err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeMetadata, "Failed to check database path",
		).WithPath(dir)
	}

	if !exists {
		if readOnly {
			return errors.NewStorageError(
				nil, errors.ErrorCodePathNotFound,
				"Database directory not found, not creating in read-only mode",
			).WithPath(dir)
		}
		if err := filesys.CreateDir(dir, 0755, true); err != nil {
			return errors.ClassifyDirectoryCreationError(err, dir)
		}
		return nil
	}

	isDir, err := filesys.IsDir(dir)
	if err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeMetadata, "Failed to check database path",
		).WithPath(dir)
	}
	if !isDir {
		return errors.NewStorageError(
			nil, errors.ErrorCodePathNotDir,
			"Database path already exists and does not point to a directory",
		).WithPath(dir)
	}

	return nil
}

// validate runs recovery validation: the sequence-number stream must contain
// whole entries only, and the last recorded offset must point strictly inside
// the payload stream. Either violation means the two headers disagree about
// what was committed, which is fatal for the open attempt.
func (e *Engine) validate() error {
	entryBytes := e.index.SizeBytes()
	if entryBytes%seqno.EntryWidth != 0 {
		return errors.NewStorageError(
			nil, errors.ErrorCodeSeqNoIndexDamaged,
			"Sequence-number stream contains a truncated entry",
		).WithFileName(options.SeqNoFileName).WithDetail("streamBytes", entryBytes)
	}

	count := e.index.Size()
	if count == 0 {
		return nil
	}

	last, ok := e.index.Get(count - 1)
	if !ok || last >= e.flat.Size() {
		return errors.NewStorageError(
			nil, errors.ErrorCodeSeqNoIndexDamaged,
			"Sequence-number index points past the payload stream",
		).WithFileName(options.SeqNoFileName).
			WithOffset(last).
			WithDetail("records", count).
			WithDetail("dataBytes", e.flat.Size())
	}

	return nil
}

// Append writes a batch of records and returns the sequence number assigned
// to the first one. An empty batch succeeds without changing any state and
// reports ok=false. This function blocks while another write is in progress.
func (e *Engine) Append(records [][]byte) (base uint64, ok bool, err error) {
	if e.closed.Load() {
		return 0, false, ErrEngineClosed
	}
	if len(records) == 0 {
		return 0, false, nil
	}
	if e.readonly {
		return 0, false, errors.NewStorageError(
			nil, errors.ErrorCodeReadOnly, "Cannot append to a read-only database",
		)
	}

	// Validate the whole batch before touching either stream, so the
	// sequence-number stream never carries entries for a rejected batch.
	for position, record := range records {
		if len(record) == 0 {
			return 0, false, errors.NewEmptyRecordError(position)
		}
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	offsets := make([]uint64, 0, len(records))
	offset := e.flat.Size()
	for _, record := range records {
		offsets = append(offsets, offset)
		offset += uint64(len(record))
	}

	base, ok, err = e.index.Append(offsets)
	if err != nil {
		return 0, false, err
	}

	if err := e.flat.Append(records); err != nil {
		return 0, false, err
	}

	return base, ok, nil
}

// GetBySeqNo returns a copy of the record with the given sequence number, or
// false when no such record is readable. The record's end is the next entry
// in the sequence-number stream, or the payload stream's published size for
// the final record.
func (e *Engine) GetBySeqNo(seqNo uint64) ([]byte, bool) {
	if e.closed.Load() {
		return nil, false
	}

	offset, ok := e.index.Get(seqNo)
	if !ok {
		return nil, false
	}

	next, ok := e.index.Get(seqNo + 1)
	if !ok {
		next = e.flat.Size()
	}

	// An entry whose payload has not been published yet (append in flight,
	// or a crash between the two stream appends) is unreachable until the
	// next successful append reconciles the streams.
	if next <= offset {
		return nil, false
	}

	return e.flat.GetAt(offset, next-offset)
}

// IterFromSeqNo returns an iterator positioned at the given sequence number.
// Iterating past the published end terminates the iterator.
func (e *Engine) IterFromSeqNo(seqNo uint64) *Iterator {
	return &Iterator{engine: e, seqNo: seqNo}
}

// Last returns a copy of the most recently appended record.
func (e *Engine) Last() ([]byte, bool) {
	count := e.Len()
	if count == 0 {
		return nil, false
	}
	return e.GetBySeqNo(count - 1)
}

// Len returns the number of published records.
func (e *Engine) Len() uint64 {
	return e.index.Size()
}

// IsEmpty reports whether the database holds no records.
func (e *Engine) IsEmpty() bool {
	return e.Len() == 0
}

// DataSegmentCount reports how many mmap segments back the payload stream.
func (e *Engine) DataSegmentCount() int {
	return e.flat.SegmentCount()
}

// Close gracefully shuts down the engine and releases both streams. Only the
// first call performs the shutdown; later calls report the engine as closed.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	// Taking the write mutex lets an in-flight append finish before its
	// mappings disappear underneath it.
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	indexErr := e.index.Close()
	flatErr := e.flat.Close()

	e.log.Infow("Database closed")

	if indexErr != nil {
		return indexErr
	}
	return flatErr
}
