// Package emberdb provides an append-only record store backed by growable
// memory maps. Records are opaque byte sequences identified by a
// monotonically increasing sequence number; once appended they are immutable
// for the life of the database. The store supports unbounded concurrent
// random reads against ongoing appends without blocking readers: writers are
// serialized by a mutex while readers navigate atomically published size
// boundaries.
//
// A database is either file-backed (a directory holding the `data` payload
// stream and the `seqno` index stream) or purely in-memory. File-backed
// databases validate their streams against each other on open and refuse to
// open when the sequence-number index disagrees with the payload stream.
package emberdb

import (
	"context"

	"github.com/iamNilotpal/emberdb/internal/engine"
	"github.com/iamNilotpal/emberdb/pkg/logger"
	"github.com/iamNilotpal/emberdb/pkg/options"
	"go.uber.org/zap"
)

// Database is an append-only record store. It is the primary entry point for
// interacting with emberdb and is safe for concurrent use: any number of
// goroutines may read while one append is in progress.
type Database struct {
	engine  *engine.Engine     // The underlying engine handling stream operations.
	options *options.Options   // Configuration options applied to this instance.
	log     *zap.SugaredLogger // Structured logger tagged with the service name.
}

// OpenFile opens a read-write database at the given directory, creating the
// directory and its stream files if they do not exist yet.
func OpenFile(ctx context.Context, service, path string, opts ...options.OptionFunc) (*Database, error) {
	return open(ctx, service, path, false, opts)
}

// OpenFileReadOnly opens an existing database directory without write
// access. It returns an error when the directory does not exist.
func OpenFileReadOnly(ctx context.Context, service, path string, opts ...options.OptionFunc) (*Database, error) {
	return open(ctx, service, path, true, opts)
}

// OpenMemory opens an anonymous in-memory database with no durability.
func OpenMemory(ctx context.Context, service string, opts ...options.OptionFunc) (*Database, error) {
	return open(ctx, service, "", false, opts)
}

// open is the single constructor all three modes converge on. It builds the
// logger, applies functional options over the defaults and hands the engine
// its configuration.
func open(_ context.Context, service, path string, readOnly bool, opts []options.OptionFunc) (*Database, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	eng, err := engine.New(&engine.Config{
		Dir:      path,
		ReadOnly: readOnly,
		Options:  &defaultOpts,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	return &Database{engine: eng, options: &defaultOpts, log: log}, nil
}

// Append writes a batch of records atomically with respect to readers: a
// concurrent reader sees either none or all of the batch. Appending an empty
// batch succeeds and changes no state. This function blocks while another
// write is still in progress.
func (db *Database) Append(records [][]byte) error {
	_, _, err := db.engine.Append(records)
	return err
}

// AppendWithSeqNo appends a batch and returns the sequence number assigned
// to the first record. ok is false for an empty batch.
func (db *Database) AppendWithSeqNo(records [][]byte) (base uint64, ok bool, err error) {
	return db.engine.Append(records)
}

// Put appends a single record. Batched appends amortize flush costs much
// better; prefer Append for anything throughput-sensitive.
func (db *Database) Put(record []byte) error {
	_, _, err := db.engine.Append([][]byte{record})
	return err
}

// GetBySeqNo returns a copy of the record with the given sequence number,
// or false when no such record exists.
func (db *Database) GetBySeqNo(seqNo uint64) ([]byte, bool) {
	return db.engine.GetBySeqNo(seqNo)
}

// IterFromSeqNo returns an iterator over records in append order, starting
// at the given sequence number. Starting exactly at Len() yields an iterator
// that terminates immediately; starting past it reports false.
func (db *Database) IterFromSeqNo(seqNo uint64) (*Iterator, bool) {
	if seqNo > db.Len() {
		return nil, false
	}
	return &Iterator{inner: db.engine.IterFromSeqNo(seqNo)}, true
}

// Last returns a copy of the most recently appended record.
func (db *Database) Last() ([]byte, bool) {
	return db.engine.Last()
}

// Len returns the number of records in the database.
func (db *Database) Len() uint64 {
	return db.engine.Len()
}

// IsEmpty reports whether the database holds no records.
func (db *Database) IsEmpty() bool {
	return db.engine.IsEmpty()
}

// Close releases every mapping and file handle owned by the database.
// Outstanding reads must have completed before Close is called.
func (db *Database) Close() error {
	return db.engine.Close()
}

// Iterator walks records forward in append order. It is lazy and
// non-restartable; records appended while iterating become visible to the
// same iterator.
type Iterator struct {
	inner *engine.Iterator
}

// Next returns a copy of the next record, or false when the iterator has
// reached the published end of the database.
func (it *Iterator) Next() ([]byte, bool) {
	return it.inner.Next()
}
