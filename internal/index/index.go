// Package index provides the in-memory key index that can be layered above
// the core record store. The core assigns every record a sequence number;
// this index remembers, for each key, the sequence number of the newest
// record carrying that key, enabling O(1) keyed lookups without any disk
// scan.
package index

import (
	stdErrors "errors"

	"github.com/iamNilotpal/emberdb/pkg/errors"
)

var (
	ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")
)

// New creates and initializes a new Index instance. The returned Index is
// immediately ready for concurrent use.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "Index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:     config.Logger,
		mapping: make(map[string]uint64, 1024),
	}, nil
}

// Put records that the newest version of key lives at the given sequence
// number. Stale updates are ignored, so concurrent writers racing on the same
// key converge on the highest sequence number.
func (idx *Index) Put(key []byte, seqNo uint64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if current, exists := idx.mapping[string(key)]; exists && current > seqNo {
		return
	}
	idx.mapping[string(key)] = seqNo
}

// Get returns the sequence number of the newest record for key.
func (idx *Index) Get(key []byte) (uint64, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seqNo, exists := idx.mapping[string(key)]
	return seqNo, exists
}

// Contains reports whether any record for key has been indexed.
func (idx *Index) Contains(key []byte) bool {
	_, exists := idx.Get(key)
	return exists
}

// Len returns the number of distinct keys in the index.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.mapping)
}

// Close gracefully shuts down the Index, releasing the mapping memory and
// ensuring that the index cannot be used after closure.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	clear(idx.mapping)
	idx.mapping = nil

	idx.log.Infow("Key index closed")
	return nil
}
