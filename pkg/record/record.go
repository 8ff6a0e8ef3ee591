// Package record provides the key/value record shape and the serializers
// that turn records into the opaque byte sequences the core store persists.
// The storage engine itself never inspects record contents; these formats are
// a convenience layer for callers that want keyed access on top of it.
package record

// Record is a key/value pair stored as one opaque database record.
type Record struct {
	key   []byte
	value []byte
}

// New creates a record from a key and a value. The record borrows both
// slices; callers must not mutate them while the record is in use.
func New(key, value []byte) Record {
	return Record{key: key, value: value}
}

// Key returns the record's key bytes.
func (r Record) Key() []byte {
	return r.key
}

// Value returns the record's value bytes.
func (r Record) Value() []byte {
	return r.value
}
