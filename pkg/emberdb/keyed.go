package emberdb

import (
	"github.com/iamNilotpal/emberdb/internal/index"
	"github.com/iamNilotpal/emberdb/pkg/errors"
	"github.com/iamNilotpal/emberdb/pkg/record"
)

// KeyedDatabase layers keyed access over a Database. Records are serialized
// with the provided serializer before they reach the core store, and an
// in-memory key index maps each key to the sequence number of its newest
// record. Writing the same key again shadows the previous record; the old
// bytes stay in the store (the core is strictly append-only) but become
// unreachable through keyed lookups.
type KeyedDatabase struct {
	db         *Database
	serializer record.Serializer
	index      *index.Index
}

// NewKeyed builds keyed access over an open database. The key index is
// rebuilt by scanning every record with the serializer, so the database must
// contain only records written through the same serializer.
func NewKeyed(db *Database, serializer record.Serializer) (*KeyedDatabase, error) {
	idx, err := index.New(&index.Config{Logger: db.log})
	if err != nil {
		return nil, err
	}

	iter, ok := db.IterFromSeqNo(0)
	if ok {
		for seqNo := uint64(0); ; seqNo++ {
			raw, more := iter.Next()
			if !more {
				break
			}
			rec, valid := serializer.Deserialize(raw)
			if !valid {
				return nil, errors.NewIndexRebuildError(seqNo, nil)
			}
			idx.Put(rec.Key(), seqNo)
		}
	}

	db.log.Infow("Key index rebuilt", "keys", idx.Len(), "records", db.Len())

	return &KeyedDatabase{db: db, serializer: serializer, index: idx}, nil
}

// Put serializes the record, appends it to the core store and points the key
// index at the new sequence number.
func (k *KeyedDatabase) Put(r record.Record) error {
	buf := make([]byte, k.serializer.Size(r))
	k.serializer.Serialize(r, buf)

	seqNo, ok, err := k.db.AppendWithSeqNo([][]byte{buf})
	if err != nil {
		return err
	}
	if ok {
		k.index.Put(r.Key(), seqNo)
	}
	return nil
}

// GetByKey returns the newest record stored for key.
func (k *KeyedDatabase) GetByKey(key []byte) (record.Record, error) {
	seqNo, ok := k.index.Get(key)
	if !ok {
		return record.Record{}, errors.NewKeyNotFoundError(key)
	}

	raw, ok := k.db.GetBySeqNo(seqNo)
	if !ok {
		return record.Record{}, errors.NewIndexError(
			nil, errors.ErrorCodeInternal, "indexed record is not readable",
		).WithKey(string(key)).WithOp("Get").WithSeqNo(seqNo)
	}

	rec, valid := k.serializer.Deserialize(raw)
	if !valid {
		return record.Record{}, errors.NewIndexError(
			nil, errors.ErrorCodeInternal, "indexed record failed to deserialize",
		).WithKey(string(key)).WithOp("Get").WithSeqNo(seqNo)
	}

	return rec, nil
}

// Contains reports whether any record for key exists.
func (k *KeyedDatabase) Contains(key []byte) bool {
	return k.index.Contains(key)
}

// Close releases the key index. The underlying database stays open and must
// be closed separately by whoever opened it.
func (k *KeyedDatabase) Close() error {
	return k.index.Close()
}
