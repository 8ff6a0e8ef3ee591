package record

import "encoding/binary"

const lengthWidth = 8

// Serializer describes one way to lay a record out on disk.
type Serializer interface {
	// Serialize writes the record into the provided slice. The slice must
	// have at least Size(r) bytes of space.
	Serialize(r Record, w []byte)

	// Deserialize parses a record from the slice. Returns false when the
	// bytes do not form a complete record.
	Deserialize(b []byte) (Record, bool)

	// Size reports the number of bytes the record occupies on the drive.
	Size(r Record) int
}

// BasicSerializer lays a record out as:
//
//   - key length - 8 bytes
//   - value length - 8 bytes
//   - key bytes
//   - value bytes
//
// Length values are little-endian. They sit next to each other to make use
// of CPU caches.
type BasicSerializer struct{}

func (BasicSerializer) Serialize(r Record, w []byte) {
	binary.LittleEndian.PutUint64(w[0:lengthWidth], uint64(len(r.key)))
	binary.LittleEndian.PutUint64(w[lengthWidth:2*lengthWidth], uint64(len(r.value)))
	n := copy(w[2*lengthWidth:], r.key)
	copy(w[2*lengthWidth+n:], r.value)
}

func (BasicSerializer) Deserialize(b []byte) (Record, bool) {
	if len(b) < 2*lengthWidth {
		return Record{}, false
	}

	keyLength := binary.LittleEndian.Uint64(b[0:lengthWidth])
	valueLength := binary.LittleEndian.Uint64(b[lengthWidth : 2*lengthWidth])
	rest := b[2*lengthWidth:]

	if uint64(len(rest)) < keyLength+valueLength {
		return Record{}, false
	}

	return Record{
		key:   rest[:keyLength],
		value: rest[keyLength : keyLength+valueLength],
	}, true
}

func (BasicSerializer) Size(r Record) int {
	return len(r.key) + len(r.value) + 2*lengthWidth
}

// ConstKeyLenSerializer lays a record with a fixed-size key out as:
//
//   - value length - 8 bytes
//   - key bytes (length agreed in advance)
//   - value bytes
type ConstKeyLenSerializer struct {
	keyLength int
}

// NewConstKeyLenSerializer creates a serializer for keys of exactly keyLength bytes.
func NewConstKeyLenSerializer(keyLength int) ConstKeyLenSerializer {
	return ConstKeyLenSerializer{keyLength: keyLength}
}

func (s ConstKeyLenSerializer) Serialize(r Record, w []byte) {
	if len(r.key) != s.keyLength {
		panic("record: key length does not match serializer")
	}
	binary.LittleEndian.PutUint64(w[0:lengthWidth], uint64(len(r.value)))
	n := copy(w[lengthWidth:], r.key)
	copy(w[lengthWidth+n:], r.value)
}

func (s ConstKeyLenSerializer) Deserialize(b []byte) (Record, bool) {
	if len(b) < lengthWidth+s.keyLength {
		return Record{}, false
	}

	valueLength := binary.LittleEndian.Uint64(b[0:lengthWidth])
	rest := b[lengthWidth:]

	key := rest[:s.keyLength]
	rest = rest[s.keyLength:]

	if uint64(len(rest)) < valueLength {
		return Record{}, false
	}

	return Record{key: key, value: rest[:valueLength]}, true
}

func (s ConstKeyLenSerializer) Size(r Record) int {
	return s.keyLength + len(r.value) + lengthWidth
}
