package storage

import (
	"encoding/binary"
	"os"

	"github.com/iamNilotpal/emberdb/pkg/errors"
	"github.com/tysonmote/gommap"
)

// HeaderSize is the fixed on-disk prefix of every stream file: a little-endian
// logical size followed by one reserved word. The logical size counts the user
// bytes committed after the header; anything in the file beyond it is reserved
// space from the growth policy and is discarded on reopen.
const HeaderSize = 16

// header maintains the prefix of a stream file through its own small mapping,
// so advancing the logical size after an append is a write plus an msync
// rather than a seek-and-write cycle on the file handle.
type header struct {
	mmap     gommap.MMap
	writable bool
	fileName string
}

// newHeader maps the first HeaderSize bytes of the stream file. The caller
// guarantees the file is at least HeaderSize bytes long.
func newHeader(file *os.File, writable bool, fileName string) (*header, error) {
	prot := gommap.PROT_READ
	if writable {
		prot |= gommap.PROT_WRITE
	}

	m, err := gommap.MapRegion(file.Fd(), 0, HeaderSize, prot, gommap.MAP_SHARED)
	if err != nil {
		return nil, errors.NewStorageError(
			err, errors.ErrorCodeMmap, "Failed to map stream header",
		).WithFileName(fileName).WithOp("header_map")
	}

	return &header{mmap: m, writable: writable, fileName: fileName}, nil
}

// logicalSize decodes the number of user bytes committed in the stream.
func (h *header) logicalSize() uint64 {
	return binary.LittleEndian.Uint64(h.mmap[0:8])
}

// setLogicalSize advances the committed byte count. Called only after the
// payload bytes themselves have been flushed, so a torn header never points
// past durable data.
func (h *header) setLogicalSize(size uint64) error {
	binary.LittleEndian.PutUint64(h.mmap[0:8], size)
	if err := h.mmap.Sync(gommap.MS_SYNC); err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeUpdateHeader, "Failed to update stream header",
		).WithFileName(h.fileName).WithDetail("logicalSize", size)
	}
	return nil
}

func (h *header) close() error {
	return h.mmap.UnsafeUnmap()
}
