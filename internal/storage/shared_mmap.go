package storage

import (
	"sync/atomic"

	"github.com/tysonmote/gommap"
)

// mapping owns one contiguous memory region shared by every view derived from
// it: either a memory-mapped file region or an anonymous heap buffer. The
// region is unmapped when the last reference is released. Heap buffers have
// nothing to unmap and are reclaimed by the garbage collector once the final
// view disappears.
type mapping struct {
	data []byte      // The full region backing all views.
	mmap gommap.MMap // The raw mapping to release; nil for heap-backed regions.
	refs atomic.Int64
}

func newMapping(data []byte, raw gommap.MMap) *mapping {
	return &mapping{data: data, mmap: raw}
}

func (m *mapping) acquire() {
	m.refs.Add(1)
}

func (m *mapping) release() error {
	if m.refs.Add(-1) > 0 {
		return nil
	}
	if m.mmap != nil {
		return m.mmap.UnsafeUnmap()
	}
	return nil
}

// SharedMmap is a reference-counted, read-only window into a single mapping.
// Narrower windows into the same mapping are produced with Slice; the
// underlying region stays mapped until every window derived from it has been
// released. Concurrent use from multiple goroutines is safe because the
// underlying bytes are immutable once a segment has been frozen.
type SharedMmap struct {
	m      *mapping
	window []byte
}

// newSharedMmap creates the first window over a mapping and takes a reference
// on it.
func newSharedMmap(m *mapping, window []byte) SharedMmap {
	m.acquire()
	return SharedMmap{m: m, window: window}
}

// Len returns the length of this window in bytes.
func (s SharedMmap) Len() uint64 {
	return uint64(len(s.window))
}

// IsEmpty reports whether the window covers zero bytes.
func (s SharedMmap) IsEmpty() bool {
	return len(s.window) == 0
}

// Bytes exposes the window's bytes. The returned slice stays valid for as
// long as this SharedMmap (or any ancestor window) has not been released.
func (s SharedMmap) Bytes() []byte {
	return s.window
}

// Slice returns a narrower window into the same underlying mapping and takes
// an additional reference on it. Out-of-range bounds are clamped; empty
// ranges are valid and produce a zero-length view.
func (s SharedMmap) Slice(start, end uint64) SharedMmap {
	length := uint64(len(s.window))
	if start > length {
		start = length
	}
	if end > length {
		end = length
	}
	if start > end {
		end = start
	}
	return newSharedMmap(s.m, s.window[start:end])
}

// Release drops this window's reference. The mapping is unmapped when the
// last reference across all derived windows is released; using any window's
// bytes after that point is invalid.
func (s SharedMmap) Release() error {
	return s.m.release()
}
