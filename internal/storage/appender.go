package storage

import "sync/atomic"

// Appender wraps a GrowableMmap with an atomically published size boundary.
// The atomic is what makes lock-free reads safe: it is stored only after a
// write has fully finished and flushed, so any reader observing a given size
// is guaranteed to see every byte below it. Readers never look past the
// boundary, which keeps the writable tail of the active segment invisible.
type Appender struct {
	mmap      *GrowableMmap
	validSize atomic.Uint64
}

// NewAppender builds an appender over an opened stream. The boundary starts
// at the recovered logical size.
func NewAppender(mmap *GrowableMmap) *Appender {
	a := &Appender{mmap: mmap}
	a.validSize.Store(mmap.MemorySize())
	return a
}

// Append reserves n bytes at the stream tail, lets write fill them and then
// publishes the new boundary. Appender itself takes no lock; the database
// serializes writers above this level. A write that fails leaves the boundary
// untouched, so partial bytes remain invisible forever.
func (a *Appender) Append(n uint64, write func([]byte) error) error {
	if n == 0 {
		return nil
	}

	size := a.validSize.Load()

	if err := a.mmap.GrowAndApply(n, write); err != nil {
		return err
	}

	a.validSize.Store(size + n)
	return nil
}

// GetData hands read the published bytes from offset up to the next segment
// boundary. Reads never cross segments: callers either know their record is
// wholly contained in one segment or must handle the shorter slice. Returns
// false when offset lies at or past the published size.
func (a *Appender) GetData(offset uint64, read func([]byte)) bool {
	valid := a.validSize.Load()
	if offset >= valid {
		return false
	}
	return a.mmap.GetAndApply(offset, valid, read)
}

// Size returns the published size boundary of the stream.
func (a *Appender) Size() uint64 {
	return a.validSize.Load()
}

// SegmentCount reports how many segments back the stream.
func (a *Appender) SegmentCount() int {
	return a.mmap.SegmentCount()
}

// Close releases the underlying stream.
func (a *Appender) Close() error {
	return a.mmap.Close()
}
