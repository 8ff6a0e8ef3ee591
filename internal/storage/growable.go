// Package storage provides the memory-mapped stream layer of emberdb: a
// growable byte array backed by a chain of read-only segments plus one
// writable tail segment.
//
// The core concurrency discipline lives here. Frozen segments are immutable
// and page-protected; only the tail of the active segment is ever written,
// and never in a region a reader could observe. Structural changes publish
// copy-on-write snapshots through an atomic pointer, and the Appender wraps
// the whole thing with an atomically published size boundary. Together these
// give writers exclusive, serialized access while readers stay lock-free.
//
// File-backed streams carry a fixed header holding the committed logical
// size. A segment's bytes are flushed before the header advances, so on
// reopen any file tail beyond the header's logical size is either reserved
// space from the growth policy or a torn write, and is discarded either way.
package storage

import (
	stdErrors "errors"
	"os"

	"github.com/iamNilotpal/emberdb/pkg/errors"
	"github.com/tysonmote/gommap"
)

var (
	ErrStorageClosed = stdErrors.New("operation failed: cannot access closed storage")
)

// NewGrowableMmap opens one stream according to the configuration, recovering
// the committed region of an existing file as a single frozen segment.
func NewGrowableMmap(config *Config) (*GrowableMmap, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewConfigurationValidationError("config", "storage configuration is required")
	}

	m := &GrowableMmap{
		writable:    config.Writable,
		fileName:    config.FileName,
		damagedCode: config.DamagedCode,
		opts:        config.Options,
		log:         config.Logger,
	}
	m.snap.Store(&segmentSnapshot{index: NewSegmentIndex()})

	// Anonymous in-memory storage needs no recovery; segments are allocated
	// on first append.
	if config.Path == "" {
		return m, nil
	}

	flags := os.O_RDONLY
	if config.Writable {
		flags = os.O_RDWR | os.O_CREATE
	}

	file, err := os.OpenFile(config.Path, flags, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, config.Path, config.FileName)
	}
	m.file = file

	if err := m.recover(); err != nil {
		file.Close()
		return nil, err
	}

	return m, nil
}

// recover brings a file-backed stream to a consistent state: it materializes
// the header, validates the committed region against the physical file length
// and maps that region as one frozen segment. Reserved tail bytes beyond the
// committed size are ignored; the next segment creation truncates them away.
func (m *GrowableMmap) recover() error {
	stat, err := m.file.Stat()
	if err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeMetadata, "Failed to get stream file metadata",
		).WithFileName(m.fileName).WithPath(m.file.Name())
	}

	size := uint64(stat.Size())

	if size < HeaderSize {
		if !m.writable {
			return errors.NewStorageError(
				nil, errors.ErrorCodeReadHeader, "Stream file has no header",
			).WithFileName(m.fileName).WithPath(m.file.Name()).WithDetail("fileSize", size)
		}
		// A fresh (or never-written) stream: reserve room for the header. The
		// new bytes read as zero, which decodes as an empty stream.
		if err := m.file.Truncate(HeaderSize); err != nil {
			return errors.ClassifyExtendError(err, m.fileName, HeaderSize)
		}
	}

	hdr, err := newHeader(m.file, m.writable, m.fileName)
	if err != nil {
		return err
	}
	m.hdr = hdr

	logical := hdr.logicalSize()
	if logical == 0 {
		return nil
	}

	if size < HeaderSize+logical {
		return errors.NewStorageError(
			nil, m.damagedCode, "Stream file is shorter than its header claims",
		).WithFileName(m.fileName).
			WithPath(m.file.Name()).
			WithDetail("logicalSize", logical).
			WithDetail("fileSize", size)
	}

	// Map the whole committed region read-only as the first frozen segment.
	raw, err := gommap.MapRegion(
		m.file.Fd(), 0, int64(HeaderSize+logical), gommap.PROT_READ, gommap.MAP_SHARED,
	)
	if err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeMmap, "Failed to map committed stream region",
		).WithFileName(m.fileName).WithDetail("length", HeaderSize+logical)
	}

	window := raw[HeaderSize : HeaderSize+logical]
	shared := newSharedMmap(newMapping(raw, raw), window)

	index := NewSegmentIndex()
	index.Append(logical)
	m.snap.Store(&segmentSnapshot{
		index:       index,
		frozen:      []SharedMmap{shared},
		activeStart: logical,
	})

	m.log.Infow(
		"Recovered stream",
		"stream", m.fileName,
		"logicalSize", logical,
		"fileSize", size,
		"reservedTail", size-HeaderSize-logical,
	)

	return nil
}

// MemorySize returns the total logical bytes currently addressable. Writer
// side only: readers learn the published size from the Appender's atomic.
func (m *GrowableMmap) MemorySize() uint64 {
	return m.snap.Load().activeStart + m.written
}

// SegmentCount returns how many segments currently back the stream, the
// active one included.
func (m *GrowableMmap) SegmentCount() int {
	s := m.snap.Load()
	count := s.index.Count()
	if s.active != nil {
		count++
	}
	return count
}

// GrowAndApply ensures space for n additional bytes and invokes write with a
// mutable slice of exactly n bytes at the current logical tail. The bytes are
// flushed and the header advanced before the call returns; publication to
// readers remains the Appender's job.
func (m *GrowableMmap) GrowAndApply(n uint64, write func([]byte) error) error {
	if m.closed.Load() {
		return ErrStorageClosed
	}
	if !m.writable {
		return errors.NewStorageError(
			nil, errors.ErrorCodeReadOnly, "Stream is opened read-only",
		).WithFileName(m.fileName)
	}
	if n == 0 {
		return nil
	}

	s := m.snap.Load()
	if s.active == nil {
		if err := m.rotate(n); err != nil {
			return err
		}
	} else if m.activeCap-m.written < n {
		if err := m.freeze(); err != nil {
			return err
		}
		if err := m.rotate(n); err != nil {
			return err
		}
	}

	s = m.snap.Load()
	if err := write(s.active[m.written : m.written+n]); err != nil {
		// The reservation is not advanced, so the partial bytes stay
		// invisible and the region is reused by the next append.
		return err
	}

	if m.activeMap != nil {
		if err := m.activeMap.Sync(gommap.MS_SYNC); err != nil {
			return errors.ClassifyFlushError(err, m.fileName, s.activeStart+m.written)
		}
	}

	m.written += n

	if m.hdr != nil {
		if err := m.hdr.setLogicalSize(s.activeStart + m.written); err != nil {
			return err
		}
	}

	return nil
}

// GetAndApply locates the segment containing address and invokes read with
// the bytes from address up to the nearer of the segment end and limit. The
// limit is the caller's published size boundary; bytes past it are invisible
// even when the snapshot already covers them. Returns false when the address
// is not readable.
func (m *GrowableMmap) GetAndApply(address, limit uint64, read func([]byte)) bool {
	if m.closed.Load() {
		return false
	}
	if address >= limit {
		return false
	}

	s := m.snap.Load()

	if desc, ok := s.index.Find(address); ok {
		window := s.frozen[desc.Number].Bytes()
		end := desc.Offset + desc.Remaining
		if remaining := limit - address; remaining < desc.Remaining {
			end = desc.Offset + remaining
		}
		read(window[desc.Offset:end])
		return true
	}

	if s.active != nil && address >= s.activeStart && limit <= s.activeStart+uint64(len(s.active)) {
		read(s.active[address-s.activeStart : limit-s.activeStart])
		return true
	}

	return false
}

// rotate creates a new active segment large enough for n bytes. The first
// file-backed segment starts at the bootstrap capacity; later segments grow
// geometrically from the previous capacity. In-memory streams allocate
// exactly what the first batch needs.
func (m *GrowableMmap) rotate(n uint64) error {
	capacity := n
	if m.activeCap > 0 {
		if grown := m.activeCap * m.opts.Growth.Factor; grown > capacity {
			capacity = grown
		}
	} else if m.file != nil && m.opts.Growth.InitialCapacity > capacity {
		capacity = m.opts.Growth.InitialCapacity
	}

	s := m.snap.Load()
	logicalBase := s.index.MemorySize()

	var view []byte
	var raw gommap.MMap

	if m.file == nil {
		view = make([]byte, capacity)
	} else {
		fileOffset := HeaderSize + logicalBase

		// The new segment begins right after the committed region; truncating
		// to its end discards any reserved tail left by a previous run.
		if err := m.file.Truncate(int64(fileOffset + capacity)); err != nil {
			return errors.ClassifyExtendError(err, m.fileName, fileOffset+capacity)
		}

		// mmap offsets must be page-aligned, while segments start at arbitrary
		// stream positions. Map from the previous page boundary and slice off
		// the delta.
		page := uint64(os.Getpagesize())
		aligned := fileOffset &^ (page - 1)
		delta := fileOffset - aligned

		mapped, err := gommap.MapRegion(
			m.file.Fd(), int64(aligned), int64(delta+capacity),
			gommap.PROT_READ|gommap.PROT_WRITE, gommap.MAP_SHARED,
		)
		if err != nil {
			return errors.NewStorageError(
				err, errors.ErrorCodeMmap, "Failed to map new active segment",
			).WithFileName(m.fileName).
				WithSegment(s.index.Count()).
				WithDetail("fileOffset", fileOffset).
				WithDetail("capacity", capacity)
		}

		raw = mapped
		view = mapped[delta:]

		m.log.Infow(
			"Created active segment",
			"stream", m.fileName,
			"segment", s.index.Count(),
			"capacity", capacity,
			"fileOffset", fileOffset,
		)
	}

	m.snap.Store(&segmentSnapshot{
		index:       s.index,
		frozen:      s.frozen,
		active:      view,
		activeStart: logicalBase,
	})
	m.activeMap = raw
	m.activeCap = capacity
	m.written = 0

	return nil
}

// freeze retires the active segment: the written prefix becomes a read-only,
// reference-counted segment registered in the index. Empty active segments
// are simply dropped.
func (m *GrowableMmap) freeze() error {
	s := m.snap.Load()
	if s.active == nil {
		return nil
	}

	if m.written == 0 {
		if m.activeMap != nil {
			if err := m.activeMap.UnsafeUnmap(); err != nil {
				return errors.NewStorageError(
					err, errors.ErrorCodeMmap, "Failed to unmap empty active segment",
				).WithFileName(m.fileName)
			}
		}
		m.snap.Store(&segmentSnapshot{
			index:       s.index,
			frozen:      s.frozen,
			activeStart: s.index.MemorySize(),
		})
		m.activeMap = nil
		return nil
	}

	if m.activeMap != nil {
		if err := m.activeMap.Protect(gommap.PROT_READ); err != nil {
			return errors.NewStorageError(
				err, errors.ErrorCodeProtect, "Failed to make frozen segment read-only",
			).WithFileName(m.fileName).WithSegment(s.index.Count())
		}
	}

	shared := newSharedMmap(newMapping(s.active, m.activeMap), s.active[:m.written])

	index := s.index.Clone()
	index.Append(s.activeStart + m.written)

	frozen := make([]SharedMmap, len(s.frozen), len(s.frozen)+1)
	copy(frozen, s.frozen)
	frozen = append(frozen, shared)

	m.snap.Store(&segmentSnapshot{
		index:       index,
		frozen:      frozen,
		activeStart: index.MemorySize(),
	})
	m.activeMap = nil
	m.written = 0

	m.log.Infow(
		"Froze segment",
		"stream", m.fileName,
		"segment", index.Count()-1,
		"logicalEnd", index.MemorySize(),
	)

	return nil
}

// Close releases every mapping owned by the stream and closes the backing
// file. Outstanding reads must have completed; frozen segments stay mapped
// until their last reference is gone.
func (m *GrowableMmap) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return ErrStorageClosed
	}

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if m.activeMap != nil {
		record(m.activeMap.UnsafeUnmap())
		m.activeMap = nil
	}

	s := m.snap.Load()
	for _, segment := range s.frozen {
		record(segment.Release())
	}

	if m.hdr != nil {
		record(m.hdr.close())
		m.hdr = nil
	}

	if m.file != nil {
		record(m.file.Close())
		m.file = nil
	}

	return firstErr
}
