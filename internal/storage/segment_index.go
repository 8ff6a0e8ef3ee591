package storage

import "sort"

// SegmentIndex maps a logical stream address to the segment that covers it.
// It stores the cumulative end offsets of the segments in creation order, so
// a lookup is a binary search over a sorted slice. A freshly created index is
// empty and reports a memory size of zero.
type SegmentIndex struct {
	bounds []uint64
}

// SegmentDescriptor identifies where inside the segment chain a logical
// address lives.
type SegmentDescriptor struct {
	Number    int    // Position of the segment in creation order.
	Offset    uint64 // Offset of the address within the segment.
	Remaining uint64 // Bytes from the address to the end of the segment.
}

// NewSegmentIndex creates an empty index.
func NewSegmentIndex() *SegmentIndex {
	return &SegmentIndex{}
}

// Append registers the cumulative end offset of a newly frozen segment.
// The end must be strictly greater than the previous end; segments cannot
// be empty.
func (si *SegmentIndex) Append(end uint64) {
	if end <= si.MemorySize() {
		panic("storage: segment end must grow strictly")
	}
	si.bounds = append(si.bounds, end)
}

// Find locates the segment containing the given logical address. It returns
// false when the address lies at or beyond the total indexed length.
func (si *SegmentIndex) Find(address uint64) (SegmentDescriptor, bool) {
	position := sort.Search(len(si.bounds), func(i int) bool {
		return address < si.bounds[i]
	})
	if position == len(si.bounds) {
		return SegmentDescriptor{}, false
	}

	var start uint64
	if position > 0 {
		start = si.bounds[position-1]
	}

	return SegmentDescriptor{
		Number:    position,
		Offset:    address - start,
		Remaining: si.bounds[position] - address,
	}, true
}

// MemorySize returns the total logical length covered by the index.
func (si *SegmentIndex) MemorySize() uint64 {
	if len(si.bounds) == 0 {
		return 0
	}
	return si.bounds[len(si.bounds)-1]
}

// Count returns the number of indexed segments.
func (si *SegmentIndex) Count() int {
	return len(si.bounds)
}

// Clone returns an independent copy. The growable mapping publishes immutable
// index snapshots to readers, so every mutation happens on a fresh copy.
func (si *SegmentIndex) Clone() *SegmentIndex {
	bounds := make([]uint64, len(si.bounds))
	copy(bounds, si.bounds)
	return &SegmentIndex{bounds: bounds}
}
