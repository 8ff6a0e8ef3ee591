// Package options provides data structures and functions for configuring
// an emberdb database. It defines the parameters that control how the two
// backing streams allocate and grow their memory-mapped segments.
package options

// Defines configurable parameters for segment growth inside a stream.
// Both the flat payload stream and the sequence-number stream share one
// growth policy.
type growthOptions struct {
	// Defines the capacity of the very first file-backed segment in bytes.
	// Larger values reduce early segment rotations at the cost of reserved
	// file space that stays unused until records arrive. In-memory databases
	// ignore this value and size their first segment to the first batch.
	//
	//  - Default: 2KiB
	//  - Minimum: 64B
	//  - Maximum: 1GiB
	InitialCapacity uint64 `json:"initialCapacity"`

	// Defines the multiplier applied to the previous active segment's
	// capacity when a new segment is created. A new segment is always at
	// least as large as the batch that triggered its creation, so a record
	// batch never straddles a segment boundary.
	//
	//  - Default: 2
	//  - Minimum: 2
	//  - Maximum: 16
	Factor uint64 `json:"factor"`
}

// Defines the configuration parameters for an emberdb instance.
type Options struct {
	// Configures segment sizing for both streams.
	Growth *growthOptions `json:"growth"`
}

// OptionFunc is a function type that modifies the database configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.Growth = opts.Growth
	}
}

// Sets the capacity of the first file-backed segment of each stream.
func WithInitialCapacity(capacity uint64) OptionFunc {
	return func(o *Options) {
		if capacity >= MinInitialCapacity && capacity <= MaxInitialCapacity {
			o.Growth.InitialCapacity = capacity
		}
	}
}

// Sets the geometric growth factor applied when a stream rotates to a new segment.
func WithGrowthFactor(factor uint64) OptionFunc {
	return func(o *Options) {
		if factor >= MinGrowthFactor && factor <= MaxGrowthFactor {
			o.Growth.Factor = factor
		}
	}
}
