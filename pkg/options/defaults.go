package options

const (
	// Specifies the file name of the flat payload stream inside a database directory.
	DataFileName = "data"

	// Specifies the file name of the sequence-number stream inside a database directory.
	SeqNoFileName = "seqno"

	// Specifies the default capacity of the first file-backed segment (2KiB).
	// Subsequent segments grow geometrically from this bootstrap size.
	DefaultInitialCapacity uint64 = 2 * 1024

	// Represents the minimum allowed bootstrap capacity in bytes.
	MinInitialCapacity uint64 = 64

	// Represents the maximum allowed bootstrap capacity in bytes (1GiB).
	MaxInitialCapacity uint64 = 1 * 1024 * 1024 * 1024

	// Specifies the default geometric growth factor for new segments.
	DefaultGrowthFactor uint64 = 2

	// Represents the minimum allowed growth factor.
	MinGrowthFactor uint64 = 2

	// Represents the maximum allowed growth factor.
	MaxGrowthFactor uint64 = 16
)

// NewDefaultOptions returns a fresh copy of the default configuration.
// Each call allocates its own growth settings so that applying options to
// one database never leaks into another.
func NewDefaultOptions() Options {
	return Options{
		Growth: &growthOptions{
			InitialCapacity: DefaultInitialCapacity,
			Factor:          DefaultGrowthFactor,
		},
	}
}
