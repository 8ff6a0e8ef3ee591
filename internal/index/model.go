package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Index is the in-memory map from record keys to the sequence number of the
// latest record written for that key. It is rebuilt at open by scanning the
// record stream and kept current on every keyed write. Keeping only the
// sequence number per key keeps memory overhead minimal: the payload itself
// stays on disk and is fetched through the core store on demand.
type Index struct {
	log     *zap.SugaredLogger // Structured logging capabilities.
	mapping map[string]uint64  // The core mapping from keys to sequence numbers.
	mu      sync.RWMutex       // Protects concurrent access to the mapping.
	closed  atomic.Bool        // Indicates whether the index has been closed.
}

// Config encapsulates the configuration parameters required to initialize an Index.
type Config struct {
	Logger *zap.SugaredLogger
}
