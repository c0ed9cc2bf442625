package sections

import "time"

// Config holds sections service configuration.
type Config struct {
	MaxSamplePeriod  time.Duration // Adjacency tolerance when merging across chunk boundaries
	SnapshotInterval time.Duration // How often the leader persists accumulators to the cache store
}
