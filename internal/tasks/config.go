package tasks

import "time"

// Config tunes the shared worker pool behind the catalog's queues. Retry
// and timeout policy is not here: each task type carries its own in its
// backlite.QueueConfig (see ImportCatalogTask, CleanupAuditEventsTask).
type Config struct {
	// Workers is the number of concurrent task workers. Two covers the
	// catalog's workload: one long-running CSV import alongside the
	// audit retention cleanup.
	Workers int

	// ReleaseAfter is when a claimed but unfinished task, such as an
	// import interrupted by a crash, is handed back to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed task rows are purged from
	// the queue database.
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}
