// Package state provides the durable key-value store that survives
// across invocations.
package state

import "time"

// Keys used by the monitor components. Tracker writes KeyLastRequestTime
// once per invocation, after its scan completes. Gate writes
// KeyLastSummaryTime at most once per calendar day, before the analysis
// attempt.
const (
	KeyLastRequestTime = "last_request_time"
	KeyLastSummaryTime = "last_summary_time"
)

// Store is a durable timestamp store. Implementations need not be safe
// for concurrent use: the external scheduler is expected to serialize
// invocations against the same store.
type Store interface {
	// Get returns the stored timestamp for key, and whether it was present.
	Get(key string) (time.Time, bool)

	// Set stores the timestamp for key and persists it immediately.
	Set(key string, t time.Time) error
}
