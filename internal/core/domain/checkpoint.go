package domain

import "time"

// Checkpoint is the durable progress marker for a target.
type Checkpoint struct {
	// Target is the repository this checkpoint describes.
	Target Target

	// Page is the next zero-based page index to fetch.
	Page int

	// Count is the number of records processed so far.
	Count int

	// Exact is true when Count was persisted rather than derived.
	Exact bool

	// RunID identifies the crawl run that wrote this checkpoint.
	RunID string

	// UpdatedAt is when the checkpoint was last written.
	UpdatedAt time.Time
}

// IsZero reports whether no progress has been recorded.
func (c Checkpoint) IsZero() bool {
	return c.Page == 0 && c.Count == 0
}

// ResolvedCount returns Count when exact, otherwise page * pageSize.
func (c Checkpoint) ResolvedCount(pageSize int) int {
	if c.Exact {
		return c.Count
	}
	return c.Page * pageSize
}
