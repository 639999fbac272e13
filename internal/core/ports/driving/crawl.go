package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

// Crawler drives a resumable crawl of one repository.
type Crawler interface {
	// Run crawls target until budget records have been processed or the
	// source is exhausted. It resumes from the stored checkpoint.
	Run(ctx context.Context, target domain.Target, budget int, state domain.StateFilter) (*CrawlResult, error)

	// Status returns the stored progress for target.
	Status(ctx context.Context, target domain.Target) (*CrawlStatus, error)
}

// CrawlResult summarises one Run.
type CrawlResult struct {
	// Target is the crawled repository.
	Target domain.Target

	// RunID identifies this run in written checkpoints.
	RunID string

	// StartPage and EndPage are the checkpoint pages before and after the run.
	StartPage int
	EndPage   int

	// Processed is the cumulative record count after the run.
	Processed int

	// Issues and PullRequests count records written by this run.
	Issues       int
	PullRequests int

	// Flushes counts durable writes, including empty recovery flushes.
	Flushes int

	// Recoveries counts quota recoveries (rotations and sleeps).
	Recoveries int

	// Exhausted is true when the run ended on an empty page.
	Exhausted bool

	// Duration is the wall time of the run.
	Duration time.Duration
}

// CrawlStatus reports the stored checkpoint of a target.
type CrawlStatus struct {
	Target    domain.Target
	Page      int
	Count     int
	Exact     bool
	RunID     string
	UpdatedAt time.Time
}
