package driven

import (
	"context"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

// ProgressStore persists crawl output and checkpoints per target.
// Callers must serialise crawls of the same target.
type ProgressStore interface {
	// Load returns the checkpoint for target.
	// A target with no checkpoint yields page 0 and count 0.
	Load(ctx context.Context, target domain.Target) (domain.Checkpoint, error)

	// Flush appends issues and pullRequests to the target's datasets and
	// overwrites its checkpoint. Empty batches only move the checkpoint.
	Flush(ctx context.Context, target domain.Target, issues, pullRequests []domain.IssueRecord, checkpoint domain.Checkpoint) error

	// Close releases resources.
	Close() error
}
