package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
)

// Ensure ProgressStore implements the interface.
var _ driven.ProgressStore = (*ProgressStore)(nil)

// ProgressStore keeps datasets and checkpoints in maps keyed by target.
type ProgressStore struct {
	mu           sync.RWMutex
	checkpoints  map[domain.Target]domain.Checkpoint
	issues       map[domain.Target][]domain.IssueRecord
	pullRequests map[domain.Target][]domain.IssueRecord
	flushes      int
}

// NewProgressStore creates an empty in-memory progress store.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		checkpoints:  make(map[domain.Target]domain.Checkpoint),
		issues:       make(map[domain.Target][]domain.IssueRecord),
		pullRequests: make(map[domain.Target][]domain.IssueRecord),
	}
}

// Load returns the stored checkpoint, or page 0 for an unknown target.
func (s *ProgressStore) Load(_ context.Context, target domain.Target) (domain.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp, ok := s.checkpoints[target]
	if !ok {
		return domain.Checkpoint{Target: target, Exact: true}, nil
	}
	return cp, nil
}

// Flush appends the rows and replaces the checkpoint.
func (s *ProgressStore) Flush(ctx context.Context, target domain.Target, issues, pullRequests []domain.IssueRecord, cp domain.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.issues[target] = append(s.issues[target], issues...)
	s.pullRequests[target] = append(s.pullRequests[target], pullRequests...)

	cp.Target = target
	cp.Exact = true
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now()
	}
	s.checkpoints[target] = cp
	s.flushes++

	return nil
}

// Issues returns a copy of the stored issues for target.
func (s *ProgressStore) Issues(target domain.Target) []domain.IssueRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.IssueRecord(nil), s.issues[target]...)
}

// PullRequests returns a copy of the stored pull requests for target.
func (s *ProgressStore) PullRequests(target domain.Target) []domain.IssueRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.IssueRecord(nil), s.pullRequests[target]...)
}

// Flushes returns the number of successful flushes.
func (s *ProgressStore) Flushes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flushes
}

// Close is a no-op.
func (s *ProgressStore) Close() error {
	return nil
}
