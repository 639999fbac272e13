package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
)

// --- Mock implementations shared by crawl and rotator tests ---

// fakeClock is a manually driven Clock. Sleep advances time instantly.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// mockSource serves a fixed list of records in pages.
type mockSource struct {
	token    string
	items    []domain.RawIssue
	pageSize int
	comments map[int64][]domain.RawComment

	// pageErrs fails GetPage for a page index once per entry, in order.
	pageErrs map[int][]error
	// commentErrs fails GetComments for an issue id once per entry.
	commentErrs map[int64][]error

	pageCalls    []int
	commentCalls []int64
}

var _ driven.RemoteSource = (*mockSource)(nil)

func (s *mockSource) GetPage(_ context.Context, _ domain.StateFilter, pageIndex int) ([]domain.RawIssue, error) {
	s.pageCalls = append(s.pageCalls, pageIndex)
	if errs := s.pageErrs[pageIndex]; len(errs) > 0 {
		s.pageErrs[pageIndex] = errs[1:]
		return nil, errs[0]
	}

	start := pageIndex * s.PageSize()
	if start >= len(s.items) {
		return []domain.RawIssue{}, nil
	}
	end := min(start+s.PageSize(), len(s.items))
	return append([]domain.RawIssue(nil), s.items[start:end]...), nil
}

func (s *mockSource) GetComments(_ context.Context, raw domain.RawIssue) ([]domain.RawComment, error) {
	s.commentCalls = append(s.commentCalls, raw.ID)
	if errs := s.commentErrs[raw.ID]; len(errs) > 0 {
		s.commentErrs[raw.ID] = errs[1:]
		return nil, errs[0]
	}
	return s.comments[raw.ID], nil
}

func (s *mockSource) PageSize() int {
	if s.pageSize == 0 {
		return 100
	}
	return s.pageSize
}

// mockConnector hands out pre-built sources by token.
type mockConnector struct {
	sources    map[string]*mockSource
	connectErr error
	// connectErrs fails Connect for a token once per entry, in order.
	connectErrs map[string][]error
	connects    []string
}

var _ driven.SourceConnector = (*mockConnector)(nil)

func (c *mockConnector) Connect(_ context.Context, token string) (driven.RemoteSource, error) {
	c.connects = append(c.connects, token)
	if c.connectErr != nil {
		return nil, c.connectErr
	}
	if errs := c.connectErrs[token]; len(errs) > 0 {
		c.connectErrs[token] = errs[1:]
		return nil, errs[0]
	}
	if src, ok := c.sources[token]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("%w: unknown token", domain.ErrAuthInvalid)
}

// flushCall records one ProgressStore.Flush.
type flushCall struct {
	issues     int
	pulls      int
	checkpoint domain.Checkpoint
}

// recordingStore is an in-memory ProgressStore that records every flush.
type recordingStore struct {
	checkpoint domain.Checkpoint
	issues     []domain.IssueRecord
	pulls      []domain.IssueRecord
	flushes    []flushCall
	loadErr    error
	flushErr   error
}

var _ driven.ProgressStore = (*recordingStore)(nil)

func (s *recordingStore) Load(_ context.Context, target domain.Target) (domain.Checkpoint, error) {
	if s.loadErr != nil {
		return domain.Checkpoint{}, s.loadErr
	}
	cp := s.checkpoint
	cp.Target = target
	return cp, nil
}

func (s *recordingStore) Flush(_ context.Context, _ domain.Target, issues, pulls []domain.IssueRecord, cp domain.Checkpoint) error {
	if s.flushErr != nil {
		return s.flushErr
	}
	s.issues = append(s.issues, issues...)
	s.pulls = append(s.pulls, pulls...)
	s.checkpoint = cp
	s.flushes = append(s.flushes, flushCall{issues: len(issues), pulls: len(pulls), checkpoint: cp})
	return nil
}

func (s *recordingStore) Close() error { return nil }

// makeItems builds n raw records; every prEvery-th one is a pull request.
func makeItems(n, prEvery int) []domain.RawIssue {
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	items := make([]domain.RawIssue, n)
	for i := range items {
		items[i] = domain.RawIssue{
			ID:        int64(1000 + i),
			Number:    i + 1,
			State:     "open",
			Title:     fmt.Sprintf("item %d", i+1),
			Author:    "octocat",
			CreatedAt: created,
			UpdatedAt: created,
			HTMLURL:   fmt.Sprintf("https://github.com/o/r/issues/%d", i+1),
		}
		if prEvery > 0 && (i+1)%prEvery == 0 {
			link := fmt.Sprintf("https://api.github.com/repos/o/r/pulls/%d", i+1)
			items[i].PullRequestURL = &link
		}
	}
	return items
}

func quotaErr(resetAt time.Time) error {
	return &domain.QuotaExceededError{ResetAt: resetAt, Remaining: 0, Limit: 5000}
}
