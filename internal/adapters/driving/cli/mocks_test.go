package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/gitslurp/internal/adapters/driven/auth"
	"github.com/custodia-labs/gitslurp/internal/connectors/github"
	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
	"github.com/custodia-labs/gitslurp/internal/logger"
)

// stubSource serves fixed items in pages of pageSize.
type stubSource struct {
	mu       sync.Mutex
	items    []domain.RawIssue
	pageSize int
	err      error
	pages    []int
}

func (s *stubSource) GetPage(_ context.Context, _ domain.StateFilter, idx int) ([]domain.RawIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, idx)

	if s.err != nil {
		return nil, s.err
	}
	start := idx * s.pageSize
	if start >= len(s.items) {
		return nil, nil
	}
	end := min(start+s.pageSize, len(s.items))
	return s.items[start:end], nil
}

func (s *stubSource) GetComments(_ context.Context, _ domain.RawIssue) ([]domain.RawComment, error) {
	return nil, nil
}

func (s *stubSource) PageSize() int {
	return s.pageSize
}

func (s *stubSource) requestedPages() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.pages...)
}

// stubConnector hands out the same source for every token.
type stubConnector struct {
	source *stubSource
	cfg    *github.Config
	tokens []string
}

func (c *stubConnector) Connect(_ context.Context, token string) (driven.RemoteSource, error) {
	c.tokens = append(c.tokens, token)
	return c.source, nil
}

func makeItems(n, prEvery int) []domain.RawIssue {
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	items := make([]domain.RawIssue, n)
	for i := range items {
		items[i] = domain.RawIssue{
			ID:        int64(500 + i),
			Number:    i + 1,
			State:     "open",
			Title:     fmt.Sprintf("item %d", i+1),
			Author:    "octocat",
			CreatedAt: created,
			UpdatedAt: created,
			HTMLURL:   fmt.Sprintf("https://github.com/octo/widgets/issues/%d", i+1),
		}
		if prEvery > 0 && (i+1)%prEvery == 0 {
			link := fmt.Sprintf("https://api.github.com/repos/octo/widgets/pulls/%d", i+1)
			items[i].PullRequestURL = &link
		}
	}
	return items
}

// useConnector installs conn for the duration of the test.
func useConnector(t *testing.T, conn *stubConnector) {
	t.Helper()
	old := newConnector
	newConnector = func(cfg *github.Config) (driven.SourceConnector, error) {
		conn.cfg = cfg
		return conn, nil
	}
	t.Cleanup(func() { newConnector = old })
}

// isolate clears token variables and silences the logger.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(auth.EnvToken, "")
	t.Setenv(auth.EnvGitHubToken, "")
	logger.SetOutput(io.Discard)
	t.Cleanup(func() {
		logger.SetVerbose(false)
		logger.SetQuiet(false)
	})
}

// executeCommand runs rootCmd with args and fresh flag values.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)

	// Cobra keeps the first context it sees on each subcommand.
	cmd.SetContext(nil) //nolint:staticcheck // cleared for the next Execute
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
