package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/gitslurp/internal/adapters/driven/storage/tabular"
	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
)

// File names inside a target directory.
const (
	LastPageFile = "last_page.txt"
	ProgressFile = "progress.toml"
	issuesSuffix = "_issues.csv"
	pullsSuffix  = "_pull_requests.csv"
)

// Ensure Store implements the interface.
var _ driven.ProgressStore = (*Store)(nil)

// Store writes datasets and checkpoints under a root directory.
type Store struct {
	mu   sync.Mutex
	root string
}

// progress is the progress.toml sidecar.
type progress struct {
	Page      int       `toml:"page"`
	Count     int       `toml:"count"`
	RunID     string    `toml:"run_id"`
	UpdatedAt time.Time `toml:"updated_at"`
}

// New creates a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: data directory is required", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the root directory.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory holding target's files.
func (s *Store) Dir(target domain.Target) string {
	return filepath.Join(s.root, target.Sanitized())
}

// IssuesPath returns the issue dataset path for target.
func (s *Store) IssuesPath(target domain.Target) string {
	return filepath.Join(s.Dir(target), target.Name+issuesSuffix)
}

// PullRequestsPath returns the pull request dataset path for target.
func (s *Store) PullRequestsPath(target domain.Target) string {
	return filepath.Join(s.Dir(target), target.Name+pullsSuffix)
}

// Load reads the checkpoint for target.
// The sidecar count is trusted only when its page matches last_page.txt.
func (s *Store) Load(ctx context.Context, target domain.Target) (domain.Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return domain.Checkpoint{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := domain.Checkpoint{Target: target, Exact: true}

	pagePath := filepath.Join(s.Dir(target), LastPageFile)
	raw, err := os.ReadFile(pagePath)
	if errors.Is(err, os.ErrNotExist) {
		return cp, nil
	}
	if err != nil {
		return domain.Checkpoint{}, fmt.Errorf("read %s: %w", LastPageFile, err)
	}

	page, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || page < 0 {
		return domain.Checkpoint{}, fmt.Errorf("%w: corrupt %s in %s", domain.ErrInvalidInput, LastPageFile, s.Dir(target))
	}
	cp.Page = page
	cp.Exact = false

	if info, statErr := os.Stat(pagePath); statErr == nil {
		cp.UpdatedAt = info.ModTime()
	}

	side, ok, err := s.readProgress(target)
	if err != nil {
		return domain.Checkpoint{}, err
	}
	if ok && side.Page == page {
		cp.Count = side.Count
		cp.Exact = true
		cp.RunID = side.RunID
		cp.UpdatedAt = side.UpdatedAt
	}

	return cp, nil
}

func (s *Store) readProgress(target domain.Target) (progress, bool, error) {
	raw, err := os.ReadFile(filepath.Join(s.Dir(target), ProgressFile))
	if errors.Is(err, os.ErrNotExist) {
		return progress{}, false, nil
	}
	if err != nil {
		return progress{}, false, fmt.Errorf("read %s: %w", ProgressFile, err)
	}

	var p progress
	if err := toml.Unmarshal(raw, &p); err != nil {
		// A damaged sidecar only costs exactness.
		return progress{}, false, nil
	}
	return p, true, nil
}

// Flush appends the rows then overwrites the checkpoint.
func (s *Store) Flush(ctx context.Context, target domain.Target, issues, pullRequests []domain.IssueRecord, cp domain.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.Dir(target), 0755); err != nil {
		return fmt.Errorf("create target dir: %w", err)
	}

	if err := appendRows(s.IssuesPath(target), issues); err != nil {
		return err
	}
	if err := appendRows(s.PullRequestsPath(target), pullRequests); err != nil {
		return err
	}

	return s.writeCheckpoint(target, cp)
}

func (s *Store) writeCheckpoint(target domain.Target, cp domain.Checkpoint) error {
	dir := s.Dir(target)

	updated := cp.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	side, err := toml.Marshal(progress{
		Page:      cp.Page,
		Count:     cp.Count,
		RunID:     cp.RunID,
		UpdatedAt: updated.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", ProgressFile, err)
	}

	if err := writeFileAtomic(filepath.Join(dir, LastPageFile), []byte(strconv.Itoa(cp.Page))); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, ProgressFile), side)
}

// Close is a no-op; every flush closes its files.
func (s *Store) Close() error {
	return nil
}

// appendRows appends records to a CSV file, writing the header when the
// file is new or empty. An empty batch leaves the file untouched.
func appendRows(path string, records []domain.IssueRecord) (err error) {
	if len(records) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", filepath.Base(path), cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(domain.Columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i := range records {
		row, err := tabular.Row(records[i])
		if err != nil {
			return fmt.Errorf("record %d: %w", records[i].ID, err)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", records[i].ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return f.Sync()
}

// writeFileAtomic replaces path via a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", filepath.Base(path), err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
