package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/gitslurp/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/gitslurp/internal/adapters/driven/storage/tabular"
	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "gitslurp.db"

// Dataset tables.
const (
	TableIssues       = "issues"
	TablePullRequests = "pull_requests"
)

// Ensure Store implements the interface.
var _ driven.ProgressStore = (*Store)(nil)

// Store is a SQLite-backed progress store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database in dataDir and migrates it.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: data directory is required", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL lets status reads run beside a crawl.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the checkpoint for target.
// Counts are always persisted here, so the checkpoint is exact.
func (s *Store) Load(ctx context.Context, target domain.Target) (domain.Checkpoint, error) {
	cp := domain.Checkpoint{Target: target, Exact: true}

	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT page, count, run_id, updated_at FROM checkpoints WHERE repo = ?`,
		target.FullName(),
	).Scan(&cp.Page, &cp.Count, &cp.RunID, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return cp, nil
	}
	if err != nil {
		return domain.Checkpoint{}, fmt.Errorf("loading checkpoint: %w", err)
	}

	cp.UpdatedAt = parseTime(updatedAt)
	return cp, nil
}

// Flush upserts the rows and the checkpoint in one transaction.
func (s *Store) Flush(ctx context.Context, target domain.Target, issues, pullRequests []domain.IssueRecord, cp domain.Checkpoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning flush: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	repo := target.FullName()

	if err := upsertRecords(ctx, tx, TableIssues, repo, issues); err != nil {
		return err
	}
	if err := upsertRecords(ctx, tx, TablePullRequests, repo, pullRequests); err != nil {
		return err
	}

	updated := cp.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO checkpoints (repo, page, count, run_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(repo) DO UPDATE SET
			page = excluded.page,
			count = excluded.count,
			run_id = excluded.run_id,
			updated_at = excluded.updated_at
	`, repo, cp.Page, cp.Count, cp.RunID, tabular.Time(updated))
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing flush: %w", err)
	}
	return nil
}

// Count returns the number of stored rows for target in table.
func (s *Store) Count(ctx context.Context, target domain.Target, table string) (int, error) {
	if table != TableIssues && table != TablePullRequests {
		return 0, fmt.Errorf("%w: unknown table %q", domain.ErrInvalidInput, table)
	}

	var n int
	// #nosec G201 -- table is one of two constants
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE repo = ?", table)
	if err := s.db.QueryRowContext(ctx, query, target.FullName()).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

func upsertRecords(ctx context.Context, tx *sql.Tx, table, repo string, records []domain.IssueRecord) error {
	if len(records) == 0 {
		return nil
	}

	// #nosec G201 -- table is one of two constants
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (
			repo, id, type, state, state_reason, title, body, author,
			created_at, updated_at, closed_at, assignees, labels, url,
			comments_list, comment_thread
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(repo, id) DO UPDATE SET
			type = excluded.type,
			state = excluded.state,
			state_reason = excluded.state_reason,
			title = excluded.title,
			body = excluded.body,
			author = excluded.author,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			closed_at = excluded.closed_at,
			assignees = excluded.assignees,
			labels = excluded.labels,
			url = excluded.url,
			comments_list = excluded.comments_list,
			comment_thread = excluded.comment_thread
	`, table))
	if err != nil {
		return fmt.Errorf("preparing %s upsert: %w", table, err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]

		assignees, err := tabular.Assignees(rec.Assignees)
		if err != nil {
			return err
		}
		labels, err := tabular.Labels(rec.Labels)
		if err != nil {
			return err
		}
		comments, err := tabular.Comments(rec.Comments)
		if err != nil {
			return err
		}

		_, err = stmt.ExecContext(ctx,
			repo, rec.ID, string(rec.Kind), rec.State, nullString(rec.StateReason),
			rec.Title, nullString(rec.Body), rec.Author,
			tabular.Time(rec.CreatedAt), tabular.Time(rec.UpdatedAt), nullTime(rec.ClosedAt),
			assignees, labels, rec.URL, comments, rec.Transcript,
		)
		if err != nil {
			return fmt.Errorf("saving %s %d: %w", table, rec.ID, err)
		}
	}
	return nil
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, content string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(content); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: tabular.Time(*t), Valid: true}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(tabular.TimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
