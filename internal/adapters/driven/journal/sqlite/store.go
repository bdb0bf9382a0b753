// Package sqlite provides the run journal backed by SQLite.
// The journal is an audit trail of synchronisation runs; it is not
// part of the catalog's durable state and losing it is harmless.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/reliefkit/kbcat/internal/core/domain"
	"github.com/reliefkit/kbcat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RunJournal = (*Store)(nil)

// schema creates the journal table. Idempotent.
const schema = `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		resolved INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		removed INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		fallbacks INTEGER NOT NULL,
		entries INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	)
`

// Store is a SQLite-backed run journal.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a journal at the specified data directory.
// If dataDir is empty, defaults to ~/.kbcat/data/journal.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kbcat", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "journal.db")

	// WAL mode keeps readers from blocking the writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal table: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record persists the outcome of one run.
func (s *Store) Record(ctx context.Context, run *domain.SyncRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, mode, started_at, ended_at, resolved, skipped, removed, failed, fallbacks, entries, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ended_at = excluded.ended_at,
			resolved = excluded.resolved,
			skipped = excluded.skipped,
			removed = excluded.removed,
			failed = excluded.failed,
			fallbacks = excluded.fallbacks,
			entries = excluded.entries,
			error = excluded.error
	`, run.ID, run.Mode.String(),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.EndedAt.UTC().Format(time.RFC3339Nano),
		run.Resolved, run.Skipped, run.Removed, run.Failed,
		run.Fallbacks, run.Entries, run.Err)

	if err != nil {
		return fmt.Errorf("recording sync run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
// Zero limit returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	query := `
		SELECT id, mode, started_at, ended_at, resolved, skipped, removed, failed, fallbacks, entries, error
		FROM sync_runs ORDER BY started_at DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}
	return runs, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanRun reads one journal row.
func scanRun(rows *sql.Rows) (domain.SyncRun, error) {
	var run domain.SyncRun
	var mode, started, ended string

	if err := rows.Scan(&run.ID, &mode, &started, &ended,
		&run.Resolved, &run.Skipped, &run.Removed, &run.Failed,
		&run.Fallbacks, &run.Entries, &run.Err); err != nil {
		return domain.SyncRun{}, fmt.Errorf("scanning sync run: %w", err)
	}

	run.Mode = domain.SyncMode(mode)
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return domain.SyncRun{}, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
		return domain.SyncRun{}, fmt.Errorf("parsing ended_at: %w", err)
	}
	return run, nil
}
