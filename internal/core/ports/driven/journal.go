package driven

import (
	"context"

	"github.com/reliefkit/kbcat/internal/core/domain"
)

// RunJournal records synchronisation runs for later inspection.
// Journalling is best-effort: a journal failure never fails a sync.
type RunJournal interface {
	// Record persists the outcome of one run.
	Record(ctx context.Context, run *domain.SyncRun) error

	// List returns the most recent runs, newest first.
	// Zero limit returns all runs.
	List(ctx context.Context, limit int) ([]domain.SyncRun, error)

	// Close releases resources.
	Close() error
}
