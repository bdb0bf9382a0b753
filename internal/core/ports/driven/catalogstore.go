package driven

import (
	"context"

	"github.com/reliefkit/kbcat/internal/core/domain"
)

// CatalogStore persists the catalog table.
// The column order of the persisted form is a compatibility contract and
// must be preserved exactly by implementations.
type CatalogStore interface {
	// Load reads all catalog entries in their persisted order.
	// A missing catalog is not an error: it returns an empty slice.
	Load(ctx context.Context) ([]domain.Entry, error)

	// Save atomically replaces the catalog with the given entries.
	// A partially written catalog must never be observable.
	Save(ctx context.Context, entries []domain.Entry) error

	// Path returns the location of the persisted catalog.
	Path() string
}
