// Package driving provides interfaces for primary adapters
// (CLI, watch loop) to drive the core services.
package driving

import (
	"context"

	"github.com/reliefkit/kbcat/internal/core/domain"
)

// Cataloguer synchronises the catalog with the knowledge base.
type Cataloguer interface {
	// Sync runs one synchronisation pass and returns its record.
	// Per-document failures are counted, not returned; only run-fatal
	// conditions (catalog write failure) produce an error.
	Sync(ctx context.Context, opts domain.SyncOptions) (*domain.SyncRun, error)

	// Changes reports detected new and deleted paths without processing.
	Changes(ctx context.Context) (domain.ChangeSet, error)
}
