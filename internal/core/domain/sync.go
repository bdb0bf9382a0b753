package domain

import "time"

// SyncMode selects the synchronisation strategy.
type SyncMode string

// Available sync modes.
const (
	// SyncModeIncremental touches only filesystem additions and removals;
	// unchanged rows are copied forward verbatim.
	SyncModeIncremental SyncMode = "incremental"

	// SyncModeFull forces re-resolution of every document regardless of
	// checksum state. Used to repair or upgrade the whole catalog.
	SyncModeFull SyncMode = "full"
)

// IsValid returns true if the sync mode is recognised.
func (m SyncMode) IsValid() bool {
	return m == SyncModeIncremental || m == SyncModeFull
}

// String returns the string representation.
func (m SyncMode) String() string {
	return string(m)
}

// SyncOptions configures a single synchronisation run.
type SyncOptions struct {
	// Mode is incremental or full. Caller-supplied, never inferred.
	Mode SyncMode

	// Rename renames processed files on disk to "<doc_id><ext>".
	Rename bool

	// Limit caps the number of documents resolved in this run.
	// Zero means no limit.
	Limit int

	// DryRun detects changes but resolves nothing and writes nothing.
	DryRun bool
}

// ChangeSet partitions the filesystem state against the catalog state.
// Paths are slash-separated and relative to the knowledge-base root.
type ChangeSet struct {
	// New are eligible document paths not present in the catalog.
	New []string

	// Deleted are cataloged paths no longer present on disk.
	Deleted []string
}

// Empty reports whether the filesystem and catalog agree.
func (c ChangeSet) Empty() bool {
	return len(c.New) == 0 && len(c.Deleted) == 0
}

// SyncRun records the outcome of one synchronisation run.
type SyncRun struct {
	// ID uniquely identifies the run.
	ID string

	// Mode is the strategy the run used.
	Mode SyncMode

	// StartedAt and EndedAt bound the run.
	StartedAt time.Time
	EndedAt   time.Time

	// Resolved counts documents that went through the resolver chain.
	Resolved int

	// Skipped counts unchanged documents copied forward.
	Skipped int

	// Removed counts entries dropped for deleted files.
	Removed int

	// Failed counts documents abandoned on local I/O errors.
	Failed int

	// Fallbacks counts documents whose metadata came from the
	// heuristic resolver rather than the inference oracle.
	Fallbacks int

	// Entries is the catalog size after the run.
	Entries int

	// Err is the terminal error message, empty on success.
	Err string
}

// Duration returns the wall-clock length of the run.
func (r SyncRun) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
