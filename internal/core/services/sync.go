package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reliefkit/kbcat/internal/core/domain"
	"github.com/reliefkit/kbcat/internal/core/ports/driven"
	"github.com/reliefkit/kbcat/internal/core/ports/driving"
	"github.com/reliefkit/kbcat/internal/logger"
)

// Ensure Synchroniser implements the interface.
var _ driving.Cataloguer = (*Synchroniser)(nil)

// DefaultTextLimit bounds the text extracted per document.
const DefaultTextLimit = 5000

// reviewInterval is the bookkeeping window between catalog reviews.
const reviewInterval = 365 // days

// dateLayout is the review-date format carried in the catalog (MM/DD/YY).
const dateLayout = "01/02/06"

// processOutcome is the terminal state of one document in a run.
type processOutcome int

const (
	// outcomeSkipped: path already cataloged with a matching checksum;
	// the prior row was copied forward unchanged.
	outcomeSkipped processOutcome = iota

	// outcomeResolved: the full resolver chain ran and produced a row.
	outcomeResolved

	// outcomeFailed: a local I/O failure; the document was abandoned
	// for this run with a diagnostic.
	outcomeFailed
)

// SynchroniserConfig wires a Synchroniser's collaborators.
type SynchroniserConfig struct {
	// Root is the knowledge-base root directory.
	Root string

	// Detector diffs the filesystem against the catalog.
	Detector *ChangeDetector

	// Extractor pulls text out of document containers.
	Extractor driven.Extractor

	// Resolver produces descriptive metadata per document.
	Resolver *MetadataResolver

	// Catalog persists the table.
	Catalog driven.CatalogStore

	// Journal records runs. Optional; nil disables journalling.
	Journal driven.RunJournal

	// TextLimit bounds extracted text (DefaultTextLimit when zero).
	TextLimit int
}

// Synchroniser drives the per-document pipeline and merges results into
// a consistent catalog. It exclusively owns the in-memory table during
// a run; the merged table is written once, atomically, at the end, so
// an interrupted run never corrupts the persisted catalog.
type Synchroniser struct {
	root      string
	detector  *ChangeDetector
	extractor driven.Extractor
	resolver  *MetadataResolver
	catalog   driven.CatalogStore
	journal   driven.RunJournal
	textLimit int

	now func() time.Time
}

// NewSynchroniser creates a catalog synchroniser.
func NewSynchroniser(cfg SynchroniserConfig) *Synchroniser {
	limit := cfg.TextLimit
	if limit <= 0 {
		limit = DefaultTextLimit
	}
	return &Synchroniser{
		root:      cfg.Root,
		detector:  cfg.Detector,
		extractor: cfg.Extractor,
		resolver:  cfg.Resolver,
		catalog:   cfg.Catalog,
		journal:   cfg.Journal,
		textLimit: limit,
		now:       time.Now,
	}
}

// Changes reports detected new and deleted paths without processing.
func (s *Synchroniser) Changes(ctx context.Context) (domain.ChangeSet, error) {
	prior, err := s.catalog.Load(ctx)
	if err != nil {
		return domain.ChangeSet{}, fmt.Errorf("load catalog: %w", err)
	}
	return s.detector.Detect(catalogedPaths(prior))
}

// Sync runs one synchronisation pass.
//
// The merge starts from the prior catalog minus entries whose paths
// disappeared, then walks every current path: unchanged documents are
// copied forward verbatim (re-running with no filesystem changes yields
// a byte-identical catalog), new or changed documents run the resolver
// chain, and in full mode every document is forced through it. The
// result replaces the catalog in a single atomic write.
func (s *Synchroniser) Sync(ctx context.Context, opts domain.SyncOptions) (*domain.SyncRun, error) {
	if !opts.Mode.IsValid() {
		return nil, fmt.Errorf("%w: sync mode %q", domain.ErrInvalidInput, opts.Mode)
	}

	run := &domain.SyncRun{
		ID:        uuid.New().String(),
		Mode:      opts.Mode,
		StartedAt: s.now(),
	}

	prior, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	priorByPath := make(map[string]*domain.Entry, len(prior))
	for i := range prior {
		priorByPath[prior[i].FilePath] = &prior[i]
	}

	changes, err := s.detector.Detect(catalogedPaths(prior))
	if err != nil {
		return nil, err
	}
	run.Removed = len(changes.Deleted)

	logger.Info("sync %s: %d new, %d deleted, %d cataloged",
		opts.Mode, len(changes.New), len(changes.Deleted), len(prior))

	if opts.DryRun {
		run.EndedAt = s.now()
		run.Entries = len(prior) - len(changes.Deleted) + len(changes.New)
		return run, nil
	}

	current, err := s.detector.CurrentPaths()
	if err != nil {
		return nil, err
	}

	deleted := make(map[string]bool, len(changes.Deleted))
	for _, p := range changes.Deleted {
		deleted[p] = true
	}

	// Process every current path. Replacement rows are keyed by the
	// path they were processed under; renames record the original path
	// so merge can find the row it replaces.
	force := opts.Mode == domain.SyncModeFull
	replaced := make(map[string]domain.Entry)
	var appended []domain.Entry

	for _, rel := range current {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if opts.Limit > 0 && run.Resolved >= opts.Limit {
			break
		}

		priorEntry := priorByPath[rel]
		entry, outcome := s.processDocument(ctx, rel, priorEntry, force, opts.Rename, run)
		switch outcome {
		case outcomeFailed:
			run.Failed++
			// Keep the stale row rather than lose manually maintained
			// columns over a transient read error.
			if priorEntry != nil {
				replaced[rel] = *priorEntry
			}
			continue
		case outcomeSkipped:
			run.Skipped++
		case outcomeResolved:
			run.Resolved++
		}

		if priorEntry != nil {
			replaced[rel] = *entry
		} else {
			appended = append(appended, *entry)
		}
	}

	// Merge: prior order is preserved for surviving rows so an
	// unchanged knowledge base reproduces the catalog byte for byte.
	merged := make([]domain.Entry, 0, len(prior)+len(appended))
	for _, e := range prior {
		if deleted[e.FilePath] {
			logger.Debug("removing deleted entry: %s", e.FilePath)
			continue
		}
		if replacement, ok := replaced[e.FilePath]; ok {
			merged = append(merged, replacement)
		} else {
			merged = append(merged, e)
		}
	}
	merged = append(merged, appended...)

	if err := s.catalog.Save(ctx, merged); err != nil {
		run.EndedAt = s.now()
		run.Err = err.Error()
		s.record(ctx, run)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogWrite, err)
	}

	run.EndedAt = s.now()
	run.Entries = len(merged)
	s.record(ctx, run)

	logger.Info("sync complete: %d resolved, %d skipped, %d removed, %d failed",
		run.Resolved, run.Skipped, run.Removed, run.Failed)
	return run, nil
}

// processDocument takes one document through the pipeline:
// checksum, then either copy-forward (unchanged) or resolve, classify,
// identify and optionally rename.
func (s *Synchroniser) processDocument(
	ctx context.Context,
	rel string,
	prior *domain.Entry,
	force, rename bool,
	run *domain.SyncRun,
) (*domain.Entry, processOutcome) {
	abs := filepath.Join(s.root, filepath.FromSlash(rel))

	sum := Checksum(abs)
	if sum == "" {
		logger.Warn("skipping %s: unreadable", rel)
		return nil, outcomeFailed
	}

	if !force && prior != nil && prior.Checksum == sum {
		logger.Debug("skipping %s (unchanged)", rel)
		copied := *prior
		return &copied, outcomeSkipped
	}
	if prior != nil {
		logger.Info("re-processing %s (changed)", rel)
	} else {
		logger.Info("processing %s", rel)
	}

	text, err := s.extractor.Extract(ctx, abs, s.textLimit)
	if err != nil || text == "" {
		logger.Warn("skipping %s: no extractable text (%v)", rel, err)
		return nil, outcomeFailed
	}

	meta, primary := s.resolver.Resolve(ctx, text, rel)
	if !primary {
		run.Fallbacks++
	}

	sector := DetermineSector(rel)
	docType := DetermineDocType(rel, meta.Title)
	docID := GenerateDocID(sector, docType, meta.Publisher, meta.Year, "v1")

	entry := s.buildEntry(rel, sum, docID, sector, docType, meta, prior)

	if rename {
		s.renameToDocID(entry, abs)
	}
	return entry, outcomeResolved
}

// buildEntry assembles the catalog row. Manually maintained columns
// (licence fields, URL, supersedes link, page anchors) are carried over
// from the prior row when one exists; a re-resolution must not clobber
// curation work.
func (s *Synchroniser) buildEntry(
	rel, sum, docID, sector, docType string,
	meta domain.Metadata,
	prior *domain.Entry,
) *domain.Entry {
	now := s.now()

	entry := &domain.Entry{
		DocID:             docID,
		Title:             meta.Title,
		ShortTitle:        meta.ShortTitle,
		Sector:            sector,
		DocType:           docType,
		DocSource:         documentSource(rel),
		Publisher:         meta.Publisher,
		Year:              meta.Year,
		Version:           "v1",
		Language:          meta.Language,
		CountryScope:      meta.CountryScope,
		FileName:          filepath.Base(rel),
		FilePath:          rel,
		Checksum:          sum,
		EvidenceLevel:     meta.EvidenceLevel,
		LastReviewed:      now.Format(dateLayout),
		NextReviewDue:     now.AddDate(0, 0, reviewInterval).Format(dateLayout),
		Notes:             meta.Summary,
		IndicatorsCovered: meta.IndicatorsCovered,
		EmbeddingStatus:   "pending",
	}

	if prior != nil {
		entry.License = prior.License
		entry.LicenseURL = prior.LicenseURL
		entry.Redistributable = prior.Redistributable
		entry.URL = prior.URL
		entry.SupersedesDocID = prior.SupersedesDocID
		entry.PageAnchors = prior.PageAnchors
	}
	return entry
}

// renameToDocID renames the file on disk to "<doc_id><ext>" and updates
// the entry to match. The rename is skipped when the target already
// exists; a rename failure is logged and the original name kept.
func (s *Synchroniser) renameToDocID(entry *domain.Entry, abs string) {
	ext := strings.ToLower(filepath.Ext(abs))
	newName := entry.DocID + ext
	if newName == entry.FileName {
		return
	}

	newAbs := filepath.Join(filepath.Dir(abs), newName)
	if _, err := os.Stat(newAbs); err == nil {
		logger.Warn("not renaming %s: %s already exists", entry.FilePath, newName)
		return
	}
	if err := os.Rename(abs, newAbs); err != nil {
		logger.Warn("rename %s: %v", entry.FilePath, err)
		return
	}

	logger.Info("renamed %s -> %s", entry.FileName, newName)
	dir := filepath.ToSlash(filepath.Dir(entry.FilePath))
	entry.FileName = newName
	if dir == "." {
		entry.FilePath = newName
	} else {
		entry.FilePath = dir + "/" + newName
	}
}

// record journals the run. Best effort: a journal failure is logged,
// never propagated.
func (s *Synchroniser) record(ctx context.Context, run *domain.SyncRun) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, run); err != nil {
		logger.Warn("journal run %s: %v", run.ID, err)
	}
}

// documentSource classifies placement as internal or external.
func documentSource(rel string) string {
	if strings.Contains(rel, "External") {
		return "external"
	}
	return "internal"
}

// catalogedPaths collects the natural keys of loaded entries.
func catalogedPaths(entries []domain.Entry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.FilePath)
	}
	return paths
}
