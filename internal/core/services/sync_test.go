package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliefkit/kbcat/internal/adapters/driven/catalog/csvfile"
	"github.com/reliefkit/kbcat/internal/core/domain"
)

// fakeExtractor treats every file as plain text, with scriptable
// per-path failures.
type fakeExtractor struct {
	failPaths  map[string]bool
	emptyPaths map[string]bool
}

func (f *fakeExtractor) Extract(ctx context.Context, path string, limit int) (string, error) {
	rel := filepath.Base(path)
	if f.failPaths[rel] {
		return "", errors.New("corrupt container")
	}
	if f.emptyPaths[rel] {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := string(data)
	if len(text) > limit {
		text = text[:limit]
	}
	return text, nil
}

func (f *fakeExtractor) Supported(path string) bool { return true }

// recordingJournal captures journalled runs.
type recordingJournal struct {
	runs []*domain.SyncRun
}

func (j *recordingJournal) Record(ctx context.Context, run *domain.SyncRun) error {
	j.runs = append(j.runs, run)
	return nil
}

func (j *recordingJournal) List(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	out := make([]domain.SyncRun, 0, len(j.runs))
	for _, r := range j.runs {
		out = append(out, *r)
	}
	return out, nil
}

func (j *recordingJournal) Close() error { return nil }

type syncRig struct {
	sync      *Synchroniser
	root      string
	catalog   string
	llm       *stubLLM
	extractor *fakeExtractor
	journal   *recordingJournal
}

func newSyncRig(t *testing.T, relPaths ...string) *syncRig {
	t.Helper()

	root := seedKB(t, relPaths...)
	catalogPath := filepath.Join(t.TempDir(), "kb_catalog.csv")
	llm := &stubLLM{responses: []string{validResponse}}
	extractor := &fakeExtractor{
		failPaths:  map[string]bool{},
		emptyPaths: map[string]bool{},
	}
	journal := &recordingJournal{}

	s := NewSynchroniser(SynchroniserConfig{
		Root:      root,
		Detector:  NewChangeDetector(root, nil),
		Extractor: extractor,
		Resolver:  NewMetadataResolver(llm, nil, 1, 0),
		Catalog:   csvfile.New(catalogPath),
		Journal:   journal,
	})
	s.now = func() time.Time {
		return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	}

	return &syncRig{
		sync:      s,
		root:      root,
		catalog:   catalogPath,
		llm:       llm,
		extractor: extractor,
		journal:   journal,
	}
}

func (r *syncRig) run(t *testing.T, opts domain.SyncOptions) *domain.SyncRun {
	t.Helper()
	run, err := r.sync.Sync(context.Background(), opts)
	require.NoError(t, err)
	return run
}

func (r *syncRig) entries(t *testing.T) []domain.Entry {
	t.Helper()
	entries, err := csvfile.New(r.catalog).Load(context.Background())
	require.NoError(t, err)
	return entries
}

func (r *syncRig) catalogBytes(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(r.catalog)
	require.NoError(t, err)
	return data
}

func incremental() domain.SyncOptions {
	return domain.SyncOptions{Mode: domain.SyncModeIncremental}
}

func TestSynchroniser_Sync(t *testing.T) {
	t.Run("rejects invalid mode", func(t *testing.T) {
		rig := newSyncRig(t)

		_, err := rig.sync.Sync(context.Background(), domain.SyncOptions{Mode: "sideways"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("empty knowledge base yields empty catalog", func(t *testing.T) {
		rig := newSyncRig(t)

		run := rig.run(t, incremental())

		assert.Equal(t, 0, run.Entries)
		assert.Equal(t, 0, run.Resolved)
		assert.Empty(t, rig.entries(t))
	})

	t.Run("catalogs new documents", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf", "Health/who_guide.pdf")

		run := rig.run(t, incremental())

		assert.Equal(t, 2, run.Resolved)
		assert.Equal(t, 0, run.Skipped)
		assert.Equal(t, 2, run.Entries)

		entries := rig.entries(t)
		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.NotEmpty(t, e.DocID)
			assert.NotEmpty(t, e.Title)
			assert.NotEmpty(t, e.Checksum)
			assert.NotEmpty(t, e.Sector)
			assert.NotEmpty(t, e.DocType)
			assert.NotEmpty(t, e.LastReviewed)
			assert.NotEmpty(t, e.NextReviewDue)
			assert.Equal(t, "pending", e.EmbeddingStatus)
			assert.Equal(t, "internal", e.DocSource)
		}
	})

	t.Run("rerun without changes is byte identical", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf", "Health/who_guide.pdf")

		rig.run(t, incremental())
		first := rig.catalogBytes(t)

		run := rig.run(t, incremental())
		second := rig.catalogBytes(t)

		assert.Equal(t, 0, run.Resolved)
		assert.Equal(t, 2, run.Skipped)
		assert.Equal(t, first, second)
	})

	t.Run("changed bytes trigger reprocessing of that document only", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf", "Health/who_guide.pdf")
		rig.run(t, incremental())
		before := rig.entries(t)

		path := filepath.Join(rig.root, "WASH", "sphere_2018.pdf")
		require.NoError(t, os.WriteFile(path, []byte("revised edition"), 0o644))

		run := rig.run(t, incremental())

		assert.Equal(t, 1, run.Resolved)
		assert.Equal(t, 1, run.Skipped)

		after := rig.entries(t)
		require.Len(t, after, 2)
		for i := range after {
			if after[i].FilePath == "Health/who_guide.pdf" {
				assert.Equal(t, before[i], after[i], "unrelated row untouched")
			} else {
				assert.NotEqual(t, before[i].Checksum, after[i].Checksum)
			}
		}
	})

	t.Run("deleted file removes exactly its row", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf", "Health/who_guide.pdf")
		rig.run(t, incremental())

		require.NoError(t, os.Remove(filepath.Join(rig.root, "WASH", "sphere_2018.pdf")))

		run := rig.run(t, incremental())

		assert.Equal(t, 1, run.Removed)
		entries := rig.entries(t)
		require.Len(t, entries, 1)
		assert.Equal(t, "Health/who_guide.pdf", entries[0].FilePath)
	})

	t.Run("full mode reprocesses unchanged documents", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf", "Health/who_guide.pdf")
		rig.run(t, incremental())

		run := rig.run(t, domain.SyncOptions{Mode: domain.SyncModeFull})

		assert.Equal(t, 2, run.Resolved)
		assert.Equal(t, 0, run.Skipped)
	})

	t.Run("limit caps resolved documents", func(t *testing.T) {
		rig := newSyncRig(t, "a/one.pdf", "b/two.pdf", "c/three.pdf")

		run := rig.run(t, domain.SyncOptions{Mode: domain.SyncModeIncremental, Limit: 2})

		assert.Equal(t, 2, run.Resolved)
		assert.Len(t, rig.entries(t), 2)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf")

		run := rig.run(t, domain.SyncOptions{Mode: domain.SyncModeIncremental, DryRun: true})

		assert.Equal(t, 1, run.Entries)
		_, err := os.Stat(rig.catalog)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("oracle failure falls back and still catalogs", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/water_supply_2011.pdf")
		rig.llm.err = errors.New("connection refused")

		run := rig.run(t, incremental())

		assert.Equal(t, 1, run.Resolved)
		assert.Equal(t, 1, run.Fallbacks)

		entries := rig.entries(t)
		require.Len(t, entries, 1)
		assert.Equal(t, "2011", entries[0].Year)
		assert.Equal(t, "unknown", entries[0].EvidenceLevel)
	})

	t.Run("extraction failure keeps the stale row", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf")
		rig.run(t, incremental())
		before := rig.entries(t)

		path := filepath.Join(rig.root, "WASH", "sphere_2018.pdf")
		require.NoError(t, os.WriteFile(path, []byte("revised"), 0o644))
		rig.extractor.failPaths["sphere_2018.pdf"] = true

		run := rig.run(t, incremental())

		assert.Equal(t, 1, run.Failed)
		assert.Equal(t, 0, run.Resolved)
		assert.Equal(t, before, rig.entries(t))
	})

	t.Run("empty extraction counts as failed", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/blank.pdf")
		rig.extractor.emptyPaths["blank.pdf"] = true

		run := rig.run(t, incremental())

		assert.Equal(t, 1, run.Failed)
		assert.Empty(t, rig.entries(t))
	})

	t.Run("rename moves the file to its identifier", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf")

		run := rig.run(t, domain.SyncOptions{Mode: domain.SyncModeIncremental, Rename: true})

		assert.Equal(t, 1, run.Resolved)
		entries := rig.entries(t)
		require.Len(t, entries, 1)

		e := entries[0]
		assert.Equal(t, e.DocID+".pdf", e.FileName)
		assert.Equal(t, "WASH/"+e.DocID+".pdf", e.FilePath)
		_, err := os.Stat(filepath.Join(rig.root, "WASH", e.FileName))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(rig.root, "WASH", "sphere_2018.pdf"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("external placement sets the source column", func(t *testing.T) {
		rig := newSyncRig(t, "External_Partners/report.pdf")

		rig.run(t, incremental())

		entries := rig.entries(t)
		require.Len(t, entries, 1)
		assert.Equal(t, "external", entries[0].DocSource)
	})

	t.Run("runs are journalled", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf")

		run := rig.run(t, incremental())

		require.Len(t, rig.journal.runs, 1)
		assert.Equal(t, run.ID, rig.journal.runs[0].ID)
		assert.Equal(t, domain.SyncModeIncremental, rig.journal.runs[0].Mode)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := rig.sync.Sync(ctx, incremental())

		assert.Error(t, err)
	})
}

func TestSynchroniser_Changes(t *testing.T) {
	t.Run("reports pending work without touching the catalog", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf")

		changes, err := rig.sync.Changes(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"WASH/sphere_2018.pdf"}, changes.New)
		_, statErr := os.Stat(rig.catalog)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("up to date catalog reports no changes", func(t *testing.T) {
		rig := newSyncRig(t, "WASH/sphere_2018.pdf")
		rig.run(t, incremental())

		changes, err := rig.sync.Changes(context.Background())

		require.NoError(t, err)
		assert.True(t, changes.Empty())
	})
}
