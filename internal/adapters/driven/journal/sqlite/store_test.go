package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliefkit/kbcat/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(id string, started time.Time) *domain.SyncRun {
	return &domain.SyncRun{
		ID:        id,
		Mode:      domain.SyncModeIncremental,
		StartedAt: started,
		EndedAt:   started.Add(2 * time.Second),
		Resolved:  3,
		Skipped:   5,
		Removed:   1,
		Failed:    0,
		Fallbacks: 2,
		Entries:   8,
	}
}

func TestStore_RecordAndList(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("round trips a run", func(t *testing.T) {
		store := newTestStore(t)
		want := sampleRun("run-1", base)

		require.NoError(t, store.Record(ctx, want))
		runs, err := store.List(ctx, 0)

		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, *want, runs[0])
	})

	t.Run("lists newest first", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Record(ctx, sampleRun("older", base)))
		require.NoError(t, store.Record(ctx, sampleRun("newer", base.Add(time.Hour))))

		runs, err := store.List(ctx, 0)

		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "newer", runs[0].ID)
		assert.Equal(t, "older", runs[1].ID)
	})

	t.Run("limit caps the listing", func(t *testing.T) {
		store := newTestStore(t)
		for i := 0; i < 5; i++ {
			run := sampleRun("run", base.Add(time.Duration(i)*time.Minute))
			run.ID = run.ID + "-" + string(rune('a'+i))
			require.NoError(t, store.Record(ctx, run))
		}

		runs, err := store.List(ctx, 2)

		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})

	t.Run("re-recording a run updates it", func(t *testing.T) {
		store := newTestStore(t)
		run := sampleRun("run-1", base)
		require.NoError(t, store.Record(ctx, run))

		run.Entries = 42
		run.Err = "catalog write failed"
		require.NoError(t, store.Record(ctx, run))

		runs, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, 42, runs[0].Entries)
		assert.Equal(t, "catalog write failed", runs[0].Err)
	})

	t.Run("nil run is rejected", func(t *testing.T) {
		store := newTestStore(t)
		assert.ErrorIs(t, store.Record(ctx, nil), domain.ErrInvalidInput)
	})

	t.Run("empty journal lists nothing", func(t *testing.T) {
		store := newTestStore(t)
		runs, err := store.List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, runs)
	})
}
