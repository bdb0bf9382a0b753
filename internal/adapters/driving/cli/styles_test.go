package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/reliefkit/kbcat/internal/core/domain"
)

func TestRenderRunSummary(t *testing.T) {
	started := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("shows counters", func(t *testing.T) {
		out := renderRunSummary(&domain.SyncRun{
			Mode:      domain.SyncModeIncremental,
			StartedAt: started,
			EndedAt:   started.Add(1500 * time.Millisecond),
			Resolved:  3,
			Skipped:   7,
			Removed:   1,
			Entries:   10,
		})

		assert.Contains(t, out, "Sync (incremental)")
		assert.Contains(t, out, "3 resolved")
		assert.Contains(t, out, "7 unchanged")
		assert.Contains(t, out, "1 removed")
		assert.Contains(t, out, "10 entries")
		assert.NotContains(t, out, "fallback")
		assert.NotContains(t, out, "failed")
	})

	t.Run("surfaces fallbacks and failures", func(t *testing.T) {
		out := renderRunSummary(&domain.SyncRun{
			Mode:      domain.SyncModeFull,
			StartedAt: started,
			EndedAt:   started.Add(time.Second),
			Resolved:  5,
			Fallbacks: 2,
			Failed:    1,
			Entries:   5,
		})

		assert.Contains(t, out, "Sync (full)")
		assert.Contains(t, out, "2 via fallback")
		assert.Contains(t, out, "1 failed")
	})
}
