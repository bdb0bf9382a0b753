package kb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForEvent drains events until one matches the base name or the
// timeout elapses.
func waitForEvent(t *testing.T, events <-chan Event, base string) Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("event channel closed early")
			}
			if filepath.Base(ev.Path) == base {
				return ev
			}
		case <-deadline:
			t.Fatalf("no event for %s", base)
		}
	}
}

func TestWatcher(t *testing.T) {
	t.Run("emits events for new files", func(t *testing.T) {
		root := t.TempDir()
		w, err := NewWatcher(root)
		require.NoError(t, err)
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := w.Start(ctx)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(root, "new_doc.pdf"), []byte("content"), 0o644))

		ev := waitForEvent(t, events, "new_doc.pdf")
		assert.Contains(t, ev.Op, "CREATE")
	})

	t.Run("watches directories created after start", func(t *testing.T) {
		root := t.TempDir()
		w, err := NewWatcher(root)
		require.NoError(t, err)
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := w.Start(ctx)
		require.NoError(t, err)

		sub := filepath.Join(root, "WASH")
		require.NoError(t, os.Mkdir(sub, 0o755))
		waitForEvent(t, events, "WASH")

		require.NoError(t, os.WriteFile(filepath.Join(sub, "sphere.pdf"), []byte("content"), 0o644))
		waitForEvent(t, events, "sphere.pdf")
	})

	t.Run("cancellation closes the channel", func(t *testing.T) {
		root := t.TempDir()
		w, err := NewWatcher(root)
		require.NoError(t, err)
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		events, err := w.Start(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-events:
			assert.False(t, ok)
		case <-time.After(5 * time.Second):
			t.Fatal("channel not closed after cancellation")
		}
	})
}

func TestHidden(t *testing.T) {
	assert.True(t, hidden("/kb/.git/objects"))
	assert.True(t, hidden("/kb/WASH/.draft.pdf"))
	assert.False(t, hidden("/kb/WASH/sphere.pdf"))
	assert.False(t, hidden("./relative/doc.pdf"))
}
