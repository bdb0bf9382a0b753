package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reliefkit/kbcat/internal/adapters/driven/kb"
	"github.com/reliefkit/kbcat/internal/core/domain"
	"github.com/reliefkit/kbcat/internal/logger"
)

var flagDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the knowledge base and sync on change",
	Long: `Watches the knowledge-base tree and runs an incremental sync after
each quiet period. Events only trigger a sync; the sync itself decides
what changed, so a burst of editor saves costs one pass.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", 2*time.Second, "quiet period before syncing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.llm.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v\nstart Ollama and ensure model %s is available",
			domain.ErrOracleUnavailable, err, a.llm.ModelName())
	}

	watcher, err := kb.NewWatcher(a.root)
	if err != nil {
		return err
	}
	defer watcher.Close()

	events, err := watcher.Start(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (debounce %s). Ctrl-C to stop.\n", a.root, flagDebounce)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopped.")
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			logger.Debug("change: %s %s", ev.Op, ev.Path)
			if timer == nil {
				timer = time.NewTimer(flagDebounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timerCh
				}
				timer.Reset(flagDebounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil

			run, err := a.synchroniser.Sync(ctx, domain.SyncOptions{
				Mode: domain.SyncModeIncremental,
			})
			if err != nil {
				// Keep watching: a failed pass (e.g. a transient write
				// error) is retried on the next change.
				cmd.PrintErrf("sync failed: %v\n", err)
				continue
			}
			cmd.Println(renderRunSummary(run))
		}
	}
}
