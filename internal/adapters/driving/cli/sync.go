package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reliefkit/kbcat/internal/core/domain"
)

var (
	flagFull   bool
	flagRename bool
	flagLimit  int
	flagDryRun bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise the catalog with the knowledge base",
	Long: `Detects new, changed and deleted documents under the knowledge-base
root and updates the catalog. Incremental by default: unchanged rows
are carried forward untouched. Use --full to re-resolve everything.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&flagFull, "full", false, "re-resolve every document, ignoring checksums")
	syncCmd.Flags().BoolVar(&flagRename, "rename", false, "rename files on disk to <doc_id><ext>")
	syncCmd.Flags().IntVar(&flagLimit, "limit", 0, "resolve at most N documents this run")
	syncCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "detect changes without resolving or writing")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	// Precondition, not a per-document concern: without the oracle the
	// whole run would silently degrade to filename heuristics.
	if !flagDryRun {
		if err := a.llm.Ping(ctx); err != nil {
			return fmt.Errorf("%w: %v\nstart Ollama and ensure model %s is available",
				domain.ErrOracleUnavailable, err, a.llm.ModelName())
		}
	}

	opts := domain.SyncOptions{
		Mode:   domain.SyncModeIncremental,
		Rename: flagRename,
		Limit:  flagLimit,
		DryRun: flagDryRun,
	}
	if flagFull {
		opts.Mode = domain.SyncModeFull
	}

	run, err := a.synchroniser.Sync(ctx, opts)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if flagDryRun {
		cmd.Printf("Dry run: %d entries would result (%d removed)\n", run.Entries, run.Removed)
		return nil
	}

	cmd.Println(renderRunSummary(run))
	return nil
}
