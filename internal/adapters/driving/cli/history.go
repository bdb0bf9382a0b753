package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent synchronisation runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	if a.journal == nil {
		cmd.Println("No journal available.")
		return nil
	}

	runs, err := a.journal.List(context.Background(), flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		line := dimStyle.Render(run.StartedAt.Local().Format("2006-01-02 15:04:05"))
		cmd.Printf("%s  %-11s  %d resolved, %d unchanged, %d removed, %d failed",
			line, run.Mode, run.Resolved, run.Skipped, run.Removed, run.Failed)
		if run.Err != "" {
			cmd.Printf("  %s", warnStyle.Render("error: "+run.Err))
		}
		cmd.Println()
	}
	return nil
}
