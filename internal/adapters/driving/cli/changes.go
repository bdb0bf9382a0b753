package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "List detected changes without processing",
	Long: `Compares the knowledge base against the catalog and prints the
documents that a sync would add or remove. No document is resolved and
nothing is written.`,
	RunE: runChanges,
}

func init() {
	rootCmd.AddCommand(changesCmd)
}

func runChanges(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	changes, err := a.synchroniser.Changes(context.Background())
	if err != nil {
		return err
	}

	if changes.Empty() {
		cmd.Println("Catalog is up to date.")
		return nil
	}

	if len(changes.New) > 0 {
		cmd.Println(headerStyle.Render("New documents"))
		for _, p := range changes.New {
			cmd.Printf("  + %s\n", p)
		}
	}
	if len(changes.Deleted) > 0 {
		cmd.Println(headerStyle.Render("Deleted documents"))
		for _, p := range changes.Deleted {
			cmd.Printf("  - %s\n", p)
		}
	}
	return nil
}
