package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/adapters/driven/storage/sqlite"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store locations and row counts",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	stats, err := a.Store.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}
	if statusJSON {
		return outputJSON(cmd, stats)
	}

	cmd.Printf("Database: %s\n", a.Store.Path())
	cmd.Printf("Blobs:    %s\n", a.Blobs.Root())
	cmd.Println()
	for _, table := range sqlite.StatTables() {
		cmd.Printf("  %-28s %d\n", table, stats[table])
	}
	return nil
}
