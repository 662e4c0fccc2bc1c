package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show evidence store counts",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		if err := ensureServices(); err != nil {
			return err
		}
	}

	stats, err := ingestService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	cmd.Printf("Documents: %d\n", stats.DocumentCount)
	cmd.Printf("Chunks:    %d\n", stats.ChunkCount)
	return nil
}
