package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/verifact-labs/verifact-cli/internal/core/services"
)

var (
	ingestClear     bool
	ingestSourceURL string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a file or directory into the evidence store",
	Long: `Extracts text from the given file or directory, splits it into
overlapping chunks, embeds them, and stores them for retrieval.

Re-ingesting an unchanged file is a no-op; a changed file replaces all of
its previous chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and re-ingest files as they change",
	Long: `Ingests the directory, then keeps watching it: created and modified
files are re-ingested, removed files are deleted from the store. Runs until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestClear, "clear", false, "purge the store before a directory ingest")
	ingestCmd.Flags().StringVar(&ingestSourceURL, "source-url", "", "external URL recorded with a single-file ingest")
	ingestCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	if ingestService == nil {
		if err := ensureServices(); err != nil {
			return err
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		res, err := ingestService.IngestFile(cmd.Context(), path, ingestSourceURL)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		if res.Skipped {
			cmd.Printf("Skipped %s (unchanged)\n", res.FileName)
		} else {
			cmd.Printf("Ingested %s: %d chunks\n", res.FileName, res.ChunksCreated)
		}
		return nil
	}

	batch, err := ingestService.IngestDir(cmd.Context(), path, ingestClear)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %d of %d files (%d skipped, %d chunks)\n",
		batch.FilesIngested, batch.FilesTotal, batch.FilesSkipped, batch.ChunksCreated)

	if len(batch.Failed) > 0 {
		names := make([]string, 0, len(batch.Failed))
		for name := range batch.Failed {
			names = append(names, name)
		}
		sort.Strings(names)

		cmd.Println("\nFailed:")
		for _, name := range names {
			cmd.Printf("  %s: %v\n", name, batch.Failed[name])
		}
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	if ingestService == nil {
		if err := ensureServices(); err != nil {
			return err
		}
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)
	return services.NewWatcher(ingestService).Watch(cmd.Context(), dir)
}
