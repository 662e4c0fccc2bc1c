package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [file]",
	Short: "Remove a document and all of its chunks from the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	if ingestService == nil {
		if err := ensureServices(); err != nil {
			return err
		}
	}

	removed, err := ingestService.DeleteDocument(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no document named %q in the store", name)
		}
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Printf("Deleted %s (%d chunks removed)\n", name, removed)
	return nil
}
