// Package cli implements the verifact command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/verifact-labs/verifact-cli/internal/core/ports/driving"
	"github.com/verifact-labs/verifact-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. Populated by ensureServices on first use;
// tests inject mocks directly.
var (
	factCheckService driving.FactCheckService
	ingestService    driving.IngestService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "verifact",
	Short: "Fact-check claims against your own documents",
	Long: `Verifact ingests local documents (text, Markdown, PDF, DOCX, CSV) into a
vector evidence store and checks factual claims against them, returning a
classified verdict (SUPPORTED, CONTRADICTED, INSUFFICIENT, MIXED) grounded
in retrieved evidence.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
