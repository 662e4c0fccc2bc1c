package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driving"
)

var (
	checkK     int
	checkNoLLM bool
	checkJSON  bool
)

var checkCmd = &cobra.Command{
	Use:   "check [claim]",
	Short: "Fact-check a claim against the ingested documents",
	Long: `Retrieves the evidence chunks closest to the claim and, unless --no-llm
is given, asks the configured model for a classified verdict grounded in
that evidence.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().IntVarP(&checkK, "top-k", "k", 0, "number of evidence chunks to retrieve (default 5, max 10)")
	checkCmd.Flags().BoolVar(&checkNoLLM, "no-llm", false, "skip classification, show retrieved evidence only")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	claim := args[0]

	if factCheckService == nil {
		if err := ensureServices(); err != nil {
			return err
		}
	}

	opts := driving.CheckOptions{
		K:             checkK,
		UseClassifier: !checkNoLLM,
	}

	result, err := factCheckService.Check(cmd.Context(), claim, opts)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidClaim) {
			return fmt.Errorf("invalid claim: %w", err)
		}
		return fmt.Errorf("fact-check failed: %w", err)
	}

	if checkJSON {
		return outputCheckJSON(cmd, result)
	}
	return outputCheckText(cmd, result)
}

// checkPayload is the JSON shape of a fact-check result.
type checkPayload struct {
	Claim          string                `json:"claim"`
	Classification string                `json:"classification,omitempty"`
	Analysis       string                `json:"analysis,omitempty"`
	Reasoning      string                `json:"reasoning,omitempty"`
	Sources        []sourcePayload       `json:"sources,omitempty"`
	Evidence       []domain.EvidenceItem `json:"evidence"`
	Degraded       bool                  `json:"degraded"`
}

type sourcePayload struct {
	FileName   string   `json:"file_name"`
	SourceName string   `json:"source_name"`
	SourceURL  *string  `json:"source_url,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

func outputCheckJSON(cmd *cobra.Command, result *domain.FactCheckResult) error {
	payload := checkPayload{
		Claim:    result.Claim,
		Evidence: result.Context,
		Degraded: result.Degraded,
	}
	if result.Verdict != nil {
		payload.Classification = string(result.Verdict.Classification)
		payload.Analysis = result.Verdict.Analysis
		payload.Reasoning = result.Verdict.Reasoning
		for _, src := range result.Verdict.Sources {
			payload.Sources = append(payload.Sources, sourcePayload{
				FileName:   src.FileName,
				SourceName: src.SourceName,
				SourceURL:  src.SourceURL,
				Confidence: src.Confidence,
			})
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputCheckText(cmd *cobra.Command, result *domain.FactCheckResult) error {
	cmd.Printf("Claim: %s\n\n", result.Claim)

	switch {
	case result.Verdict != nil:
		cmd.Printf("Verdict: %s\n", result.Verdict.Classification)
		if result.Verdict.Analysis != "" {
			cmd.Printf("\n%s\n", result.Verdict.Analysis)
		}
		if len(result.Verdict.Sources) > 0 {
			cmd.Println("\nSources:")
			for _, src := range result.Verdict.Sources {
				line := "  - " + src.SourceName
				if src.Confidence != nil {
					line += fmt.Sprintf(" (%.0f%%)", *src.Confidence*100)
				}
				if src.SourceURL != nil {
					line += " " + *src.SourceURL
				}
				cmd.Println(line)
			}
		}
	case result.Degraded:
		cmd.Println("Verdict unavailable: the classifier could not be reached.")
		cmd.Println("Showing retrieved evidence only.")
	default:
		cmd.Println("Classification skipped.")
	}

	if len(result.Context) == 0 {
		cmd.Println("\nNo evidence found. Ingest documents first with 'verifact ingest'.")
		return nil
	}

	cmd.Println("\nEvidence:")
	for i, item := range result.Context {
		cmd.Printf("  [%d] %s (chunk %d, confidence %.2f)\n", i+1, item.SourceName, item.ChunkIndex, item.Confidence)
		cmd.Printf("      %s\n", snippet(item.Text, 200))
	}
	return nil
}

// snippet truncates text for terminal display.
func snippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
