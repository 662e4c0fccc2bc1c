// Package classifier provides the prompt and response handling shared by
// the provider-specific classifier adapters.
package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driven"
)

// DefaultPrompt is the fact-checking prompt template. The first placeholder
// takes the claim, the second the numbered evidence block.
const DefaultPrompt = `You are a fact-checking assistant. Your task is to analyze the provided context and give a factual assessment of the user's claim.

CLAIM: %q

RETRIEVED CONTEXT:
%s

INSTRUCTIONS:
1. Analyze the retrieved context carefully
2. Determine if the context supports, contradicts, or is insufficient to verify the claim
3. Provide a clear fact-check response with one of these classifications:
   - SUPPORTED: The claim is supported by the evidence
   - CONTRADICTED: The claim is contradicted by the evidence
   - INSUFFICIENT: Not enough evidence to make a determination
   - MIXED: Evidence both supports and contradicts aspects of the claim
4. If the claim is not a factual statement suitable for fact-checking (e.g. opinions, requests, questions), classify it as INSUFFICIENT and explain why
5. In your reasoning, do not refer to sources by number. Refer to them by their content or context instead
6. Be precise and avoid speculation beyond what the evidence shows

You must respond with a JSON object matching this exact structure:
{
  "classification": "SUPPORTED|CONTRADICTED|INSUFFICIENT|MIXED",
  "analysis": "Your detailed analysis of the claim",
  "sources_used": ["filename.txt"],
  "reasoning": "Step-by-step reasoning process"
}`

// BuildPrompt renders the fact-check prompt for a claim and its evidence.
// The template is loaded from the prompt store when one is configured.
func BuildPrompt(store driven.PromptStore, claim string, evidence []domain.EvidenceItem) string {
	template := DefaultPrompt
	if store != nil {
		if loaded, err := store.Load(driven.PromptFactCheck); err == nil && loaded != "" {
			template = loaded
		}
	}

	var block strings.Builder
	for i, item := range evidence {
		fmt.Fprintf(&block, "[Source %d] (File: %s)\n%s\n\n", i+1, item.SourceFile, item.Text)
	}

	return fmt.Sprintf(template, claim, strings.TrimRight(block.String(), "\n"))
}

// InsufficientVerdict is the verdict for a claim with no retrieved evidence.
// Providers return it directly instead of spending an inference call.
func InsufficientVerdict() *domain.Verdict {
	return &domain.Verdict{
		Classification: domain.ClassificationInsufficient,
		Analysis:       "No relevant evidence was found in the ingested documents, so the claim cannot be verified.",
		Reasoning:      "Retrieval returned no context for the claim. Without evidence the claim is neither supported nor contradicted.",
	}
}

// verdictPayload is the JSON shape the classifier is asked to produce.
type verdictPayload struct {
	Classification string   `json:"classification"`
	Analysis       string   `json:"analysis"`
	SourcesUsed    []string `json:"sources_used"`
	Reasoning      string   `json:"reasoning"`
}

// ParseVerdict decodes the classifier's JSON output and resolves the
// self-reported sources against the evidence that was supplied. A malformed
// payload fails with an error wrapping domain.ErrClassification so callers
// degrade instead of surfacing the failure.
func ParseVerdict(raw string, evidence []domain.EvidenceItem) (*domain.Verdict, error) {
	// Some models wrap JSON in a fenced block despite JSON mode.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var payload verdictPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: decode verdict JSON: %v", domain.ErrClassification, err)
	}

	classification, err := domain.ParseClassification(payload.Classification)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassification, err)
	}

	byFile := make(map[string]domain.EvidenceItem, len(evidence))
	for _, item := range evidence {
		if _, ok := byFile[item.SourceFile]; !ok {
			byFile[item.SourceFile] = item
		}
	}

	var sources []domain.SourceReference
	seen := make(map[string]bool)
	for _, fileName := range payload.SourcesUsed {
		if seen[fileName] {
			continue
		}
		seen[fileName] = true

		ref := domain.SourceReference{
			FileName:   fileName,
			SourceName: domain.DisplayName(fileName),
		}
		if item, ok := byFile[fileName]; ok {
			ref.SourceName = item.SourceName
			ref.SourceURL = item.SourceURL
		}
		sources = append(sources, ref)
	}

	return &domain.Verdict{
		Classification: classification,
		Analysis:       payload.Analysis,
		Reasoning:      payload.Reasoning,
		Sources:        sources,
	}, nil
}
