package domain

import "fmt"

// Classification is the verdict label assigned to a claim.
type Classification string

// Classification values mirror the classifier's structured output contract.
const (
	ClassificationSupported    Classification = "SUPPORTED"
	ClassificationContradicted Classification = "CONTRADICTED"
	ClassificationInsufficient Classification = "INSUFFICIENT"
	ClassificationMixed        Classification = "MIXED"
)

// ParseClassification validates a classifier-reported label.
func ParseClassification(s string) (Classification, error) {
	switch Classification(s) {
	case ClassificationSupported, ClassificationContradicted,
		ClassificationInsufficient, ClassificationMixed:
		return Classification(s), nil
	}
	return "", fmt.Errorf("%w: classification %q", ErrInvalidInput, s)
}

// SourceReference is a cited source document. References are deduplicated by
// underlying document identity, not by chunk.
type SourceReference struct {
	// FileName is the source document's file name.
	FileName string

	// SourceName is the human-readable display name.
	SourceName string

	// SourceURL is the optional external URL for the document.
	SourceURL *string

	// Confidence is the best retrieval confidence observed for the document,
	// when any of its chunks appeared in the retrieved context.
	Confidence *float64
}

// Verdict is the structured classification of a claim against retrieved
// evidence. It is query-scoped and never persisted.
type Verdict struct {
	// Classification is the verdict label.
	Classification Classification

	// Analysis is the classifier's assessment of the claim.
	Analysis string

	// Reasoning is the classifier's step-by-step reasoning.
	Reasoning string

	// Sources lists the documents the verdict is grounded in,
	// deduplicated and in first-seen order.
	Sources []SourceReference
}

// FactCheckResult is the outcome of a single fact-check request.
// Degraded marks the fallback path: the classifier was requested but
// unreachable, so only the raw retrieved context is returned.
type FactCheckResult struct {
	// Claim is the checked claim text.
	Claim string

	// Context holds the retrieved evidence, ranked by similarity.
	Context []EvidenceItem

	// Verdict is nil when classification was skipped or degraded.
	Verdict *Verdict

	// Degraded is true when the classifier was requested but failed;
	// the caller should present the evidence for manual review.
	Degraded bool
}
