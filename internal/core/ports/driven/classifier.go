package driven

import (
	"context"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
)

// Classifier produces a structured verdict for a claim against ordered
// evidence. It is an optional capability: when it fails or times out the
// fact-check pipeline degrades to returning raw context, never an error.
//
// Implementations should use low-variance decoding so repeated calls on the
// same claim and evidence tend toward a consistent classification.
type Classifier interface {
	// Classify analyses the claim against the ordered evidence and returns
	// a verdict with a label, reasoning, and the subset of sources the
	// classifier actually relied on.
	Classify(ctx context.Context, claim string, evidence []domain.EvidenceItem) (*domain.Verdict, error)

	// ModelName returns the model identifier used for classification.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
