// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
)

// CheckOptions configures a fact-check request.
type CheckOptions struct {
	// K is the number of evidence chunks to retrieve (default 5, max 10).
	K int

	// UseClassifier controls whether the classification capability is
	// invoked. When false, only the retrieved context is returned.
	UseClassifier bool
}

// FactCheckService turns a claim into ranked evidence and a grounded verdict.
type FactCheckService interface {
	// Check validates the claim, retrieves evidence, and classifies.
	// Classifier failure never fails the request: the result comes back
	// with a nil verdict and Degraded set.
	Check(ctx context.Context, claim string, opts CheckOptions) (*domain.FactCheckResult, error)
}
