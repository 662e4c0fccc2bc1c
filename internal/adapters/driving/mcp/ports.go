package mcp

import (
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// FactCheck turns claims into evidence and verdicts.
	FactCheck driving.FactCheckService

	// Ingest manages the evidence corpus.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.FactCheck == nil {
		return ErrMissingFactCheckService
	}
	// Ingest is optional; corpus tools are simply not registered without it.
	return nil
}
