package extractors

import (
	"github.com/verifact-labs/verifact-cli/internal/extractors/csv"
	"github.com/verifact-labs/verifact-cli/internal/extractors/docx"
	"github.com/verifact-labs/verifact-cli/internal/extractors/pdf"
	"github.com/verifact-labs/verifact-cli/internal/extractors/plaintext"
)

// NewDefaultRegistry builds a registry with all built-in extractors:
// plain text, PDF, DOCX, and CSV.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(csv.New())
	return r
}
