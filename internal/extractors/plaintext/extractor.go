// Package plaintext extracts text from plain text files.
package plaintext

import (
	"context"
	"strings"

	"github.com/verifact-labs/verifact-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".md"}
}

// Extract returns the file content as UTF-8 text.
// Invalid byte sequences are dropped rather than failing the file.
func (e *Extractor) Extract(_ context.Context, _ string, content []byte) (string, error) {
	return strings.ToValidUTF8(string(content), ""), nil
}
