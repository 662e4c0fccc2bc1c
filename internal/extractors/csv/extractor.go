// Package csv extracts text from delimited-value tables by rendering them
// as aligned, readable rows.
package csv

import (
	"bytes"
	"context"
	encsv "encoding/csv"
	"fmt"
	"strings"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles CSV documents.
type Extractor struct{}

// New creates a new CSV extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".csv"}
}

// Extract renders the table as text with columns padded to equal width,
// so row values stay associated with their headers after chunking.
func (e *Extractor) Extract(_ context.Context, name string, content []byte) (string, error) {
	reader := encsv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: parse csv %s: %v", domain.ErrExtraction, name, err)
	}
	if len(records) == 0 {
		return "", nil
	}

	widths := columnWidths(records)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Data from %s:\n\n", name))
	for _, record := range records {
		for i, field := range record {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(field)
			if pad := widths[i] - len(field); pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), " \n"), nil
}

// columnWidths returns the widest field per column across all records.
func columnWidths(records [][]string) []int {
	var widths []int
	for _, record := range records {
		for i, field := range record {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if len(field) > widths[i] {
				widths[i] = len(field)
			}
		}
	}
	return widths
}
