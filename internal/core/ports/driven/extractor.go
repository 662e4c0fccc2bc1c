package driven

import "context"

// Extractor converts a source file of a specific format into plain UTF-8
// text. One implementation exists per supported file type.
//
// A corrupt or unreadable file fails with an error wrapping
// domain.ErrExtraction; callers skip the file and continue the batch.
type Extractor interface {
	// Extensions returns the lowercased file extensions this extractor
	// handles, including the leading dot (e.g. ".pdf").
	Extensions() []string

	// Extract returns the plain text content of the raw file bytes.
	// An empty result means no content was extracted, which callers must
	// treat as "nothing to index", not an error.
	Extract(ctx context.Context, name string, content []byte) (string, error)
}

// ExtractorRegistry selects an extractor by file extension.
type ExtractorRegistry interface {
	// ForFile returns the extractor for the file's extension, or an error
	// wrapping domain.ErrUnsupportedType if none is registered.
	ForFile(name string) (Extractor, error)

	// Extensions returns all registered extensions.
	Extensions() []string
}
