package domain

import "time"

// Document represents an ingested source file. It is identified by its file
// name; the content hash detects unchanged re-ingestion.
type Document struct {
	// Name is the file name of the source document (unique within the store).
	Name string

	// FileType is the lowercased file extension, e.g. ".pdf".
	FileType string

	// ContentHash is the SHA-256 hex digest of the raw file bytes.
	ContentHash string

	// SourceURL is an optional external URL for the document.
	SourceURL *string

	// IngestedAt is when the document was last ingested.
	IngestedAt time.Time
}

// Chunk is the atomic retrievable unit: a bounded, overlap-preserving slice
// of a document's extracted text. Chunks are immutable once stored;
// re-ingesting a changed document replaces all of its chunks.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentName links to the owning Document.
	DocumentName string

	// Index is the 0-based sequence position within the document.
	Index int

	// StartOffset and EndOffset are character offsets into the extracted
	// document text. Neighbouring chunks overlap by a fixed margin.
	StartOffset int
	EndOffset   int

	// Content is the chunk text.
	Content string

	// Embedding is the vector representation for similarity search.
	Embedding []float32
}

// EvidenceItem is a retrieved chunk annotated with a similarity score and
// resolved source metadata. It is constructed per query and never persisted.
type EvidenceItem struct {
	// Text is the chunk content.
	Text string

	// SourceFile is the raw file name of the owning document.
	SourceFile string

	// SourceName is the human-readable display name (extension stripped,
	// separators replaced with spaces).
	SourceName string

	// SourceURL is the optional external URL of the owning document.
	SourceURL *string

	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int

	// Confidence is the distance converted to a bounded score in [0,1].
	Confidence float64

	// Distance is the raw vector distance from the claim embedding.
	Distance float64
}

// StoreStats reports the size of the evidence store.
type StoreStats struct {
	DocumentCount int
	ChunkCount    int
}
