package driven

import (
	"context"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
)

// ScoredChunk is a retrieved chunk with its vector distance from the query.
type ScoredChunk struct {
	Chunk domain.Chunk

	// Document is the owning document's metadata.
	Document domain.Document

	// Distance is the raw distance under the index's native metric.
	// Lower is closer.
	Distance float64
}

// EvidenceStore persists documents, chunks, and embeddings, and supports
// nearest-neighbour retrieval. The store exclusively owns persisted state;
// query-time pipelines never mutate it.
//
// Implementations must guarantee that a query never observes a half-written
// chunk and that Clear is isolated from concurrent readers (atomic
// before/after snapshot).
type EvidenceStore interface {
	// GetDocumentHash returns the stored content hash for a document name,
	// or "" if the document has not been ingested.
	GetDocumentHash(ctx context.Context, name string) (string, error)

	// ReplaceDocument stores a document and its chunks in a single
	// transaction, superseding any previously stored chunks for the same
	// document name (last-writer-wins atomic swap).
	ReplaceDocument(ctx context.Context, doc domain.Document, chunks []domain.Chunk) error

	// DeleteByDocument removes a document and all of its chunks.
	// Returns the number of chunks removed.
	DeleteByDocument(ctx context.Context, name string) (int, error)

	// Query finds the k nearest chunks to the embedding, ranked by the
	// index's native distance metric with ties broken by insertion order.
	// If fewer than k chunks exist, all available are returned.
	Query(ctx context.Context, embedding []float32, k int) ([]ScoredChunk, error)

	// Stats reports document and chunk counts.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Clear removes all documents and chunks in one atomic operation.
	Clear(ctx context.Context) error

	// GetMeta returns a metadata value by key, or "" if not set.
	// Used to record the embedding model identity and dimensions.
	GetMeta(ctx context.Context, key string) (string, error)

	// SetMeta sets a metadata key-value pair.
	SetMeta(ctx context.Context, key, value string) error

	// Close closes the underlying storage.
	Close() error
}

// Well-known meta keys.
const (
	// MetaEmbeddingModel records the embedding model identifier used when
	// the stored chunks were embedded.
	MetaEmbeddingModel = "embedding_model"

	// MetaEmbeddingDims records the embedding dimension count.
	MetaEmbeddingDims = "embedding_dims"
)
