package driving

import (
	"context"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
)

// IngestResult reports the outcome of ingesting a single file.
type IngestResult struct {
	// FileName is the name of the ingested file.
	FileName string

	// ChunksCreated is the number of chunks written to the store.
	ChunksCreated int

	// Skipped is true when the file's name and content hash were already
	// stored, making ingestion an idempotent no-op.
	Skipped bool
}

// BatchResult aggregates per-file outcomes for a directory ingest.
// One file's failure never aborts the rest of the batch.
type BatchResult struct {
	FilesTotal    int
	FilesIngested int
	FilesSkipped  int
	ChunksCreated int

	// Failed maps file names to the error that stopped their ingestion.
	Failed map[string]error
}

// IngestService orchestrates extraction, chunking, embedding, and storage.
type IngestService interface {
	// IngestFile processes a single file into the evidence store.
	// sourceURL is an optional external URL recorded with the document.
	IngestFile(ctx context.Context, path, sourceURL string) (*IngestResult, error)

	// IngestDir processes every supported file in a directory. With clear
	// set, all stored documents are purged first (atomically with respect
	// to concurrent readers) before re-ingesting.
	IngestDir(ctx context.Context, dir string, clear bool) (*BatchResult, error)

	// DeleteDocument removes a document and its chunks from the store.
	// Returns the number of chunks removed.
	DeleteDocument(ctx context.Context, name string) (int, error)

	// Stats reports the store's document and chunk counts.
	Stats(ctx context.Context) (domain.StoreStats, error)
}
