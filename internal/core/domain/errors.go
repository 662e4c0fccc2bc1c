package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidClaim indicates an empty or oversized claim.
	// Rejected before any retrieval work.
	ErrInvalidClaim = errors.New("invalid claim")

	// ErrUnsupportedType indicates a file type with no registered extractor.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrExtraction indicates a corrupt or unreadable file.
	// Skips the file; never aborts a directory batch.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbeddingUnavailable indicates the embedding service failed or
	// timed out. Fails the ingest step for the affected file.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrClassification indicates the classifier failed, timed out, or
	// returned a malformed response. Never propagated to fact-check
	// callers; it triggers the degraded fallback instead.
	ErrClassification = errors.New("classification failed")

	// ErrStoreUnavailable indicates the persistence layer is unreachable.
	// Fatal for both pipelines; no meaningful fallback exists.
	ErrStoreUnavailable = errors.New("evidence store unavailable")

	// ErrModelMismatch indicates the configured embedding model differs
	// from the one recorded with the stored chunks. Mixing models between
	// ingest and query silently degrades ranking quality.
	ErrModelMismatch = errors.New("embedding model mismatch")
)
