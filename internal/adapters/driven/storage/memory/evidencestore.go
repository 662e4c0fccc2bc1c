// Package memory provides in-memory store implementations, used for tests
// and as a fallback when no database path is configured.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driven"
)

// Ensure EvidenceStore implements the interface.
var _ driven.EvidenceStore = (*EvidenceStore)(nil)

// EvidenceStore is an in-memory implementation of driven.EvidenceStore.
// Distances use the squared L2 metric, matching the SQLite-backed store's
// ranking behaviour.
type EvidenceStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
	order     []string
	meta      map[string]string
}

// NewEvidenceStore creates a new in-memory evidence store.
func NewEvidenceStore() *EvidenceStore {
	return &EvidenceStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
		meta:      make(map[string]string),
	}
}

// GetDocumentHash returns the stored content hash, or "" if unknown.
func (s *EvidenceStore) GetDocumentHash(_ context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[name]
	if !ok {
		return "", nil
	}
	return doc.ContentHash, nil
}

// ReplaceDocument stores a document and its chunks, discarding any previous
// chunks for the same name.
func (s *EvidenceStore) ReplaceDocument(_ context.Context, doc domain.Document, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.documents[doc.Name]; !exists {
		s.order = append(s.order, doc.Name)
	}
	s.documents[doc.Name] = doc
	s.chunks[doc.Name] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// DeleteByDocument removes a document and returns its chunk count.
func (s *EvidenceStore) DeleteByDocument(_ context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[name]; !ok {
		return 0, fmt.Errorf("%w: document %q", domain.ErrNotFound, name)
	}
	count := len(s.chunks[name])
	delete(s.documents, name)
	delete(s.chunks, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return count, nil
}

// Query scans all chunks and returns the k nearest by squared L2 distance,
// with insertion order breaking ties.
func (s *EvidenceStore) Query(_ context.Context, embedding []float32, k int) ([]driven.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var scored []driven.ScoredChunk
	for _, name := range s.order {
		doc := s.documents[name]
		for _, chunk := range s.chunks[name] {
			scored = append(scored, driven.ScoredChunk{
				Chunk:    chunk,
				Document: doc,
				Distance: squaredL2(embedding, chunk.Embedding),
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Stats reports document and chunk counts.
func (s *EvidenceStore) Stats(_ context.Context) (domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := domain.StoreStats{DocumentCount: len(s.documents)}
	for _, chunks := range s.chunks {
		stats.ChunkCount += len(chunks)
	}
	return stats, nil
}

// Clear removes all documents, chunks, and metadata.
func (s *EvidenceStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = make(map[string]domain.Document)
	s.chunks = make(map[string][]domain.Chunk)
	s.order = nil
	s.meta = make(map[string]string)
	return nil
}

// GetMeta returns a metadata value, or "" if not set.
func (s *EvidenceStore) GetMeta(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta[key], nil
}

// SetMeta sets a metadata key-value pair.
func (s *EvidenceStore) SetMeta(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[key] = value
	return nil
}

// Close releases resources. Nothing to release for the in-memory store.
func (s *EvidenceStore) Close() error {
	return nil
}

// squaredL2 computes the squared Euclidean distance between two vectors.
// Mismatched lengths score as infinitely far apart.
func squaredL2(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
