package services

import (
	"context"
	"sync"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors can be pinned per text; unknown texts get the default vector.
type mockEmbeddingService struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	defaultVec []float32
	model      string
	embedErr   error
	calls      int
}

func newMockEmbedder() *mockEmbeddingService {
	return &mockEmbeddingService{
		vectors:    make(map[string][]float32),
		defaultVec: []float32{1, 0, 0},
		model:      "mock-embedder",
	}
}

func (m *mockEmbeddingService) vectorFor(text string) []float32 {
	if vec, ok := m.vectors[text]; ok {
		return vec
	}
	return m.defaultVec
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.vectorFor(text)
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int { return len(m.defaultVec) }

func (m *mockEmbeddingService) ModelName() string { return m.model }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockClassifier implements driven.Classifier for testing.
type mockClassifier struct {
	verdict      *domain.Verdict
	classifyErr  error
	lastClaim    string
	lastEvidence []domain.EvidenceItem
	calls        int
}

func (m *mockClassifier) Classify(_ context.Context, claim string, evidence []domain.EvidenceItem) (*domain.Verdict, error) {
	m.calls++
	m.lastClaim = claim
	m.lastEvidence = evidence
	if m.classifyErr != nil {
		return nil, m.classifyErr
	}
	return m.verdict, nil
}

func (m *mockClassifier) ModelName() string { return "mock-classifier" }

func (m *mockClassifier) Ping(_ context.Context) error { return nil }

func (m *mockClassifier) Close() error { return nil }

// spyStore wraps an EvidenceStore and counts reads, so tests can assert
// validation happens before any store access.
type spyStore struct {
	driven.EvidenceStore
	reads int
}

func (s *spyStore) Query(ctx context.Context, embedding []float32, k int) ([]driven.ScoredChunk, error) {
	s.reads++
	return s.EvidenceStore.Query(ctx, embedding, k)
}

func (s *spyStore) GetMeta(ctx context.Context, key string) (string, error) {
	s.reads++
	return s.EvidenceStore.GetMeta(ctx, key)
}
