package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/verifact-labs/verifact-cli/internal/chunker"
	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driven"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driving"
	"github.com/verifact-labs/verifact-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Default ingestion limits.
const (
	// DefaultWorkers bounds how many files are processed concurrently
	// during a directory ingest.
	DefaultWorkers = 4

	// DefaultEmbedRate caps embedding API calls per second.
	DefaultEmbedRate = 5
)

// IngestService turns source files into stored, embedded chunks.
type IngestService struct {
	store      driven.EvidenceStore
	embedder   driven.EmbeddingService
	extractors driven.ExtractorRegistry
	chunks     *chunker.Chunker
	limiter    *rate.Limiter
	workers    int
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithChunker overrides the default chunker.
func WithChunker(c *chunker.Chunker) IngestOption {
	return func(s *IngestService) {
		if c != nil {
			s.chunks = c
		}
	}
}

// WithWorkers sets the directory ingest concurrency bound.
func WithWorkers(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithEmbedLimiter overrides the embedding call rate limiter.
func WithEmbedLimiter(l *rate.Limiter) IngestOption {
	return func(s *IngestService) {
		if l != nil {
			s.limiter = l
		}
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	store driven.EvidenceStore,
	embedder driven.EmbeddingService,
	extractors driven.ExtractorRegistry,
	opts ...IngestOption,
) (*IngestService, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: evidence store is required", domain.ErrStoreUnavailable)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding service is required", domain.ErrEmbeddingUnavailable)
	}

	defaultChunker, err := chunker.New()
	if err != nil {
		return nil, err
	}

	s := &IngestService{
		store:      store,
		embedder:   embedder,
		extractors: extractors,
		chunks:     defaultChunker,
		limiter:    rate.NewLimiter(rate.Limit(DefaultEmbedRate), DefaultEmbedRate),
		workers:    DefaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IngestFile processes a single file into the evidence store.
// Re-ingesting a file whose content hash is already stored is a no-op.
func (s *IngestService) IngestFile(ctx context.Context, path, sourceURL string) (*driving.IngestResult, error) {
	logger.Section("Ingest")
	logger.Debug("File: %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	name := filepath.Base(path)
	hash := contentHash(content)

	stored, err := s.store.GetDocumentHash(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check stored hash: %w", err)
	}
	if stored == hash {
		logger.Info("Unchanged, skipping: %s", name)
		return &driving.IngestResult{FileName: name, Skipped: true}, nil
	}

	if err := s.checkModelIdentity(ctx); err != nil {
		return nil, err
	}

	extractor, err := s.extractors.ForFile(name)
	if err != nil {
		return nil, err
	}
	text, err := extractor.Extract(ctx, name, content)
	if err != nil {
		return nil, err
	}

	drafts := s.chunks.Split(cleanText(text))
	logger.Debug("Extracted %d characters, %d chunks", len(text), len(drafts))

	embeddings, err := s.embedDrafts(ctx, drafts)
	if err != nil {
		return nil, err
	}

	doc := domain.Document{
		Name:        name,
		FileType:    strings.ToLower(filepath.Ext(name)),
		ContentHash: hash,
		IngestedAt:  time.Now().UTC(),
	}
	if sourceURL != "" {
		doc.SourceURL = &sourceURL
	}

	chunks := make([]domain.Chunk, len(drafts))
	for i, d := range drafts {
		chunks[i] = domain.Chunk{
			ID:           uuid.NewString(),
			DocumentName: name,
			Index:        d.Index,
			StartOffset:  d.Start,
			EndOffset:    d.End,
			Content:      d.Content,
			Embedding:    embeddings[i],
		}
	}

	if err := s.store.ReplaceDocument(ctx, doc, chunks); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	if err := s.recordModelIdentity(ctx); err != nil {
		return nil, err
	}

	logger.Info("Ingested %s: %d chunks", name, len(chunks))
	return &driving.IngestResult{FileName: name, ChunksCreated: len(chunks)}, nil
}

// IngestDir processes every supported file in a directory. Files are
// handled independently and concurrently; one failure never aborts the
// batch. With clear set, the store is purged first.
func (s *IngestService) IngestDir(ctx context.Context, dir string, clear bool) (*driving.BatchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	supported := make(map[string]bool)
	for _, ext := range s.extractors.Extensions() {
		supported[ext] = true
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supported[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if clear {
		logger.Info("Clearing evidence store before ingest")
		if err := s.store.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear store: %w", err)
		}
	}

	result := &driving.BatchResult{
		FilesTotal: len(paths),
		Failed:     make(map[string]error),
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.workers)
	)
	for _, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := s.IngestFile(ctx, path, "")

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[filepath.Base(path)] = err
				return
			}
			if res.Skipped {
				result.FilesSkipped++
				return
			}
			result.FilesIngested++
			result.ChunksCreated += res.ChunksCreated
		}(path)
	}
	wg.Wait()

	return result, nil
}

// DeleteDocument removes a document and its chunks from the store.
func (s *IngestService) DeleteDocument(ctx context.Context, name string) (int, error) {
	return s.store.DeleteByDocument(ctx, name)
}

// Stats reports the store's document and chunk counts.
func (s *IngestService) Stats(ctx context.Context) (domain.StoreStats, error) {
	return s.store.Stats(ctx)
}

// embedDrafts embeds chunk drafts in batches, honouring the rate limiter.
func (s *IngestService) embedDrafts(ctx context.Context, drafts []chunker.Draft) ([][]float32, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	texts := make([]string, len(drafts))
	for i, d := range drafts {
		texts[i] = d.Content
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(embeddings) != len(drafts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingUnavailable, len(embeddings), len(drafts))
	}
	return embeddings, nil
}

// checkModelIdentity refuses to mix embedding spaces: chunks embedded with
// one model cannot be searched with vectors from another.
func (s *IngestService) checkModelIdentity(ctx context.Context) error {
	stored, err := s.store.GetMeta(ctx, driven.MetaEmbeddingModel)
	if err != nil {
		return fmt.Errorf("read embedding model meta: %w", err)
	}
	if stored != "" && stored != s.embedder.ModelName() {
		return fmt.Errorf("%w: store was built with %q but %q is configured; re-ingest with --clear",
			domain.ErrModelMismatch, stored, s.embedder.ModelName())
	}
	return nil
}

// recordModelIdentity stamps the store with the embedder's identity.
func (s *IngestService) recordModelIdentity(ctx context.Context) error {
	if err := s.store.SetMeta(ctx, driven.MetaEmbeddingModel, s.embedder.ModelName()); err != nil {
		return fmt.Errorf("record embedding model: %w", err)
	}
	if err := s.store.SetMeta(ctx, driven.MetaEmbeddingDims, strconv.Itoa(s.embedder.Dimensions())); err != nil {
		return fmt.Errorf("record embedding dimensions: %w", err)
	}
	return nil
}

// contentHash returns the SHA-256 hex digest of the raw file bytes.
func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// cleanText collapses whitespace runs into single spaces and drops
// characters outside letters, digits, and basic punctuation.
func cleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	space := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if !keepRune(r) {
			continue
		}
		if space && b.Len() > 0 {
			b.WriteRune(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

func keepRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		return true
	}
	switch r {
	case '.', ',', '!', '?', ';', ':', '(', ')', '-':
		return true
	}
	return false
}
