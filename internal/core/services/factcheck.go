package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driven"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driving"
	"github.com/verifact-labs/verifact-cli/internal/logger"
)

// Ensure FactCheckService implements the interface.
var _ driving.FactCheckService = (*FactCheckService)(nil)

// Retrieval bounds.
const (
	// DefaultK is the number of evidence chunks retrieved per claim.
	DefaultK = 5

	// MaxK caps how many chunks a single request may ask for.
	MaxK = 10

	// MaxClaimLength is the longest accepted claim, in characters.
	MaxClaimLength = 1000

	// DefaultClassifierTimeout bounds a single classification call.
	DefaultClassifierTimeout = 120 * time.Second
)

// FactCheckService retrieves evidence for a claim and classifies it.
// The classifier is optional (can be nil); without one, Check returns
// evidence only.
type FactCheckService struct {
	store             driven.EvidenceStore
	embedder          driven.EmbeddingService
	classifier        driven.Classifier
	classifierTimeout time.Duration
	defaultK          int
}

// FactCheckOption configures the fact-check service.
type FactCheckOption func(*FactCheckService)

// WithClassifierTimeout overrides the per-call classification timeout.
func WithClassifierTimeout(d time.Duration) FactCheckOption {
	return func(s *FactCheckService) {
		if d > 0 {
			s.classifierTimeout = d
		}
	}
}

// WithDefaultK overrides how many evidence chunks are retrieved when a
// request does not ask for a specific count. Still capped at MaxK.
func WithDefaultK(k int) FactCheckOption {
	return func(s *FactCheckService) {
		if k > 0 {
			s.defaultK = k
		}
	}
}

// NewFactCheckService creates a new fact-check service.
// The classifier parameter is optional (can be nil).
func NewFactCheckService(
	store driven.EvidenceStore,
	embedder driven.EmbeddingService,
	classifier driven.Classifier,
	opts ...FactCheckOption,
) (*FactCheckService, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: evidence store is required", domain.ErrStoreUnavailable)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding service is required", domain.ErrEmbeddingUnavailable)
	}

	s := &FactCheckService{
		store:             store,
		embedder:          embedder,
		classifier:        classifier,
		classifierTimeout: DefaultClassifierTimeout,
		defaultK:          DefaultK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Check validates the claim, retrieves the nearest evidence, and, when a
// classifier is available and requested, produces a verdict. Classifier
// failure degrades the result instead of failing it: the caller still gets
// the retrieved context, with a nil verdict and Degraded set.
func (s *FactCheckService) Check(ctx context.Context, claim string, opts driving.CheckOptions) (*domain.FactCheckResult, error) {
	claim = strings.TrimSpace(claim)
	if claim == "" {
		return nil, fmt.Errorf("%w: claim is empty", domain.ErrInvalidClaim)
	}
	if utf8.RuneCountInString(claim) > MaxClaimLength {
		return nil, fmt.Errorf("%w: claim exceeds %d characters", domain.ErrInvalidClaim, MaxClaimLength)
	}

	k := opts.K
	if k <= 0 {
		k = s.defaultK
	}
	if k > MaxK {
		k = MaxK
	}

	logger.Section("Fact Check")
	logger.Debug("Claim: %q", claim)
	logger.Debug("K: %d, classifier: %t", k, opts.UseClassifier && s.classifier != nil)

	s.warnOnModelMismatch(ctx)

	embedding, err := s.embedder.Embed(ctx, claim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	scored, err := s.store.Query(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("query evidence: %w", err)
	}
	logger.Debug("Retrieved %d evidence chunks", len(scored))

	evidence := make([]domain.EvidenceItem, len(scored))
	for i, sc := range scored {
		evidence[i] = domain.EvidenceItem{
			Text:       sc.Chunk.Content,
			SourceFile: sc.Document.Name,
			SourceName: domain.DisplayName(sc.Document.Name),
			SourceURL:  sc.Document.SourceURL,
			ChunkIndex: sc.Chunk.Index,
			Confidence: confidence(sc.Distance),
			Distance:   sc.Distance,
		}
	}

	result := &domain.FactCheckResult{
		Claim:   claim,
		Context: evidence,
	}

	if !opts.UseClassifier || s.classifier == nil {
		logger.Debug("Classification skipped")
		return result, nil
	}

	classifyCtx, cancel := context.WithTimeout(ctx, s.classifierTimeout)
	defer cancel()

	verdict, err := s.classifier.Classify(classifyCtx, claim, evidence)
	if err != nil {
		logger.Warn("Classification failed, returning evidence only: %v", err)
		result.Degraded = true
		return result, nil
	}

	verdict.Sources = resolveSources(verdict.Sources, evidence)
	result.Verdict = verdict
	return result, nil
}

// confidence converts a raw vector distance into a bounded [0,1] score.
func confidence(distance float64) float64 {
	c := 1 - distance
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// resolveSources deduplicates cited sources by document identity,
// preserving first-seen order, and annotates each with the best retrieval
// confidence among that document's evidence.
func resolveSources(sources []domain.SourceReference, evidence []domain.EvidenceItem) []domain.SourceReference {
	best := make(map[string]float64)
	for _, item := range evidence {
		if c, ok := best[item.SourceFile]; !ok || item.Confidence > c {
			best[item.SourceFile] = item.Confidence
		}
	}

	seen := make(map[string]bool)
	resolved := make([]domain.SourceReference, 0, len(sources))
	for _, src := range sources {
		if seen[src.FileName] {
			continue
		}
		seen[src.FileName] = true
		if c, ok := best[src.FileName]; ok {
			conf := c
			src.Confidence = &conf
		}
		resolved = append(resolved, src)
	}
	return resolved
}

// warnOnModelMismatch logs when the configured embedder differs from the
// one that built the store. Retrieval still runs; distances across
// embedding spaces are just not meaningful.
func (s *FactCheckService) warnOnModelMismatch(ctx context.Context) {
	stored, err := s.store.GetMeta(ctx, driven.MetaEmbeddingModel)
	if err != nil || stored == "" {
		return
	}
	if stored != s.embedder.ModelName() {
		logger.Warn("Store was embedded with %q but %q is configured; results may be unreliable",
			stored, s.embedder.ModelName())
	}
}
