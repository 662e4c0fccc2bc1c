package cli

import (
	"context"
	"errors"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driving"
)

// mockFactCheckService returns a canned result and records the last call.
type mockFactCheckService struct {
	result    *domain.FactCheckResult
	err       error
	lastClaim string
	lastOpts  driving.CheckOptions
}

var _ driving.FactCheckService = (*mockFactCheckService)(nil)

func (m *mockFactCheckService) Check(_ context.Context, claim string, opts driving.CheckOptions) (*domain.FactCheckResult, error) {
	m.lastClaim = claim
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.FactCheckResult{Claim: claim}, nil
}

// mockIngestService returns canned results and records the last call.
type mockIngestService struct {
	fileResult  *driving.IngestResult
	batchResult *driving.BatchResult
	stats       domain.StoreStats
	deleted     int
	err         error

	lastPath      string
	lastSourceURL string
	lastClear     bool
}

var _ driving.IngestService = (*mockIngestService)(nil)

func (m *mockIngestService) IngestFile(_ context.Context, path, sourceURL string) (*driving.IngestResult, error) {
	m.lastPath = path
	m.lastSourceURL = sourceURL
	if m.err != nil {
		return nil, m.err
	}
	if m.fileResult != nil {
		return m.fileResult, nil
	}
	return &driving.IngestResult{FileName: path, ChunksCreated: 1}, nil
}

func (m *mockIngestService) IngestDir(_ context.Context, dir string, clear bool) (*driving.BatchResult, error) {
	m.lastPath = dir
	m.lastClear = clear
	if m.err != nil {
		return nil, m.err
	}
	if m.batchResult != nil {
		return m.batchResult, nil
	}
	return &driving.BatchResult{}, nil
}

func (m *mockIngestService) DeleteDocument(_ context.Context, name string) (int, error) {
	m.lastPath = name
	if m.err != nil {
		return 0, m.err
	}
	return m.deleted, nil
}

func (m *mockIngestService) Stats(context.Context) (domain.StoreStats, error) {
	if m.err != nil {
		return domain.StoreStats{}, m.err
	}
	return m.stats, nil
}

var errMock = errors.New("mock failure")

// setupTestServices installs mocks in the package-level service vars and
// returns a cleanup that restores the originals.
func setupTestServices() (fc *mockFactCheckService, ing *mockIngestService, cleanup func()) {
	oldFactCheck := factCheckService
	oldIngest := ingestService

	fc = &mockFactCheckService{}
	ing = &mockIngestService{}
	factCheckService = fc
	ingestService = ing

	return fc, ing, func() {
		factCheckService = oldFactCheck
		ingestService = oldIngest
	}
}
