package mcp

import (
	"context"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driving"
)

// mockFactCheckService is a mock implementation of driving.FactCheckService.
type mockFactCheckService struct {
	result   *domain.FactCheckResult
	err      error
	lastOpts driving.CheckOptions
}

func (m *mockFactCheckService) Check(
	_ context.Context,
	_ string,
	opts driving.CheckOptions,
) (*domain.FactCheckResult, error) {
	m.lastOpts = opts
	return m.result, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	fileResult  *driving.IngestResult
	batchResult *driving.BatchResult
	stats       domain.StoreStats
	deleted     int
	err         error
}

func (m *mockIngestService) IngestFile(_ context.Context, _, _ string) (*driving.IngestResult, error) {
	return m.fileResult, m.err
}

func (m *mockIngestService) IngestDir(_ context.Context, _ string, _ bool) (*driving.BatchResult, error) {
	return m.batchResult, m.err
}

func (m *mockIngestService) DeleteDocument(_ context.Context, _ string) (int, error) {
	return m.deleted, m.err
}

func (m *mockIngestService) Stats(_ context.Context) (domain.StoreStats, error) {
	return m.stats, m.err
}
