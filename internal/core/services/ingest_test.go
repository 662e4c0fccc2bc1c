package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifact-labs/verifact-cli/internal/adapters/driven/storage/memory"
	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driven"
	"github.com/verifact-labs/verifact-cli/internal/extractors"
)

func newIngestFixture(t *testing.T) (*IngestService, *memory.EvidenceStore, *mockEmbeddingService) {
	t.Helper()
	store := memory.NewEvidenceStore()
	embedder := newMockEmbedder()
	svc, err := NewIngestService(store, embedder, extractors.NewDefaultRegistry())
	require.NoError(t, err)
	return svc, store, embedder
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestIngestFile(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests a text file", func(t *testing.T) {
		svc, store, _ := newIngestFixture(t)
		path := writeFile(t, t.TempDir(), "facts.txt", "The dam was completed in 1936.")

		res, err := svc.IngestFile(ctx, path, "")
		require.NoError(t, err)

		assert.Equal(t, "facts.txt", res.FileName)
		assert.Equal(t, 1, res.ChunksCreated)
		assert.False(t, res.Skipped)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.DocumentCount)
		assert.Equal(t, 1, stats.ChunkCount)

		// Model identity is stamped on first ingest.
		model, err := store.GetMeta(ctx, driven.MetaEmbeddingModel)
		require.NoError(t, err)
		assert.Equal(t, "mock-embedder", model)
	})

	t.Run("unchanged re-ingest is a no-op", func(t *testing.T) {
		svc, _, embedder := newIngestFixture(t)
		path := writeFile(t, t.TempDir(), "facts.txt", "The dam was completed in 1936.")

		_, err := svc.IngestFile(ctx, path, "")
		require.NoError(t, err)
		callsAfterFirst := embedder.callCount()

		res, err := svc.IngestFile(ctx, path, "")
		require.NoError(t, err)

		assert.True(t, res.Skipped)
		assert.Zero(t, res.ChunksCreated)
		assert.Equal(t, callsAfterFirst, embedder.callCount(), "skip must not re-embed")
	})

	t.Run("changed content replaces chunks", func(t *testing.T) {
		svc, store, _ := newIngestFixture(t)
		dir := t.TempDir()
		path := writeFile(t, dir, "facts.txt", "Original statement.")

		_, err := svc.IngestFile(ctx, path, "")
		require.NoError(t, err)

		writeFile(t, dir, "facts.txt", "Revised statement with different bytes.")
		res, err := svc.IngestFile(ctx, path, "")
		require.NoError(t, err)
		assert.False(t, res.Skipped)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.DocumentCount)
		assert.Equal(t, 1, stats.ChunkCount)

		results, err := store.Query(ctx, []float32{1, 0, 0}, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Contains(t, results[0].Chunk.Content, "Revised")
	})

	t.Run("records source URL", func(t *testing.T) {
		svc, store, _ := newIngestFixture(t)
		path := writeFile(t, t.TempDir(), "paper.md", "Findings were published in May.")

		_, err := svc.IngestFile(ctx, path, "https://example.com/paper")
		require.NoError(t, err)

		results, err := store.Query(ctx, []float32{1, 0, 0}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NotNil(t, results[0].Document.SourceURL)
		assert.Equal(t, "https://example.com/paper", *results[0].Document.SourceURL)
	})

	t.Run("unsupported extension fails", func(t *testing.T) {
		svc, _, _ := newIngestFixture(t)
		path := writeFile(t, t.TempDir(), "image.png", "not text")

		_, err := svc.IngestFile(ctx, path, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("rejects a store built with another embedding model", func(t *testing.T) {
		svc, store, _ := newIngestFixture(t)
		require.NoError(t, store.SetMeta(ctx, driven.MetaEmbeddingModel, "other-model"))

		path := writeFile(t, t.TempDir(), "facts.txt", "Anything.")
		_, err := svc.IngestFile(ctx, path, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrModelMismatch)
		assert.Contains(t, err.Error(), "--clear")
	})

	t.Run("cleans whitespace before chunking", func(t *testing.T) {
		svc, store, _ := newIngestFixture(t)
		path := writeFile(t, t.TempDir(), "messy.txt", "Spaced    out\n\n\ttext   here.")

		_, err := svc.IngestFile(ctx, path, "")
		require.NoError(t, err)

		results, err := store.Query(ctx, []float32{1, 0, 0}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Spaced out text here.", results[0].Chunk.Content)
	})
}

func TestIngestDir(t *testing.T) {
	ctx := context.Background()

	t.Run("processes all supported files", func(t *testing.T) {
		svc, store, _ := newIngestFixture(t)
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", "First document.")
		writeFile(t, dir, "b.md", "Second document.")
		writeFile(t, dir, "ignored.png", "binary")

		res, err := svc.IngestDir(ctx, dir, false)
		require.NoError(t, err)

		assert.Equal(t, 2, res.FilesTotal)
		assert.Equal(t, 2, res.FilesIngested)
		assert.Equal(t, 2, res.ChunksCreated)
		assert.Empty(t, res.Failed)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.DocumentCount)
	})

	t.Run("one bad file never aborts the batch", func(t *testing.T) {
		svc, _, _ := newIngestFixture(t)
		dir := t.TempDir()
		writeFile(t, dir, "good.txt", "Fine content.")
		// Garbage bytes behind a .docx extension fail extraction.
		writeFile(t, dir, "broken.docx", "not a zip archive")

		res, err := svc.IngestDir(ctx, dir, false)
		require.NoError(t, err)

		assert.Equal(t, 2, res.FilesTotal)
		assert.Equal(t, 1, res.FilesIngested)
		require.Contains(t, res.Failed, "broken.docx")
		assert.ErrorIs(t, res.Failed["broken.docx"], domain.ErrExtraction)
	})

	t.Run("clear purges previously stored documents", func(t *testing.T) {
		svc, store, _ := newIngestFixture(t)

		oldDir := t.TempDir()
		writeFile(t, oldDir, "old.txt", "Stale document.")
		_, err := svc.IngestDir(ctx, oldDir, false)
		require.NoError(t, err)

		newDir := t.TempDir()
		writeFile(t, newDir, "new.txt", "Fresh document.")
		res, err := svc.IngestDir(ctx, newDir, true)
		require.NoError(t, err)
		assert.Equal(t, 1, res.FilesIngested)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.DocumentCount)

		hash, err := store.GetDocumentHash(ctx, "old.txt")
		require.NoError(t, err)
		assert.Empty(t, hash)
	})

	t.Run("unchanged files count as skipped", func(t *testing.T) {
		svc, _, _ := newIngestFixture(t)
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", "Document body.")

		_, err := svc.IngestDir(ctx, dir, false)
		require.NoError(t, err)

		res, err := svc.IngestDir(ctx, dir, false)
		require.NoError(t, err)
		assert.Equal(t, 1, res.FilesSkipped)
		assert.Zero(t, res.FilesIngested)
	})
}

func TestDeleteDocumentAndStats(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newIngestFixture(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "Keep me.")
	writeFile(t, dir, "b.txt", "Delete me.")

	_, err := svc.IngestDir(ctx, dir, false)
	require.NoError(t, err)

	count, err := svc.DeleteDocument(ctx, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentCount)

	_, err = svc.DeleteDocument(ctx, "b.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "a  b\n\nc\td", "a b c d"},
		{"trims edges", "  padded  ", "padded"},
		{"keeps basic punctuation", "Done. Really? Yes: (mostly) - fine!", "Done. Really? Yes: (mostly) - fine!"},
		{"drops exotic symbols", "cost • 100€", "cost 100"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanText(tt.in))
		})
	}
}
