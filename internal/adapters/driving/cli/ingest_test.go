package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifact-labs/verifact-cli/internal/core/ports/driving"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [path]", ingestCmd.Use)
}

func TestIngestCmd_HasFlags(t *testing.T) {
	require.NotNil(t, ingestCmd.Flags().Lookup("clear"))
	require.NotNil(t, ingestCmd.Flags().Lookup("source-url"))
}

func TestIngestCmd_SingleFile(t *testing.T) {
	_, ing, cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	ing.fileResult = &driving.IngestResult{FileName: "notes.txt", ChunksCreated: 3}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--source-url", "https://example.com/notes", path})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestSourceURL = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, path, ing.lastPath)
	assert.Equal(t, "https://example.com/notes", ing.lastSourceURL)
	assert.Contains(t, buf.String(), "Ingested notes.txt: 3 chunks")
}

func TestIngestCmd_SingleFileSkipped(t *testing.T) {
	_, ing, cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	ing.fileResult = &driving.IngestResult{FileName: "notes.txt", Skipped: true}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Skipped notes.txt (unchanged)")
}

func TestIngestCmd_Directory(t *testing.T) {
	_, ing, cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	ing.batchResult = &driving.BatchResult{
		FilesTotal:    4,
		FilesIngested: 2,
		FilesSkipped:  1,
		ChunksCreated: 9,
		Failed:        map[string]error{"broken.pdf": errors.New("unreadable")},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--clear", dir})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestClear = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, dir, ing.lastPath)
	assert.True(t, ing.lastClear)
	assert.Contains(t, buf.String(), "Ingested 2 of 4 files (1 skipped, 9 chunks)")
	assert.Contains(t, buf.String(), "broken.pdf: unreadable")
}

func TestIngestCmd_MissingPath(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", filepath.Join(t.TempDir(), "missing.txt")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestIngestCmd_ServiceError(t *testing.T) {
	_, ing, cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))
	ing.err = errMock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest failed")
}
