package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
)

func TestCheckCmd_Use(t *testing.T) {
	assert.Equal(t, "check [claim]", checkCmd.Use)
}

func TestCheckCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"check"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestCheckCmd_HasTopKFlag(t *testing.T) {
	flag := checkCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag, "top-k flag should exist")
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestCheckCmd_PassesOptions(t *testing.T) {
	fc, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"check", "-k", "3", "--no-llm", "the sky is green"})
	defer func() {
		rootCmd.SetArgs(nil)
		checkK = 0
		checkNoLLM = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "the sky is green", fc.lastClaim)
	assert.Equal(t, 3, fc.lastOpts.K)
	assert.False(t, fc.lastOpts.UseClassifier)
}

func TestCheckCmd_ClassifierOnByDefault(t *testing.T) {
	fc, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"check", "some claim"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, fc.lastOpts.UseClassifier)
	assert.Equal(t, 0, fc.lastOpts.K)
}

func TestCheckCmd_TextOutputWithVerdict(t *testing.T) {
	fc, _, cleanup := setupTestServices()
	defer cleanup()

	url := "https://example.com/report"
	conf := 0.91
	fc.result = &domain.FactCheckResult{
		Claim: "solar capacity doubled",
		Context: []domain.EvidenceItem{
			{
				Text:       "Installed solar capacity doubled between 2020 and 2024.",
				SourceFile: "energy_report.txt",
				SourceName: "energy report",
				ChunkIndex: 2,
				Confidence: 0.91,
			},
		},
		Verdict: &domain.Verdict{
			Classification: domain.ClassificationSupported,
			Analysis:       "The evidence directly supports the claim.",
			Sources: []domain.SourceReference{
				{
					FileName:   "energy_report.txt",
					SourceName: "energy report",
					SourceURL:  &url,
					Confidence: &conf,
				},
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"check", "solar capacity doubled"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Verdict: SUPPORTED")
	assert.Contains(t, out, "directly supports")
	assert.Contains(t, out, "energy report (91%)")
	assert.Contains(t, out, "https://example.com/report")
	assert.Contains(t, out, "[1] energy report (chunk 2, confidence 0.91)")
}

func TestCheckCmd_TextOutputDegraded(t *testing.T) {
	fc, _, cleanup := setupTestServices()
	defer cleanup()

	fc.result = &domain.FactCheckResult{
		Claim: "some claim",
		Context: []domain.EvidenceItem{
			{Text: "evidence", SourceName: "doc", Confidence: 0.5},
		},
		Degraded: true,
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"check", "some claim"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Verdict unavailable")
	assert.Contains(t, buf.String(), "Evidence:")
}

func TestCheckCmd_TextOutputEmptyStore(t *testing.T) {
	fc, _, cleanup := setupTestServices()
	defer cleanup()

	fc.result = &domain.FactCheckResult{Claim: "anything"}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"check", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No evidence found")
	assert.Contains(t, buf.String(), "verifact ingest")
}

func TestCheckCmd_JSONOutput(t *testing.T) {
	fc, _, cleanup := setupTestServices()
	defer cleanup()

	fc.result = &domain.FactCheckResult{
		Claim: "tidal power grew",
		Context: []domain.EvidenceItem{
			{Text: "tidal output grew 12%", SourceName: "grid stats", Confidence: 0.8},
		},
		Verdict: &domain.Verdict{
			Classification: domain.ClassificationSupported,
			Analysis:       "supported by grid statistics",
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"check", "--json", "tidal power grew"})
	defer func() {
		rootCmd.SetArgs(nil)
		checkJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"classification": "SUPPORTED"`)
	assert.Contains(t, buf.String(), `"claim": "tidal power grew"`)
	assert.Contains(t, buf.String(), `"degraded": false`)
}

func TestCheckCmd_InvalidClaim(t *testing.T) {
	fc, _, cleanup := setupTestServices()
	defer cleanup()

	fc.err = domain.ErrInvalidClaim

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"check", "   "})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid claim")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 10))
	assert.Equal(t, "abcde...", snippet("abcdefgh", 5))
	// Truncation counts runes, not bytes.
	assert.Equal(t, "héllø...", snippet("héllø wörld", 5))
}
