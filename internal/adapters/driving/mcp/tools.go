package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/verifact-labs/verifact-cli/internal/core/ports/driving"
)

// FactCheckInput is the input schema for the fact_check tool.
type FactCheckInput struct {
	Claim string `json:"claim" jsonschema:"the factual claim to verify against the ingested documents"`
	K     int    `json:"k,omitempty" jsonschema:"number of evidence chunks to retrieve (default 5, max 10)"`
	NoLLM bool   `json:"no_llm,omitempty" jsonschema:"skip classification and return retrieved evidence only"`
}

// FactCheckOutput is the output schema for the fact_check tool.
type FactCheckOutput struct {
	Claim          string           `json:"claim"`
	Classification string           `json:"classification,omitempty"`
	Analysis       string           `json:"analysis,omitempty"`
	Reasoning      string           `json:"reasoning,omitempty"`
	Sources        []SourceOutput   `json:"sources,omitempty"`
	Evidence       []EvidenceOutput `json:"evidence"`
	Degraded       bool             `json:"degraded"`
}

// SourceOutput is a cited source in a verdict.
type SourceOutput struct {
	FileName   string   `json:"file_name"`
	SourceName string   `json:"source_name"`
	SourceURL  string   `json:"source_url,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// EvidenceOutput is a retrieved evidence chunk.
type EvidenceOutput struct {
	Text       string  `json:"text"`
	SourceFile string  `json:"source_file"`
	SourceName string  `json:"source_name"`
	SourceURL  string  `json:"source_url,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
	Confidence float64 `json:"confidence"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Path      string `json:"path" jsonschema:"path to a file or directory to ingest"`
	Dir       bool   `json:"dir,omitempty" jsonschema:"treat path as a directory and ingest every supported file"`
	Clear     bool   `json:"clear,omitempty" jsonschema:"purge the store before a directory ingest"`
	SourceURL string `json:"source_url,omitempty" jsonschema:"external URL recorded with a single-file ingest"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	FilesIngested int               `json:"files_ingested"`
	FilesSkipped  int               `json:"files_skipped"`
	ChunksCreated int               `json:"chunks_created"`
	Failed        map[string]string `json:"failed,omitempty"`
}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	DocumentCount int `json:"document_count"`
	ChunkCount    int `json:"chunk_count"`
}

// DeleteInput is the input schema for the delete_document tool.
type DeleteInput struct {
	Name string `json:"name" jsonschema:"file name of the document to remove from the store"`
}

// DeleteOutput is the output schema for the delete_document tool.
type DeleteOutput struct {
	Name          string `json:"name"`
	ChunksRemoved int    `json:"chunks_removed"`
}

// registerTools registers all tool handlers with the MCP server.
// Corpus management tools are only exposed when an ingest service is wired.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fact_check",
		Description: "Verify a factual claim against the ingested documents and return a classified verdict with evidence",
	}, s.handleFactCheck)

	if s.ports.Ingest == nil {
		return
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Ingest a file or directory into the evidence store",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Report how many documents and chunks the evidence store holds",
	}, s.handleStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Remove a document and all of its chunks from the evidence store",
	}, s.handleDelete)
}

// handleFactCheck handles the fact_check tool invocation.
func (s *Server) handleFactCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FactCheckInput,
) (*mcp.CallToolResult, FactCheckOutput, error) {
	opts := driving.CheckOptions{
		K:             input.K,
		UseClassifier: !input.NoLLM,
	}

	result, err := s.ports.FactCheck.Check(ctx, input.Claim, opts)
	if err != nil {
		return nil, FactCheckOutput{}, err
	}

	output := FactCheckOutput{
		Claim:    result.Claim,
		Degraded: result.Degraded,
		Evidence: make([]EvidenceOutput, len(result.Context)),
	}
	for i, item := range result.Context {
		output.Evidence[i] = EvidenceOutput{
			Text:       item.Text,
			SourceFile: item.SourceFile,
			SourceName: item.SourceName,
			SourceURL:  urlOrEmpty(item.SourceURL),
			ChunkIndex: item.ChunkIndex,
			Confidence: item.Confidence,
		}
	}

	if result.Verdict != nil {
		output.Classification = string(result.Verdict.Classification)
		output.Analysis = result.Verdict.Analysis
		output.Reasoning = result.Verdict.Reasoning
		output.Sources = make([]SourceOutput, len(result.Verdict.Sources))
		for i, src := range result.Verdict.Sources {
			output.Sources[i] = SourceOutput{
				FileName:   src.FileName,
				SourceName: src.SourceName,
				SourceURL:  urlOrEmpty(src.SourceURL),
				Confidence: src.Confidence,
			}
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if input.Dir {
		batch, err := s.ports.Ingest.IngestDir(ctx, input.Path, input.Clear)
		if err != nil {
			return nil, IngestOutput{}, err
		}
		output := IngestOutput{
			FilesIngested: batch.FilesIngested,
			FilesSkipped:  batch.FilesSkipped,
			ChunksCreated: batch.ChunksCreated,
		}
		if len(batch.Failed) > 0 {
			output.Failed = make(map[string]string, len(batch.Failed))
			for name, ferr := range batch.Failed {
				output.Failed[name] = ferr.Error()
			}
		}
		return nil, output, nil
	}

	res, err := s.ports.Ingest.IngestFile(ctx, input.Path, input.SourceURL)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	output := IngestOutput{ChunksCreated: res.ChunksCreated}
	if res.Skipped {
		output.FilesSkipped = 1
	} else {
		output.FilesIngested = 1
	}
	return nil, output, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Ingest.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}
	return nil, StatsOutput{
		DocumentCount: stats.DocumentCount,
		ChunkCount:    stats.ChunkCount,
	}, nil
}

// handleDelete handles the delete_document tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	count, err := s.ports.Ingest.DeleteDocument(ctx, input.Name)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{Name: input.Name, ChunksRemoved: count}, nil
}

func urlOrEmpty(url *string) string {
	if url == nil {
		return ""
	}
	return *url
}
