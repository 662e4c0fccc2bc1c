// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants fact-check claims against the local evidence store
// and manage the ingested corpus.
package mcp

import "errors"

// ErrMissingFactCheckService is returned when no fact-check service is provided.
var ErrMissingFactCheckService = errors.New("mcp: fact-check service is required")
