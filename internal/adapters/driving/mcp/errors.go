// Package mcp provides an MCP (Model Context Protocol) server adapter for Taxa.
// It lets AI assistants classify papers and inspect stored results through
// the local pipeline.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
