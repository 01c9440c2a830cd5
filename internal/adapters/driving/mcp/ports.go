package mcp

import (
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline classifies papers and exposes the active taxonomy.
	Pipeline driving.PipelineService

	// Extract extracts sections without classifying.
	Extract driving.ExtractService

	// Results reads stored classification results.
	Results driven.ResultStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	// Extract and Results are optional
	return nil
}
