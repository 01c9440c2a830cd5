// Package driving declares the interfaces through which the CLI and
// the MCP server drive the application: PipelineService for a single
// paper, BatchOrchestrator for fanning out over many, ExtractService
// for extraction without classification, and SettingsService for
// configuration. The implementations live in internal/core/services.
package driving
