// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Stage: One step of the document pipeline
//   - Extractor: Turns raw bytes into plain text
//   - ExtractorRegistry: Selects extractors with fallback
//   - ClassificationCache: Classification result caching
//   - ConfigStore: Application configuration
//   - TaxonomyLoader: Reads taxonomies from files
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CompletionService: LLM completions. Without it, classification is
//     disabled and extraction still works.
//   - ResultStore: Document persistence. Without it, results are only
//     printed, not stored.
//   - PromptStore: Custom prompt templates. Without it, compiled-in
//     defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or stage package
package driven
