// Package file holds the filesystem-backed configuration adapters:
// ConfigStore keeps settings in ~/.taxa/config.toml as nested TOML
// tables, and PromptStore resolves classification prompt templates
// from ~/.taxa/prompts with compiled-in defaults.
package file
