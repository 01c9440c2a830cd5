package driven

import "context"

// CompletionService produces text completions for classification prompts.
// This is an optional service - when nil, classification is disabled and
// extraction still works.
//
// Implementations may include:
//   - OpenAI (GPT-4, GPT-4o-mini)
//   - Anthropic (Claude)
//   - Gemini (Google)
//   - Ollama (local models)
type CompletionService interface {
	// Complete produces a text completion from a prompt.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	// It participates in classification cache keys, so results from
	// different models never collide.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup to verify connectivity before
	// committing to a pipeline run.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures completion behaviour.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	// Classification wants determinism, so the default is 0.
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
