// Package ai provides factory functions for creating completion
// service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/taxa-cli/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/taxa-cli/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/taxa-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/taxa-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of completion service initialisation.
type InitResult struct {
	Completion driven.CompletionService // Nil when classification is disabled.
	Warnings   []string                 // Non-fatal issues that caused fallback.
	Disabled   bool                     // True if classification is disabled.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Completion != nil {
		r.Completion.Close()
	}
}

// InitCompletionService creates and validates the completion backend.
// Failures never abort startup: extraction works without a backend, so
// an unreachable provider degrades to extraction-only with a warning.
func InitCompletionService(ctx context.Context, settings *domain.LLMSettings) *InitResult {
	result := &InitResult{}

	if settings == nil || !settings.IsConfigured() {
		result.Disabled = true
		return result
	}

	svc, err := CreateAndValidateCompletionService(ctx, settings)
	if err != nil {
		result.Disabled = true
		result.Warnings = append(result.Warnings, err.Error())
		return result
	}

	result.Completion = svc
	return result
}

// CreateAndValidateCompletionService creates a completion service and
// validates connectivity. Returns the service if successful, or an
// error with guidance. A nil or unconfigured settings value yields a
// nil service with no error.
func CreateAndValidateCompletionService(ctx context.Context, settings *domain.LLMSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateCompletionService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'taxa settings' to fix",
			domain.ErrCompletionUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'taxa settings' to fix",
			domain.ErrCompletionUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates a completion configuration by creating a
// service and pinging it. This is intended for validating credentials
// when settings change.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	svc, err := CreateCompletionService(ctx, settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	return svc.Ping(ctx)
}

// CreateCompletionService creates the appropriate completion service
// based on settings. Returns nil if the provider is not configured.
func CreateCompletionService(ctx context.Context, settings *domain.LLMSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaCompletion(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAICompletion(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicCompletion(settings)

	case domain.AIProviderGemini:
		return createGeminiCompletion(ctx, settings)

	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", settings.Provider)
	}
}

// createOllamaCompletion creates an Ollama completion service.
func createOllamaCompletion(settings *domain.LLMSettings) driven.CompletionService {
	return ollamallm.NewCompletionService(ollamallm.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAICompletion creates an OpenAI completion service.
func createOpenAICompletion(settings *domain.LLMSettings) (driven.CompletionService, error) {
	return openaillm.NewCompletionService(openaillm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicCompletion creates an Anthropic completion service.
func createAnthropicCompletion(settings *domain.LLMSettings) (driven.CompletionService, error) {
	return anthropicllm.NewCompletionService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createGeminiCompletion creates a Gemini completion service.
func createGeminiCompletion(ctx context.Context, settings *domain.LLMSettings) (driven.CompletionService, error) {
	return geminillm.NewCompletionService(ctx, geminillm.Config{
		APIKey: settings.APIKey,
		Model:  settings.Model,
	})
}
