package driven

import "github.com/custodia-labs/taxa-cli/internal/core/domain"

// AIConfigValidator validates completion provider configurations.
// Implementations verify that a configuration works by testing
// connectivity to the underlying service.
type AIConfigValidator interface {
	// ValidateLLM validates a completion configuration by pinging the
	// provider. Returns nil if the configuration is valid or not
	// configured.
	ValidateLLM(config *domain.LLMSettings) error
}
