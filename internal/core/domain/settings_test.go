package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"ollama is valid", AIProviderOllama, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"anthropic is valid", AIProviderAnthropic, true},
		{"gemini is valid", AIProviderGemini, true},
		{"empty string is invalid", AIProvider(""), false},
		{"unknown provider is invalid", AIProvider("cohere"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

// TestAIProvider_RequiresAPIKey tests API key requirements
func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.True(t, AIProviderGemini.RequiresAPIKey())
}

// TestAIProvider_IsLocal tests local provider detection
func TestAIProvider_IsLocal(t *testing.T) {
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
	assert.False(t, AIProviderAnthropic.IsLocal())
	assert.False(t, AIProviderGemini.IsLocal())
}

// TestLLMSettings_IsConfigured tests provider configuration checks
func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{
			name:     "unset provider is not configured",
			settings: LLMSettings{},
			expected: false,
		},
		{
			name:     "ollama without key is configured",
			settings: LLMSettings{Provider: AIProviderOllama, Model: "llama3.2"},
			expected: true,
		},
		{
			name:     "openai without key is not configured",
			settings: LLMSettings{Provider: AIProviderOpenAI, Model: "gpt-4o-mini"},
			expected: false,
		},
		{
			name: "gemini with key is configured",
			settings: LLMSettings{
				Provider: AIProviderGemini,
				Model:    "gemini-2.0-flash",
				APIKey:   "key",
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

// TestCacheBackend_IsValid tests cache backend validation
func TestCacheBackend_IsValid(t *testing.T) {
	assert.True(t, CacheBackendMemory.IsValid())
	assert.True(t, CacheBackendSQLite.IsValid())
	assert.False(t, CacheBackend("redis").IsValid())
}

// TestDefaultAppSettings tests the default settings shape
func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.False(t, settings.LLM.IsConfigured())
	assert.Equal(t, CacheBackendSQLite, settings.Cache.Backend)
	assert.Equal(t, DefaultMaxRetries, settings.Classifier.MaxRetries)
	assert.Equal(t, DefaultEligibleKinds(), settings.Classifier.EligibleKinds)
	assert.InDelta(t, DefaultRequestsPerSecond, settings.RateLimit.RequestsPerSecond, 0.0001)
	assert.Equal(t, DefaultBurst, settings.RateLimit.Burst)
	require.Len(t, settings.Pipeline.Stages, 2)
}

// TestDefaultEligibleKinds tests the default classification targets
func TestDefaultEligibleKinds(t *testing.T) {
	kinds := DefaultEligibleKinds()
	assert.Equal(t, []SectionKind{SectionAbstract, SectionParagraph}, kinds)
}

// TestDefaultLLMModels tests every provider has a default model
func TestDefaultLLMModels(t *testing.T) {
	models := DefaultLLMModels()
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, models[p], "provider %s should have a default model", p)
	}
}
