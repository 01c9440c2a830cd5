package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a completion service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds completion provider configuration.
type LLMSettings struct {
	// Provider is the completion service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the completion provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// CacheBackend selects where classification results are cached.
type CacheBackend string

// Available cache backends.
const (
	// CacheBackendMemory keeps results in process memory only.
	CacheBackendMemory CacheBackend = "memory"

	// CacheBackendSQLite persists results to a local SQLite database.
	CacheBackendSQLite CacheBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheBackendMemory, CacheBackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CacheBackend) String() string {
	return string(b)
}

// CacheSettings holds classification cache configuration.
type CacheSettings struct {
	// Backend selects the cache implementation.
	Backend CacheBackend

	// Path is the database file path for the sqlite backend.
	Path string
}

// RateLimitSettings bounds the completion call rate across the whole
// process, shared by every concurrent worker.
type RateLimitSettings struct {
	// RequestsPerSecond is the sustained call rate.
	RequestsPerSecond float64

	// Burst is the token bucket capacity.
	Burst int
}

// ClassifierSettings holds classifier stage configuration.
type ClassifierSettings struct {
	// MaxRetries is how many times a failed completion is retried.
	MaxRetries int

	// EligibleKinds are the section kinds submitted for classification.
	EligibleKinds []SectionKind
}

// WatchSettings holds directory watcher configuration.
type WatchSettings struct {
	// Extensions are the file extensions picked up by the watcher.
	Extensions []string

	// SettleDelay is how long a new file must be quiet before it is
	// picked up, so partially-written files are not ingested.
	SettleDelay time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds completion provider settings.
	LLM LLMSettings

	// Pipeline holds stage ordering and batch limits.
	Pipeline PipelineConfig

	// Cache holds classification cache settings.
	Cache CacheSettings

	// RateLimit bounds the completion call rate.
	RateLimit RateLimitSettings

	// Classifier holds classifier stage settings.
	Classifier ClassifierSettings

	// Watch holds directory watcher settings.
	Watch WatchSettings

	// TaxonomyPath is the taxonomy file used when none is given.
	TaxonomyPath string
}

// Classifier defaults.
const (
	// DefaultMaxRetries is the retry count applied when unset.
	DefaultMaxRetries = 2

	// DefaultRequestsPerSecond is the rate limit applied when unset.
	DefaultRequestsPerSecond = 2.0

	// DefaultBurst is the token bucket capacity applied when unset.
	DefaultBurst = 4
)

// DefaultAppSettings returns settings with sensible defaults.
// The completion provider is left unconfigured; users must set it up
// before classification is available.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		// LLM is left unconfigured - user must set provider and key
		LLM:      LLMSettings{},
		Pipeline: DefaultPipelineConfig(),
		Cache: CacheSettings{
			Backend: CacheBackendSQLite,
		},
		RateLimit: RateLimitSettings{
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
		},
		Classifier: ClassifierSettings{
			MaxRetries:    DefaultMaxRetries,
			EligibleKinds: DefaultEligibleKinds(),
		},
		Watch: WatchSettings{
			Extensions:  []string{".pdf", ".html", ".txt"},
			SettleDelay: 2 * time.Second,
		},
	}
}

// DefaultEligibleKinds returns the section kinds classified by default.
func DefaultEligibleKinds() []SectionKind {
	return []SectionKind{SectionAbstract, SectionParagraph}
}

// AllLLMProviders returns providers that support completion operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultLLMModels returns default models for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-2.0-flash",
	}
}
