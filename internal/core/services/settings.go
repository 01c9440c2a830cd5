package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyStages          = "pipeline.stages"
	keyMaxParallel     = "pipeline.max_parallel"
	keyBatchTimeout    = "pipeline.batch_timeout"
	keyCacheBackend    = "cache.backend"
	keyCachePath       = "cache.path"
	keyRateRPS         = "rate_limit.requests_per_second"
	keyRateBurst       = "rate_limit.burst"
	keyMaxRetries      = "classifier.max_retries"
	keyEligibleKinds   = "classifier.eligible_kinds"
	keyWatchExtensions = "watch.extensions"
	keyWatchSettle     = "watch.settle_delay"
	keyTaxonomyPath    = "taxonomy.path"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Pipeline: s.getPipelineConfig(defaults.Pipeline),
		Cache: domain.CacheSettings{
			Backend: s.getCacheBackend(defaults.Cache.Backend),
			Path:    s.getString(keyCachePath, defaults.Cache.Path),
		},
		RateLimit: domain.RateLimitSettings{
			RequestsPerSecond: s.getFloat(keyRateRPS, defaults.RateLimit.RequestsPerSecond),
			Burst:             s.getInt(keyRateBurst, defaults.RateLimit.Burst),
		},
		Classifier: domain.ClassifierSettings{
			MaxRetries:    s.getIntExact(keyMaxRetries, defaults.Classifier.MaxRetries),
			EligibleKinds: s.getSectionKinds(keyEligibleKinds, defaults.Classifier.EligibleKinds),
		},
		Watch: domain.WatchSettings{
			Extensions:  s.getStringSlice(keyWatchExtensions, defaults.Watch.Extensions),
			SettleDelay: s.getDuration(keyWatchSettle, defaults.Watch.SettleDelay),
		},
		TaxonomyPath: s.getString(keyTaxonomyPath, defaults.TaxonomyPath),
	}

	return settings, nil
}

// Save persists application settings. Pipeline composition is
// read-only configuration; edit the config file to change it.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save cache settings
	if err := s.configStore.Set(keyCacheBackend, settings.Cache.Backend.String()); err != nil {
		return fmt.Errorf("save cache backend: %w", err)
	}
	if err := s.configStore.Set(keyCachePath, settings.Cache.Path); err != nil {
		return fmt.Errorf("save cache path: %w", err)
	}

	// Save rate limit settings
	if err := s.configStore.Set(keyRateRPS, settings.RateLimit.RequestsPerSecond); err != nil {
		return fmt.Errorf("save rate limit rate: %w", err)
	}
	if err := s.configStore.Set(keyRateBurst, settings.RateLimit.Burst); err != nil {
		return fmt.Errorf("save rate limit burst: %w", err)
	}

	// Save classifier settings
	if err := s.configStore.Set(keyMaxRetries, settings.Classifier.MaxRetries); err != nil {
		return fmt.Errorf("save classifier retries: %w", err)
	}
	kinds := make([]string, 0, len(settings.Classifier.EligibleKinds))
	for _, kind := range settings.Classifier.EligibleKinds {
		kinds = append(kinds, kind.String())
	}
	if err := s.configStore.Set(keyEligibleKinds, kinds); err != nil {
		return fmt.Errorf("save classifier eligible kinds: %w", err)
	}

	// Save watch settings
	if err := s.configStore.Set(keyWatchExtensions, settings.Watch.Extensions); err != nil {
		return fmt.Errorf("save watch extensions: %w", err)
	}
	if err := s.configStore.Set(keyWatchSettle, settings.Watch.SettleDelay.String()); err != nil {
		return fmt.Errorf("save watch settle delay: %w", err)
	}

	// Save taxonomy path
	if err := s.configStore.Set(keyTaxonomyPath, settings.TaxonomyPath); err != nil {
		return fmt.Errorf("save taxonomy path: %w", err)
	}

	return nil
}

// SetLLMProvider configures the completion provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid completion provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks if current settings are internally consistent.
// An unset completion provider is fine, extraction works without one;
// a partially configured provider is not.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.LLM.Provider != "" {
		if !settings.LLM.Provider.IsValid() {
			return fmt.Errorf("invalid completion provider: %s", settings.LLM.Provider)
		}
		if !settings.LLM.IsConfigured() {
			return fmt.Errorf("provider %s requires an API key", settings.LLM.Provider)
		}
	}

	if !settings.Cache.Backend.IsValid() {
		return fmt.Errorf("invalid cache backend: %s", settings.Cache.Backend)
	}

	if settings.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit must be positive, got %g", settings.RateLimit.RequestsPerSecond)
	}

	if len(settings.Pipeline.Stages) == 0 {
		return fmt.Errorf("pipeline has no stages")
	}
	for _, stage := range settings.Pipeline.Stages {
		if stage.OnFailure != "" && !stage.OnFailure.IsValid() {
			return fmt.Errorf("stage %s has unknown failure policy: %s", stage.Name, stage.OnFailure)
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current completion configuration by
// pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// getPipelineConfig assembles the pipeline configuration, starting
// from the defaults and overriding from config.
func (s *SettingsService) getPipelineConfig(defaults domain.PipelineConfig) domain.PipelineConfig {
	cfg := defaults

	// An explicit stage list replaces the default composition.
	if names := s.configStore.GetStringSlice(keyStages); len(names) > 0 {
		cfg.Stages = make([]domain.StageConfig, 0, len(names))
		for _, name := range names {
			cfg.Stages = append(cfg.Stages, domain.StageConfig{
				Name:      name,
				OnFailure: domain.PolicyAbort,
			})
		}
	}

	// Per-stage policy and option overrides.
	for i, stage := range cfg.Stages {
		prefix := "pipeline." + stage.Name + "."

		if policy := s.configStore.GetString(prefix + "on_failure"); policy != "" {
			if p := domain.FailurePolicy(policy); p.IsValid() {
				cfg.Stages[i].OnFailure = p
			}
		}

		if opts := s.loadStageOptions(prefix); len(opts) > 0 {
			merged := make(map[string]any, len(stage.Options)+len(opts))
			for k, v := range stage.Options {
				merged[k] = v
			}
			for k, v := range opts {
				merged[k] = v
			}
			cfg.Stages[i].Options = merged
		}
	}

	if v := s.configStore.GetInt(keyMaxParallel); v > 0 {
		cfg.MaxParallel = v
	}
	if str := s.configStore.GetString(keyBatchTimeout); str != "" {
		if d, err := time.ParseDuration(str); err == nil {
			cfg.BatchTimeout = d
		}
	}

	return cfg
}

// loadStageOptions loads config keys with a given stage prefix into a map.
func (s *SettingsService) loadStageOptions(prefix string) map[string]any {
	opts := make(map[string]any)

	// Check common stage option keys
	knownKeys := []string{"reference_markers", "max_title_words", "max_retries", "eligible_kinds"}
	for _, key := range knownKeys {
		fullKey := prefix + key
		if val, exists := s.configStore.Get(fullKey); exists {
			opts[key] = val
		}
	}

	return opts
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntExact reads an int that may legitimately be zero, falling back
// only when the key is absent.
func (s *SettingsService) getIntExact(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getCacheBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	val := s.configStore.GetString(keyCacheBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.CacheBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getSectionKinds(key string, defaultVal []domain.SectionKind) []domain.SectionKind {
	vals := s.configStore.GetStringSlice(key)
	if len(vals) == 0 {
		return defaultVal
	}

	kinds := make([]domain.SectionKind, 0, len(vals))
	for _, val := range vals {
		kind := domain.SectionKind(val)
		if kind.IsValid() {
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) == 0 {
		return defaultVal
	}
	return kinds
}
