package pipeline

import (
	"fmt"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/taxa-cli/internal/pipeline/classifier"
	"github.com/custodia-labs/taxa-cli/internal/pipeline/sectioner"
	"github.com/custodia-labs/taxa-cli/internal/ratelimit"
)

// Deps carries the shared handles the built-in stages need. Everything
// a stage touches beyond its own document is injected here, so sharing
// is visible at composition time.
type Deps struct {
	// Extractors turns raw bytes into plain text.
	Extractors driven.ExtractorRegistry

	// Completion is the classification backend. May be nil when only
	// extraction stages are composed.
	Completion driven.CompletionService

	// Cache stores classification results. May be nil to disable
	// caching.
	Cache driven.ClassificationCache

	// Limiter bounds completion calls process-wide.
	Limiter *ratelimit.Limiter

	// Taxonomy is the classification scheme.
	Taxonomy domain.Taxonomy

	// Prompts supplies custom prompt templates. May be nil for the
	// compiled-in defaults.
	Prompts driven.PromptStore
}

// RegisterDefaults registers all built-in stages with the registry.
// Call this during application initialisation to enable standard stages.
func RegisterDefaults(r *Registry, deps Deps) {
	r.Register(sectioner.StageName, buildSectioner(deps))
	r.Register(classifier.StageName, buildClassifier(deps))
}

// buildSectioner creates a sectioner stage from generic config.
// Supported config keys:
//   - reference_markers ([]string): Lines that start the bibliography
//   - max_title_words (int): Longest segment still considered a title
func buildSectioner(deps Deps) BuilderFunc {
	return func(cfg map[string]any) (driven.Stage, error) {
		if deps.Extractors == nil {
			return nil, fmt.Errorf("%w: sectioner requires an extractor registry",
				domain.ErrConfiguration)
		}

		var opts []sectioner.Option
		if cfg != nil {
			if markers := getStringSliceFromConfig(cfg, "reference_markers"); len(markers) > 0 {
				opts = append(opts, sectioner.WithReferenceMarkers(markers))
			}
			if words := getIntFromConfig(cfg, "max_title_words"); words > 0 {
				opts = append(opts, sectioner.WithMaxTitleWords(words))
			}
		}

		return sectioner.New(deps.Extractors, opts...), nil
	}
}

// buildClassifier creates a classifier stage from generic config.
// Supported config keys:
//   - max_retries (int): Retries after the first failed attempt
//   - eligible_kinds ([]string): Section kinds submitted for classification
func buildClassifier(deps Deps) BuilderFunc {
	return func(cfg map[string]any) (driven.Stage, error) {
		if deps.Completion == nil {
			return nil, fmt.Errorf("%w: classifier requires a completion service",
				domain.ErrConfiguration)
		}
		if err := deps.Taxonomy.Validate(); err != nil {
			return nil, fmt.Errorf("%w: classifier taxonomy: %v",
				domain.ErrConfiguration, err)
		}

		var opts []classifier.Option
		if cfg != nil {
			if retries := getIntFromConfig(cfg, "max_retries"); retries >= 0 {
				if _, set := cfg["max_retries"]; set {
					opts = append(opts, classifier.WithMaxRetries(retries))
				}
			}
			if kinds := getStringSliceFromConfig(cfg, "eligible_kinds"); len(kinds) > 0 {
				parsed := make([]domain.SectionKind, 0, len(kinds))
				for _, k := range kinds {
					kind := domain.SectionKind(k)
					if !kind.IsValid() {
						return nil, fmt.Errorf("%w: unknown section kind %q",
							domain.ErrConfiguration, k)
					}
					parsed = append(parsed, kind)
				}
				opts = append(opts, classifier.WithEligibleKinds(parsed))
			}
		}

		stage := classifier.New(deps.Completion, deps.Cache, deps.Limiter, deps.Taxonomy, opts...)
		if deps.Prompts != nil {
			stage.SetPromptStore(deps.Prompts)
		}
		return stage, nil
	}
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getStringSliceFromConfig safely extracts a string slice from generic
// config. Handles []string and []any as produced by TOML/JSON parsing.
func getStringSliceFromConfig(cfg map[string]any, key string) []string {
	val, ok := cfg[key]
	if !ok {
		return nil
	}

	switch v := val.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
