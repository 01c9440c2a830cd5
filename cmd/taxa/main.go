package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/taxa-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/taxa-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/taxa-cli/internal/adapters/driven/extract"
	"github.com/custodia-labs/taxa-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/taxa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/taxa-cli/internal/adapters/driven/taxonomy"
	"github.com/custodia-labs/taxa-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/taxa-cli/internal/core/services"
	"github.com/custodia-labs/taxa-cli/internal/logger"
	"github.com/custodia-labs/taxa-cli/internal/pipeline"
	"github.com/custodia-labs/taxa-cli/internal/pipeline/classifier"
	"github.com/custodia-labs/taxa-cli/internal/pipeline/sectioner"
	"github.com/custodia-labs/taxa-cli/internal/ratelimit"
)

// version is set by the linker at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore(settings.Cache.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close() //nolint:errcheck

	cache := newClassificationCache(settings, store)

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	initResult := ai.InitCompletionService(ctx, &settings.LLM)
	defer initResult.Close()
	for _, warning := range initResult.Warnings {
		logger.Warn("%s", warning)
	}

	loader := taxonomy.NewFileLoader()

	deps := pipeline.Deps{
		Extractors: extract.NewDefaultRegistry(),
		Completion: initResult.Completion,
		Cache:      cache,
		Limiter:    ratelimit.New(settings.RateLimit),
		Prompts:    prompts,
	}

	buildPipeline := func(_ context.Context, taxonomyPath string) (driving.PipelineService, driving.BatchOrchestrator, error) {
		return composePipeline(deps, settings, loader, taxonomyPath)
	}

	pipelineSvc, batchSvc, err := buildPipeline(ctx, settings.TaxonomyPath)
	if err != nil {
		return err
	}

	buildExtract := func(noFallback bool) driving.ExtractService {
		return services.NewExtractService(sectioner.New(extractRegistry(noFallback)))
	}

	cli.SetServices(cli.Services{
		Pipeline:        pipelineSvc,
		Batch:           batchSvc,
		Extract:         buildExtract(false),
		Settings:        settingsService,
		Results:         store.ResultStore(),
		Cache:           cache,
		Taxonomy:        loader,
		PipelineBuilder: buildPipeline,
		ExtractBuilder:  buildExtract,
	})
	cli.SetVersion(version)

	return cli.Execute(ctx)
}

// composePipeline builds the pipeline and batch services against the
// given taxonomy file. An empty path composes an extraction-only
// pipeline; classification needs a taxonomy to classify against.
func composePipeline(
	deps pipeline.Deps,
	settings *domain.AppSettings,
	loader driven.TaxonomyLoader,
	taxonomyPath string,
) (driving.PipelineService, driving.BatchOrchestrator, error) {
	if taxonomyPath != "" {
		loaded, err := loader.Load(taxonomyPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading taxonomy: %w", err)
		}
		deps.Taxonomy = *loaded
	}

	cfg := settings.Pipeline
	cfg.Stages = eligibleStages(cfg.Stages, settings, deps)

	registry := pipeline.NewRegistry()
	pipeline.RegisterDefaults(registry, deps)

	runner, err := pipeline.Compose(registry, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("composing pipeline: %w", err)
	}

	pipelineSvc := services.NewPipelineService(runner, deps.Taxonomy, nil)
	return pipelineSvc, services.NewBatchOrchestrator(pipelineSvc, cfg), nil
}

// eligibleStages drops the classifier when its prerequisites are
// missing, so extraction keeps working on a half-configured install,
// and folds the classifier settings into its stage options.
func eligibleStages(
	stages []domain.StageConfig,
	settings *domain.AppSettings,
	deps pipeline.Deps,
) []domain.StageConfig {
	kept := make([]domain.StageConfig, 0, len(stages))
	for _, sc := range stages {
		if sc.Name == classifier.StageName {
			if deps.Completion == nil {
				logger.Warn("Classification disabled: no completion provider configured. Run 'taxa settings llm'.")
				continue
			}
			if err := deps.Taxonomy.Validate(); err != nil {
				logger.Warn("Classification disabled: %v. Set taxonomy.path in the config or pass --taxonomy.", err)
				continue
			}
			sc.Options = classifierOptions(sc.Options, settings.Classifier)
		}
		kept = append(kept, sc)
	}
	return kept
}

// classifierOptions merges the classifier settings into the stage
// options. Per-stage config keys win over the settings section.
func classifierOptions(opts map[string]any, cfg domain.ClassifierSettings) map[string]any {
	merged := make(map[string]any, len(opts)+2)
	for k, v := range opts {
		merged[k] = v
	}
	if _, ok := merged["max_retries"]; !ok {
		merged["max_retries"] = cfg.MaxRetries
	}
	if _, ok := merged["eligible_kinds"]; !ok && len(cfg.EligibleKinds) > 0 {
		kinds := make([]string, len(cfg.EligibleKinds))
		for i, k := range cfg.EligibleKinds {
			kinds[i] = k.String()
		}
		merged["eligible_kinds"] = kinds
	}
	return merged
}

// newClassificationCache picks the cache backend from settings.
func newClassificationCache(settings *domain.AppSettings, store *sqlite.Store) driven.ClassificationCache {
	if settings.Cache.Backend == domain.CacheBackendMemory {
		return memory.NewCache()
	}
	return store.ClassificationCache()
}

// extractRegistry builds the extractor set, optionally without the
// positional PDF fallback so extraction failures surface instead of
// degrading silently.
func extractRegistry(noFallback bool) *extract.Registry {
	if !noFallback {
		return extract.NewDefaultRegistry()
	}
	r := extract.NewRegistry()
	r.Register(extract.NewPDFExtractor(), 0)
	r.Register(extract.NewHTMLExtractor(), 0)
	r.Register(extract.NewPlainTextExtractor(), 0)
	return r
}
