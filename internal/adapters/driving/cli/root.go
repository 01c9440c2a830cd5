// Package cli implements the taxa command-line interface.
// Commands are thin shells over the driving ports; services are wired
// in by the composition root before Execute runs.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/taxa-cli/internal/logger"
)

// version is stamped by the build; "dev" for local builds.
var version = "dev"

// Driving services used by the commands. Nil until SetServices runs;
// every command checks before use so a partially wired binary degrades
// with a clear message instead of a panic.
var (
	pipelineService     driving.PipelineService
	batchOrchestrator   driving.BatchOrchestrator
	extractService      driving.ExtractService
	settingsService     driving.SettingsService
	resultStore         driven.ResultStore
	classificationCache driven.ClassificationCache
	taxonomyLoader      driven.TaxonomyLoader
)

// buildPipeline recomposes the pipeline services against a different
// taxonomy file. Set by the composition root; nil in tests that inject
// services directly.
var buildPipeline func(ctx context.Context, taxonomyPath string) (driving.PipelineService, driving.BatchOrchestrator, error)

// buildExtract recreates the extract service with the fallback
// extraction engine disabled.
var buildExtract func(noFallback bool) driving.ExtractService

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "taxa",
	Short: "Classify academic papers against a taxonomy",
	Long: `Taxa ingests academic papers (PDF, HTML or plain text), extracts their
structural sections and classifies them against a configurable taxonomy
using an LLM backend.

Run 'taxa settings' first to configure a completion provider, then
'taxa classify paper.pdf' to process a single paper or 'taxa batch dir/'
to process many in parallel.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the commands need.
type Services struct {
	Pipeline driving.PipelineService
	Batch    driving.BatchOrchestrator
	Extract  driving.ExtractService
	Settings driving.SettingsService
	Results  driven.ResultStore
	Cache    driven.ClassificationCache
	Taxonomy driven.TaxonomyLoader

	// PipelineBuilder recomposes Pipeline and Batch against a taxonomy
	// override. Optional.
	PipelineBuilder func(ctx context.Context, taxonomyPath string) (driving.PipelineService, driving.BatchOrchestrator, error)

	// ExtractBuilder recreates Extract without the fallback extraction
	// engine. Optional.
	ExtractBuilder func(noFallback bool) driving.ExtractService
}

// SetServices wires the driving services into the command tree.
// Must be called before Execute.
func SetServices(s Services) {
	pipelineService = s.Pipeline
	batchOrchestrator = s.Batch
	extractService = s.Extract
	settingsService = s.Settings
	resultStore = s.Results
	classificationCache = s.Cache
	taxonomyLoader = s.Taxonomy
	buildPipeline = s.PipelineBuilder
	buildExtract = s.ExtractBuilder
}

// SetVersion stamps the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
