package pipeline

import (
	"fmt"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// BuilderFunc creates a Stage from generic config.
// Config is a map of stage-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.Stage, error)

// Registry maps stage names to their builders.
// It allows dynamic construction of stages from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new stage registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a stage builder to the registry.
// Name should be unique and match the stage's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a stage by name with the given config.
// Returns domain.ErrConfiguration if the stage name is not registered.
func (r *Registry) Build(name string, cfg map[string]any) (driven.Stage, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown stage %q", domain.ErrConfiguration, name)
	}
	return builder(cfg)
}

// Has returns true if a stage with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered stage names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	return names
}

// Compose builds every configured stage from the registry and validates
// the result as a runnable pipeline. This is the single entry point for
// turning configuration into a Runner.
func Compose(r *Registry, cfg domain.PipelineConfig) (*Runner, error) {
	stages := make([]driven.Stage, 0, len(cfg.Stages))
	for _, sc := range cfg.Stages {
		stage, err := r.Build(sc.Name, sc.Options)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return New(cfg, stages...)
}
