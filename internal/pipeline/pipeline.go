// Package pipeline composes document processing stages and runs papers
// through them in a fixed order.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/taxa-cli/internal/logger"
)

// slot pairs a stage with its configured failure policy.
type slot struct {
	stage  driven.Stage
	policy domain.FailurePolicy
}

// Runner executes stages strictly in order for one document at a time.
// Composition is validated once in New; Run never reports configuration
// problems.
type Runner struct {
	slots []slot
}

// Ensure Runner implements the port.
var _ driven.PipelineRunner = (*Runner)(nil)

// New creates a runner from the configured stage order. The stages must
// be given in the same order as cfg.Stages. All composition rules are
// checked here: matching names, uniqueness, satisfied requirements and
// valid policies. Violations return domain.ErrConfiguration.
func New(cfg domain.PipelineConfig, stages ...driven.Stage) (*Runner, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: pipeline has no stages", domain.ErrConfiguration)
	}
	if len(stages) != len(cfg.Stages) {
		return nil, fmt.Errorf("%w: %d stages supplied for %d configured slots",
			domain.ErrConfiguration, len(stages), len(cfg.Stages))
	}

	seen := make(map[string]int, len(stages))
	slots := make([]slot, len(stages))

	for i, stage := range stages {
		name := stage.Name()
		if name == "" {
			return nil, fmt.Errorf("%w: stage at position %d has an empty name",
				domain.ErrConfiguration, i)
		}
		if name != cfg.Stages[i].Name {
			return nil, fmt.Errorf("%w: stage %q supplied for slot %q",
				domain.ErrConfiguration, name, cfg.Stages[i].Name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate stage name %q",
				domain.ErrConfiguration, name)
		}

		policy := cfg.Stages[i].OnFailure
		if policy == "" {
			policy = domain.PolicyAbort
		}
		if !policy.IsValid() {
			return nil, fmt.Errorf("%w: stage %q has unknown failure policy %q",
				domain.ErrConfiguration, name, cfg.Stages[i].OnFailure)
		}

		for _, req := range stage.Requires() {
			if _, ok := seen[req]; !ok {
				return nil, fmt.Errorf("%w: stage %q requires %q to run earlier",
					domain.ErrConfiguration, name, req)
			}
		}

		seen[name] = i
		slots[i] = slot{stage: stage, policy: policy}
	}

	return &Runner{slots: slots}, nil
}

// StageNames returns the composed stage names in execution order.
func (r *Runner) StageNames() []string {
	names := make([]string, len(r.slots))
	for i, s := range r.slots {
		names[i] = s.stage.Name()
	}
	return names
}

// Run executes the pipeline over one document, mutating it in place and
// returning it in a terminal state. Stage failures are consumed by the
// per-stage policy and recorded in the stage log; Run itself never
// fails. Cancellation is observed at stage boundaries and leaves the
// document in progress for the caller to report, regardless of what
// the interrupted stage returned.
func (r *Runner) Run(ctx context.Context, doc *domain.Document) *domain.Document {
	doc.Status = domain.StatusInProgress
	doc.UpdatedAt = time.Now()

	for i, s := range r.slots {
		if ctx.Err() != nil {
			logger.Docf(doc.ID, "run cancelled before stage %s", s.stage.Name())
			return doc
		}

		start := time.Now()
		result := s.stage.Process(ctx, doc)
		result.Stage = s.stage.Name()
		result.Duration = time.Since(start)
		doc.LogStage(result)
		doc.UpdatedAt = time.Now()

		logger.Docf(doc.ID, "stage %s: %s (%s)", result.Stage, result.Outcome, result.Duration)

		if ctx.Err() != nil {
			logger.Docf(doc.ID, "run cancelled during stage %s", result.Stage)
			return doc
		}

		if result.Outcome != domain.OutcomeFailed {
			continue
		}

		switch s.policy {
		case domain.PolicyAbort:
			r.skipRemaining(doc, i+1)
			doc.Status = domain.StatusFailed
			return doc
		case domain.PolicySkipDocument:
			doc.Status = domain.StatusFailed
			return doc
		case domain.PolicySkipRemaining:
			r.skipRemaining(doc, i+1)
			doc.Status = domain.StatusCompleted
			return doc
		}
	}

	doc.Status = domain.StatusCompleted
	return doc
}

// skipRemaining logs a skipped entry for every stage from index on.
func (r *Runner) skipRemaining(doc *domain.Document, from int) {
	for _, s := range r.slots[from:] {
		doc.LogStage(domain.StageResult{
			Stage:   s.stage.Name(),
			Outcome: domain.OutcomeSkipped,
		})
	}
}
