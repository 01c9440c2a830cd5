package domain

import "time"

// FailurePolicy decides what happens to a document when a stage fails.
type FailurePolicy string

// Available failure policies.
const (
	// PolicyAbort stops the run, marks remaining stages skipped and the
	// document failed.
	PolicyAbort FailurePolicy = "abort"

	// PolicySkipDocument stops the run immediately and marks the
	// document failed without logging the remaining stages.
	PolicySkipDocument FailurePolicy = "skip-document"

	// PolicySkipRemaining marks the remaining stages skipped and leaves
	// the document completed with partial results.
	PolicySkipRemaining FailurePolicy = "skip-remaining-stages"
)

// IsValid returns true if the policy is recognised.
func (p FailurePolicy) IsValid() bool {
	switch p {
	case PolicyAbort, PolicySkipDocument, PolicySkipRemaining:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p FailurePolicy) String() string {
	return string(p)
}

// AllFailurePolicies returns every recognised failure policy.
func AllFailurePolicies() []FailurePolicy {
	return []FailurePolicy{
		PolicyAbort,
		PolicySkipDocument,
		PolicySkipRemaining,
	}
}

// StageConfig configures one stage slot in a pipeline.
type StageConfig struct {
	// Name selects the stage. Must be unique within the pipeline.
	Name string

	// OnFailure is the policy applied when this stage fails.
	// Defaults to abort when empty.
	OnFailure FailurePolicy

	// Options holds stage-specific configuration as a generic map, so
	// new stages can be added without touching this struct.
	Options map[string]any
}

// PipelineConfig describes a full pipeline: the ordered stages plus the
// batch-level execution limits.
type PipelineConfig struct {
	// Stages is the ordered list of stage slots.
	Stages []StageConfig

	// MaxParallel bounds how many documents are processed concurrently.
	MaxParallel int

	// BatchTimeout bounds a whole batch run. Zero means no limit.
	BatchTimeout time.Duration
}

// StageNames returns the configured stage names in order.
func (c PipelineConfig) StageNames() []string {
	names := make([]string, len(c.Stages))
	for i, s := range c.Stages {
		names[i] = s.Name
	}
	return names
}

// StageOptions returns the options map for a named stage, or nil.
func (c PipelineConfig) StageOptions(name string) map[string]any {
	for _, s := range c.Stages {
		if s.Name == name {
			return s.Options
		}
	}
	return nil
}

// DefaultMaxParallel is the worker bound used when MaxParallel is unset.
const DefaultMaxParallel = 4

// DefaultPipelineConfig returns the standard extract-then-classify
// pipeline with sensible limits.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Stages: []StageConfig{
			{Name: "sectioner", OnFailure: PolicyAbort},
			{Name: "classifier", OnFailure: PolicySkipRemaining},
		},
		MaxParallel: DefaultMaxParallel,
	}
}
