package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFailurePolicy_IsValid tests all valid and invalid policies
func TestFailurePolicy_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		policy   FailurePolicy
		expected bool
	}{
		{"abort is valid", PolicyAbort, true},
		{"skip-document is valid", PolicySkipDocument, true},
		{"skip-remaining-stages is valid", PolicySkipRemaining, true},
		{"empty string is invalid", FailurePolicy(""), false},
		{"unknown policy is invalid", FailurePolicy("retry"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.policy.IsValid())
		})
	}
}

// TestAllFailurePolicies tests the policy enumeration
func TestAllFailurePolicies(t *testing.T) {
	policies := AllFailurePolicies()
	require.Len(t, policies, 3)
	for _, p := range policies {
		assert.True(t, p.IsValid())
	}
}

// TestPipelineConfig_StageNames tests name extraction preserves order
func TestPipelineConfig_StageNames(t *testing.T) {
	cfg := PipelineConfig{
		Stages: []StageConfig{
			{Name: "sectioner"},
			{Name: "classifier"},
			{Name: "enricher"},
		},
	}

	assert.Equal(t, []string{"sectioner", "classifier", "enricher"}, cfg.StageNames())
}

// TestPipelineConfig_StageOptions tests option lookup
func TestPipelineConfig_StageOptions(t *testing.T) {
	cfg := PipelineConfig{
		Stages: []StageConfig{
			{Name: "classifier", Options: map[string]any{"max_retries": 3}},
		},
	}

	opts := cfg.StageOptions("classifier")
	require.NotNil(t, opts)
	assert.Equal(t, 3, opts["max_retries"])

	assert.Nil(t, cfg.StageOptions("missing"))
}

// TestDefaultPipelineConfig tests the default pipeline shape
func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()

	require.Len(t, cfg.Stages, 2)
	assert.Equal(t, "sectioner", cfg.Stages[0].Name)
	assert.Equal(t, PolicyAbort, cfg.Stages[0].OnFailure)
	assert.Equal(t, "classifier", cfg.Stages[1].Name)
	assert.Equal(t, PolicySkipRemaining, cfg.Stages[1].OnFailure)
	assert.Equal(t, DefaultMaxParallel, cfg.MaxParallel)
	assert.Equal(t, time.Duration(0), cfg.BatchTimeout)
}
