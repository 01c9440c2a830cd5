package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/taxa-cli/internal/pipeline/classifier"
	"github.com/custodia-labs/taxa-cli/internal/pipeline/sectioner"
	"github.com/custodia-labs/taxa-cli/internal/ratelimit"
)

const e2ePaper = `Deep Residual Learning for Image Recognition

Abstract

Deeper neural networks are more difficult to train. We present a
residual learning framework to ease the training of networks.

1 Introduction

Deep convolutional neural networks have led to a series of
breakthroughs for image classification.

References

[1] Krizhevsky et al. ImageNet classification with deep CNNs.`

// textRegistry hands back fixed text for any document.
type textRegistry struct {
	text string
}

func (r *textRegistry) ExtractText(context.Context, []byte, string) (string, error) {
	return r.text, nil
}

func (r *textRegistry) Register(driven.Extractor, int) {}
func (r *textRegistry) SupportedMIMETypes() []string   { return nil }

// countingCompletion always classifies as machine-learning and counts
// calls.
type countingCompletion struct {
	mu    sync.Mutex
	calls int
}

func (c *countingCompletion) Complete(context.Context, string, driven.CompleteOptions) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return `{"label": "machine-learning", "confidence": 0.93}`, nil
}

func (c *countingCompletion) ModelName() string          { return "e2e-model" }
func (c *countingCompletion) Ping(context.Context) error { return nil }
func (c *countingCompletion) Close() error               { return nil }

// mapCache is a plain map-backed classification cache.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]domain.ClassificationResult
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]domain.ClassificationResult)}
}

func (c *mapCache) Get(_ context.Context, key string) (*domain.ClassificationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.entries[key]; ok {
		return &r, nil
	}
	return nil, nil
}

func (c *mapCache) Set(_ context.Context, key string, result domain.ClassificationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
	return nil
}

func (c *mapCache) Len(context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries), nil
}

func (c *mapCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.ClassificationResult)
	return nil
}

// TestRunner_Run_EndToEnd tests the default pipeline with the real
// sectioner and classifier stages over a small paper.
func TestRunner_Run_EndToEnd(t *testing.T) {
	completion := &countingCompletion{}
	cache := newMapCache()
	taxonomy := domain.Taxonomy{
		ID:   "cs-fields",
		Name: "Computer science fields",
		Labels: []domain.TaxonomyLabel{
			{Name: "machine-learning", Description: "Learning systems and neural models"},
			{Name: "systems", Description: "Operating systems, networks and databases"},
		},
	}
	limiter := ratelimit.New(domain.RateLimitSettings{RequestsPerSecond: 1000, Burst: 1000})

	runner, err := New(
		domain.DefaultPipelineConfig(),
		sectioner.New(&textRegistry{text: e2ePaper}),
		classifier.New(completion, cache, limiter, taxonomy,
			classifier.WithBackoffBase(time.Millisecond)),
	)
	require.NoError(t, err)

	doc := runner.Run(context.Background(), &domain.Document{ID: "d1", URI: "resnet.txt"})

	require.Equal(t, domain.StatusCompleted, doc.Status)
	require.Len(t, doc.StageLog, 2)
	assert.Equal(t, sectioner.StageName, doc.StageLog[0].Stage)
	assert.Equal(t, classifier.StageName, doc.StageLog[1].Stage)
	for _, entry := range doc.StageLog {
		assert.Equal(t, domain.OutcomeOK, entry.Outcome)
	}

	assert.Equal(t, "Deep Residual Learning for Image Recognition", doc.Title())

	// Abstract and paragraph sections carry labels; structural ones
	// stay unclassified.
	var labelled int
	for _, section := range doc.Sections {
		switch section.Kind {
		case domain.SectionAbstract, domain.SectionParagraph:
			require.NotNil(t, section.Classification, "section %d (%s)", section.Position, section.Kind)
			assert.Equal(t, "machine-learning", section.Classification.Label)
			labelled++
		default:
			assert.Nil(t, section.Classification, "section %d (%s)", section.Position, section.Kind)
		}
	}
	require.Positive(t, labelled)
	assert.Equal(t, labelled, completion.calls)

	hits, ok := doc.StageMetadata(classifier.StageName, "cache_hits")
	require.True(t, ok)
	assert.Equal(t, "0", hits)

	// A second paper with the same text is served from cache.
	again := runner.Run(context.Background(), &domain.Document{ID: "d2", URI: "resnet-copy.txt"})

	require.Equal(t, domain.StatusCompleted, again.Status)
	assert.Equal(t, labelled, completion.calls)
	hits, ok = again.StageMetadata(classifier.StageName, "cache_hits")
	require.True(t, ok)
	assert.NotEqual(t, "0", hits)
}
