package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/taxa-cli/internal/logger"
)

// Ensure BatchOrchestrator implements the interface.
var _ driving.BatchOrchestrator = (*BatchOrchestrator)(nil)

// BatchOrchestrator fans documents out across a bounded worker pool.
// Only one batch runs at a time; Status serves progress polling from
// other goroutines while it does.
type BatchOrchestrator struct {
	pipeline    driving.PipelineService
	maxParallel int
	timeout     time.Duration

	// Status tracking
	mu     sync.RWMutex
	status domain.BatchStatus
}

// NewBatchOrchestrator creates a batch orchestrator running documents
// through the given pipeline service. Worker count and batch deadline
// come from the pipeline configuration.
func NewBatchOrchestrator(pipeline driving.PipelineService, cfg domain.PipelineConfig) *BatchOrchestrator {
	maxParallel := cfg.MaxParallel
	if maxParallel <= 0 {
		maxParallel = domain.DefaultMaxParallel
	}

	return &BatchOrchestrator{
		pipeline:    pipeline,
		maxParallel: maxParallel,
		timeout:     cfg.BatchTimeout,
	}
}

// RunBatch processes all paths and returns once every document has
// either finished or the batch deadline fired. Per-document failures
// are recorded on the documents themselves; the only errors returned
// are an empty batch and a batch already in progress.
func (o *BatchOrchestrator) RunBatch(ctx context.Context, paths []string) (*domain.BatchResult, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no input files", domain.ErrInvalidInput)
	}

	if err := o.begin(len(paths)); err != nil {
		return nil, err
	}
	defer o.end()

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	logger.Info("Starting batch of %d documents (%d workers)", len(paths), o.maxParallel)
	start := time.Now()

	var (
		resMu sync.Mutex
		docs  = make(map[string]*domain.Document, len(paths))
	)

	var g errgroup.Group
	g.SetLimit(o.maxParallel)

	for _, path := range paths {
		g.Go(func() error {
			doc := o.processOne(ctx, path)
			resMu.Lock()
			docs[doc.ID] = doc
			resMu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	result := &domain.BatchResult{
		Documents: docs,
		Summary:   summarise(docs),
		Elapsed:   time.Since(start),
	}

	logger.Info("Batch complete: %d completed, %d failed, %d timed out in %s",
		result.Summary.Completed, result.Summary.Failed, result.Summary.TimedOut,
		result.Elapsed.Round(time.Millisecond))

	return result, nil
}

// Status returns a snapshot of the running batch.
func (o *BatchOrchestrator) Status() domain.BatchStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

// processOne runs a single document, isolating every failure mode into
// the returned document. Documents whose turn comes after the deadline
// are handed back untouched, still pending.
func (o *BatchOrchestrator) processOne(ctx context.Context, path string) *domain.Document {
	if ctx.Err() != nil {
		return &domain.Document{
			ID:     uuid.NewString(),
			URI:    path,
			Status: domain.StatusPending,
		}
	}

	o.trackStarted()
	doc, err := o.pipeline.ClassifyFile(ctx, path)
	if err != nil {
		doc = &domain.Document{
			ID:     uuid.NewString(),
			URI:    path,
			Status: domain.StatusFailed,
		}
		doc.SetStageMetadata("batch", "error", err.Error())
		logger.Docf(doc.ID, "failed before the pipeline: %v", err)
	}
	o.trackFinished(doc)

	return doc
}

func (o *BatchOrchestrator) begin(total int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.Running {
		return domain.ErrBatchInProgress
	}
	o.status = domain.BatchStatus{
		Running:   true,
		Total:     total,
		StartedAt: time.Now(),
	}
	return nil
}

func (o *BatchOrchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.Running = false
	o.status.InFlight = 0
}

func (o *BatchOrchestrator) trackStarted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status.InFlight++
}

func (o *BatchOrchestrator) trackFinished(doc *domain.Document) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.status.InFlight--
	if doc.Status.IsTerminal() {
		o.status.Processed++
	}
	if doc.Status == domain.StatusFailed {
		o.status.Failed++
	}
}

// summarise counts terminal outcomes. Anything not terminal when the
// batch ends was cut off by the deadline.
func summarise(docs map[string]*domain.Document) domain.BatchSummary {
	summary := domain.BatchSummary{Total: len(docs)}
	for _, doc := range docs {
		switch doc.Status {
		case domain.StatusCompleted:
			summary.Completed++
		case domain.StatusFailed:
			summary.Failed++
		default:
			summary.TimedOut++
		}
	}
	return summary
}
