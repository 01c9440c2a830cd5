package driving

import (
	"context"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// BatchOrchestrator fans documents out across a bounded worker pool.
type BatchOrchestrator interface {
	// RunBatch processes all paths through the pipeline and returns
	// once every document has either finished or the batch deadline
	// fired. One document's failure never affects its siblings.
	// Returns domain.ErrBatchInProgress if a batch is already running.
	RunBatch(ctx context.Context, paths []string) (*domain.BatchResult, error)

	// Status returns a snapshot of the running batch for progress
	// reporting.
	Status() domain.BatchStatus
}
