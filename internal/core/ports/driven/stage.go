package driven

import (
	"context"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// Stage is one step of the document pipeline. Stages are composed in a
// fixed order at startup and invoked sequentially for each document.
//
// Implementations must be stateless across documents: any state needed
// for a single document travels on the document itself, and shared
// resources (caches, rate limiters, completion backends) are injected
// at construction. A stage must not retain references to a document
// after Process returns.
type Stage interface {
	// Name returns the stage name. Unique within a pipeline; also the
	// namespace for the stage's metadata writes and log entries.
	Name() string

	// Requires returns the names of stages that must appear earlier in
	// the pipeline. Ordering is validated at composition time.
	Requires() []string

	// Process runs the stage against the document, mutating it in
	// place. Failures are reported in the result, never panicked.
	// Implementations should honour ctx cancellation at their own
	// blocking points.
	Process(ctx context.Context, doc *domain.Document) domain.StageResult
}
