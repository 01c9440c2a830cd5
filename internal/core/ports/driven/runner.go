package driven

import (
	"context"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// PipelineRunner executes the composed stage pipeline over a document.
// Composition and validation happen where the runner is built; services
// only ever see a runner that is ready to go.
type PipelineRunner interface {
	// Run processes one document through every stage in order,
	// mutating it in place. Stage failures are absorbed by the
	// configured policies and recorded on the document, so Run always
	// returns the document in the state it ended up in.
	Run(ctx context.Context, doc *domain.Document) *domain.Document

	// StageNames returns the composed stage names in execution order.
	StageNames() []string
}
