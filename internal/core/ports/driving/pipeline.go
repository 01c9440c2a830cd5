package driving

import (
	"context"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// PipelineService runs single documents through the configured pipeline.
type PipelineService interface {
	// ClassifyFile reads a file, runs the pipeline over it and returns
	// the processed document. Stage failures are recorded on the
	// document, not returned; the error covers I/O and composition
	// problems only.
	ClassifyFile(ctx context.Context, path string) (*domain.Document, error)

	// ClassifyRaw runs the pipeline over in-memory content.
	// The URI is informational and appears in results.
	ClassifyRaw(ctx context.Context, uri string, raw []byte, mimeType string) (*domain.Document, error)

	// Taxonomy returns the taxonomy the pipeline classifies against.
	Taxonomy() domain.Taxonomy
}
