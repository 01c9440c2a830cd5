package driving

import (
	"context"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// ExtractService extracts text and sections from papers without
// classifying them.
type ExtractService interface {
	// ExtractFile extracts the sections of a single paper.
	ExtractFile(ctx context.Context, path string) (*ExtractResult, error)
}

// ExtractResult is the outcome of extracting one paper.
type ExtractResult struct {
	// URI is the source path.
	URI string

	// Title is the detected paper title, if any.
	Title string

	// Abstract is the detected abstract text, if any.
	Abstract string

	// Sections holds every extracted section in source order.
	Sections []domain.Section

	// Text is the extracted plain text, reassembled from the sections.
	Text string
}
