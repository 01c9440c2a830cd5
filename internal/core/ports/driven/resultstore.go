package driven

import (
	"context"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// ResultStore persists processed documents with their sections,
// classifications and stage logs. Backed by SQLite.
type ResultStore interface {
	// SaveDocument stores or updates a document and its sections.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when the ID is unknown.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all stored documents, newest first.
	// Raw content is not loaded; only sections and metadata.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its sections.
	DeleteDocument(ctx context.Context, id string) error
}
