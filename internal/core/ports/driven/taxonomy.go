package driven

import "github.com/custodia-labs/taxa-cli/internal/core/domain"

// TaxonomyLoader reads a taxonomy from external configuration.
// Implementations decide the format from the file extension.
type TaxonomyLoader interface {
	// Load reads and validates a taxonomy from the given path.
	Load(path string) (*domain.Taxonomy, error)
}
