package driven

import (
	"context"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// ClassificationCache stores classification results keyed by a content
// hash, so identical sections are never re-submitted to the backend.
//
// Keys are derived from the section text, the taxonomy ID and the model
// name; any change to the taxonomy or model produces fresh keys and the
// stale entries simply age out unused.
type ClassificationCache interface {
	// Get returns the cached result for a key.
	// A miss returns (nil, nil); errors are reserved for storage
	// failures.
	Get(ctx context.Context, key string) (*domain.ClassificationResult, error)

	// Set stores a result under a key, overwriting any existing entry.
	// Only successful results are worth caching; failed attempts must
	// be retried on the next run.
	Set(ctx context.Context, key string, result domain.ClassificationResult) error

	// Len returns the number of cached entries.
	Len(ctx context.Context) (int, error)

	// Clear removes all cached entries.
	Clear(ctx context.Context) error
}
