// Package extract provides text extractors for the supported paper
// formats and the registry that picks between them. Extraction engines
// vary wildly in what they cope with, so each MIME type carries a
// priority-ordered candidate list and the registry walks down it until
// one produces text.
package extract

import (
	"context"
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/taxa-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// entry pairs an extractor with its priority for one MIME type.
type entry struct {
	extractor driven.Extractor
	priority  int
}

// Registry maps MIME types to prioritised extractor candidates.
type Registry struct {
	mu     sync.RWMutex
	byType map[string][]entry
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[string][]entry),
	}
}

// NewDefaultRegistry creates a registry with all built-in extractors
// registered: pdfcpu with a positional fallback for PDFs, plus the
// HTML and plain text extractors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPDFExtractor(), 0)
	r.Register(NewFallbackPDFExtractor(), 1)
	r.Register(NewHTMLExtractor(), 0)
	r.Register(NewPlainTextExtractor(), 0)
	return r
}

// Register adds an extractor for each MIME type it supports.
// Lower priority values are tried first; ties keep insertion order.
func (r *Registry) Register(extractor driven.Extractor, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mimeType := range extractor.SupportedMIMETypes() {
		key := normaliseMIMEType(mimeType)
		candidates := append(r.byType[key], entry{extractor: extractor, priority: priority})
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].priority < candidates[j].priority
		})
		r.byType[key] = candidates
	}
}

// ExtractText extracts plain text using the best matching extractor,
// falling back to lower-priority candidates when one fails or produces
// no text. When every candidate succeeds but none finds text, the
// result is empty with no error; scanned documents are not failures.
func (r *Registry) ExtractText(ctx context.Context, raw []byte, mimeType string) (string, error) {
	r.mu.RLock()
	candidates := r.byType[normaliseMIMEType(mimeType)]
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)
	}

	var lastErr error
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := candidate.extractor.Extract(ctx, raw)
		if err != nil {
			logger.Debug("Extractor %s failed on %s: %v", candidate.extractor.Name(), mimeType, err)
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
		logger.Debug("Extractor %s produced no text for %s", candidate.extractor.Name(), mimeType)
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", nil
}

// SupportedMIMETypes returns all MIME types with at least one
// registered extractor, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byType))
	for mimeType := range r.byType {
		types = append(types, mimeType)
	}
	sort.Strings(types)
	return types
}

// normaliseMIMEType strips parameters such as charset and lowercases
// the type, so "text/HTML; charset=utf-8" matches "text/html".
func normaliseMIMEType(mimeType string) string {
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		return parsed
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
