package driven

import "context"

// Extractor turns one family of raw document formats into plain text.
// Extraction is best-effort: scanned PDFs or image-only pages yield
// empty text rather than an error.
type Extractor interface {
	// Name returns the extractor name for logging and selection.
	Name() string

	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Extract returns the plain text content of the raw bytes.
	Extract(ctx context.Context, raw []byte) (string, error)
}

// ExtractorRegistry selects the appropriate extractor for a document.
// It maintains a priority-ordered list per MIME type and falls back to
// the next candidate when one fails or produces no text, so a single
// stubborn file does not need the caller to know about engines.
type ExtractorRegistry interface {
	// ExtractText extracts plain text using the best matching
	// extractor, trying lower-priority candidates on failure.
	// Returns ErrUnsupportedType when no extractor claims the MIME
	// type, or the last extraction error when all candidates fail.
	ExtractText(ctx context.Context, raw []byte, mimeType string) (string, error)

	// Register adds an extractor at the given priority.
	// Lower priority values are tried first.
	Register(extractor Extractor, priority int)

	// SupportedMIMETypes returns all MIME types that can be extracted.
	SupportedMIMETypes() []string
}
