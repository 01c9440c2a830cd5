package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// Ensure PlainTextExtractor implements the interface.
var _ driven.Extractor = (*PlainTextExtractor)(nil)

// utf8BOM is the byte order mark some editors prepend to text files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PlainTextExtractor passes plain text through with normalised line
// endings. Markdown papers arrive here too; their markup survives as
// ordinary text.
type PlainTextExtractor struct{}

// NewPlainTextExtractor creates a plain text extractor.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// Name returns the extractor name.
func (e *PlainTextExtractor) Name() string {
	return "plaintext"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *PlainTextExtractor) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/markdown"}
}

// Extract returns the content with CRLF endings and any leading BOM
// normalised away. Bytes that are not valid UTF-8 are dropped.
func (e *PlainTextExtractor) Extract(_ context.Context, raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	raw = bytes.ToValidUTF8(raw, nil)

	text := string(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}
