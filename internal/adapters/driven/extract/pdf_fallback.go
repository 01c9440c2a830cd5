package extract

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"rsc.io/pdf"

	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// Ensure FallbackPDFExtractor implements the interface.
var _ driven.Extractor = (*FallbackPDFExtractor)(nil)

// FallbackPDFExtractor extracts text from PDFs through rsc.io/pdf,
// which decodes positioned glyph runs rather than raw content streams.
// It handles some encodings pdfcpu's stream parsing cannot, at the
// cost of rougher layout, so it sits behind the primary extractor.
type FallbackPDFExtractor struct{}

// NewFallbackPDFExtractor creates the positional PDF extractor.
func NewFallbackPDFExtractor() *FallbackPDFExtractor {
	return &FallbackPDFExtractor{}
}

// Name returns the extractor name.
func (e *FallbackPDFExtractor) Name() string {
	return "rscpdf"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *FallbackPDFExtractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Extract returns the plain text content of a PDF, pages separated by
// blank lines. The parser panics on some malformed files; those are
// reported as errors.
func (e *FallbackPDFExtractor) Extract(ctx context.Context, raw []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("pdf open: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= reader.NumPage(); pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(pageNr)
		if page.V.IsNull() {
			continue
		}

		if pageText := assemblePage(page.Content().Text); pageText != "" {
			pages = append(pages, pageText)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

// assemblePage orders glyph runs top-to-bottom then left-to-right and
// reinserts the whitespace the layout implies. A horizontal gap wider
// than a quarter of the font size reads as a word break; a vertical
// move reads as a line break.
func assemblePage(texts []pdf.Text) string {
	if len(texts) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var sb strings.Builder
	var lastY, lastEnd float64
	for i, t := range sorted {
		switch {
		case i == 0:
		case t.Y != lastY:
			sb.WriteByte('\n')
		case t.X-lastEnd > t.FontSize/4:
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		lastY = t.Y
		lastEnd = t.X + t.W
	}

	return strings.TrimSpace(sb.String())
}
