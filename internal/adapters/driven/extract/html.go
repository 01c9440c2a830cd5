package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// Ensure HTMLExtractor implements the interface.
var _ driven.Extractor = (*HTMLExtractor)(nil)

// HTMLExtractor extracts readable text from HTML papers. Block
// elements become blank-line-separated paragraphs; script, style and
// page chrome are dropped.
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTML extractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Name returns the extractor name.
func (e *HTMLExtractor) Name() string {
	return "html"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *HTMLExtractor) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Extract returns the visible text content, one block per paragraph.
func (e *HTMLExtractor) Extract(_ context.Context, raw []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("html parse: %w", err)
	}

	var blocks []string
	collectBlocks(doc, &blocks)

	if len(blocks) == 0 {
		// Documents without block structure still have their text.
		if text := collectText(doc); text != "" {
			blocks = append(blocks, text)
		}
	}

	return strings.Join(blocks, "\n\n"), nil
}

// collectBlocks walks the DOM and emits one text block per block-level
// element, skipping page chrome.
func collectBlocks(n *html.Node, blocks *[]string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Head,
			atom.Nav, atom.Footer, atom.Header, atom.Aside:
			return

		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
			atom.P, atom.Li, atom.Blockquote, atom.Pre, atom.Figcaption,
			atom.Td, atom.Th:
			if text := collectText(n); text != "" {
				*blocks = append(*blocks, text)
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectBlocks(c, blocks)
	}
}

// collectText extracts all text from a node subtree, space-joined.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
