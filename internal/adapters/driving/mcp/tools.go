package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// ClassifyPaperInput is the input schema for the classify_paper tool.
type ClassifyPaperInput struct {
	Path string `json:"path" jsonschema:"path to the paper file (PDF, HTML or plain text)"`
}

// ClassifyTextInput is the input schema for the classify_text tool.
type ClassifyTextInput struct {
	Text     string `json:"text" jsonschema:"the paper text to classify"`
	MIMEType string `json:"mime_type,omitempty" jsonschema:"content type of the text (default text/plain)"`
	URI      string `json:"uri,omitempty" jsonschema:"informational source name shown in results"`
}

// GetTaxonomyInput is the input schema for the get_taxonomy tool.
type GetTaxonomyInput struct{}

// ClassifyOutput is the output schema for the classification tools.
type ClassifyOutput struct {
	DocumentID string          `json:"document_id"`
	URI        string          `json:"uri"`
	Status     string          `json:"status"`
	Title      string          `json:"title,omitempty"`
	Sections   []SectionOutput `json:"sections"`
}

// SectionOutput represents one classified section.
type SectionOutput struct {
	Kind       string   `json:"kind"`
	Text       string   `json:"text"`
	Position   int      `json:"position"`
	Label      string   `json:"label,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Source     string   `json:"source,omitempty"`
	Failed     bool     `json:"failed,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// TaxonomyOutput is the output schema for the get_taxonomy tool.
type TaxonomyOutput struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Labels []LabelOutput `json:"labels"`
}

// LabelOutput represents one taxonomy label.
type LabelOutput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_paper",
		Description: "Extract sections from a paper file and classify them against the taxonomy",
	}, s.handleClassifyPaper)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_text",
		Description: "Classify paper text given inline, without a file on disk",
	}, s.handleClassifyText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_taxonomy",
		Description: "Return the taxonomy papers are classified against",
	}, s.handleGetTaxonomy)
}

// handleClassifyPaper handles the classify_paper tool invocation.
func (s *Server) handleClassifyPaper(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyPaperInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	doc, err := s.ports.Pipeline.ClassifyFile(ctx, input.Path)
	if err != nil {
		return nil, ClassifyOutput{}, err
	}
	return nil, buildClassifyOutput(doc), nil
}

// handleClassifyText handles the classify_text tool invocation.
func (s *Server) handleClassifyText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyTextInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	mimeType := input.MIMEType
	if mimeType == "" {
		mimeType = "text/plain"
	}
	uri := input.URI
	if uri == "" {
		uri = "inline"
	}

	doc, err := s.ports.Pipeline.ClassifyRaw(ctx, uri, []byte(input.Text), mimeType)
	if err != nil {
		return nil, ClassifyOutput{}, err
	}
	return nil, buildClassifyOutput(doc), nil
}

// handleGetTaxonomy handles the get_taxonomy tool invocation.
func (s *Server) handleGetTaxonomy(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ GetTaxonomyInput,
) (*mcp.CallToolResult, TaxonomyOutput, error) {
	tax := s.ports.Pipeline.Taxonomy()

	output := TaxonomyOutput{
		ID:     tax.ID,
		Name:   tax.Name,
		Labels: make([]LabelOutput, len(tax.Labels)),
	}
	for i, l := range tax.Labels {
		output.Labels[i] = LabelOutput{
			Name:        l.Name,
			Description: l.Description,
		}
	}
	return nil, output, nil
}

func buildClassifyOutput(doc *domain.Document) ClassifyOutput {
	output := ClassifyOutput{
		DocumentID: doc.ID,
		URI:        doc.URI,
		Status:     doc.Status.String(),
		Title:      doc.Title(),
		Sections:   make([]SectionOutput, len(doc.Sections)),
	}
	for i, sec := range doc.Sections {
		so := SectionOutput{
			Kind:     sec.Kind.String(),
			Text:     sec.Text,
			Position: sec.Position,
		}
		if c := sec.Classification; c != nil {
			so.Label = c.Label
			so.Confidence = c.Confidence
			so.Source = string(c.Source)
			so.Failed = c.Failed
			so.Error = c.Error
		}
		output.Sections[i] = so
	}
	return output
}
