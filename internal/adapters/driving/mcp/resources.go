package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Taxa resources.
	uriScheme = "taxa://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the active taxonomy.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "taxonomy",
		Name:        "taxonomy",
		Description: "The taxonomy papers are classified against",
		MIMEType:    "application/json",
	}, s.handleTaxonomyResource)

	// Static resource for listing stored results.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "results",
		Name:        "results",
		Description: "List of stored classification results",
		MIMEType:    "application/json",
	}, s.handleResultsResource)

	// Template for one stored result.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "results/{documentId}",
		Name:        "result",
		Description: "One stored classification result with its sections",
		MIMEType:    "application/json",
	}, s.handleResultResource)
}

// handleTaxonomyResource returns the active taxonomy.
func (s *Server) handleTaxonomyResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	tax := s.ports.Pipeline.Taxonomy()

	output := TaxonomyOutput{
		ID:     tax.ID,
		Name:   tax.Name,
		Labels: make([]LabelOutput, len(tax.Labels)),
	}
	for i, l := range tax.Labels {
		output.Labels[i] = LabelOutput{Name: l.Name, Description: l.Description}
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling taxonomy: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleResultsResource returns a list of all stored results.
func (s *Server) handleResultsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Results == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	docs, err := s.ports.Results.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}

	// Build simplified result list.
	type resultInfo struct {
		ID       string `json:"id"`
		URI      string `json:"uri"`
		Title    string `json:"title,omitempty"`
		Status   string `json:"status"`
		Sections int    `json:"sections"`
	}

	infos := make([]resultInfo, len(docs))
	for i := range docs {
		infos[i] = resultInfo{
			ID:       docs[i].ID,
			URI:      docs[i].URI,
			Title:    docs[i].Title(),
			Status:   docs[i].Status.String(),
			Sections: len(docs[i].Sections),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling results: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleResultResource returns one stored result.
func (s *Server) handleResultResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Results == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: taxa://results/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Results.GetDocument(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting result: %w", err)
	}

	data, err := json.MarshalIndent(buildClassifyOutput(doc), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like taxa://results/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "results/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
