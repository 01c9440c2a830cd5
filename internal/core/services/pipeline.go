package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/taxa-cli/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineService runs single documents through the composed pipeline.
type PipelineService struct {
	runner   driven.PipelineRunner
	taxonomy domain.Taxonomy
	results  driven.ResultStore
}

// NewPipelineService creates a pipeline service.
// The result store is optional; when nil, processed documents are
// returned but not persisted.
func NewPipelineService(runner driven.PipelineRunner, taxonomy domain.Taxonomy, results driven.ResultStore) *PipelineService {
	return &PipelineService{
		runner:   runner,
		taxonomy: taxonomy,
		results:  results,
	}
}

// ClassifyFile reads a file and runs it through the pipeline.
func (s *PipelineService) ClassifyFile(ctx context.Context, path string) (*domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return s.ClassifyRaw(ctx, path, raw, detectMIMEType(path, raw))
}

// ClassifyRaw runs the pipeline over in-memory content.
func (s *PipelineService) ClassifyRaw(ctx context.Context, uri string, raw []byte, mimeType string) (*domain.Document, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s has no content", domain.ErrEmptyInput, uri)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(raw)
	}

	now := time.Now()
	doc := &domain.Document{
		ID:        uuid.NewString(),
		URI:       uri,
		MIMEType:  mimeType,
		Raw:       raw,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	logger.Debug("Processing %s as %s (%d bytes)", uri, mimeType, len(raw))
	doc = s.runner.Run(ctx, doc)

	if s.results != nil && doc.Status.IsTerminal() {
		if err := s.results.SaveDocument(ctx, doc); err != nil {
			logger.Warn("Failed to persist document %s: %v", doc.ID, err)
		}
	}

	return doc, nil
}

// Taxonomy returns the taxonomy the pipeline classifies against.
func (s *PipelineService) Taxonomy() domain.Taxonomy {
	return s.taxonomy
}

// detectMIMEType resolves a document's MIME type from its extension,
// falling back to content sniffing for unknown ones.
func detectMIMEType(path string, raw []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".html", ".htm":
		return "text/html"
	case ".txt", ".md":
		return "text/plain"
	}

	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return http.DetectContentType(raw)
}
