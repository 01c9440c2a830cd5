package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
)

// Ensure ExtractService implements the interface.
var _ driving.ExtractService = (*ExtractService)(nil)

// ExtractService extracts sections from papers without classifying
// them. It drives the section extraction stage directly, outside any
// pipeline composition.
type ExtractService struct {
	stage driven.Stage
}

// NewExtractService creates an extract service around a section
// extraction stage.
func NewExtractService(stage driven.Stage) *ExtractService {
	return &ExtractService{stage: stage}
}

// ExtractFile extracts the sections of a single paper.
func (s *ExtractService) ExtractFile(ctx context.Context, path string) (*driving.ExtractResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s has no content", domain.ErrEmptyInput, path)
	}

	now := time.Now()
	doc := &domain.Document{
		ID:        uuid.NewString(),
		URI:       path,
		MIMEType:  detectMIMEType(path, raw),
		Raw:       raw,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result := s.stage.Process(ctx, doc)
	if result.Outcome == domain.OutcomeFailed {
		return nil, fmt.Errorf("extract %s: %s", path, result.Error)
	}

	return &driving.ExtractResult{
		URI:      path,
		Title:    doc.Title(),
		Abstract: doc.Abstract(),
		Sections: doc.Sections,
		Text:     joinSections(doc.Sections),
	}, nil
}

// joinSections reassembles the extracted text from the sections.
func joinSections(sections []domain.Section) string {
	parts := make([]string, 0, len(sections))
	for _, section := range sections {
		parts = append(parts, section.Text)
	}
	return strings.Join(parts, "\n\n")
}
