package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// Mock extraction stage with a configurable process function
type fakeStage struct {
	name    string
	process func(ctx context.Context, doc *domain.Document) domain.StageResult
}

func (f *fakeStage) Name() string {
	if f.name == "" {
		return "sectioner"
	}
	return f.name
}

func (f *fakeStage) Requires() []string { return nil }

func (f *fakeStage) Process(ctx context.Context, doc *domain.Document) domain.StageResult {
	if f.process != nil {
		return f.process(ctx, doc)
	}
	return domain.StageResult{Stage: f.Name(), Outcome: domain.OutcomeOK}
}

func writeTestPaper(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewExtractService(t *testing.T) {
	service := NewExtractService(&fakeStage{})
	require.NotNil(t, service)
}

func TestExtractService_ExtractFile(t *testing.T) {
	stage := &fakeStage{
		process: func(_ context.Context, doc *domain.Document) domain.StageResult {
			doc.Sections = []domain.Section{
				{Position: 0, Kind: domain.SectionTitle, Text: "A Study of Things"},
				{Position: 1, Kind: domain.SectionAbstract, Text: "We study things."},
				{Position: 2, Kind: domain.SectionParagraph, Text: "Things are studied here."},
			}
			return domain.StageResult{Stage: "sectioner", Outcome: domain.OutcomeOK}
		},
	}
	service := NewExtractService(stage)

	path := writeTestPaper(t, "A Study of Things\n\nAbstract\nWe study things.")
	result, err := service.ExtractFile(context.Background(), path)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, path, result.URI)
	assert.Equal(t, "A Study of Things", result.Title)
	assert.Equal(t, "We study things.", result.Abstract)
	require.Len(t, result.Sections, 3)
	assert.Equal(t, "A Study of Things\n\nWe study things.\n\nThings are studied here.", result.Text)
}

func TestExtractService_ExtractFile_ReadError(t *testing.T) {
	service := NewExtractService(&fakeStage{})

	result, err := service.ExtractFile(context.Background(), "/no/such/paper.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read /no/such/paper.pdf")
	assert.Nil(t, result)
}

func TestExtractService_ExtractFile_EmptyFile(t *testing.T) {
	service := NewExtractService(&fakeStage{})

	path := writeTestPaper(t, "")
	result, err := service.ExtractFile(context.Background(), path)

	require.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Nil(t, result)
}

func TestExtractService_ExtractFile_StageFailure(t *testing.T) {
	stage := &fakeStage{
		process: func(_ context.Context, _ *domain.Document) domain.StageResult {
			return domain.StageResult{
				Stage:   "sectioner",
				Outcome: domain.OutcomeFailed,
				Error:   "no text could be extracted",
			}
		},
	}
	service := NewExtractService(stage)

	path := writeTestPaper(t, "garbled bytes")
	result, err := service.ExtractFile(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text could be extracted")
	assert.Nil(t, result)
}

func TestExtractService_ExtractFile_NoSections(t *testing.T) {
	service := NewExtractService(&fakeStage{})

	path := writeTestPaper(t, "content")
	result, err := service.ExtractFile(context.Background(), path)

	require.NoError(t, err)
	assert.Empty(t, result.Title)
	assert.Empty(t, result.Abstract)
	assert.Empty(t, result.Sections)
	assert.Empty(t, result.Text)
}
