package mcp

import (
	"context"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	doc      *domain.Document
	taxonomy domain.Taxonomy
	err      error

	lastPath string
	lastURI  string
	lastMIME string
}

func (m *mockPipelineService) ClassifyFile(_ context.Context, path string) (*domain.Document, error) {
	m.lastPath = path
	return m.doc, m.err
}

func (m *mockPipelineService) ClassifyRaw(
	_ context.Context,
	uri string,
	_ []byte,
	mimeType string,
) (*domain.Document, error) {
	m.lastURI = uri
	m.lastMIME = mimeType
	return m.doc, m.err
}

func (m *mockPipelineService) Taxonomy() domain.Taxonomy {
	return m.taxonomy
}

// mockExtractService is a mock implementation of driving.ExtractService.
type mockExtractService struct {
	result *driving.ExtractResult
	err    error
}

func (m *mockExtractService) ExtractFile(_ context.Context, _ string) (*driving.ExtractResult, error) {
	return m.result, m.err
}

// mockResultStore is a mock implementation of driven.ResultStore.
type mockResultStore struct {
	docs []domain.Document
	doc  *domain.Document
	err  error
}

func (m *mockResultStore) SaveDocument(_ context.Context, _ *domain.Document) error {
	return m.err
}

func (m *mockResultStore) GetDocument(_ context.Context, _ string) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockResultStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockResultStore) DeleteDocument(_ context.Context, _ string) error {
	return m.err
}
