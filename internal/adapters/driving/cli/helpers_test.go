package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
)

// Shared mocks and fixtures for the command tests.

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	doc      *domain.Document
	taxonomy domain.Taxonomy
	err      error

	lastPath string
}

func (m *mockPipelineService) ClassifyFile(_ context.Context, path string) (*domain.Document, error) {
	m.lastPath = path
	return m.doc, m.err
}

func (m *mockPipelineService) ClassifyRaw(
	_ context.Context,
	_ string,
	_ []byte,
	_ string,
) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockPipelineService) Taxonomy() domain.Taxonomy {
	return m.taxonomy
}

// mockBatchOrchestrator is a mock implementation of driving.BatchOrchestrator.
type mockBatchOrchestrator struct {
	result *domain.BatchResult
	err    error
	status domain.BatchStatus

	lastPaths []string
}

func (m *mockBatchOrchestrator) RunBatch(_ context.Context, paths []string) (*domain.BatchResult, error) {
	m.lastPaths = paths
	return m.result, m.err
}

func (m *mockBatchOrchestrator) Status() domain.BatchStatus {
	return m.status
}

// mockExtractService is a mock implementation of driving.ExtractService.
type mockExtractService struct {
	result *driving.ExtractResult
	err    error
}

func (m *mockExtractService) ExtractFile(_ context.Context, _ string) (*driving.ExtractResult, error) {
	return m.result, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    *domain.AppSettings
	err         error
	validateErr error
	llmErr      error

	savedProvider domain.AIProvider
	savedModel    string
	savedKey      string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.savedProvider = provider
	m.savedModel = model
	m.savedKey = apiKey
	return m.err
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.llmErr
}

// mockResultStore is a mock implementation of driven.ResultStore.
type mockResultStore struct {
	docs []domain.Document
	doc  *domain.Document
	err  error

	saved   []*domain.Document
	deleted []string
}

func (m *mockResultStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, doc)
	return nil
}

func (m *mockResultStore) GetDocument(_ context.Context, _ string) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockResultStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockResultStore) DeleteDocument(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockClassificationCache is a mock implementation of driven.ClassificationCache.
type mockClassificationCache struct {
	count   int
	err     error
	cleared bool
}

func (m *mockClassificationCache) Get(_ context.Context, _ string) (*domain.ClassificationResult, error) {
	return nil, m.err
}

func (m *mockClassificationCache) Set(_ context.Context, _ string, _ domain.ClassificationResult) error {
	return m.err
}

func (m *mockClassificationCache) Len(_ context.Context) (int, error) {
	return m.count, m.err
}

func (m *mockClassificationCache) Clear(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = true
	return nil
}

// mockTaxonomyLoader is a mock implementation of driven.TaxonomyLoader.
type mockTaxonomyLoader struct {
	tax *domain.Taxonomy
	err error

	lastPath string
}

func (m *mockTaxonomyLoader) Load(path string) (*domain.Taxonomy, error) {
	m.lastPath = path
	return m.tax, m.err
}

// testTaxonomy is the taxonomy fixture used across command tests.
func testTaxonomy() domain.Taxonomy {
	return domain.Taxonomy{
		ID:   "research-domains",
		Name: "Research Domains",
		Labels: []domain.TaxonomyLabel{
			{Name: "machine learning", Description: "Statistical learning and model training"},
			{Name: "systems", Description: "Distributed systems and networking"},
		},
	}
}

// testDocument is the classified document fixture used across command tests.
func testDocument() *domain.Document {
	confidence := 0.9
	return &domain.Document{
		ID:     "doc-1",
		URI:    "/papers/study.pdf",
		Status: domain.StatusCompleted,
		Sections: []domain.Section{
			{Kind: domain.SectionTitle, Text: "A Study of Things", Position: 0},
			{
				Kind:     domain.SectionAbstract,
				Text:     "We study things carefully.",
				Position: 1,
				Classification: &domain.ClassificationResult{
					Label:      "machine learning",
					Confidence: &confidence,
					Source:     domain.SourceLive,
				},
			},
		},
		StageLog: []domain.StageResult{
			{Stage: "sectioner", Outcome: domain.OutcomeOK, Duration: 12 * time.Millisecond},
			{Stage: "classifier", Outcome: domain.OutcomeOK, Duration: 800 * time.Millisecond},
		},
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// setupTestServices swaps every package-level service for a mock and
// returns a cleanup restoring the originals.
func setupTestServices() func() {
	oldPipeline := pipelineService
	oldBatch := batchOrchestrator
	oldExtract := extractService
	oldSettings := settingsService
	oldResults := resultStore
	oldCache := classificationCache
	oldLoader := taxonomyLoader
	oldBuildPipeline := buildPipeline
	oldBuildExtract := buildExtract

	tax := testTaxonomy()
	settings := domain.DefaultAppSettings()

	pipelineService = &mockPipelineService{doc: testDocument(), taxonomy: tax}
	batchOrchestrator = &mockBatchOrchestrator{
		result: &domain.BatchResult{
			Documents: map[string]*domain.Document{"doc-1": testDocument()},
			Summary:   domain.BatchSummary{Total: 1, Completed: 1},
			Elapsed:   time.Second,
		},
	}
	extractService = &mockExtractService{
		result: &driving.ExtractResult{
			URI:      "/papers/study.pdf",
			Title:    "A Study of Things",
			Abstract: "We study things carefully.",
			Sections: testDocument().Sections,
			Text:     "A Study of Things\n\nWe study things carefully.",
		},
	}
	settingsService = &mockSettingsService{settings: &settings}
	resultStore = &mockResultStore{docs: []domain.Document{*testDocument()}, doc: testDocument()}
	classificationCache = &mockClassificationCache{count: 42}
	taxonomyLoader = &mockTaxonomyLoader{tax: &tax}
	buildPipeline = nil
	buildExtract = nil

	return func() {
		pipelineService = oldPipeline
		batchOrchestrator = oldBatch
		extractService = oldExtract
		settingsService = oldSettings
		resultStore = oldResults
		classificationCache = oldCache
		taxonomyLoader = oldLoader
		buildPipeline = oldBuildPipeline
		buildExtract = oldBuildExtract
	}
}
