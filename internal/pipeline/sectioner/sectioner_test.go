package sectioner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// fakeRegistry returns fixed text or a fixed error.
type fakeRegistry struct {
	text string
	err  error
}

func (f *fakeRegistry) ExtractText(_ context.Context, _ []byte, _ string) (string, error) {
	return f.text, f.err
}

func (f *fakeRegistry) Register(_ driven.Extractor, _ int) {}

func (f *fakeRegistry) SupportedMIMETypes() []string { return nil }

const paperText = `Attention Is All You Need

Abstract

The dominant sequence transduction models are based on complex
recurrent or convolutional neural networks.

1 Introduction

Recurrent neural networks have long dominated sequence modelling.

EXPERIMENTS

We trained on eight GPUs for days.

References

[1] Bahdanau et al. Neural machine translation.

[2] Hochreiter and Schmidhuber. Long short-term memory.`

// TestStage_Process_RealisticPaper tests the full recognition flow
func TestStage_Process_RealisticPaper(t *testing.T) {
	stage := New(&fakeRegistry{text: paperText})
	doc := &domain.Document{ID: "doc-1", URI: "paper.txt"}

	result := stage.Process(context.Background(), doc)

	require.Equal(t, domain.OutcomeOK, result.Outcome)
	require.NotEmpty(t, doc.Sections)

	assert.Equal(t, "Attention Is All You Need", doc.Title())
	assert.Equal(t,
		"The dominant sequence transduction models are based on complex recurrent or convolutional neural networks.",
		doc.Abstract())

	headings := doc.SectionsOfKind(domain.SectionHeading)
	headingTexts := make([]string, len(headings))
	for i, h := range headings {
		headingTexts[i] = h.Text
	}
	assert.Contains(t, headingTexts, "1 Introduction")
	assert.Contains(t, headingTexts, "EXPERIMENTS")
	assert.Contains(t, headingTexts, "References")

	refs := doc.SectionsOfKind(domain.SectionReference)
	require.Len(t, refs, 2)
	assert.Contains(t, refs[0].Text, "Bahdanau")
	assert.Contains(t, refs[1].Text, "Hochreiter")

	paras := doc.SectionsOfKind(domain.SectionParagraph)
	require.Len(t, paras, 2)

	v, ok := doc.StageMetadata(StageName, "sections")
	require.True(t, ok)
	assert.NotEmpty(t, v)
}

// TestStage_Process_PositionsStrictlyIncreasing tests section ordering
func TestStage_Process_PositionsStrictlyIncreasing(t *testing.T) {
	stage := New(&fakeRegistry{text: paperText})
	doc := &domain.Document{ID: "doc-1"}

	result := stage.Process(context.Background(), doc)
	require.Equal(t, domain.OutcomeOK, result.Outcome)

	for i, s := range doc.Sections {
		assert.Equal(t, i, s.Position)
	}
}

// TestStage_Process_NoReferencesMarker tests that without a marker no
// section is typed reference
func TestStage_Process_NoReferencesMarker(t *testing.T) {
	text := "A Title\n\nSome opening paragraph.\n\nAnother paragraph entirely."
	stage := New(&fakeRegistry{text: text})
	doc := &domain.Document{ID: "doc-1"}

	result := stage.Process(context.Background(), doc)

	require.Equal(t, domain.OutcomeOK, result.Outcome)
	assert.Empty(t, doc.SectionsOfKind(domain.SectionReference))
}

// TestStage_Process_NumberedReferencesMarker tests numbered markers
func TestStage_Process_NumberedReferencesMarker(t *testing.T) {
	text := "Title Here\n\nBody text goes here.\n\n7 References\n\n[1] Someone. Something."
	stage := New(&fakeRegistry{text: text})
	doc := &domain.Document{ID: "doc-1"}

	result := stage.Process(context.Background(), doc)

	require.Equal(t, domain.OutcomeOK, result.Outcome)
	refs := doc.SectionsOfKind(domain.SectionReference)
	require.Len(t, refs, 1)
	assert.Contains(t, refs[0].Text, "Someone")
}

// TestStage_Process_InlineAbstract tests an abstract sharing its
// segment with the marker
func TestStage_Process_InlineAbstract(t *testing.T) {
	text := "Paper Title\n\nAbstract - We present a novel approach to bird counting."
	stage := New(&fakeRegistry{text: text})
	doc := &domain.Document{ID: "doc-1"}

	result := stage.Process(context.Background(), doc)

	require.Equal(t, domain.OutcomeOK, result.Outcome)
	assert.Equal(t, "We present a novel approach to bird counting.", doc.Abstract())
}

// TestStage_Process_AbstractBoilerplateFiltered tests abnormal word
// truncation inside the abstract
func TestStage_Process_AbstractBoilerplateFiltered(t *testing.T) {
	text := "Paper Title\n\nAbstract\n\nWe study caching. © 2024 The Authors. doi:10/xyz"
	stage := New(&fakeRegistry{text: text})
	doc := &domain.Document{ID: "doc-1"}

	result := stage.Process(context.Background(), doc)

	require.Equal(t, domain.OutcomeOK, result.Outcome)
	assert.Equal(t, "We study caching.", doc.Abstract())
}

// TestStage_Process_EmptyInput tests the empty document failure
func TestStage_Process_EmptyInput(t *testing.T) {
	stage := New(&fakeRegistry{text: "   \n\n  \n"})
	doc := &domain.Document{ID: "doc-1", URI: "blank.txt"}

	result := stage.Process(context.Background(), doc)

	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
	assert.Contains(t, result.Error, domain.ErrEmptyInput.Error())
	assert.Empty(t, doc.Sections)
}

// TestStage_Process_ExtractionError tests extractor failure handling
func TestStage_Process_ExtractionError(t *testing.T) {
	stage := New(&fakeRegistry{err: errors.New("broken xref table")})
	doc := &domain.Document{ID: "doc-1"}

	result := stage.Process(context.Background(), doc)

	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
	assert.Contains(t, result.Error, domain.ErrExtraction.Error())
	assert.Contains(t, result.Error, "broken xref table")
}

// TestStage_Process_LongFirstSegmentIsParagraph tests the title bound
func TestStage_Process_LongFirstSegmentIsParagraph(t *testing.T) {
	long := "This opening block rambles on for far too many words to be a plausible paper " +
		"title because titles are short and this one just keeps going and going well past the limit."
	stage := New(&fakeRegistry{text: long + "\n\nSecond paragraph."})
	doc := &domain.Document{ID: "doc-1"}

	result := stage.Process(context.Background(), doc)

	require.Equal(t, domain.OutcomeOK, result.Outcome)
	assert.Empty(t, doc.Title())
	require.NotEmpty(t, doc.Sections)
	assert.Equal(t, domain.SectionParagraph, doc.Sections[0].Kind)
}

// TestStage_Process_CustomRules tests rule list replacement
func TestStage_Process_CustomRules(t *testing.T) {
	everythingOther := []Rule{
		{Kind: domain.SectionOther, Match: func(Segment) bool { return true }},
	}
	stage := New(&fakeRegistry{text: "One\n\nTwo"}, WithRules(everythingOther))
	doc := &domain.Document{ID: "doc-1"}

	result := stage.Process(context.Background(), doc)

	require.Equal(t, domain.OutcomeOK, result.Outcome)
	require.Len(t, doc.Sections, 2)
	for _, s := range doc.Sections {
		assert.Equal(t, domain.SectionOther, s.Kind)
	}
}

// TestStage_Process_CustomReferenceMarkers tests marker configuration
func TestStage_Process_CustomReferenceMarkers(t *testing.T) {
	text := "Title\n\nBody.\n\nLiteraturverzeichnis\n\n[1] Ein Eintrag."
	stage := New(&fakeRegistry{text: text},
		WithReferenceMarkers([]string{"literaturverzeichnis"}))
	doc := &domain.Document{ID: "doc-1"}

	result := stage.Process(context.Background(), doc)

	require.Equal(t, domain.OutcomeOK, result.Outcome)
	assert.Len(t, doc.SectionsOfKind(domain.SectionReference), 1)
}

// TestStage_Name tests stage identity
func TestStage_Name(t *testing.T) {
	stage := New(&fakeRegistry{})
	assert.Equal(t, StageName, stage.Name())
	assert.Empty(t, stage.Requires())
}
