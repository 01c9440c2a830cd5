package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxa-cli/internal/core/ports/driving"
)

func TestExtractCmd_Use(t *testing.T) {
	assert.Equal(t, "extract [file]", extractCmd.Use)
}

func TestExtractCmd_Short(t *testing.T) {
	assert.Equal(t, "Extract text from a paper without classifying", extractCmd.Short)
}

func TestExtractCmd_RequiresOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"extract"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestExtractCmd_PrintsTitleAndAbstract(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"extract", "/papers/study.pdf"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Title: A Study of Things")
	assert.Contains(t, out, "We study things carefully.")
}

func TestExtractCmd_NoAbstract(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	extractService = &mockExtractService{
		result: &driving.ExtractResult{URI: "/papers/bare.txt", Text: "just text"},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"extract", "/papers/bare.txt"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No abstract found.")
}

func TestExtractCmd_FullText(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { extractFull = false }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"extract", "--full", "/papers/study.pdf"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "A Study of Things\n\nWe study things carefully.")
}

func TestExtractCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { extractJSON = false }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"extract", "--json", "/papers/study.pdf"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"uri": "/papers/study.pdf"`)
	assert.Contains(t, out, `"title": "A Study of Things"`)
	assert.Contains(t, out, `"kind": "abstract"`)
}

func TestExtractCmd_ExtractionFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	extractService = &mockExtractService{err: errors.New("unreadable file")}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"extract", "/papers/broken.pdf"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extraction failed")
}

func TestExtractCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	extractService = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"extract", "/papers/study.pdf"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract service not configured")
}

func TestExtractCmd_NoFallbackUnavailable(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { extractNoFallback = false }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"extract", "--no-fallback", "/papers/study.pdf"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback control not available")
}

func TestExtractCmd_NoFallbackUsesBuilder(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { extractNoFallback = false }()

	strict := &mockExtractService{
		result: &driving.ExtractResult{URI: "/papers/study.pdf", Abstract: "strict abstract"},
	}
	var gotNoFallback bool
	buildExtract = func(noFallback bool) driving.ExtractService {
		gotNoFallback = noFallback
		return strict
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"extract", "--no-fallback", "/papers/study.pdf"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.True(t, gotNoFallback)
	assert.Contains(t, buf.String(), "strict abstract")
}
