package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyCmd_Use(t *testing.T) {
	assert.Equal(t, "taxonomy", taxonomyCmd.Use)
}

func TestTaxonomyCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range taxonomyCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["show"])
	assert.True(t, names["validate"])
}

func TestTaxonomyShowCmd_PrintsLabels(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"taxonomy", "show", "domains.toml"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Taxonomy: Research Domains (research-domains)")
	assert.Contains(t, out, "machine learning")
	assert.Contains(t, out, "Statistical learning and model training")
	assert.Contains(t, out, "Total: 2 labels")

	loader := taxonomyLoader.(*mockTaxonomyLoader)
	assert.Equal(t, "domains.toml", loader.lastPath)
}

func TestTaxonomyShowCmd_UsesConfiguredPath(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	settingsService.(*mockSettingsService).settings.TaxonomyPath = "/etc/taxa/domains.toml"

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"taxonomy", "show"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	loader := taxonomyLoader.(*mockTaxonomyLoader)
	assert.Equal(t, "/etc/taxa/domains.toml", loader.lastPath)
}

func TestTaxonomyShowCmd_NoPathConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	settingsService.(*mockSettingsService).settings.TaxonomyPath = ""

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"taxonomy", "show"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no taxonomy file given and none configured")
}

func TestTaxonomyShowCmd_LoadFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	taxonomyLoader = &mockTaxonomyLoader{err: errors.New("no labels")}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"taxonomy", "show", "empty.toml"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load taxonomy")
}

func TestTaxonomyShowCmd_LoaderNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	taxonomyLoader = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"taxonomy", "show", "domains.toml"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taxonomy loader not configured")
}

func TestTaxonomyValidateCmd_Valid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"taxonomy", "validate", "domains.toml"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Taxonomy research-domains is valid (2 labels).")
}

func TestTaxonomyValidateCmd_Invalid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	taxonomyLoader = &mockTaxonomyLoader{err: errors.New("repeats label \"systems\"")}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"taxonomy", "validate", "dupes.toml"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taxonomy is not valid")
	assert.Contains(t, err.Error(), "repeats label")
}
