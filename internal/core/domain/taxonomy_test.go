package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTaxonomy() Taxonomy {
	return Taxonomy{
		ID:   "cs-fields",
		Name: "Computer Science Fields",
		Labels: []TaxonomyLabel{
			{Name: "machine-learning", Description: "Learning from data"},
			{Name: "systems", Description: "Operating systems, networks, databases"},
			{Name: "theory"},
		},
	}
}

// TestTaxonomy_Validate_Success tests a well-formed taxonomy
func TestTaxonomy_Validate_Success(t *testing.T) {
	require.NoError(t, testTaxonomy().Validate())
}

// TestTaxonomy_Validate_Errors tests rejection of malformed taxonomies
func TestTaxonomy_Validate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		taxonomy Taxonomy
	}{
		{
			name:     "empty id",
			taxonomy: Taxonomy{Labels: []TaxonomyLabel{{Name: "a"}}},
		},
		{
			name:     "no labels",
			taxonomy: Taxonomy{ID: "empty"},
		},
		{
			name: "blank label",
			taxonomy: Taxonomy{
				ID:     "blank",
				Labels: []TaxonomyLabel{{Name: "  "}},
			},
		},
		{
			name: "duplicate labels differ only in case",
			taxonomy: Taxonomy{
				ID: "dup",
				Labels: []TaxonomyLabel{
					{Name: "Theory"},
					{Name: "theory"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.taxonomy.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

// TestTaxonomy_Contains tests case-insensitive membership
func TestTaxonomy_Contains(t *testing.T) {
	tax := testTaxonomy()

	assert.True(t, tax.Contains("machine-learning"))
	assert.True(t, tax.Contains("Machine-Learning"))
	assert.True(t, tax.Contains("  systems  "))
	assert.False(t, tax.Contains("biology"))
	assert.False(t, tax.Contains(""))
}

// TestTaxonomy_Canonical tests label normalisation to canonical casing
func TestTaxonomy_Canonical(t *testing.T) {
	tax := testTaxonomy()

	got, ok := tax.Canonical("MACHINE-LEARNING")
	require.True(t, ok)
	assert.Equal(t, "machine-learning", got)

	_, ok = tax.Canonical("quantum")
	assert.False(t, ok)
}

// TestTaxonomy_LabelNames tests name extraction preserves order
func TestTaxonomy_LabelNames(t *testing.T) {
	names := testTaxonomy().LabelNames()
	assert.Equal(t, []string{"machine-learning", "systems", "theory"}, names)
}

// TestTaxonomy_Describe tests the prompt fragment rendering
func TestTaxonomy_Describe(t *testing.T) {
	desc := testTaxonomy().Describe()

	assert.Contains(t, desc, "- machine-learning: Learning from data\n")
	assert.Contains(t, desc, "- systems: Operating systems, networks, databases\n")
	assert.Contains(t, desc, "- theory\n")
}
