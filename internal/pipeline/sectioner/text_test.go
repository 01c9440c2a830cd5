package sectioner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCleanText tests whitespace collapsing
func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already clean", "hello world", "hello world"},
		{"tabs and newlines", "hello\t\nworld", "hello world"},
		{"runs of spaces", "a   b    c", "a b c"},
		{"leading and trailing", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanText(tt.input))
		})
	}
}

// TestIsAbstractHeader tests abstract marker detection
func TestIsAbstractHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"plain marker", "Abstract", true},
		{"upper case", "ABSTRACT", true},
		{"with colon", "Abstract:", true},
		{"spaced letters", "A b s t r a c t", true},
		{"inline abstract", "Abstract - We present results", true},
		{"mid sentence", "The abstract follows", false},
		{"unrelated", "Introduction", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isAbstractHeader(tt.input))
		})
	}
}

// TestIsBareAbstractMarker tests marker-only segment detection
func TestIsBareAbstractMarker(t *testing.T) {
	assert.True(t, isBareAbstractMarker("Abstract"))
	assert.True(t, isBareAbstractMarker("ABSTRACT."))
	assert.True(t, isBareAbstractMarker("Abstract:"))
	assert.False(t, isBareAbstractMarker("Abstract We present"))
	assert.False(t, isBareAbstractMarker("Extended Abstract Review"))
}

// TestStripAbstractMarker tests marker removal from inline abstracts
func TestStripAbstractMarker(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"dash separator", "Abstract - We present results", "We present results"},
		{"colon separator", "Abstract: Findings follow", "Findings follow"},
		{"em dash", "Abstract—Body text", "Body text"},
		{"no marker passes through", "Plain body text", "Plain body text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripAbstractMarker(tt.input))
		})
	}
}

// TestFilterAbnormalWords tests boilerplate truncation
func TestFilterAbnormalWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "url truncates",
			input:    "Results available at https://example.org and beyond",
			expected: "Results available at",
		},
		{
			name:     "copyright sign truncates",
			input:    "We found things. © 2024 Publisher",
			expected: "We found things.",
		},
		{
			name:     "copyright word truncates",
			input:    "Study of caching. Copyright Elsevier",
			expected: "Study of caching.",
		},
		{
			name:     "doi truncates",
			input:    "New method described. doi:10.1000/xyz",
			expected: "New method described.",
		},
		{
			name:     "clean text untouched",
			input:    "Nothing abnormal in this sentence",
			expected: "Nothing abnormal in this sentence",
		},
		{
			name:     "abnormal first word empties",
			input:    "https://example.org only a link",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filterAbnormalWords(tt.input))
		})
	}
}

// TestSplitSegments tests blank-line segmentation
func TestSplitSegments(t *testing.T) {
	segments := splitSegments("one\ntwo\n\nthree\n\n\n\nfour\r\n\r\nfive")
	assert.Equal(t, []string{"one\ntwo", "three", "four", "five"}, segments)

	assert.Empty(t, splitSegments(""))
	assert.Empty(t, splitSegments("\n \n\t\n"))
}

// TestIsHeading tests heading recognition
func TestIsHeading(t *testing.T) {
	assert.True(t, isHeading("EXPERIMENTS"))
	assert.True(t, isHeading("1 Introduction"))
	assert.True(t, isHeading("2.3 Ablation Studies"))
	assert.True(t, isHeading("IV. Discussion"))
	assert.False(t, isHeading("A normal sentence that is not capitalised like that"))
	assert.False(t, isHeading("plain lowercase text"))
}
