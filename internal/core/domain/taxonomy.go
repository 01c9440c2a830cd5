package domain

import (
	"fmt"
	"strings"
)

// TaxonomyLabel is one category a section can be classified into.
type TaxonomyLabel struct {
	// Name is the label as it appears in classification results.
	Name string

	// Description explains what the label covers. Included in prompts
	// so the backend can discriminate between close labels.
	Description string
}

// Taxonomy is an ordered set of labels defining a classification scheme.
// The ID participates in cache keys, so two taxonomies with the same
// labels but different IDs never share cached results.
type Taxonomy struct {
	// ID uniquely identifies the taxonomy.
	ID string

	// Name is the human-readable taxonomy name.
	Name string

	// Labels holds the categories in presentation order.
	Labels []TaxonomyLabel
}

// Validate checks the taxonomy is usable for classification.
func (t Taxonomy) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: taxonomy id is empty", ErrInvalidInput)
	}
	if len(t.Labels) == 0 {
		return fmt.Errorf("%w: taxonomy %q has no labels", ErrInvalidInput, t.ID)
	}
	seen := make(map[string]struct{}, len(t.Labels))
	for _, l := range t.Labels {
		name := strings.ToLower(strings.TrimSpace(l.Name))
		if name == "" {
			return fmt.Errorf("%w: taxonomy %q has an empty label", ErrInvalidInput, t.ID)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: taxonomy %q repeats label %q", ErrInvalidInput, t.ID, l.Name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Contains reports whether the label belongs to the taxonomy.
// Matching is case-insensitive and ignores surrounding whitespace.
func (t Taxonomy) Contains(label string) bool {
	_, ok := t.Canonical(label)
	return ok
}

// Canonical resolves a label to its canonical casing.
func (t Taxonomy) Canonical(label string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(label))
	for _, l := range t.Labels {
		if strings.ToLower(l.Name) == want {
			return l.Name, true
		}
	}
	return "", false
}

// LabelNames returns the label names in order.
func (t Taxonomy) LabelNames() []string {
	names := make([]string, len(t.Labels))
	for i, l := range t.Labels {
		names[i] = l.Name
	}
	return names
}

// Describe renders the labels as a prompt fragment, one label per line.
func (t Taxonomy) Describe() string {
	var b strings.Builder
	for _, l := range t.Labels {
		b.WriteString("- ")
		b.WriteString(l.Name)
		if l.Description != "" {
			b.WriteString(": ")
			b.WriteString(l.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}
