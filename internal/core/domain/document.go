package domain

import (
	"fmt"
	"time"
)

// DocumentStatus tracks a document through the pipeline lifecycle.
type DocumentStatus string

// Document lifecycle states.
const (
	// StatusPending means the document has been created but not yet run.
	StatusPending DocumentStatus = "pending"

	// StatusInProgress means a pipeline run currently owns the document.
	StatusInProgress DocumentStatus = "in_progress"

	// StatusCompleted means every configured stage finished or was skipped.
	StatusCompleted DocumentStatus = "completed"

	// StatusFailed means a stage failure terminated the run.
	StatusFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the document has finished processing.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// SectionKind identifies the structural role of a section within a paper.
type SectionKind string

// Recognised section kinds.
const (
	// SectionTitle is the paper title.
	SectionTitle SectionKind = "title"

	// SectionAbstract is the abstract body.
	SectionAbstract SectionKind = "abstract"

	// SectionHeading is a section or subsection heading.
	SectionHeading SectionKind = "heading"

	// SectionParagraph is running body text.
	SectionParagraph SectionKind = "paragraph"

	// SectionReference is a bibliography entry.
	SectionReference SectionKind = "reference"

	// SectionOther is text that matched no recognition rule.
	SectionOther SectionKind = "other"
)

// IsValid returns true if the kind is recognised.
func (k SectionKind) IsValid() bool {
	switch k {
	case SectionTitle, SectionAbstract, SectionHeading,
		SectionParagraph, SectionReference, SectionOther:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SectionKind) String() string {
	return string(k)
}

// AllSectionKinds returns every recognised section kind.
func AllSectionKinds() []SectionKind {
	return []SectionKind{
		SectionTitle,
		SectionAbstract,
		SectionHeading,
		SectionParagraph,
		SectionReference,
		SectionOther,
	}
}

// ResultSource records where a classification result came from.
type ResultSource string

// Classification result sources.
const (
	// SourceCache means the result was served from the classification cache.
	SourceCache ResultSource = "cache"

	// SourceLive means the result came from a completion backend call.
	SourceLive ResultSource = "live"
)

// ClassificationResult is the outcome of classifying one section against a
// taxonomy. A result is recorded even when classification ultimately failed,
// so the per-section failure detail survives alongside successful siblings.
type ClassificationResult struct {
	// Label is the taxonomy label assigned to the section.
	Label string

	// Confidence is the backend-reported confidence in [0, 1].
	// Nil when the backend does not report one.
	Confidence *float64

	// Raw is the verbatim backend response, kept as an audit trail.
	Raw string

	// Source records whether the result was cached or freshly computed.
	Source ResultSource

	// Failed marks a section whose classification exhausted all attempts.
	Failed bool

	// Error holds the failure detail when Failed is true.
	Error string
}

// Section is one structural unit of an extracted paper.
type Section struct {
	// Kind is the structural role assigned during extraction.
	Kind SectionKind

	// Text is the section content.
	Text string

	// Position is the ordinal position in source order, starting at zero.
	Position int

	// Classification is nil until the classifier stage has handled
	// the section.
	Classification *ClassificationResult
}

// StageOutcome describes how a single stage ended for one document.
type StageOutcome string

// Stage outcomes.
const (
	// OutcomeOK means the stage completed its work.
	OutcomeOK StageOutcome = "ok"

	// OutcomeSkipped means the stage did not run because an earlier
	// failure policy skipped it.
	OutcomeSkipped StageOutcome = "skipped"

	// OutcomeFailed means the stage reported a failure.
	OutcomeFailed StageOutcome = "failed"
)

// String returns the string representation.
func (o StageOutcome) String() string {
	return string(o)
}

// StageResult is one entry in a document's stage log.
// The pipeline runner stamps Stage and Duration; stages fill the rest.
type StageResult struct {
	// Stage is the name of the stage that produced this entry.
	Stage string

	// Outcome is how the stage ended.
	Outcome StageOutcome

	// Error holds failure detail when Outcome is failed.
	Error string

	// Duration is how long the stage ran.
	Duration time.Duration
}

// Document is one paper moving through the pipeline. The runner owns it
// exclusively for the duration of a run; stages mutate it in place.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path, URL, etc).
	URI string

	// MIMEType is the content type of the raw bytes.
	MIMEType string

	// Raw is the unprocessed source content.
	Raw []byte

	// Sections holds the extracted sections in source order.
	Sections []Section

	// Metadata holds stage-written annotations. Keys are namespaced
	// "<stage>.<key>" so no stage can overwrite another's entries.
	Metadata map[string]string

	// Status is the current lifecycle state.
	Status DocumentStatus

	// StageLog records one entry per stage attempted, in pipeline order.
	StageLog []StageResult

	// CreatedAt is when the document was created.
	CreatedAt time.Time

	// UpdatedAt is when the document last changed.
	UpdatedAt time.Time
}

// SetStageMetadata records a metadata value under the stage's namespace.
// The map is created on first use.
func (d *Document) SetStageMetadata(stage, key, value string) {
	if d.Metadata == nil {
		d.Metadata = make(map[string]string)
	}
	d.Metadata[fmt.Sprintf("%s.%s", stage, key)] = value
}

// StageMetadata reads a metadata value from the stage's namespace.
func (d *Document) StageMetadata(stage, key string) (string, bool) {
	v, ok := d.Metadata[fmt.Sprintf("%s.%s", stage, key)]
	return v, ok
}

// LogStage appends a stage result to the stage log.
func (d *Document) LogStage(result StageResult) {
	d.StageLog = append(d.StageLog, result)
}

// Title returns the text of the first title section, or empty.
func (d *Document) Title() string {
	for _, s := range d.Sections {
		if s.Kind == SectionTitle {
			return s.Text
		}
	}
	return ""
}

// Abstract returns the text of the first abstract section, or empty.
func (d *Document) Abstract() string {
	for _, s := range d.Sections {
		if s.Kind == SectionAbstract {
			return s.Text
		}
	}
	return ""
}

// SectionsOfKind returns the sections matching the given kind, in order.
func (d *Document) SectionsOfKind(kind SectionKind) []Section {
	var out []Section
	for _, s := range d.Sections {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
