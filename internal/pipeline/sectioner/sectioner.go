// Package sectioner provides the section extraction stage. It turns a
// document's raw bytes into typed sections using the extractor registry
// and an ordered list of recognition rules.
package sectioner

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// StageName is the name the stage registers under.
const StageName = "sectioner"

// DefaultMaxTitleWords is the longest first segment still treated as a
// title.
const DefaultMaxTitleWords = 30

// maxHeadingWords bounds how long a segment can be and still count as
// a heading.
const maxHeadingWords = 12

// DefaultReferenceMarkers are the lines that start the bibliography.
func DefaultReferenceMarkers() []string {
	return []string{"references", "bibliography"}
}

// Segment is one blank-line-delimited block of source text together
// with the context the recognition rules see.
type Segment struct {
	// Text is the whitespace-normalised segment content.
	Text string

	// Index is the position among emitted sections so far.
	Index int

	// AfterReferences is true once the bibliography marker has passed.
	AfterReferences bool

	// FollowsAbstractMarker is true for the segment directly after a
	// bare "Abstract" heading.
	FollowsAbstractMarker bool
}

// Rule maps a recognition predicate to a section kind. Rules are
// evaluated top to bottom; the first match decides the kind.
type Rule struct {
	// Kind is assigned when Match returns true.
	Kind domain.SectionKind

	// Match inspects one segment in document order.
	Match func(seg Segment) bool
}

// Stage extracts typed sections from raw document content.
// It implements the Stage interface.
type Stage struct {
	extractors    driven.ExtractorRegistry
	markers       []string
	maxTitleWords int
	rules         []Rule
}

// Option configures the sectioner stage.
type Option func(*Stage)

// WithReferenceMarkers sets the bibliography marker words.
func WithReferenceMarkers(markers []string) Option {
	return func(s *Stage) {
		if len(markers) > 0 {
			s.markers = markers
		}
	}
}

// WithMaxTitleWords sets the longest first segment treated as a title.
func WithMaxTitleWords(words int) Option {
	return func(s *Stage) {
		if words > 0 {
			s.maxTitleWords = words
		}
	}
}

// WithRules replaces the default recognition rules. The list is
// evaluated in order, so a catch-all rule belongs at the end.
func WithRules(rules []Rule) Option {
	return func(s *Stage) {
		if len(rules) > 0 {
			s.rules = rules
		}
	}
}

// New creates a sectioner stage reading raw text through the registry.
func New(extractors driven.ExtractorRegistry, opts ...Option) *Stage {
	s := &Stage{
		extractors:    extractors,
		markers:       DefaultReferenceMarkers(),
		maxTitleWords: DefaultMaxTitleWords,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rules == nil {
		s.rules = s.defaultRules()
	}

	return s
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return StageName
}

// Requires returns no requirements; the sectioner runs first.
func (s *Stage) Requires() []string {
	return nil
}

// Process extracts the document's raw content into typed sections.
func (s *Stage) Process(ctx context.Context, doc *domain.Document) domain.StageResult {
	text, err := s.extractors.ExtractText(ctx, doc.Raw, doc.MIMEType)
	if err != nil {
		return domain.StageResult{
			Outcome: domain.OutcomeFailed,
			Error:   fmt.Errorf("%w: %v", domain.ErrExtraction, err).Error(),
		}
	}

	sections := s.sectionise(text)
	if len(sections) == 0 {
		return domain.StageResult{
			Outcome: domain.OutcomeFailed,
			Error:   fmt.Errorf("%w: no extractable text in %s", domain.ErrEmptyInput, doc.URI).Error(),
		}
	}

	doc.Sections = sections
	doc.SetStageMetadata(StageName, "sections", strconv.Itoa(len(sections)))
	doc.SetStageMetadata(StageName, "characters", strconv.Itoa(len(text)))

	return domain.StageResult{Outcome: domain.OutcomeOK}
}

// sectionise splits plain text into typed sections.
func (s *Stage) sectionise(text string) []domain.Section {
	var (
		sections        []domain.Section
		afterReferences bool
		nextIsAbstract  bool
	)

	emit := func(kind domain.SectionKind, text string) {
		sections = append(sections, domain.Section{
			Kind:     kind,
			Text:     text,
			Position: len(sections),
		})
	}

	for _, raw := range splitSegments(text) {
		firstLine, rest := splitFirstLine(raw)

		// Boundary markers are structural, handled before the rules.
		if !afterReferences && s.isReferenceMarker(firstLine) {
			afterReferences = true
			emit(domain.SectionHeading, cleanText(firstLine))
			if cleaned := cleanText(rest); cleaned != "" {
				emit(domain.SectionReference, cleaned)
			}
			continue
		}
		if !afterReferences && isBareAbstractMarker(raw) {
			nextIsAbstract = true
			emit(domain.SectionHeading, cleanText(raw))
			continue
		}

		seg := Segment{
			Text:                  cleanText(raw),
			Index:                 len(sections),
			AfterReferences:       afterReferences,
			FollowsAbstractMarker: nextIsAbstract,
		}
		nextIsAbstract = false

		kind := s.classify(seg)
		body := seg.Text
		if kind == domain.SectionAbstract {
			body = filterAbnormalWords(stripAbstractMarker(body))
			if body == "" {
				continue
			}
		}
		emit(kind, body)
	}

	return sections
}

// classify applies the rule list, first match wins.
func (s *Stage) classify(seg Segment) domain.SectionKind {
	for _, rule := range s.rules {
		if rule.Match(seg) {
			return rule.Kind
		}
	}
	return domain.SectionOther
}

// defaultRules is the standard recognition order for academic papers.
func (s *Stage) defaultRules() []Rule {
	return []Rule{
		{Kind: domain.SectionReference, Match: func(seg Segment) bool {
			return seg.AfterReferences
		}},
		{Kind: domain.SectionHeading, Match: func(seg Segment) bool {
			return isHeading(seg.Text)
		}},
		{Kind: domain.SectionAbstract, Match: func(seg Segment) bool {
			return seg.FollowsAbstractMarker || isAbstractHeader(seg.Text)
		}},
		{Kind: domain.SectionTitle, Match: func(seg Segment) bool {
			return seg.Index == 0 && looksLikeTitle(seg.Text, s.maxTitleWords)
		}},
		{Kind: domain.SectionParagraph, Match: func(Segment) bool {
			return true
		}},
	}
}

// isReferenceMarker reports whether a line starts the bibliography.
// Numbered variants like "7 References" or "VII. Bibliography" match.
func (s *Stage) isReferenceMarker(line string) bool {
	candidate := strings.ToLower(strings.TrimSpace(line))
	candidate = leadingNumberingRe.ReplaceAllString(candidate, "")
	candidate = strings.Trim(candidate, " \t:.-")
	for _, marker := range s.markers {
		if candidate == strings.ToLower(marker) {
			return true
		}
	}
	return false
}

var (
	leadingNumberingRe = regexp.MustCompile(`^(?:\d+(?:\.\d+)*\.?|[ivxlc]+\.)\s*`)
	numberedHeadingRe  = regexp.MustCompile(`^(?:\d+(?:\.\d+)*\.?|[IVXLC]+\.)\s+\S`)
)

// isHeading reports whether a segment reads like a section heading:
// short, and either fully capitalised or carrying a numbering prefix.
func isHeading(text string) bool {
	if wordCount(text) > maxHeadingWords {
		return false
	}
	return isAllCaps(text) || numberedHeadingRe.MatchString(text)
}

// looksLikeTitle reports whether the first segment reads like a title.
func looksLikeTitle(text string, maxWords int) bool {
	n := wordCount(text)
	if n == 0 || n > maxWords {
		return false
	}
	first := []rune(strings.TrimSpace(text))[0]
	return first >= 'A' && first <= 'Z'
}

// isAllCaps reports whether the text has letters and none lowercase.
func isAllCaps(text string) bool {
	hasLetter := false
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

// splitSegments splits text on blank lines, dropping empty segments.
func splitSegments(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var (
		segments []string
		current  []string
	)
	flush := func() {
		if len(current) > 0 {
			segments = append(segments, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return segments
}

// splitFirstLine separates a segment's first line from the remainder.
func splitFirstLine(segment string) (string, string) {
	if i := strings.IndexByte(segment, '\n'); i >= 0 {
		return segment[:i], segment[i+1:]
	}
	return segment, ""
}
