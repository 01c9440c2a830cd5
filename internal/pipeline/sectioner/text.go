package sectioner

import "strings"

// cleanText collapses all whitespace runs into single spaces.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// isAbstractHeader reports whether text begins with an abstract marker.
// All whitespace is stripped first, so "A b s t r a c t" from a
// mangled PDF layer still matches.
func isAbstractHeader(text string) bool {
	return strings.HasPrefix(normaliseMarker(text), "abstract")
}

// isBareAbstractMarker reports whether a segment is only the abstract
// heading, with the body in a following segment.
func isBareAbstractMarker(text string) bool {
	stripped := strings.TrimRight(normaliseMarker(text), ":.-–—")
	return stripped == "abstract"
}

// normaliseMarker lowercases and removes all whitespace.
func normaliseMarker(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), ""))
}

// stripAbstractMarker removes a leading "Abstract" marker and its
// separator punctuation from an inline abstract.
func stripAbstractMarker(text string) string {
	if !isAbstractHeader(text) {
		return text
	}
	rest := text
	if i := indexFold(text, "abstract"); i >= 0 {
		rest = text[i+len("abstract"):]
	}
	return strings.TrimLeft(rest, " \t:.-–—")
}

// indexFold is a case-insensitive strings.Index.
func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), substr)
}

// abnormalWord matchers detect boilerplate that leaks into extracted
// abstracts: URLs, copyright lines and DOI strings. Everything from
// the first abnormal word onwards is dropped.
var abnormalWord = []func(word string) bool{
	func(w string) bool { return strings.HasPrefix(w, "http") },
	func(w string) bool { return strings.Contains(w, "©") },
	func(w string) bool { return strings.Contains(strings.ToLower(w), "copyright") },
	func(w string) bool { return strings.HasPrefix(strings.ToLower(w), "doi:") },
}

// filterAbnormalWords truncates text at the first abnormal word.
func filterAbnormalWords(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		for _, match := range abnormalWord {
			if match(w) {
				return strings.Join(words[:i], " ")
			}
		}
	}
	return strings.Join(words, " ")
}
