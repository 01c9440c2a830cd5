package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
)

// completionPayload is the JSON shape the backend is asked to produce.
type completionPayload struct {
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence"`
}

// parseResponse extracts a taxonomy label and optional confidence from
// a raw completion. JSON output is preferred; a bare label line is
// accepted as a fallback. The label must resolve against the taxonomy,
// case-insensitively.
func (s *Stage) parseResponse(raw string) (string, *float64, error) {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" {
		return "", nil, fmt.Errorf("%w: empty response", domain.ErrParse)
	}

	if payload, ok := decodePayload(text); ok {
		label, known := s.taxonomy.Canonical(payload.Label)
		if !known {
			return "", nil, fmt.Errorf("%w: %v: %q",
				domain.ErrParse, domain.ErrUnknownLabel, payload.Label)
		}
		return label, clampConfidence(payload.Confidence), nil
	}

	line := strings.Trim(firstLine(text), "\"'` .")
	label, known := s.taxonomy.Canonical(line)
	if !known {
		return "", nil, fmt.Errorf("%w: %v: %q",
			domain.ErrParse, domain.ErrUnknownLabel, line)
	}
	return label, nil, nil
}

// decodePayload tries to unmarshal a JSON object, including one buried
// in surrounding prose.
func decodePayload(text string) (completionPayload, bool) {
	var payload completionPayload
	if err := json.Unmarshal([]byte(text), &payload); err == nil && payload.Label != "" {
		return payload, true
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		payload = completionPayload{}
		if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err == nil && payload.Label != "" {
			return payload, true
		}
	}
	return completionPayload{}, false
}

// stripFences removes a surrounding markdown code fence, including its
// language tag, when the response arrives wrapped in one.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```"))
	}

	lines = lines[1:]
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// firstLine returns the first non-empty line, trimmed.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// clampConfidence bounds a reported confidence to [0, 1].
func clampConfidence(c *float64) *float64 {
	if c == nil {
		return nil
	}
	v := *c
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}
