package classifier

import (
	"fmt"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// defaultSystemPrompt instructs the model to behave as a deterministic
// single-label classifier.
const defaultSystemPrompt = `You are a precise research paper classifier. You assign exactly one category from a fixed list to a piece of academic text. Respond with a single JSON object of the form {"label": "<category>", "confidence": <number between 0 and 1>} and nothing else.`

// defaultClassifyPrompt is the per-section task template. Placeholders
// are the section kind, the taxonomy label list and the section text.
const defaultClassifyPrompt = `Classify the following %s of an academic paper into exactly one of these categories:

%s
Reply with a JSON object: {"label": "<category>", "confidence": <0..1>}.

Text:
%s`

// buildPrompt renders the classification prompt for one section,
// preferring templates from the prompt store when one is installed.
func (s *Stage) buildPrompt(section *domain.Section) string {
	system := defaultSystemPrompt
	task := defaultClassifyPrompt

	if s.prompts != nil {
		if custom, err := s.prompts.Load(driven.PromptClassifySystem); err == nil && custom != "" {
			system = custom
		}
		if custom, err := s.prompts.Load(driven.PromptClassify); err == nil && custom != "" {
			task = custom
		}
	}

	body := fmt.Sprintf(task, section.Kind, s.taxonomy.Describe(), section.Text)
	return system + "\n\n" + body
}
