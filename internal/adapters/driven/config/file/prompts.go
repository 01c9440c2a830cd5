package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore resolves classification prompts from user-editable files,
// falling back to the compiled-in defaults. No I/O happens until the
// first Load; the directory and default files are created then.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts holds the compiled-in templates, which also seed the
// prompt files on first run. The classify template's placeholders are
// the section kind, the taxonomy label list and the section text, in
// that order.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptClassifySystem: `You are a precise research paper classifier. You assign exactly one category from a fixed list to a piece of academic text. Respond with a single JSON object of the form {"label": "<category>", "confidence": <number between 0 and 1>} and nothing else.`,

	driven.PromptClassify: `Classify the following %s of an academic paper into exactly one of these categories:

%s
Reply with a JSON object: {"label": "<category>", "confidence": <0..1>}.

Text:
%s`,
}

// NewPromptStore creates a prompt store rooted at promptDir. An empty
// promptDir means ~/.taxa/prompts.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".taxa", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the template for name. The first call seeds the prompt
// directory; later calls serve from cache until Reload. A missing or
// unreadable file falls back to the compiled-in default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.seed)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	prompt := strings.TrimSpace(string(data))

	// A concurrent Load may have cached first; keep whichever won.
	s.mu.Lock()
	if winner, ok := s.cache[name]; ok {
		prompt = winner
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload empties the cache so the next Load re-reads the files.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// seed creates the prompt directory, the default prompt files and the
// README. Existing files are left untouched. Runs once per store.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	files := make(map[string]string, len(defaultPrompts)+1)
	for name, content := range defaultPrompts {
		files[name+".txt"] = content
	}
	files["README.md"] = promptReadme

	for name, content := range files {
		path := filepath.Join(s.promptDir, name)
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			s.initErr = fmt.Errorf("seed prompt file %q: %w", name, err)
			return
		}
	}
}

const promptReadme = `# Taxa Prompts

This directory contains customisable prompts used for section classification.

## Files

- ` + "`classify.txt`" + ` - Per-section classification task template
- ` + "`classify_system.txt`" + ` - Instruction preamble for the classifier

## Customisation

Edit any file to customise classification behaviour. Changes take effect
on the next run.

## Format Placeholders

The classify template uses Go fmt placeholders, in this order:
- ` + "`%s`" + ` - Section kind (e.g., abstract, paragraph)
- ` + "`%s`" + ` - Taxonomy label list
- ` + "`%s`" + ` - Section text

Ensure customised prompts maintain placeholders in the correct positions.
`
