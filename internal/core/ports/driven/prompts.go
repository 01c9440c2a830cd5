package driven

// PromptStore resolves named prompt templates. Backends may read user
// files, serve compiled-in text, or both.
type PromptStore interface {
	// Load returns the template registered under name. Whether a
	// missing template is an error or falls back to a default is up
	// to the implementation.
	Load(name string) (string, error)

	// Reload drops any cached templates so edits on disk are picked
	// up by the next Load.
	Reload()
}

// Prompt names shared between the classifier and the stores that feed
// it.
const (
	// PromptClassify assigns a taxonomy label to a section. The
	// template takes three %s placeholders: section kind, taxonomy
	// label list, section text.
	PromptClassify = "classify"

	// PromptClassifySystem is the classifier's instruction preamble.
	// It has no placeholders.
	PromptClassifySystem = "classify_system"
)

// PromptStoreAware marks stages that accept replacement prompt
// templates after construction. A stage without an installed store
// uses its built-in prompts.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
