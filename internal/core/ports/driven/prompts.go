package driven

// Prompt names used by the metadata resolver.
const (
	// PromptExtractMetadata is the structured-extraction prompt template.
	// It contains PromptTextPlaceholder once, replaced with the document
	// text excerpt.
	PromptExtractMetadata = "extract_metadata"

	// PromptTextPlaceholder marks where the document excerpt is inserted.
	// Substituted literally, never interpreted as a format string, so
	// user-edited prompts may contain % signs freely.
	PromptTextPlaceholder = "%s"
)

// PromptStore loads LLM prompt templates.
// Implementations may read user-editable files with embedded defaults.
type PromptStore interface {
	// Load returns the prompt template with the given name.
	Load(name string) (string, error)
}
