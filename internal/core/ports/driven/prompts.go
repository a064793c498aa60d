package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
// The well-known names and built-in templates live in the domain package
// (domain.PromptAnswer, domain.PromptSummary, domain.PromptKeywords).
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error; known names missing from storage fall
	// back to the built-in default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}
