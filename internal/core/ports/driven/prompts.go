package driven

// Prompt names used with the PromptStore.
const (
	// PromptFactCheck is the classifier's fact-checking prompt template.
	// It receives the claim and the formatted evidence block.
	PromptFactCheck = "fact_check"
)

// PromptStore loads prompt templates for the classifier.
// Implementations may read user-editable files with embedded defaults.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}
