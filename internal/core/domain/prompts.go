package domain

// Prompt names.
const (
	PromptAnswer   = "answer"
	PromptSummary  = "summary"
	PromptKeywords = "keywords"
)

// defaultPrompts are the built-in templates. Answer and summary take the
// numbered fragments as %[1]s and the response language as %[2]s; keywords
// takes the question as %[1]s.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	PromptAnswer: "You are a helpful AI article assistant. The following are the relevant article content fragments found from the article. The relevance is sorted from high to low. You can only answer according to the following content:\n```\n%[1]s\n```\nYou need to carefully consider your answer to ensure that it is based on the context. If the context does not mention the content or it is uncertain whether it is correct, please answer \"Current context cannot provide effective information.\" You must use %[2]s to respond.",

	PromptSummary: "As a helpful AI article assistant, I have retrieved the following relevant text fragments from the article, sorted by relevance from high to low. You need to summarize the entire article from these fragments, and present the final result in %[2]s:\n\n%[1]s\n\n%[2]s summary:",

	PromptKeywords: "You need to extract keywords from the statement or question and return a series of keywords separated by commas.\ncontent: %[1]s\nkeywords: ",
}

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// PromptNames lists every prompt in a stable order.
func PromptNames() []string {
	return []string{PromptAnswer, PromptSummary, PromptKeywords}
}
