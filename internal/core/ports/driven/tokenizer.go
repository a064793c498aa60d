package driven

// TokenCounter counts model tokens in a text.
// Counts feed the token budgets; they need to match the model's own
// tokenizer closely but not exactly.
type TokenCounter interface {
	// Count returns the number of tokens in text.
	Count(text string) int
}

// TokenCounterFunc adapts a function to TokenCounter.
type TokenCounterFunc func(text string) int

// Count calls f(text).
func (f TokenCounterFunc) Count(text string) int {
	return f(text)
}
