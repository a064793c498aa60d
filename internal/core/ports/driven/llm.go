// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService is the external generation service. The engine only hands it
// ranked fragments and prompts; producing prose is entirely its job.
//
// Implementations may include:
//   - OpenAI (GPT-4, GPT-3.5)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Complete answers a user message under a system prompt.
	// An empty system prompt sends the user message alone.
	Complete(ctx context.Context, system, user string, opts ChatOptions) (string, error)

	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero leaves it
	// to the provider.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// CompletionMessages builds the message list for a Complete call.
func CompletionMessages(system, user string) []ChatMessage {
	var messages []ChatMessage
	if system != "" {
		messages = append(messages, ChatMessage{Role: RoleSystem, Content: system})
	}
	return append(messages, ChatMessage{Role: RoleUser, Content: user})
}
