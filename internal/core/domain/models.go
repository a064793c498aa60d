package domain

// ReservedTokens is held back from every token budget for the model's own
// response and instructions.
const ReservedTokens = 1024

// Fallbacks for models missing from the catalogue.
const (
	DefaultContextWindow  = 4096
	DefaultMaxInputTokens = 8191
)

// ChatModel describes a generation model and its pricing.
type ChatModel struct {
	Name            string
	ContextWindow   int
	InputPricePerK  float64
	OutputPricePerK float64
}

// GenerationBudget returns the token budget available for context fragments.
func (m ChatModel) GenerationBudget() int {
	return m.ContextWindow - ReservedTokens
}

// Cost returns the dollar cost of a completion.
func (m ChatModel) Cost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)/1000*m.InputPricePerK +
		float64(completionTokens)/1000*m.OutputPricePerK
}

// EmbeddingModel describes an embedding model, its input ceiling and pricing.
type EmbeddingModel struct {
	Name       string
	PricePerK  float64
	MaxTokens  int
	Dimensions int
}

// BatchBudget returns the token budget for a single embedding request.
func (m EmbeddingModel) BatchBudget() int {
	return m.MaxTokens - ReservedTokens
}

// Cost returns the dollar cost of embedding the given number of tokens.
func (m EmbeddingModel) Cost(tokens int) float64 {
	return float64(tokens) / 1000 * m.PricePerK
}

// SupportsDimensions reports whether the API accepts a dimensions parameter
// for this model.
func (m EmbeddingModel) SupportsDimensions() bool {
	return m.Name != "text-embedding-ada-002"
}

var chatModels = []ChatModel{
	{"gpt-4o", 128_000, 0.005, 0.015},
	{"gpt-4o-mini", 128_000, 0.00015, 0.0006},
	{"gpt-4-turbo-preview", 128_000, 0.01, 0.03},
	{"gpt-4-0125-preview", 128_000, 0.01, 0.03},
	{"gpt-4-1106-preview", 128_000, 0.01, 0.03},
	{"gpt-4-vision-preview", 128_000, 0.01, 0.03},
	{"gpt-4-1106-vision-preview", 128_000, 0.01, 0.03},
	{"gpt-4", 8192, 0.03, 0.06},
	{"gpt-4-0613", 8192, 0.03, 0.06},
	{"gpt-4-32k", 32768, 0.06, 0.12},
	{"gpt-4-32k-0613", 32768, 0.06, 0.12},
	{"gpt-3.5-turbo", 4096, 0.0005, 0.0015},
	{"gpt-3.5-turbo-0125", 16385, 0.0005, 0.0015},
	{"gpt-3.5-turbo-1106", 16385, 0.0005, 0.0015},
	{"gpt-3.5-turbo-0613", 4096, 0.0005, 0.0015},
	{"gpt-3.5-turbo-16k", 16385, 0.0005, 0.0015},
	{"gpt-3.5-turbo-16k-0613", 16385, 0.0005, 0.0015},
	{"claude-3-5-sonnet-latest", 200_000, 0.003, 0.015},
	{"claude-3-5-haiku-latest", 200_000, 0.0008, 0.004},
	{"llama3.2", 128_000, 0, 0},
}

var embeddingModels = []EmbeddingModel{
	{"text-embedding-3-small", 0.00002, 8191, 1536},
	{"text-embedding-3-large", 0.00013, 8191, 1536},
	{"text-embedding-ada-002", 0.0001, 8191, 1536},
	{"nomic-embed-text", 0, 2048, 768},
	{"mxbai-embed-large", 0, 512, 1024},
	{"all-minilm", 0, 256, 384},
}

// LookupChatModel returns the catalogue entry for name.
func LookupChatModel(name string) (ChatModel, bool) {
	for _, m := range chatModels {
		if m.Name == name {
			return m, true
		}
	}
	return ChatModel{}, false
}

// ChatModelOrDefault returns the catalogue entry for name, or an entry with
// the default context window and no pricing.
func ChatModelOrDefault(name string) ChatModel {
	if m, ok := LookupChatModel(name); ok {
		return m
	}
	return ChatModel{Name: name, ContextWindow: DefaultContextWindow}
}

// LookupEmbeddingModel returns the catalogue entry for name.
func LookupEmbeddingModel(name string) (EmbeddingModel, bool) {
	for _, m := range embeddingModels {
		if m.Name == name {
			return m, true
		}
	}
	return EmbeddingModel{}, false
}

// EmbeddingModelOrDefault returns the catalogue entry for name, or an entry
// with the default input ceiling and the given dimensions.
func EmbeddingModelOrDefault(name string, dimensions int) EmbeddingModel {
	if m, ok := LookupEmbeddingModel(name); ok {
		return m
	}
	return EmbeddingModel{Name: name, MaxTokens: DefaultMaxInputTokens, Dimensions: dimensions}
}

// ChatModels returns all catalogued chat models.
func ChatModels() []ChatModel {
	out := make([]ChatModel, len(chatModels))
	copy(out, chatModels)
	return out
}

// EmbeddingModels returns all catalogued embedding models.
func EmbeddingModels() []EmbeddingModel {
	out := make([]EmbeddingModel, len(embeddingModels))
	copy(out, embeddingModels)
	return out
}
