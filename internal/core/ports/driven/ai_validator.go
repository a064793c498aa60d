package driven

import "github.com/SkywalkerDarren/chatWeb/internal/core/domain"

// AIConfigValidator validates AI provider configurations by testing
// connectivity to the underlying services.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider.
	// Returns nil if configuration is valid or not configured.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM pings the generation provider.
	// Returns nil if configuration is valid or not configured.
	ValidateLLM(config *domain.LLMSettings) error
}
