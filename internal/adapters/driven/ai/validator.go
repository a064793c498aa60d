package ai

import (
	"fmt"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding checks that the embedding provider is reachable.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if err := ValidateEmbeddingConfig(config); err != nil {
		return fmt.Errorf("embedding provider %s (model %q): %w", config.Provider, config.Model, err)
	}
	return nil
}

// ValidateLLM checks that the chat provider is reachable with the configured
// credentials.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if err := ValidateLLMConfig(config); err != nil {
		return fmt.Errorf("chat provider %s (model %q): %w", config.Provider, config.Model, err)
	}
	return nil
}
