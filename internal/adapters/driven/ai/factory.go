// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/embedding/openai"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/httpclient"
	anthropicllm "github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/llm/ollama"
	openaillm "github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/llm/openai"
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// embeddingHTTP caps embedding requests at 3000 per minute, the lowest paid
// OpenAI tier.
var embeddingHTTP = httpclient.Config{
	RequestsPerSecond: 50,
	Burst:             10,
}

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues that caused fallback.
	FellBack         bool     // True if generation is unavailable and answers return fragments only.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates both AI services. The embedding service is required; the
// LLM service is validated with a ping and dropped with a warning when it
// is unconfigured or unreachable.
func Init(settings *domain.AppSettings, counter driven.TokenCounter) (*InitResult, error) {
	embedder, err := CreateEmbeddingService(&settings.Embedding, counter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'chatweb config set embedding.*' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}

	result := &InitResult{EmbeddingService: embedder}
	llm, err := CreateAndValidateLLMService(&settings.LLM)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
	case llm == nil:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("LLM provider %q is not configured, answers will list fragments only", settings.LLM.Provider))
		result.FellBack = true
	default:
		result.LLMService = llm
	}
	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings, counter driven.TokenCounter) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings, counter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'chatweb config set embedding.*' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'chatweb config set embedding.*' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'chatweb config set chat.*' to fix",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'chatweb config set chat.*' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings, nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured. The counter estimates
// usage for providers that do not report it.
func CreateEmbeddingService(settings *domain.EmbeddingSettings, counter driven.TokenCounter) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider == domain.AIProviderAnthropic {
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Catalogue().Dimensions,
			Counter:    counter,
			HTTP:       embeddingHTTP,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
			HTTP:       embeddingHTTP,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
