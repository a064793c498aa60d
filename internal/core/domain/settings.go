package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// SupportsEmbeddings returns true if the provider offers an embedding API.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// StorageBackend selects the Vector Index Store implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendFile keeps one h.bin/h.csv file pair per document.
	StorageBackendFile StorageBackend = "file"

	// StorageBackendPostgres keeps all documents in one pgvector table.
	StorageBackendPostgres StorageBackend = "postgres"

	// StorageBackendMemory keeps indexes in process memory only.
	StorageBackendMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendFile, StorageBackendPostgres, StorageBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the requested vector size.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbeddings() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// Catalogue returns the catalogue entry for the configured model.
func (e EmbeddingSettings) Catalogue() EmbeddingModel {
	m := EmbeddingModelOrDefault(e.Model, e.Dimensions)
	if e.Dimensions > 0 {
		m.Dimensions = e.Dimensions
	}
	return m
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Temperature is the sampling temperature in [0, 1].
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// Catalogue returns the catalogue entry for the configured model.
func (l LLMSettings) Catalogue() ChatModel {
	return ChatModelOrDefault(l.Model)
}

// StorageSettings holds Vector Index Store configuration.
type StorageSettings struct {
	// Backend selects the index implementation.
	Backend StorageBackend

	// IndexPath is the directory holding file-pair indexes.
	IndexPath string

	// PostgresURL is the connection string for the postgres backend.
	PostgresURL string
}

// RetrievalSettings holds query-time limits.
type RetrievalSettings struct {
	// Limit is the number of fragments retrieved per question.
	Limit int

	// SummaryCandidates is the number of fragments ranked into a summary.
	SummaryCandidates int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Language is the language answers and summaries are written in.
	Language string

	// DataDir holds the catalogue database and prompts.
	DataDir string

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds generation provider settings.
	LLM LLMSettings

	// Storage holds index backend settings.
	Storage StorageSettings

	// Retrieval holds query-time limits.
	Retrieval RetrievalSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty and must come from config or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Language: "English",
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOpenAI,
			Model:      "text-embedding-ada-002",
			Dimensions: 1536,
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       "gpt-3.5-turbo",
			Temperature: 0.1,
		},
		Storage: StorageSettings{
			Backend: StorageBackendFile,
		},
		Retrieval: RetrievalSettings{
			Limit:             100,
			SummaryCandidates: 100,
		},
	}
}

// Validate checks settings for values the engine cannot run with.
func (s AppSettings) Validate() error {
	if s.LLM.Temperature < 0 || s.LLM.Temperature > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidTemperature, s.LLM.Temperature)
	}
	if !s.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidBackend, s.Storage.Backend)
	}
	if s.Storage.Backend == StorageBackendPostgres && strings.TrimSpace(s.Storage.PostgresURL) == "" {
		return fmt.Errorf("%w: postgres backend requires storage.postgres_url", ErrInvalidInput)
	}
	if !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: llm provider %q", ErrInvalidInput, s.LLM.Provider)
	}
	if !s.Embedding.Provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: embedding provider %q", ErrInvalidInput, s.Embedding.Provider)
	}
	if s.LLM.Provider == AIProviderOpenAI {
		if _, ok := LookupChatModel(s.LLM.Model); !ok {
			return fmt.Errorf("%w: chat model %q", ErrUnknownModel, s.LLM.Model)
		}
	}
	if s.Embedding.Provider == AIProviderOpenAI {
		if _, ok := LookupEmbeddingModel(s.Embedding.Model); !ok {
			return fmt.Errorf("%w: embedding model %q", ErrUnknownModel, s.Embedding.Model)
		}
	}
	if s.Retrieval.Limit <= 0 || s.Retrieval.SummaryCandidates <= 0 {
		return fmt.Errorf("%w: retrieval limits must be positive", ErrInvalidInput)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-ada-002",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-3.5-turbo",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
