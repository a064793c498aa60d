package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLanguage          = "language"
	keyDataDir           = "data_dir"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedDimensions   = "embedding.dimensions"
	keyLLMProvider       = "chat.provider"
	keyLLMModel          = "chat.model"
	keyLLMBaseURL        = "chat.base_url"
	keyLLMAPIKey         = "chat.api_key"
	keyLLMTemperature    = "chat.temperature"
	keyStorageBackend    = "storage.backend"
	keyStorageIndexPath  = "storage.index_path"
	keyStoragePostgres   = "storage.postgres_url"
	keyRetrievalLimit    = "retrieval.limit"
	keySummaryCandidates = "summary.candidates"
)

// Environment variables consulted when the matching config value is empty.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvPostgresURL     = "CHATWEB_POSTGRES_URL"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
)

// settableKeys lists keys accepted by Set and how their values parse.
var settableKeys = map[string]valueKind{
	keyLanguage:          kindString,
	keyDataDir:           kindString,
	keyEmbedProvider:     kindString,
	keyEmbedModel:        kindString,
	keyEmbedBaseURL:      kindString,
	keyEmbedAPIKey:       kindString,
	keyEmbedDimensions:   kindInt,
	keyLLMProvider:       kindString,
	keyLLMModel:          kindString,
	keyLLMBaseURL:        kindString,
	keyLLMAPIKey:         kindString,
	keyLLMTemperature:    kindFloat,
	keyStorageBackend:    kindString,
	keyStorageIndexPath:  kindString,
	keyStoragePostgres:   kindString,
	keyRetrievalLimit:    kindInt,
	keySummaryCandidates: kindInt,
}

// SettingKeys returns every key accepted by Set, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// The aiValidator parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings. Empty API keys and the
// postgres URL fall back to the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	dataDir := s.getString(keyDataDir, s.defaultDataDir())
	settings := &domain.AppSettings{
		Language: s.getString(keyLanguage, defaults.Language),
		DataDir:  dataDir,
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL),
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDimensions, 0),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
		},
		Storage: domain.StorageSettings{
			Backend:     domain.StorageBackend(s.getString(keyStorageBackend, defaults.Storage.Backend.String())),
			IndexPath:   s.getString(keyStorageIndexPath, filepath.Join(dataDir, "index")),
			PostgresURL: s.getString(keyStoragePostgres, s.getenv(EnvPostgresURL)),
		},
		Retrieval: domain.RetrievalSettings{
			Limit:             s.getInt(keyRetrievalLimit, defaults.Retrieval.Limit),
			SummaryCandidates: s.getInt(keySummaryCandidates, defaults.Retrieval.SummaryCandidates),
		},
	}

	if settings.Embedding.Dimensions == 0 {
		settings.Embedding.Dimensions = domain.EmbeddingModelOrDefault(settings.Embedding.Model, defaults.Embedding.Dimensions).Dimensions
	}
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save validates and persists application settings.
// API keys are only written when set, so keys taken from the environment
// stay out of the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyLanguage, settings.Language},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyStorageBackend, settings.Storage.Backend.String()},
		{keyStorageIndexPath, settings.Storage.IndexPath},
		{keyRetrievalLimit, settings.Retrieval.Limit},
		{keySummaryCandidates, settings.Retrieval.SummaryCandidates},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	optional := []struct{ key, value string }{
		{keyDataDir, settings.DataDir},
		{keyEmbedAPIKey, settings.Embedding.APIKey},
		{keyLLMAPIKey, settings.LLM.APIKey},
		{keyStoragePostgres, settings.Storage.PostgresURL},
	}
	for _, v := range optional {
		if v.value == "" || v.value == s.envFallback(v.key, settings) {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// Set parses value for key and stores it, rejecting values that would make
// the settings invalid.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer: %v", domain.ErrInvalidInput, key, err)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number: %v", domain.ErrInvalidInput, key, err)
		}
		parsed = f
	default:
		parsed = value
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	applySetting(settings, key, parsed)
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys accepted by Set.
func (s *SettingsService) Keys() []string {
	return SettingKeys()
}

// applySetting writes a parsed value into the field backing key.
func applySetting(settings *domain.AppSettings, key string, value any) {
	str, _ := value.(string)
	n, _ := value.(int)
	f, _ := value.(float64)
	switch key {
	case keyLanguage:
		settings.Language = str
	case keyDataDir:
		settings.DataDir = str
	case keyEmbedProvider:
		settings.Embedding.Provider = domain.AIProvider(str)
	case keyEmbedModel:
		settings.Embedding.Model = str
	case keyEmbedBaseURL:
		settings.Embedding.BaseURL = str
	case keyEmbedAPIKey:
		settings.Embedding.APIKey = str
	case keyEmbedDimensions:
		settings.Embedding.Dimensions = n
	case keyLLMProvider:
		settings.LLM.Provider = domain.AIProvider(str)
	case keyLLMModel:
		settings.LLM.Model = str
	case keyLLMBaseURL:
		settings.LLM.BaseURL = str
	case keyLLMAPIKey:
		settings.LLM.APIKey = str
	case keyLLMTemperature:
		settings.LLM.Temperature = f
	case keyStorageBackend:
		settings.Storage.Backend = domain.StorageBackend(str)
	case keyStorageIndexPath:
		settings.Storage.IndexPath = str
	case keyStoragePostgres:
		settings.Storage.PostgresURL = str
	case keyRetrievalLimit:
		settings.Retrieval.Limit = n
	case keySummaryCandidates:
		settings.Retrieval.SummaryCandidates = n
	}
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	settings.Embedding.Model = model
	settings.Embedding.Dimensions = domain.EmbeddingModelOrDefault(model, settings.Embedding.Dimensions).Dimensions
	if apiKey != "" {
		settings.Embedding.APIKey = apiKey
	}
	if provider.RequiresAPIKey() && settings.Embedding.APIKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}
	if provider == domain.AIProviderOllama && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = "http://localhost:11434"
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.Model = model
	if apiKey != "" {
		settings.LLM.APIKey = apiKey
	}
	if provider.RequiresAPIKey() && settings.LLM.APIKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}
	if provider == domain.AIProviderOllama && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = "http://localhost:11434"
	}

	return s.Save(settings)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) defaultDataDir() string {
	if path := s.configStore.Path(); path != "" {
		return filepath.Dir(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatweb"
	}
	return filepath.Join(home, ".chatweb")
}

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIAPIKey)
	case domain.AIProviderAnthropic:
		return s.getenv(EnvAnthropicAPIKey)
	default:
		return ""
	}
}

// envFallback returns the value Get would have filled in from the
// environment or defaults for an optional key.
func (s *SettingsService) envFallback(key string, settings *domain.AppSettings) string {
	switch key {
	case keyEmbedAPIKey:
		return s.envAPIKey(settings.Embedding.Provider)
	case keyLLMAPIKey:
		return s.envAPIKey(settings.LLM.Provider)
	case keyStoragePostgres:
		return s.getenv(EnvPostgresURL)
	case keyDataDir:
		return s.defaultDataDir()
	default:
		return ""
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
