package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

// Helper functions in config.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMaskDSN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"with password", "postgres://bob:secret@db:5432/chat", "postgres://bob:****@db:5432/chat"},
		{"no password", "postgres://bob@db/chat", "postgres://bob@db/chat"},
		{"no credentials", "postgres://db/chat", "postgres://db/chat"},
		{"not a url", "host=db user=bob", "host=db user=bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskDSN(tt.input))
		})
	}
}

func TestConfigCmd_NotConfigured(t *testing.T) {
	prev := settingsService
	settingsService = nil
	defer func() { settingsService = prev }()

	_, err := executeCommand(t, "config", "show")

	assert.ErrorIs(t, err, errSettingsNotConfigured)
}

func TestConfigShow(t *testing.T) {
	settings := newMockSettingsService()
	settings.settings.Embedding.APIKey = "sk-1234567890abcdef"
	settings.settings.Storage.Backend = domain.StorageBackendPostgres
	settings.settings.Storage.PostgresURL = "postgres://bob:secret@db/chat"
	cleanup := setupServices(&mockChatService{}, settings)
	defer cleanup()

	out, err := executeCommand(t, "config")

	require.NoError(t, err)
	assert.Contains(t, out, "Language: English")
	assert.Contains(t, out, "Provider: OpenAI (cloud)")
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "Postgres URL: postgres://bob:****@db/chat")
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "Limit: 100")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestConfigShow_InvalidSettings(t *testing.T) {
	settings := newMockSettingsService()
	settings.validateErr = errors.New("embedding api key missing")
	cleanup := setupServices(&mockChatService{}, settings)
	defer cleanup()

	out, err := executeCommand(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: embedding api key missing")
	assert.Contains(t, out, "chatweb config wizard")
}

func TestConfigSet(t *testing.T) {
	settings := newMockSettingsService()
	cleanup := setupServices(&mockChatService{}, settings)
	defer cleanup()

	out, err := executeCommand(t, "config", "set", "chat.temperature", "0.2")

	require.NoError(t, err)
	assert.Equal(t, "0.2", settings.set["chat.temperature"])
	assert.Contains(t, out, "Set chat.temperature = 0.2")
}

func TestConfigSet_MasksSecrets(t *testing.T) {
	settings := newMockSettingsService()
	cleanup := setupServices(&mockChatService{}, settings)
	defer cleanup()

	out, err := executeCommand(t, "config", "set", "embedding.api_key", "sk-1234567890abcdef")
	require.NoError(t, err)
	assert.Contains(t, out, "Set embedding.api_key = sk-1...cdef")

	out, err = executeCommand(t, "config", "set", "storage.postgres_url", "postgres://u:pw@h/db")
	require.NoError(t, err)
	assert.Contains(t, out, "postgres://u:****@h/db")
	assert.Equal(t, "postgres://u:pw@h/db", settings.set["storage.postgres_url"])
}

func TestConfigSet_Error(t *testing.T) {
	settings := newMockSettingsService()
	settings.setErr = domain.ErrInvalidInput
	cleanup := setupServices(&mockChatService{}, settings)
	defer cleanup()

	_, err := executeCommand(t, "config", "set", "bogus", "1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "failed to set bogus")
}

func TestConfigKeys(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "config", "keys")

	require.NoError(t, err)
	assert.Equal(t, []string{"chat.model", "language"}, strings.Fields(out))
}

func TestConfigEmbedding_Interactive(t *testing.T) {
	settings := newMockSettingsService()
	cleanup := setupServices(&mockChatService{}, settings)
	defer cleanup()

	input := strings.NewReader("2\n\nsk-test-key-123456\n")
	out, err := executeCommandWithInput(t, input, "config", "embedding")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-ada-002", settings.settings.Embedding.Model)
	assert.Equal(t, "sk-test-key-123456", settings.settings.Embedding.APIKey)
	assert.Contains(t, out, "Validating configuration... OK")
}

func TestConfigLLM_OllamaSkipsKey(t *testing.T) {
	settings := newMockSettingsService()
	cleanup := setupServices(&mockChatService{}, settings)
	defer cleanup()

	input := strings.NewReader("1\nmistral\n")
	out, err := executeCommandWithInput(t, input, "config", "llm")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.settings.LLM.Provider)
	assert.Equal(t, "mistral", settings.settings.LLM.Model)
	assert.Empty(t, settings.settings.LLM.APIKey)
	assert.NotContains(t, out, "Enter API key")
}

func TestConfigWizard(t *testing.T) {
	settings := newMockSettingsService()
	cleanup := setupServices(&mockChatService{}, settings)
	defer cleanup()

	input := strings.NewReader("1\n\n3\n\nsk-ant-0123456789\n")
	out, err := executeCommandWithInput(t, input, "config", "wizard")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.settings.Embedding.Model)
	assert.Equal(t, domain.AIProviderAnthropic, settings.settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.settings.LLM.Model)
	assert.Equal(t, "sk-ant-0123456789", settings.settings.LLM.APIKey)
	assert.Contains(t, out, "Configuration Complete!")
	assert.Contains(t, out, "All settings are valid and saved.")
}
