package cli

import (
	"context"
	"time"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
)

// mockChatService implements driving.ChatService for CLI tests.
type mockChatService struct {
	IngestFunc    func(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)
	ReindexFunc   func(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)
	AnswerFunc    func(ctx context.Context, id, question string) (*domain.Answer, error)
	SummarizeFunc func(ctx context.Context, id, lang string) (string, error)
	ClearFunc     func(ctx context.Context, id string) error
	DocumentsFunc func(ctx context.Context) ([]domain.Document, error)
}

func (m *mockChatService) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, req)
	}
	return &domain.IngestResult{
		DocumentID: "doc-1",
		URI:        domain.FormatURI("doc-1", req.Language),
		Fragments:  len(req.Fragments),
		Tokens:     42,
	}, nil
}

func (m *mockChatService) Reindex(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	if m.ReindexFunc != nil {
		return m.ReindexFunc(ctx, req)
	}
	return m.Ingest(ctx, req)
}

func (m *mockChatService) Answer(ctx context.Context, id, question string) (*domain.Answer, error) {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, id, question)
	}
	return &domain.Answer{
		Text:     "It is about cats.",
		Keywords: "cats",
		Context:  []string{"cats are great"},
	}, nil
}

func (m *mockChatService) Summarize(ctx context.Context, id, lang string) (string, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, id, lang)
	}
	return "A document about cats.", nil
}

func (m *mockChatService) Clear(ctx context.Context, id string) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, id)
	}
	return nil
}

func (m *mockChatService) Documents(ctx context.Context) ([]domain.Document, error) {
	if m.DocumentsFunc != nil {
		return m.DocumentsFunc(ctx)
	}
	return []domain.Document{{
		ID:        "doc-1",
		Source:    "cats.txt",
		Language:  "English",
		Fragments: 3,
		Tokens:    42,
		IndexedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}}, nil
}

// mockSettingsService implements driving.SettingsService for CLI tests.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	setErr      error
	set         map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		set:      map[string]string{},
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"chat.model", "language"}
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return nil
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return nil
}

var (
	_ driving.ChatService     = (*mockChatService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)

// setupTestServices installs mock services and returns a cleanup function
// restoring the previous ones.
func setupTestServices() func() {
	return setupServices(&mockChatService{}, newMockSettingsService())
}

func setupServices(chat driving.ChatService, settings driving.SettingsService) func() {
	chatMu.Lock()
	prevChat, prevFactory := chatService, chatFactory
	chatMu.Unlock()
	prevSettings := settingsService

	SetChatService(chat)
	SetSettingsService(settings)

	return func() {
		chatMu.Lock()
		chatService, chatFactory = prevChat, prevFactory
		chatMu.Unlock()
		settingsService = prevSettings
	}
}
