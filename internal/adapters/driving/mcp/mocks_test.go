package mcp

import (
	"context"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer    *domain.Answer
	summary   string
	result    *domain.IngestResult
	documents []domain.Document
	err       error

	lastID      string
	lastLang    string
	lastRequest domain.IngestRequest
}

func (m *mockChatService) Ingest(_ context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	m.lastRequest = req
	return m.result, m.err
}

func (m *mockChatService) Answer(_ context.Context, id, _ string) (*domain.Answer, error) {
	m.lastID = id
	return m.answer, m.err
}

func (m *mockChatService) Summarize(_ context.Context, id, lang string) (string, error) {
	m.lastID = id
	m.lastLang = lang
	return m.summary, m.err
}

func (m *mockChatService) Reindex(_ context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	m.lastRequest = req
	return m.result, m.err
}

func (m *mockChatService) Clear(_ context.Context, id string) error {
	m.lastID = id
	return m.err
}

func (m *mockChatService) Documents(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}
