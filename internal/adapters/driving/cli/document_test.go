package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

func TestAskCmd_RequiresURIAndQuestion(t *testing.T) {
	_, err := executeCommand(t, "ask", "doc-1/en")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 2 arg(s)")
}

func TestAskCmd_PrintsAnswer(t *testing.T) {
	var gotID, gotQuestion string
	chat := &mockChatService{}
	chat.AnswerFunc = func(_ context.Context, id, question string) (*domain.Answer, error) {
		gotID, gotQuestion = id, question
		return &domain.Answer{Text: "They nap.", Keywords: "cats, sleep"}, nil
	}
	cleanup := setupServices(chat, newMockSettingsService())
	defer cleanup()

	out, err := executeCommand(t, "ask", "doc-1/en", "what", "do", "cats", "do?")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", gotID)
	assert.Equal(t, "what do cats do?", gotQuestion)
	assert.Contains(t, out, "They nap.")
	assert.Contains(t, out, "Keywords: cats, sleep")
}

func TestAskCmd_WithoutLLMPrintsContext(t *testing.T) {
	chat := &mockChatService{}
	chat.AnswerFunc = func(context.Context, string, string) (*domain.Answer, error) {
		return &domain.Answer{Context: []string{"cats nap", "cats purr"}}, nil
	}
	cleanup := setupServices(chat, newMockSettingsService())
	defer cleanup()

	out, err := executeCommand(t, "ask", "doc-1", "cats?")

	require.NoError(t, err)
	assert.Contains(t, out, "No language model configured")
	assert.Contains(t, out, "[1] cats nap")
	assert.Contains(t, out, "[2] cats purr")
}

func TestAskCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "ask", "doc-1/en", "cats?", "--json")
	require.NoError(t, err)

	var answer domain.Answer
	require.NoError(t, json.Unmarshal([]byte(out), &answer))
	assert.Equal(t, "It is about cats.", answer.Text)
	assert.Equal(t, []string{"cats are great"}, answer.Context)
}

func TestAskCmd_NotIndexed(t *testing.T) {
	chat := &mockChatService{}
	chat.AnswerFunc = func(context.Context, string, string) (*domain.Answer, error) {
		return nil, domain.ErrNotIndexed
	}
	cleanup := setupServices(chat, newMockSettingsService())
	defer cleanup()

	_, err := executeCommand(t, "ask", "missing/en", "anything?")

	assert.ErrorIs(t, err, domain.ErrNotIndexed)
}

func TestAskCmd_InvalidURI(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "ask", "/en", "anything?")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummaryCmd_UsesURILanguage(t *testing.T) {
	var gotID, gotLang string
	chat := &mockChatService{}
	chat.SummarizeFunc = func(_ context.Context, id, lang string) (string, error) {
		gotID, gotLang = id, lang
		return "Short summary.", nil
	}
	cleanup := setupServices(chat, newMockSettingsService())
	defer cleanup()

	out, err := executeCommand(t, "summary", "doc-1/zh")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", gotID)
	assert.Equal(t, "zh", gotLang)
	assert.Contains(t, out, "Short summary.")
}

func TestSummaryCmd_DefaultLanguage(t *testing.T) {
	var gotLang string
	chat := &mockChatService{}
	chat.SummarizeFunc = func(_ context.Context, _, lang string) (string, error) {
		gotLang = lang
		return "", nil
	}
	cleanup := setupServices(chat, newMockSettingsService())
	defer cleanup()

	_, err := executeCommand(t, "summary", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, "English", gotLang)
}

func TestSummaryCmd_Error(t *testing.T) {
	chat := &mockChatService{}
	chat.SummarizeFunc = func(context.Context, string, string) (string, error) {
		return "", errors.New("llm down")
	}
	cleanup := setupServices(chat, newMockSettingsService())
	defer cleanup()

	_, err := executeCommand(t, "summary", "doc-1/en")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary failed: llm down")
}

func TestClearCmd(t *testing.T) {
	var cleared string
	chat := &mockChatService{}
	chat.ClearFunc = func(_ context.Context, id string) error {
		cleared = id
		return nil
	}
	cleanup := setupServices(chat, newMockSettingsService())
	defer cleanup()

	out, err := executeCommand(t, "clear", "doc-1/en")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", cleared)
	assert.Contains(t, out, "Cleared doc-1")
}

func TestDocumentsCmd_List(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "documents")

	require.NoError(t, err)
	assert.Contains(t, out, "doc-1/English")
	assert.Contains(t, out, "Source:    cats.txt")
	assert.Contains(t, out, "Fragments: 3 (42 tokens)")
	assert.Contains(t, out, "2024-03-01 10:00:00")
	assert.Contains(t, out, "Total: 1 documents")
}

func TestDocumentsCmd_Empty(t *testing.T) {
	chat := &mockChatService{}
	chat.DocumentsFunc = func(context.Context) ([]domain.Document, error) {
		return nil, nil
	}
	cleanup := setupServices(chat, newMockSettingsService())
	defer cleanup()

	out, err := executeCommand(t, "ls")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents ingested.")
}

func TestDocumentsCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "documents", "--json")
	require.NoError(t, err)

	var docs []domain.Document
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-1", docs[0].ID)
}
