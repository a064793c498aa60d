package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)
}

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sys", req.System)
		assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
		assert.Equal(t, []messagesMessage{{Role: "user", Content: "question"}}, req.Messages)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"an"},{"type":"tool_use"},{"type":"text","text":"swer"}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := svc.Complete(context.Background(), "sys", "question", driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "answer", out)
}

func TestChat_LiftsSystemMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "one\n\ntwo", req.System)
		assert.Len(t, req.Messages, 2)
		assert.Equal(t, 10, req.MaxTokens)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "one"},
		{Role: driven.RoleUser, Content: "hi"},
		{Role: driven.RoleSystem, Content: "two"},
		{Role: driven.RoleAssistant, Content: "hello"},
	}, driven.ChatOptions{MaxTokens: 10})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestComplete_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "", "q", driven.ChatOptions{})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, svc.Ping(context.Background()))
}
