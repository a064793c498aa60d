package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/httpclient"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)

	svc, err := NewLLMService(LLMConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)
		assert.Equal(t, []chatCompletionMsg{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hi"},
		}, req.Messages)
		assert.InDelta(t, 0.1, req.Temperature, 1e-9)
		assert.Equal(t, 50, req.MaxTokens)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL, Model: "gpt-4"})
	require.NoError(t, err)

	out, err := svc.Complete(context.Background(), "be brief", "hi", driven.ChatOptions{MaxTokens: 50, Temperature: 0.1})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestComplete_ZeroTemperatureIsSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "temperature")
		assert.NotContains(t, req, "max_tokens")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "", "q", driven.ChatOptions{})
	require.NoError(t, err)
}

func TestChat_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})
	assert.Error(t, err)
}

func TestChat_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad model"}}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL, HTTP: httpclient.Config{MaxRetries: -1}})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), nil, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad model")
}
