package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/httpclient"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
}

func TestCreateEmbeddings_OneRequestPerInput(t *testing.T) {
	var prompts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)
		prompts = append(prompts, req.Prompt)

		if req.Prompt == "a" {
			_, _ = w.Write([]byte(`{"embedding":[1,0]}`))
			return
		}
		_, _ = w.Write([]byte(`{"embedding":[0,1]}`))
	}))
	defer server.Close()

	words := driven.TokenCounterFunc(func(text string) int { return len(strings.Fields(text)) + 1 })
	svc := NewEmbeddingService(Config{BaseURL: server.URL, Model: "all-minilm", Counter: words})

	vectors, tokens, err := svc.CreateEmbeddings(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, prompts)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)
	assert.Equal(t, 4, tokens)
}

func TestCreateEmbeddings_NoCounter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[1]}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	_, tokens, err := svc.CreateEmbeddings(context.Background(), []string{"a"})

	require.NoError(t, err)
	assert.Zero(t, tokens)
}

func TestCreateEmbeddings_EmptyVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[]}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	_, _, err := svc.CreateEmbeddings(context.Background(), []string{"a"})

	assert.Error(t, err)
}

func TestCreateEmbeddings_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("model not found"))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, HTTP: httpclient.Config{MaxRetries: -1}})
	_, _, err := svc.CreateEmbeddings(context.Background(), []string{"a"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed text 0")
	assert.Contains(t, err.Error(), "model not found")
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	assert.NoError(t, svc.Ping(context.Background()))
}
