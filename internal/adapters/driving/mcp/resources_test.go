package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid document URI", uri: "chatweb://documents/abc123", expected: "abc123"},
		{name: "with language", uri: "chatweb://documents/abc123/en", expected: "abc123"},
		{name: "invalid prefix", uri: "file://documents/abc123", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentID(tt.uri))
		})
	}
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func testCatalogue() []domain.Document {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []domain.Document{
		{ID: "abc", Language: "en", Source: "notes.txt", Fragments: 4, IndexedAt: at},
		{ID: "def", Language: "zh", Source: "paper.txt", Fragments: 9, IndexedAt: at},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists documents", func(t *testing.T) {
		server := newTestServer(t, &mockChatService{documents: testCatalogue()})

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("chatweb://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"uri": "abc/en"`)
		assert.Contains(t, result.Contents[0].Text, `"uri": "def/zh"`)
	})

	t.Run("empty catalogue", func(t *testing.T) {
		server := newTestServer(t, &mockChatService{})

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("chatweb://documents"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server := newTestServer(t, &mockChatService{err: errors.New("database error")})

		_, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("chatweb://documents"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the record", func(t *testing.T) {
		server := newTestServer(t, &mockChatService{documents: testCatalogue()})

		result, err := server.handleDocumentResource(ctx, makeReadResourceRequest("chatweb://documents/def"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "paper.txt")
		assert.NotContains(t, result.Contents[0].Text, "notes.txt")
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		server := newTestServer(t, &mockChatService{documents: testCatalogue()})

		_, err := server.handleDocumentResource(ctx, makeReadResourceRequest("chatweb://documents/zzz"))

		require.Error(t, err)
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		server := newTestServer(t, &mockChatService{documents: testCatalogue()})

		_, err := server.handleDocumentResource(ctx, makeReadResourceRequest("chatweb://other/abc"))

		require.Error(t, err)
	})
}
