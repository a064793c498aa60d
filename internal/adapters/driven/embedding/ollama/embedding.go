// Package ollama provides an embedding service adapter using Ollama.
package ollama

import (
	"context"
	"fmt"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/httpclient"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultDimensions = 768 // nomic-embed-text default
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Dimensions is the embedding vector size (model-dependent).
	Dimensions int

	// Counter estimates token usage, which Ollama does not report.
	// Usage is reported as zero when nil.
	Counter driven.TokenCounter

	// HTTP configures timeouts, rate limiting and retries.
	HTTP httpclient.Config
}

// EmbeddingService generates embeddings using Ollama.
type EmbeddingService struct {
	client     *httpclient.Client
	baseURL    string
	model      string
	dimensions int
	counter    driven.TokenCounter
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		client:     httpclient.New("ollama", cfg.HTTP, nil),
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		counter:    cfg.Counter,
	}
}

// CreateEmbeddings embeds each input with its own request, since Ollama
// has no batch endpoint.
func (s *EmbeddingService) CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, int, error) {
	embeddings := make([][]float32, len(inputs))
	tokens := 0
	for i, text := range inputs {
		var resp embedResponse
		err := s.client.PostJSON(ctx, s.baseURL+"/api/embeddings", embedRequest{Model: s.model, Prompt: text}, &resp)
		if err != nil {
			return nil, 0, fmt.Errorf("embed text %d: %w", i, err)
		}
		if len(resp.Embedding) == 0 {
			return nil, 0, fmt.Errorf("ollama: empty embedding for text %d", i)
		}
		embeddings[i] = resp.Embedding
		if s.counter != nil {
			tokens += s.counter.Count(text)
		}
	}
	return embeddings, tokens, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, s.baseURL+"/api/tags"); err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
