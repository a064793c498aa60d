// Package openai provides an embedding service adapter using OpenAI API.
package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/httpclient"
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultModel      = "text-embedding-ada-002"
	DefaultDimensions = 1536
)

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-ada-002).
	Model string

	// Dimensions overrides the catalogue dimension for the model.
	// Not sent for text-embedding-ada-002, which has a fixed size.
	Dimensions int

	// HTTP configures timeouts, rate limiting and retries.
	HTTP httpclient.Config
}

// EmbeddingService generates embeddings using OpenAI API.
type EmbeddingService struct {
	client     *httpclient.Client
	baseURL    string
	model      domain.EmbeddingModel
	dimensions int
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// NewEmbeddingService creates a new OpenAI embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	model := domain.EmbeddingModelOrDefault(cfg.Model, DefaultDimensions)
	dimensions := model.Dimensions
	if cfg.Dimensions > 0 {
		dimensions = cfg.Dimensions
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.APIKey)

	return &EmbeddingService{
		client:     httpclient.New("openai", cfg.HTTP, header),
		baseURL:    cfg.BaseURL,
		model:      model,
		dimensions: dimensions,
	}, nil
}

// CreateEmbeddings embeds a batch in one request. Vectors are returned in
// input order together with the token usage reported by the API.
func (s *EmbeddingService) CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, int, error) {
	if len(inputs) == 0 {
		return nil, 0, nil
	}

	reqBody := embeddingRequest{
		Model: s.model.Name,
		Input: inputs,
	}
	if s.model.SupportsDimensions() {
		reqBody.Dimensions = s.dimensions
	}

	var resp embeddingResponse
	if err := s.client.PostJSON(ctx, s.baseURL+"/embeddings", reqBody, &resp); err != nil {
		return nil, 0, err
	}

	if len(resp.Data) != len(inputs) {
		return nil, 0, fmt.Errorf("openai: %w: %d inputs, %d embeddings",
			domain.ErrEmbeddingMismatch, len(inputs), len(resp.Data))
	}
	embeddings := make([][]float32, len(inputs))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(inputs) || embeddings[data.Index] != nil {
			return nil, 0, fmt.Errorf("openai: %w: bad index %d", domain.ErrEmbeddingMismatch, data.Index)
		}
		embeddings[data.Index] = data.Embedding
	}

	return embeddings, resp.Usage.TotalTokens, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model.Name
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, s.baseURL+"/models"); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
