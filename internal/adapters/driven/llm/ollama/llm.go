// Package ollama provides an LLM service adapter using Ollama.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/httpclient"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	Model string

	// HTTP configures timeouts, rate limiting and retries.
	// The timeout defaults to 120s.
	HTTP httpclient.Config
}

// LLMService provides LLM operations using Ollama.
type LLMService struct {
	client  *httpclient.Client
	baseURL string
	model   string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	System  string   `json:"system,omitempty"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client:  httpclient.New("ollama", cfg.HTTP, nil),
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

func toOptions(opts driven.ChatOptions) *options {
	return &options{NumPredict: opts.MaxTokens, Temperature: opts.Temperature}
}

// Complete answers a user message under a system prompt using /api/generate.
func (s *LLMService) Complete(ctx context.Context, system, user string, opts driven.ChatOptions) (string, error) {
	reqBody := generateRequest{
		Model:   s.model,
		System:  system,
		Prompt:  user,
		Options: toOptions(opts),
	}

	var resp generateResponse
	if err := s.client.PostJSON(ctx, s.baseURL+"/api/generate", reqBody, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMessage{Role: msg.Role, Content: msg.Content}
	}

	reqBody := chatRequest{
		Model:    s.model,
		Messages: chatMessages,
		Options:  toOptions(opts),
	}

	var resp chatResponse
	if err := s.client.PostJSON(ctx, s.baseURL+"/api/chat", reqBody, &resp); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, s.baseURL+"/api/tags"); err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
