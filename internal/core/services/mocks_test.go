package services

import (
	"context"
	"errors"
	"sync"

	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

// mockEmbeddingService returns vectors from a fixed table, or a vector
// derived from the text length, and records every batch it receives.
type mockEmbeddingService struct {
	mu      sync.Mutex
	vectors map[string][]float32
	batches [][]string
	tokens  int
	err     error
	failAt  int // 1-based batch number to fail on; 0 never fails
	short   bool
}

func (m *mockEmbeddingService) CreateEmbeddings(_ context.Context, inputs []string) ([][]float32, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batches = append(m.batches, append([]string(nil), inputs...))
	if m.err != nil && (m.failAt == 0 || m.failAt == len(m.batches)) {
		return nil, 0, m.err
	}

	out := make([][]float32, 0, len(inputs))
	for _, text := range inputs {
		if v, ok := m.vectors[text]; ok {
			out = append(out, v)
			continue
		}
		out = append(out, []float32{float32(len(text)), 1})
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	tokens := m.tokens
	if tokens == 0 {
		tokens = len(inputs)
	}
	return out, tokens, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 2 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embedding" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

func (m *mockEmbeddingService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

// mockLLMService answers from a queue of canned responses and records the
// prompts it was given.
type mockLLMService struct {
	responses []string
	systems   []string
	users     []string
	err       error
}

func (m *mockLLMService) Complete(_ context.Context, system, user string, _ driven.ChatOptions) (string, error) {
	m.systems = append(m.systems, system)
	m.users = append(m.users, user)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r, nil
}

func (m *mockLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	var system, user string
	for _, msg := range messages {
		switch msg.Role {
		case driven.RoleSystem:
			system = msg.Content
		case driven.RoleUser:
			user = msg.Content
		}
	}
	return m.Complete(ctx, system, user, opts)
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

var errNoPrompt = errors.New("no such prompt")

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errNoPrompt
}

func (m *mockPromptStore) Reload() {}
