package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

func newTestPipeline(embedder *mockEmbeddingService, budget int) *EmbeddingPipeline {
	model := domain.EmbeddingModel{Name: "mock", MaxTokens: domain.ReservedTokens + budget}
	budgeter := NewBudgeter(numericCounter, domain.ChatModel{ContextWindow: 4096}, model)
	return NewEmbeddingPipeline(embedder, budgeter, model)
}

func TestEmbeddingPipeline_EmbedAll_PreservesOrder(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		batches   int
	}{
		{"crosses at position 0", []string{"1000", "1", "2"}, 2},
		{"crosses at last position", []string{"300", "301", "400"}, 1},
		{"never crosses", []string{"1", "2", "3"}, 1},
		{"crosses in the middle", []string{"600", "601", "602", "603"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureLog(t)
			embedder := &mockEmbeddingService{}
			pipeline := newTestPipeline(embedder, 900)

			entries, tokens, err := pipeline.EmbedAll(context.Background(), tt.fragments)

			require.NoError(t, err)
			require.Len(t, entries, len(tt.fragments))
			for i, e := range entries {
				assert.Equal(t, tt.fragments[i], e.Text)
				assert.Equal(t, []float32{float32(len(tt.fragments[i])), 1}, e.Vector)
			}
			assert.Len(t, embedder.batches, tt.batches)
			assert.Equal(t, len(tt.fragments), tokens)
		})
	}
}

func TestEmbeddingPipeline_EmbedAll_SumsUsage(t *testing.T) {
	captureLog(t)
	embedder := &mockEmbeddingService{tokens: 7}
	pipeline := newTestPipeline(embedder, 900)

	_, tokens, err := pipeline.EmbedAll(context.Background(), []string{"1000", "1000", "1000"})

	require.NoError(t, err)
	assert.Len(t, embedder.batches, 3)
	assert.Equal(t, 21, tokens)
}

func TestEmbeddingPipeline_EmbedAll_BatchFailureAborts(t *testing.T) {
	captureLog(t)
	boom := errors.New("boom")
	embedder := &mockEmbeddingService{err: boom, failAt: 2}
	pipeline := newTestPipeline(embedder, 900)

	entries, tokens, err := pipeline.EmbedAll(context.Background(), []string{"1000", "1000", "1000"})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "embed batch 2/3")
	assert.Nil(t, entries)
	assert.Zero(t, tokens)
}

func TestEmbeddingPipeline_EmbedAll_CountMismatch(t *testing.T) {
	captureLog(t)
	embedder := &mockEmbeddingService{short: true}
	pipeline := newTestPipeline(embedder, 900)

	_, _, err := pipeline.EmbedAll(context.Background(), []string{"1", "2"})

	assert.ErrorIs(t, err, domain.ErrEmbeddingMismatch)
}

func TestEmbeddingPipeline_EmbedAll_Empty(t *testing.T) {
	embedder := &mockEmbeddingService{}
	pipeline := newTestPipeline(embedder, 900)

	entries, tokens, err := pipeline.EmbedAll(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, tokens)
	assert.Zero(t, embedder.calls())
}

func TestEmbeddingPipeline_EmbedQuery(t *testing.T) {
	embedder := &mockEmbeddingService{vectors: map[string][]float32{"go, channels": {0.5, 0.5}}}
	pipeline := newTestPipeline(embedder, 900)

	v, tokens, err := pipeline.EmbedQuery(context.Background(), "go, channels")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, v)
	assert.Equal(t, 1, tokens)
	assert.Equal(t, [][]string{{"go, channels"}}, embedder.batches)
}

func TestEmbeddingPipeline_BatchesNeverExceedBudgetBeforeOverflow(t *testing.T) {
	captureLog(t)
	embedder := &mockEmbeddingService{}
	pipeline := newTestPipeline(embedder, 900)
	fragments := strings.Fields("200 200 200 200 200 200 200 200 200 200")

	_, _, err := pipeline.EmbedAll(context.Background(), fragments)
	require.NoError(t, err)

	for _, batch := range embedder.batches {
		sum := 0
		for _, text := range batch[:len(batch)-1] {
			sum += numericCounter.Count(text)
		}
		assert.LessOrEqual(t, sum, 900)
	}
}
