package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/storage/memory"
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

func TestRetriever_NearestFirst(t *testing.T) {
	ctx := context.Background()
	index := memory.NewIndexStore()
	require.NoError(t, index.AddAll(ctx, "doc", []domain.Entry{
		{Text: "east", Vector: []float32{1, 0}},
		{Text: "north", Vector: []float32{0, 1}},
		{Text: "north-east", Vector: []float32{0.7, 0.7}},
	}))

	texts, err := NewRetriever(index).Retrieve(ctx, "doc", []float32{0, 1}, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"north", "north-east"}, texts)
}

func TestRetriever_LimitAboveSize(t *testing.T) {
	ctx := context.Background()
	index := memory.NewIndexStore()
	require.NoError(t, index.AddAll(ctx, "doc", []domain.Entry{
		{Text: "only", Vector: []float32{1, 0}},
	}))

	texts, err := NewRetriever(index).Retrieve(ctx, "doc", []float32{1, 0}, 5)

	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, texts)
}

func TestRetriever_NotIndexed(t *testing.T) {
	_, err := NewRetriever(memory.NewIndexStore()).Retrieve(context.Background(), "missing", []float32{1}, 3)

	assert.ErrorIs(t, err, domain.ErrNotIndexed)
}
