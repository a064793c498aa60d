package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

func sampleEntries() []domain.Entry {
	return []domain.Entry{
		{Text: "the cat sat", Vector: []float32{1, 0, 0}},
		{Text: "on the mat", Vector: []float32{0, 1, 0}},
		{Text: "a dog barked", Vector: []float32{0, 0, 1}},
	}
}

func TestIndexStore_BeenIndexed(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()

	ok, err := store.BeenIndexed(ctx, "doc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.AddAll(ctx, "doc", sampleEntries()))

	ok, err = store.BeenIndexed(ctx, "doc")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIndexStore_GetTexts(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()
	require.NoError(t, store.AddAll(ctx, "doc", sampleEntries()))

	texts, err := store.GetTexts(ctx, "doc", []float32{0, 0.9, 0.1}, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"on the mat", "a dog barked"}, texts)
}

func TestIndexStore_GetTexts_NotIndexed(t *testing.T) {
	store := NewIndexStore()

	_, err := store.GetTexts(context.Background(), "doc", []float32{1, 0, 0}, 2)

	assert.ErrorIs(t, err, domain.ErrNotIndexed)
}

func TestIndexStore_AddAll_AppendsInOrder(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()
	entries := sampleEntries()

	require.NoError(t, store.AddAll(ctx, "doc", entries[:2]))
	require.NoError(t, store.AddAll(ctx, "doc", entries[2:]))

	got, err := store.GetAllEmbeddings(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestIndexStore_AddAll_DimensionMismatch(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()
	require.NoError(t, store.AddAll(ctx, "doc", sampleEntries()))

	err := store.AddAll(ctx, "doc", []domain.Entry{{Text: "x", Vector: []float32{1, 0}}})

	assert.ErrorIs(t, err, domain.ErrEmbeddingMismatch)
}

func TestIndexStore_CopiesVectors(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()
	entries := sampleEntries()
	require.NoError(t, store.AddAll(ctx, "doc", entries))

	entries[0].Vector[0] = 42

	got, err := store.GetAllEmbeddings(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, float32(1), got[0].Vector[0])
}

func TestIndexStore_Clear(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()
	require.NoError(t, store.AddAll(ctx, "doc", sampleEntries()))

	require.NoError(t, store.Clear(ctx, "doc"))

	ok, err := store.BeenIndexed(ctx, "doc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Clear(ctx, "doc"))

	require.NoError(t, store.AddAll(ctx, "doc", sampleEntries()[2:]))
	got, err := store.GetAllEmbeddings(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a dog barked", got[0].Text)
}

func TestIndexStore_IsolatesDocuments(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()
	require.NoError(t, store.AddAll(ctx, "a", sampleEntries()[:1]))
	require.NoError(t, store.AddAll(ctx, "b", sampleEntries()[1:]))

	a, err := store.GetAllEmbeddings(ctx, "a")
	require.NoError(t, err)
	b, err := store.GetAllEmbeddings(ctx, "b")
	require.NoError(t, err)

	assert.Len(t, a, 1)
	assert.Len(t, b, 2)
}
