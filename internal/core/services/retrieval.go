package services

import (
	"context"
	"fmt"

	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

// Retriever is the query path from an embedded query to the nearest
// fragments of one document.
type Retriever struct {
	index driven.IndexStore
}

// NewRetriever creates a retriever over index.
func NewRetriever(index driven.IndexStore) *Retriever {
	return &Retriever{index: index}
}

// Retrieve returns the k fragments of id nearest to query, most similar
// first.
func (r *Retriever) Retrieve(ctx context.Context, id string, query []float32, k int) ([]string, error) {
	texts, err := r.index.GetTexts(ctx, id, query, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	return texts, nil
}
