package driven

import (
	"context"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

// IndexStore is the Vector Index Store: a persistent mapping from a document
// identifier to its ordered (text, vector) entries.
//
// Row ids are dense, start at zero and follow insertion order. They restart
// at zero after Clear. Similarity is cosine (inner product on normalised
// embeddings); equal scores keep row id order.
//
// Implementations:
//   - filepair: one h.bin/h.csv file pair per identifier
//   - postgres: one shared pgvector table
//   - memory: process-local maps
type IndexStore interface {
	// BeenIndexed reports whether a complete, readable index exists for id.
	BeenIndexed(ctx context.Context, id string) (bool, error)

	// AddAll appends entries after the current last row id. Either all
	// entries become visible or none do.
	AddAll(ctx context.Context, id string, entries []domain.Entry) error

	// GetTexts returns up to limit fragment texts ordered by descending
	// similarity to query. Callers check BeenIndexed first.
	GetTexts(ctx context.Context, id string, query []float32, limit int) ([]string, error)

	// GetAllEmbeddings returns every entry for id in row id order.
	GetAllEmbeddings(ctx context.Context, id string) ([]domain.Entry, error)

	// Clear removes every entry for id. Clearing a missing index is not an
	// error.
	Clear(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
