package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/storage/scan"
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is a process-local driven.IndexStore. Row ids are slice
// positions, so they are dense and restart at zero after Clear.
type IndexStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.Entry
}

// NewIndexStore creates an empty in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		entries: make(map[string][]domain.Entry),
	}
}

// BeenIndexed reports whether id has at least one entry.
func (s *IndexStore) BeenIndexed(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[id]) > 0, nil
}

// AddAll appends copies of entries to id.
func (s *IndexStore) AddAll(_ context.Context, id string, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	copied := make([]domain.Entry, len(entries))
	for i, e := range entries {
		copied[i] = domain.Entry{Text: e.Text, Vector: slices.Clone(e.Vector)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.entries[id]; len(existing) > 0 {
		if len(existing[0].Vector) != len(copied[0].Vector) {
			return domain.ErrEmbeddingMismatch
		}
	}
	s.entries[id] = append(s.entries[id], copied...)
	return nil
}

// GetTexts returns up to limit texts by descending similarity to query.
func (s *IndexStore) GetTexts(_ context.Context, id string, query []float32, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotIndexed
	}
	return scan.Texts(entries, query, limit)
}

// GetAllEmbeddings returns every entry for id in row id order.
func (s *IndexStore) GetAllEmbeddings(_ context.Context, id string) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotIndexed
	}
	out := make([]domain.Entry, len(entries))
	for i, e := range entries {
		out[i] = domain.Entry{Text: e.Text, Vector: slices.Clone(e.Vector)}
	}
	return out, nil
}

// Clear removes every entry for id.
func (s *IndexStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Close is a no-op.
func (s *IndexStore) Close() error {
	return nil
}
