package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu         sync.RWMutex
	documents  map[string]domain.Document
	ingestions map[string][]domain.Ingestion
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents:  make(map[string]domain.Document),
		ingestions: make(map[string][]domain.Ingestion),
	}
}

// SaveDocument stores or replaces a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// DeleteDocument removes a document and its ingestion history.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	delete(s.ingestions, id)
	return nil
}

// ListDocuments returns all documents, most recently indexed first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].IndexedAt.Equal(docs[j].IndexedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].IndexedAt.After(docs[j].IndexedAt)
	})
	return docs, nil
}

// RecordIngestion appends an ingestion attempt.
func (s *DocumentStore) RecordIngestion(_ context.Context, ing *domain.Ingestion) error {
	if ing == nil || ing.DocumentID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingestions[ing.DocumentID] = append(s.ingestions[ing.DocumentID], *ing)
	return nil
}

// ListIngestions returns the attempts for a document, newest first.
func (s *DocumentStore) ListIngestions(_ context.Context, documentID string) ([]domain.Ingestion, error) {
	s.mu.RLock()
	history := s.ingestions[documentID]
	out := make([]domain.Ingestion, len(history))
	for i, ing := range history {
		out[len(history)-1-i] = ing
	}
	s.mu.RUnlock()
	return out, nil
}
