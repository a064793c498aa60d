package driven

import (
	"context"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

// DocumentStore is the catalogue of ingested documents and ingestion
// attempts. It is informational: IndexStore decides whether a document is
// indexed.
type DocumentStore interface {
	// SaveDocument stores or replaces a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// DeleteDocument removes a document record. Missing records are ignored.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents, most recently indexed first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// RecordIngestion appends an ingestion attempt.
	RecordIngestion(ctx context.Context, ing *domain.Ingestion) error

	// ListIngestions returns the attempts for a document, newest first.
	ListIngestions(ctx context.Context, documentID string) ([]domain.Ingestion, error)
}
