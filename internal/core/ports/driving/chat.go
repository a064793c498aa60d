package driving

import (
	"context"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

// ChatService ingests documents and answers questions about them.
type ChatService interface {
	// Ingest indexes a document. Already indexed content is not embedded
	// again and reports zero tokens.
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)

	// Answer answers a question from the fragments of one document.
	// Returns domain.ErrNotIndexed for unknown identifiers.
	Answer(ctx context.Context, id, question string) (*domain.Answer, error)

	// Summarize summarises one document in the configured language.
	// lang is the document's own language and selects the centroid mode.
	Summarize(ctx context.Context, id, lang string) (string, error)

	// Reindex drops the index for the fragments' identifier and builds it again.
	Reindex(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)

	// Clear removes the index and catalogue record of a document.
	Clear(ctx context.Context, id string) error

	// Documents lists catalogued documents.
	Documents(ctx context.Context) ([]domain.Document, error)
}
