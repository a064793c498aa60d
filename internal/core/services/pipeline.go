package services

import (
	"context"
	"fmt"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// EmbeddingPipeline turns fragments into entries through the embedding
// service, one request per budgeted batch.
type EmbeddingPipeline struct {
	embedder driven.EmbeddingService
	budgeter *Budgeter
	model    domain.EmbeddingModel
}

// NewEmbeddingPipeline creates a pipeline over embedder.
func NewEmbeddingPipeline(embedder driven.EmbeddingService, budgeter *Budgeter, model domain.EmbeddingModel) *EmbeddingPipeline {
	return &EmbeddingPipeline{
		embedder: embedder,
		budgeter: budgeter,
		model:    model,
	}
}

// EmbedAll embeds every fragment and returns the entries in input order with
// the total tokens reported by the service. A failed batch fails the whole
// call and no entries are returned.
func (p *EmbeddingPipeline) EmbedAll(ctx context.Context, fragments []string) ([]domain.Entry, int, error) {
	logger.Section("Embedding")

	batches := p.budgeter.EmbeddingBatches(fragments)
	logger.Debug("%d fragments in %d batches (budget %d tokens)",
		len(fragments), len(batches), p.budgeter.EmbeddingBudget())

	entries := make([]domain.Entry, 0, len(fragments))
	total := 0
	for i, batch := range batches {
		vectors, tokens, err := p.embedder.CreateEmbeddings(ctx, batch)
		if err != nil {
			return nil, 0, fmt.Errorf("embed batch %d/%d: %w", i+1, len(batches), err)
		}
		if len(vectors) != len(batch) {
			return nil, 0, fmt.Errorf("embed batch %d/%d: %w: sent %d, got %d",
				i+1, len(batches), domain.ErrEmbeddingMismatch, len(batch), len(vectors))
		}
		for j, text := range batch {
			entries = append(entries, domain.Entry{Text: text, Vector: vectors[j]})
		}
		total += tokens
		logger.Info("Query fragments used tokens: %d, cost: $%.6f", tokens, p.model.Cost(tokens))
	}

	return entries, total, nil
}

// EmbedQuery embeds a single query text.
func (p *EmbeddingPipeline) EmbedQuery(ctx context.Context, text string) ([]float32, int, error) {
	vectors, tokens, err := p.embedder.CreateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, 0, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, 0, fmt.Errorf("embed query: %w: got %d vectors", domain.ErrEmbeddingMismatch, len(vectors))
	}
	return vectors[0], tokens, nil
}
