package services

import (
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// Truncate returns the prefix of items that fits budget.
//
// Items are charged in order. The first item that drives the remaining budget
// below zero is still included and ends the prefix, so the result may
// overshoot the budget by at most one item. If nothing overflows, items is
// returned unchanged.
func Truncate[T any](items []T, cost func(T) int, budget int) []T {
	remaining := budget
	for i, item := range items {
		remaining -= cost(item)
		if remaining < 0 {
			logger.Info("Exceeded maximum length, kept the first %d of %d fragments", i+1, len(items))
			return items[:i+1]
		}
	}
	return items
}

// Partition splits items into consecutive batches using the same inclusive
// rule as Truncate: a batch closes on the first item whose running cost
// exceeds budget, and the running cost restarts at zero for the next batch.
// Items after the last overflow form a final batch. Every item appears in
// exactly one batch, in order.
func Partition[T any](items []T, cost func(T) int, budget int) [][]T {
	var batches [][]T
	start, running := 0, 0
	for i, item := range items {
		running += cost(item)
		if running > budget {
			batches = append(batches, items[start:i+1])
			start, running = i+1, 0
		}
	}
	if start < len(items) {
		batches = append(batches, items[start:])
	}
	return batches
}

// Budgeter applies token budgets derived from the configured models.
type Budgeter struct {
	counter   driven.TokenCounter
	chat      domain.ChatModel
	embedding domain.EmbeddingModel
}

// NewBudgeter creates a budgeter for the given models.
func NewBudgeter(counter driven.TokenCounter, chat domain.ChatModel, embedding domain.EmbeddingModel) *Budgeter {
	return &Budgeter{
		counter:   counter,
		chat:      chat,
		embedding: embedding,
	}
}

// Count returns the token count of text.
func (b *Budgeter) Count(text string) int {
	return b.counter.Count(text)
}

// GenerationBudget is the chat model's context window minus the reserve.
func (b *Budgeter) GenerationBudget() int {
	return b.chat.GenerationBudget()
}

// EmbeddingBudget is the embedding model's input ceiling minus the reserve.
func (b *Budgeter) EmbeddingBudget() int {
	return b.embedding.BatchBudget()
}

// ForGeneration truncates texts to the generation budget.
func (b *Budgeter) ForGeneration(texts []string) []string {
	return Truncate(texts, b.counter.Count, b.GenerationBudget())
}

// EmbeddingBatches splits texts into requests that respect the embedding
// budget.
func (b *Budgeter) EmbeddingBatches(texts []string) [][]string {
	return Partition(texts, b.counter.Count, b.EmbeddingBudget())
}
