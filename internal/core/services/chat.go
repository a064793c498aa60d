package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatConfig holds the settings the chat service runs with.
type ChatConfig struct {
	// Language is the language answers and summaries are written in.
	Language string

	// RetrievalLimit is the number of fragments fetched per question.
	RetrievalLimit int

	// SummaryCandidates is the number of fragments ranked into a summary.
	SummaryCandidates int

	// Temperature is passed to the generation service.
	Temperature float64

	// ChatModel sizes the generation budget.
	ChatModel domain.ChatModel

	// EmbeddingModel sizes the embedding batches.
	EmbeddingModel domain.EmbeddingModel
}

// ChatConfigFromSettings derives a ChatConfig from application settings.
func ChatConfigFromSettings(s *domain.AppSettings) ChatConfig {
	return ChatConfig{
		Language:          s.Language,
		RetrievalLimit:    s.Retrieval.Limit,
		SummaryCandidates: s.Retrieval.SummaryCandidates,
		Temperature:       s.LLM.Temperature,
		ChatModel:         s.LLM.Catalogue(),
		EmbeddingModel:    s.Embedding.Catalogue(),
	}
}

// ChatService ingests documents into the index and answers questions and
// summary requests from their fragments.
type ChatService struct {
	index     driven.IndexStore
	llm       driven.LLMService
	docs      driven.DocumentStore
	prompts   driven.PromptStore
	budgeter  *Budgeter
	pipeline  *EmbeddingPipeline
	ranker    *SummaryRanker
	retriever *Retriever
	cfg       ChatConfig
	locks     *keyedMutex
	now       func() time.Time
}

// NewChatService creates a chat service.
// The llm parameter is optional (can be nil); without it answers and
// summaries carry the selected fragments only.
func NewChatService(
	index driven.IndexStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	counter driven.TokenCounter,
	cfg ChatConfig,
) *ChatService {
	if cfg.RetrievalLimit <= 0 {
		cfg.RetrievalLimit = 100
	}
	if cfg.SummaryCandidates <= 0 {
		cfg.SummaryCandidates = 100
	}
	budgeter := NewBudgeter(counter, cfg.ChatModel, cfg.EmbeddingModel)
	return &ChatService{
		index:     index,
		llm:       llm,
		budgeter:  budgeter,
		pipeline:  NewEmbeddingPipeline(embedder, budgeter, cfg.EmbeddingModel),
		ranker:    NewSummaryRanker(budgeter),
		retriever: NewRetriever(index),
		cfg:       cfg,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// SetDocumentStore sets the catalogue that records ingestions.
func (s *ChatService) SetDocumentStore(store driven.DocumentStore) {
	s.docs = store
}

// SetPromptStore sets the store for customisable prompts.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Ingest indexes the fragments of a document unless already indexed.
func (s *ChatService) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	if len(req.Fragments) == 0 {
		return nil, fmt.Errorf("ingest: %w: no fragments", domain.ErrInvalidInput)
	}

	id := domain.DocumentID(req.Fragments)
	unlock := s.locks.Lock(id)
	defer unlock()

	result, err := s.ingestLocked(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	return result, nil
}

// Reindex clears the index of the fragments' identifier and ingests them
// again.
func (s *ChatService) Reindex(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	if len(req.Fragments) == 0 {
		return nil, fmt.Errorf("reindex: %w: no fragments", domain.ErrInvalidInput)
	}

	id := domain.DocumentID(req.Fragments)
	unlock := s.locks.Lock(id)
	defer unlock()

	logger.Section("Reindex")
	if err := s.index.Clear(ctx, id); err != nil {
		return nil, fmt.Errorf("reindex: clear: %w", err)
	}
	result, err := s.ingestLocked(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("reindex: %w", err)
	}
	return result, nil
}

func (s *ChatService) ingestLocked(ctx context.Context, id string, req domain.IngestRequest) (*domain.IngestResult, error) {
	logger.Section("Ingest")
	logger.Debug("Document %s: %d fragments from %q", id, len(req.Fragments), req.Source)

	lang := req.Language
	result := &domain.IngestResult{
		DocumentID: id,
		URI:        domain.FormatURI(id, lang),
		Fragments:  len(req.Fragments),
	}

	indexed, err := s.index.BeenIndexed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check index: %w", err)
	}
	if indexed {
		logger.Debug("Document %s already indexed, skipping embedding", id)
		result.Cached = true
		s.record(ctx, nil, &domain.Ingestion{DocumentID: id, Cached: true})
		return result, nil
	}

	entries, tokens, err := s.pipeline.EmbedAll(ctx, req.Fragments)
	if err != nil {
		return nil, err
	}
	if err := s.index.AddAll(ctx, id, entries); err != nil {
		return nil, fmt.Errorf("add entries: %w", err)
	}
	result.Tokens = tokens

	s.record(ctx, &domain.Document{
		ID:        id,
		Source:    req.Source,
		Language:  lang,
		Fragments: len(entries),
		Tokens:    tokens,
	}, &domain.Ingestion{DocumentID: id, Tokens: tokens})

	return result, nil
}

// record writes catalogue rows. The catalogue is informational, so failures
// are logged and not returned.
func (s *ChatService) record(ctx context.Context, doc *domain.Document, ing *domain.Ingestion) {
	if s.docs == nil {
		return
	}
	now := s.now()
	if doc != nil {
		doc.IndexedAt = now
		if err := s.docs.SaveDocument(ctx, doc); err != nil {
			logger.Warn("Failed to catalogue document %s: %v", doc.ID, err)
		}
	}
	ing.ID = uuid.New().String()
	ing.CreatedAt = now
	if err := s.docs.RecordIngestion(ctx, ing); err != nil {
		logger.Warn("Failed to record ingestion of %s: %v", ing.DocumentID, err)
	}
}

// Answer answers question from the fragments of document id nearest to the
// question's keywords.
func (s *ChatService) Answer(ctx context.Context, id, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("answer: %w: empty question", domain.ErrInvalidInput)
	}
	if err := s.ensureIndexed(ctx, id); err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}

	logger.Section("Answer")
	keywords, err := s.keywords(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}
	logger.Debug("Keywords: %q", keywords)

	query, _, err := s.pipeline.EmbedQuery(ctx, keywords)
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}
	texts, err := s.retriever.Retrieve(ctx, id, query, s.cfg.RetrievalLimit)
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}

	fragments := s.budgeter.ForGeneration(texts)
	logger.Info("Number of query fragments: %d", len(fragments))

	answer := &domain.Answer{Keywords: keywords, Context: fragments}
	if s.llm == nil {
		logger.Warn("No LLM configured, returning retrieved fragments only")
		return answer, nil
	}

	system, err := s.prompt(domain.PromptAnswer, numbered(fragments), s.cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}
	text, err := s.llm.Complete(ctx, system, question, s.chatOptions())
	if err != nil {
		return nil, fmt.Errorf("answer: generate: %w", err)
	}
	answer.Text = strings.TrimSpace(text)
	return answer, nil
}

// Summarize summarises document id from its most central fragments. lang is
// the document's language and selects the weighted centroid for languages
// written with whitespace-separated words.
func (s *ChatService) Summarize(ctx context.Context, id, lang string) (string, error) {
	if err := s.ensureIndexed(ctx, id); err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	logger.Section("Summary")
	entries, err := s.index.GetAllEmbeddings(ctx, id)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	weighted := domain.UsesWeightedCentroid(lang)
	candidates := s.ranker.Candidates(entries, s.cfg.SummaryCandidates, weighted)
	logger.Debug("Selected %d of %d fragments (weighted=%t)", len(candidates), len(entries), weighted)

	labelled := make([]string, len(candidates))
	for i, c := range candidates {
		labelled[i] = fmt.Sprintf("paragraph %d: %s", c.Position, c.Text)
	}
	text := numbered(labelled)
	if s.llm == nil {
		logger.Warn("No LLM configured, returning ranked fragments only")
		return text, nil
	}

	prompt, err := s.prompt(domain.PromptSummary, text, s.cfg.Language)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	summary, err := s.llm.Complete(ctx, "", prompt, s.chatOptions())
	if err != nil {
		return "", fmt.Errorf("summarize: generate: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

// Clear removes the index and catalogue record of document id.
func (s *ChatService) Clear(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.index.Clear(ctx, id); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if s.docs != nil {
		if err := s.docs.DeleteDocument(ctx, id); err != nil {
			return fmt.Errorf("clear: catalogue: %w", err)
		}
	}
	return nil
}

// Documents lists catalogued documents.
func (s *ChatService) Documents(ctx context.Context) ([]domain.Document, error) {
	if s.docs == nil {
		return []domain.Document{}, nil
	}
	docs, err := s.docs.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *ChatService) ensureIndexed(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}
	indexed, err := s.index.BeenIndexed(ctx, id)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if !indexed {
		return fmt.Errorf("%w: %s", domain.ErrNotIndexed, id)
	}
	return nil
}

// keywords asks the generation service for search keywords. Without one the
// question itself is embedded.
func (s *ChatService) keywords(ctx context.Context, question string) (string, error) {
	if s.llm == nil {
		return question, nil
	}
	prompt, err := s.prompt(domain.PromptKeywords, question)
	if err != nil {
		return "", err
	}
	keywords, err := s.llm.Complete(ctx, "", prompt, s.chatOptions())
	if err != nil {
		return "", fmt.Errorf("keywords: %w", err)
	}
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return question, nil
	}
	return keywords, nil
}

// prompt loads a template, preferring the prompt store over built-ins.
func (s *ChatService) prompt(name string, args ...any) (string, error) {
	template, ok := domain.DefaultPrompt(name)
	if s.prompts != nil {
		if custom, err := s.prompts.Load(name); err == nil {
			template, ok = custom, true
		} else {
			logger.Warn("Prompt %q unavailable, using default: %v", name, err)
		}
	}
	if !ok {
		return "", fmt.Errorf("%w: unknown prompt %q", domain.ErrNotFound, name)
	}
	return fmt.Sprintf(template, args...), nil
}

func (s *ChatService) chatOptions() driven.ChatOptions {
	return driven.ChatOptions{Temperature: s.cfg.Temperature}
}

// numbered joins fragments as "0. first\n1. second".
func numbered(fragments []string) string {
	var b strings.Builder
	for i, f := range fragments {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i, f)
	}
	return b.String()
}
