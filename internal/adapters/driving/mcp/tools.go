package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

// AnswerInput is the input schema for the answer tool.
type AnswerInput struct {
	URI      string `json:"uri" jsonschema:"document handle returned by ingest_text (id/lang)"`
	Question string `json:"question" jsonschema:"the question to answer from the document"`
}

// AnswerOutput is the output schema for the answer tool.
type AnswerOutput struct {
	Answer   string   `json:"answer"`
	Keywords string   `json:"keywords,omitempty"`
	Context  []string `json:"context"`
}

// SummarizeInput is the input schema for the summarize tool.
type SummarizeInput struct {
	URI string `json:"uri" jsonschema:"document handle returned by ingest_text (id/lang)"`
}

// SummarizeOutput is the output schema for the summarize tool.
type SummarizeOutput struct {
	Summary string `json:"summary"`
}

// IngestInput is the input schema for the ingest_text tool.
type IngestInput struct {
	Text     string `json:"text" jsonschema:"document text; each non-empty line becomes one fragment"`
	Language string `json:"language,omitempty" jsonschema:"document language (default: configured language)"`
	Source   string `json:"source,omitempty" jsonschema:"label recorded with the document, e.g. a URL"`
}

// IngestOutput is the output schema for the ingest_text tool.
type IngestOutput struct {
	URI       string `json:"uri"`
	Fragments int    `json:"fragments"`
	Tokens    int    `json:"tokens"`
	Cached    bool   `json:"cached"`
}

// DocumentsInput is the (empty) input schema for the documents tool.
type DocumentsInput struct{}

// DocumentsOutput is the output schema for the documents tool.
type DocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput describes one ingested document.
type DocumentOutput struct {
	URI       string `json:"uri"`
	Source    string `json:"source"`
	Fragments int    `json:"fragments"`
	IndexedAt string `json:"indexed_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "answer",
		Description: "Answer a question from the fragments of an ingested document",
	}, s.handleAnswer)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize",
		Description: "Summarise an ingested document",
	}, s.handleSummarize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_text",
		Description: "Index plain text and return its document handle",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "documents",
		Description: "List ingested documents",
	}, s.handleDocuments)
}

func (s *Server) handleAnswer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	id, _, err := domain.ParseURI(input.URI)
	if err != nil {
		return nil, AnswerOutput{}, err
	}
	if strings.TrimSpace(input.Question) == "" {
		return nil, AnswerOutput{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	answer, err := s.ports.Chat.Answer(ctx, id, input.Question)
	if err != nil {
		return nil, AnswerOutput{}, err
	}

	return nil, AnswerOutput{
		Answer:   answer.Text,
		Keywords: answer.Keywords,
		Context:  answer.Context,
	}, nil
}

func (s *Server) handleSummarize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeInput,
) (*mcp.CallToolResult, SummarizeOutput, error) {
	id, lang, err := domain.ParseURI(input.URI)
	if err != nil {
		return nil, SummarizeOutput{}, err
	}

	summary, err := s.ports.Chat.Summarize(ctx, id, s.language(lang))
	if err != nil {
		return nil, SummarizeOutput{}, err
	}
	return nil, SummarizeOutput{Summary: summary}, nil
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	var fragments []string
	for _, line := range strings.Split(input.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			fragments = append(fragments, line)
		}
	}

	source := input.Source
	if source == "" {
		source = "mcp"
	}

	result, err := s.ports.Chat.Ingest(ctx, domain.IngestRequest{
		Fragments: fragments,
		Source:    source,
		Language:  s.language(input.Language),
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		URI:       result.URI,
		Fragments: result.Fragments,
		Tokens:    result.Tokens,
		Cached:    result.Cached,
	}, nil
}

func (s *Server) handleDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ DocumentsInput,
) (*mcp.CallToolResult, DocumentsOutput, error) {
	docs, err := s.ports.Chat.Documents(ctx)
	if err != nil {
		return nil, DocumentsOutput{}, err
	}

	output := DocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = documentOutput(docs[i])
	}
	return nil, output, nil
}

func documentOutput(doc domain.Document) DocumentOutput {
	return DocumentOutput{
		URI:       doc.URI(),
		Source:    doc.Source,
		Fragments: doc.Fragments,
		IndexedAt: doc.IndexedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// language returns lang, or the configured default when it is empty.
func (s *Server) language(lang string) string {
	if lang = strings.TrimSpace(lang); lang != "" {
		return lang
	}
	if s.ports.Language != "" {
		return s.ports.Language
	}
	return domain.DefaultAppSettings().Language
}
