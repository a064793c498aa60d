package domain

import (
	"fmt"
	"time"
)

// Document is the catalogue record of an ingested document.
// The Vector Index Store remains the authority on whether the document is
// indexed; the catalogue only describes what was ingested.
type Document struct {
	// ID is the content hash of the fragments.
	ID string `json:"id"`

	// Source is where the fragments came from (file path, URL, "inline").
	Source string `json:"source"`

	// Language is the caller-supplied language code of the document.
	Language string `json:"language"`

	// Fragments is the number of indexed fragments.
	Fragments int `json:"fragments"`

	// Tokens is the number of embedding tokens spent indexing.
	Tokens int `json:"tokens"`

	// IndexedAt is when the index was written.
	IndexedAt time.Time `json:"indexed_at"`
}

// URI returns the "id/lang" handle used to address a document.
func (d Document) URI() string {
	return FormatURI(d.ID, d.Language)
}

// Ingestion records one ingestion attempt.
type Ingestion struct {
	// ID is a random identifier for the attempt.
	ID string `json:"id"`

	// DocumentID is the content hash that was ingested.
	DocumentID string `json:"document_id"`

	// Tokens is the number of embedding tokens spent. Zero for cache hits.
	Tokens int `json:"tokens"`

	// Cached is true when the document was already indexed.
	Cached bool `json:"cached"`

	// CreatedAt is when the attempt finished.
	CreatedAt time.Time `json:"created_at"`
}

// IngestRequest asks the engine to index a document.
type IngestRequest struct {
	Fragments []string
	Source    string
	Language  string
}

// IngestResult describes the outcome of an ingestion.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	URI        string `json:"uri"`
	Fragments  int    `json:"fragments"`
	Tokens     int    `json:"tokens"`
	Cached     bool   `json:"cached"`
}

// Answer is a generated answer and the fragments it was built from.
type Answer struct {
	Text     string   `json:"answer"`
	Keywords string   `json:"keywords"`
	Context  []string `json:"context"`
}

// FormatURI joins an identifier and language into a document handle.
func FormatURI(id, lang string) string {
	return id + "/" + lang
}

// ParseURI splits a document handle into identifier and language.
// A handle without a language yields an empty language.
func ParseURI(uri string) (id, lang string, err error) {
	for i := 0; i < len(uri); i++ {
		if uri[i] == '/' {
			id, lang = uri[:i], uri[i+1:]
			break
		}
	}
	if id == "" && lang == "" {
		id = uri
	}
	if id == "" {
		return "", "", fmt.Errorf("%w: empty document id in %q", ErrInvalidInput, uri)
	}
	return id, lang, nil
}
