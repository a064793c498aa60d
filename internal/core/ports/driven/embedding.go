// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large, text-embedding-ada-002)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// CreateEmbeddings returns one vector per input, in input order, and the
	// number of tokens the service reported for the request.
	// Callers must keep the batch under the model's input ceiling.
	CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, int, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
