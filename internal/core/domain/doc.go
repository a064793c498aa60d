// Package domain defines the core entities of the chatweb retrieval engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Entry: a fragment of document text paired with its embedding vector
//   - DocumentID: the content hash that keys an index
//   - Document: a catalogue record of an ingested document
//   - ChatModel / EmbeddingModel: the model catalogue with token limits
//   - AppSettings: provider, storage and retrieval configuration
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/zeebo/xxh3 for content hashing
//   - Cannot Import: Any internal/ package
package domain
