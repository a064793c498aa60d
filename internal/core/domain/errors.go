package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNotIndexed indicates a document identifier has no index.
	// Callers guard queries and summaries with BeenIndexed.
	ErrNotIndexed = errors.New("document not indexed")

	// ErrIndexInconsistent indicates an index reported as present could not
	// be read back, or its vector and text stores disagree.
	ErrIndexInconsistent = errors.New("index inconsistent")

	// ErrEmbeddingMismatch indicates the embedding service returned a
	// different number of vectors than inputs.
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")

	// ErrLLMUnavailable indicates the generation service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Settings Errors.

	// ErrUnknownModel indicates a model name missing from the catalogue.
	ErrUnknownModel = errors.New("unknown model")

	// ErrInvalidTemperature indicates a temperature outside [0, 1].
	ErrInvalidTemperature = errors.New("temperature must be between 0 and 1")

	// ErrInvalidBackend indicates an unrecognised storage backend.
	ErrInvalidBackend = errors.New("invalid storage backend")
)
