package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, including
	// vectors whose dimension does not match the collection.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion errors. All are per-document: one failing document
	// never aborts a multi-document run.

	// ErrExtraction indicates a document could not be extracted
	// (bad or corrupt input file). The document is abandoned.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbedding indicates the embedding model call failed.
	// The whole batch is abandoned; partial embedding of a document's
	// chunks is never persisted.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndexWrite indicates an upsert or delete against the vector
	// index failed. Point ids are fresh per ingestion, so a blind
	// retry after a partial write may duplicate already-written
	// points; that tradeoff is surfaced, not masked.
	ErrIndexWrite = errors.New("index write failed")

	// Query errors. These abort the single request that hit them.

	// ErrIndexQuery indicates a similarity query failed. No partial
	// results are returned.
	ErrIndexQuery = errors.New("index query failed")

	// ErrToolExecution indicates the retrieval tool failed during a
	// model-directed call. It is fed back to the model as a tool
	// error so it can answer without that evidence or search again.
	ErrToolExecution = errors.New("tool execution failed")

	// Service availability.

	// ErrLLMUnavailable indicates the language model service is not
	// configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
