package domain

import "errors"

var (
	// ErrInvalidQuery signals a query that failed character validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrModerationBlocked signals a query rejected by the content gate.
	ErrModerationBlocked = errors.New("query blocked by moderation")
	// ErrTalentNotFound signals a missing talent profile.
	ErrTalentNotFound = errors.New("talent not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrModerationProviderError signals a content gate provider failure.
	ErrModerationProviderError = errors.New("moderation provider error")
	// ErrVectorIndexError signals a vector index failure.
	ErrVectorIndexError = errors.New("vector index error")
)
