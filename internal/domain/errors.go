package domain

import "errors"

var (
	// ErrInvalidQuery signals a missing or malformed query string.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidCaller signals a missing caller identity.
	ErrInvalidCaller = errors.New("invalid caller id")
	// ErrMemberNotFound signals a missing member profile.
	ErrMemberNotFound = errors.New("member not found")
	// ErrRetrievalUnavailable signals that both retrieval branches failed.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals a completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
	// ErrMalformedCompletion signals a completion that could not be parsed.
	ErrMalformedCompletion = errors.New("malformed completion output")
)
