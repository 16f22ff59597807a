package engine

import "errors"

var (
	// ErrEmbeddingUnavailable reports that the embedding provider failed or
	// timed out. Not retried automatically.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrStoreRead reports a persistence-layer read failure. Never swallowed
	// as an empty result.
	ErrStoreRead = errors.New("store read failed")

	// ErrStoreWrite reports a persistence-layer write failure.
	ErrStoreWrite = errors.New("store write failed")
)
