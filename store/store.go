package store

import (
	"context"
	"errors"
)

// ErrNotFound reports that a lookup matched nothing. It is an expected
// condition for user lookups, not a failure.
var ErrNotFound = errors.New("not found")

// Store holds the shared corpus: one row per user, append-only records with
// their embeddings. Similarity thresholds are always supplied by the caller;
// the store never applies a policy of its own.
type Store interface {
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, id string, displayName string) error
	RenameUser(ctx context.Context, id string, displayName string) error
	InsertRecord(ctx context.Context, ownerID string, content string, embedding []float32) (*Record, error)
	SearchSimilar(ctx context.Context, vector []float32, threshold float64, limit int) ([]Match, error)
	RandomRecordIDs(ctx context.Context, count int) ([]string, error)
	GetRecordsByIDs(ctx context.Context, ids []string) ([]Record, error)
}
