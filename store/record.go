package store

import "time"

// User is a chat participant, keyed by the opaque platform identifier.
type User struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time
}

// Record is one contributed text entry. Immutable once inserted; the
// embedding is produced exactly once from Content at insertion time.
type Record struct {
	ID        string
	OwnerID   string
	Content   string
	Embedding []float32
	CreatedAt time.Time
}

// Match pairs a record with its similarity score in [0,1], best first.
type Match struct {
	Record Record
	Score  float64
}
