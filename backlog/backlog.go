package backlog

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Query is one free-text message that found no match, kept so the user can
// retry it with a wider search. Text is always the literal message, never a
// command.
type Query struct {
	OwnerID    string
	Text       string
	EnqueuedAt time.Time
}

// Buffer keeps an ordered, per-owner backlog of unanswered queries in
// process memory. Entries do not survive a restart; the periodic sweep wipes
// every owner at once. Safe for concurrent use; no I/O ever happens while
// the lock is held, so unrelated owners never wait on each other's handlers.
type Buffer struct {
	options Options
	entries map[string][]Query
	mtx     sync.Mutex
}

// Push appends text as the most recent unanswered query for ownerID.
func (b *Buffer) Push(ownerID string, text string) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.entries[ownerID] = append(b.entries[ownerID], Query{
		OwnerID:    ownerID,
		Text:       text,
		EnqueuedAt: time.Now().UTC(),
	})
}

// PopLatest removes and returns the most recently pushed query for ownerID.
// The second return is false when the owner has no entries.
func (b *Buffer) PopLatest(ownerID string) (Query, bool) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	queue := b.entries[ownerID]
	if len(queue) == 0 {
		return Query{}, false
	}

	last := queue[len(queue)-1]

	queue = queue[:len(queue)-1]
	if len(queue) == 0 {
		delete(b.entries, ownerID)
	} else {
		b.entries[ownerID] = queue
	}

	return last, true
}

// Len reports how many queries ownerID has buffered.
func (b *Buffer) Len(ownerID string) int {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return len(b.entries[ownerID])
}

// ClearAll empties the backlog for every owner. Ordering against concurrent
// pushes is lock-acquisition order: anything buffered before the sweep takes
// the lock is dropped, a push serialized after it survives until the next
// sweep.
func (b *Buffer) ClearAll() {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.entries = map[string][]Query{}
}

// Start runs the sweep on the configured interval until ctx is cancelled.
func (b *Buffer) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(b.options.TTL)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.ClearAll()
				slog.InfoContext(ctx, "cleared pending query backlog", "ttl", b.options.TTL)
			}
		}
	}()
}

func NewBuffer(opts ...Option) *Buffer {
	options := NewOptions(opts...)

	b := &Buffer{
		options: options,
		entries: map[string][]Query{},
		mtx:     sync.Mutex{},
	}

	return b
}
