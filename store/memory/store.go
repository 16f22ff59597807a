package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/commonbase/store"
)

type memoryStore struct {
	options store.Options
	users   map[string]store.User
	records map[string]store.Record
	mtx     sync.RWMutex
}

func (s *memoryStore) GetUser(ctx context.Context, id string) (*store.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, store.ErrNotFound
	}

	cpy := user

	return &cpy, nil
}

func (s *memoryStore) CreateUser(ctx context.Context, id string, displayName string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.users[id]; exists {
		return nil
	}

	s.users[id] = store.User{
		ID:          id,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	return nil
}

func (s *memoryStore) RenameUser(ctx context.Context, id string, displayName string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	user, exists := s.users[id]
	if !exists {
		return store.ErrNotFound
	}

	user.DisplayName = displayName
	s.users[id] = user

	return nil
}

func (s *memoryStore) InsertRecord(ctx context.Context, ownerID string, content string, embedding []float32) (*store.Record, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	cpy := make([]float32, len(embedding))
	copy(cpy, embedding)

	rec := store.Record{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Content:   content,
		Embedding: cpy,
		CreatedAt: time.Now().UTC(),
	}

	s.records[rec.ID] = rec

	return &rec, nil
}

func (s *memoryStore) SearchSimilar(ctx context.Context, vector []float32, threshold float64, limit int) ([]store.Match, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	candidates := make([]store.Match, 0, len(s.records))

	for _, rec := range s.records {
		score := store.CosineSimilarity(vector, rec.Embedding)
		if score < threshold {
			continue
		}
		candidates = append(candidates, store.Match{Record: rec, Score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

func (s *memoryStore) RandomRecordIDs(ctx context.Context, count int) ([]string, error) {
	if count < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}

	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	if len(ids) > count {
		ids = ids[:count]
	}

	return ids, nil
}

func (s *memoryStore) GetRecordsByIDs(ctx context.Context, ids []string) ([]store.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var records []store.Record

	for _, id := range ids {
		if rec, exists := s.records[id]; exists {
			records = append(records, rec)
		}
	}

	return records, nil
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		users:   map[string]store.User{},
		records: map[string]store.Record{},
		mtx:     sync.RWMutex{},
	}

	return s
}
