package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/commonbase/store"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	t.Run("lookup before create", func(t *testing.T) {
		_, err := s.GetUser(ctx, "u1")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("create then lookup", func(t *testing.T) {
		require.NoError(t, s.CreateUser(ctx, "u1", "Alice"))

		user, err := s.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.DisplayName)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("create is idempotent per platform id", func(t *testing.T) {
		require.NoError(t, s.CreateUser(ctx, "u1", "Somebody Else"))

		user, err := s.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.DisplayName)
	})

	t.Run("rename", func(t *testing.T) {
		require.NoError(t, s.RenameUser(ctx, "u1", "Alicia"))

		user, err := s.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Alicia", user.DisplayName)
	})

	t.Run("rename unknown user", func(t *testing.T) {
		err := s.RenameUser(ctx, "ghost", "Boo")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSearchSimilar(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.CreateUser(ctx, "u1", "Alice"))

	exact := []float32{1, 0, 0}
	near := []float32{0.9, 0.1, 0}
	far := []float32{0, 1, 0}

	_, err := s.InsertRecord(ctx, "u1", "exact", exact)
	require.NoError(t, err)
	_, err = s.InsertRecord(ctx, "u1", "near", near)
	require.NoError(t, err)
	_, err = s.InsertRecord(ctx, "u1", "far", far)
	require.NoError(t, err)

	t.Run("best first", func(t *testing.T) {
		matches, err := s.SearchSimilar(ctx, exact, 0.5, 3)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "exact", matches[0].Record.Content)
		assert.Equal(t, "near", matches[1].Record.Content)
		assert.Greater(t, matches[0].Score, matches[1].Score)
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		// self-similarity is exactly 1.0
		matches, err := s.SearchSimilar(ctx, exact, 1.0, 1)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "exact", matches[0].Record.Content)
		assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	})

	t.Run("nothing above threshold", func(t *testing.T) {
		matches, err := s.SearchSimilar(ctx, far, 0.5, 1)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "far", matches[0].Record.Content)

		matches, err = s.SearchSimilar(ctx, []float32{0, 0, 1}, 0.5, 1)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("limit respected", func(t *testing.T) {
		matches, err := s.SearchSimilar(ctx, exact, 0.0, 1)
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})
}

func TestRandomRecordIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.CreateUser(ctx, "u1", "Alice"))

	t.Run("empty corpus", func(t *testing.T) {
		ids, err := s.RandomRecordIDs(ctx, 3)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	_, err := s.InsertRecord(ctx, "u1", "one", []float32{1, 0})
	require.NoError(t, err)
	_, err = s.InsertRecord(ctx, "u1", "two", []float32{0, 1})
	require.NoError(t, err)

	t.Run("fewer than requested on a small corpus", func(t *testing.T) {
		ids, err := s.RandomRecordIDs(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})

	t.Run("fetch by ids round-trips", func(t *testing.T) {
		ids, err := s.RandomRecordIDs(ctx, 2)
		require.NoError(t, err)

		records, err := s.GetRecordsByIDs(ctx, ids)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("unknown ids are skipped", func(t *testing.T) {
		records, err := s.GetRecordsByIDs(ctx, []string{"nope"})
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
