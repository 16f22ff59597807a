package backlog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushThenPopLatest(t *testing.T) {
	b := NewBuffer()

	b.Push("owner-1", "first question")
	b.Push("owner-1", "second question")

	q, ok := b.PopLatest("owner-1")
	require.True(t, ok)
	assert.Equal(t, "second question", q.Text)
	assert.Equal(t, "owner-1", q.OwnerID)
	assert.False(t, q.EnqueuedAt.IsZero())

	q, ok = b.PopLatest("owner-1")
	require.True(t, ok)
	assert.Equal(t, "first question", q.Text)

	_, ok = b.PopLatest("owner-1")
	assert.False(t, ok)
}

func TestPopLatestEmptyOwner(t *testing.T) {
	b := NewBuffer()

	_, ok := b.PopLatest("never-pushed")
	assert.False(t, ok)
}

func TestOwnersDoNotInterfere(t *testing.T) {
	b := NewBuffer()

	b.Push("owner-a", "from a")
	b.Push("owner-b", "from b")

	q, ok := b.PopLatest("owner-a")
	require.True(t, ok)
	assert.Equal(t, "from a", q.Text)

	assert.Equal(t, 1, b.Len("owner-b"))
}

func TestClearAllEmptiesEveryOwner(t *testing.T) {
	b := NewBuffer()

	b.Push("owner-a", "one")
	b.Push("owner-b", "two")
	b.Push("owner-c", "three")

	b.ClearAll()

	for _, owner := range []string{"owner-a", "owner-b", "owner-c"} {
		_, ok := b.PopLatest(owner)
		assert.False(t, ok, "owner %s should be empty", owner)
	}
}

func TestConcurrentPushes(t *testing.T) {
	b := NewBuffer()

	const owners = 8
	const perOwner = 50

	var wg sync.WaitGroup
	for i := 0; i < owners; i++ {
		owner := fmt.Sprintf("owner-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perOwner; j++ {
				b.Push(owner, fmt.Sprintf("query-%d", j))
			}
		}()
	}
	wg.Wait()

	for i := 0; i < owners; i++ {
		owner := fmt.Sprintf("owner-%d", i)
		assert.Equal(t, perOwner, b.Len(owner))

		// last pushed is first popped
		q, ok := b.PopLatest(owner)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("query-%d", perOwner-1), q.Text)
	}
}

func TestJanitorSweepsEverything(t *testing.T) {
	b := NewBuffer(WithTTL(20 * time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b.Push("owner-1", "about to be forgotten")
	b.Push("owner-2", "also gone")

	b.Start(ctx)

	require.Eventually(t, func() bool {
		return b.Len("owner-1") == 0 && b.Len("owner-2") == 0
	}, time.Second, 10*time.Millisecond)
}
