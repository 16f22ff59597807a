package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleReturnsDistinctElements(t *testing.T) {
	pool := []int{10, 20, 30, 40, 50, 60, 70}

	picked := Sample(pool, 3)
	require.Len(t, picked, 3)

	seen := map[int]bool{}
	for _, v := range picked {
		assert.Contains(t, pool, v)
		assert.False(t, seen[v], "element %d picked twice", v)
		seen[v] = true
	}
}

func TestSampleSmallPool(t *testing.T) {
	t.Run("pool smaller than k", func(t *testing.T) {
		pool := []string{"a", "b"}
		picked := Sample(pool, 3)
		assert.ElementsMatch(t, pool, picked)
	})

	t.Run("pool equal to k", func(t *testing.T) {
		pool := []string{"a", "b", "c"}
		picked := Sample(pool, 3)
		assert.ElementsMatch(t, pool, picked)
	})

	t.Run("empty pool", func(t *testing.T) {
		picked := Sample([]string{}, 3)
		assert.Empty(t, picked)
	})

	t.Run("non-positive k", func(t *testing.T) {
		picked := Sample([]string{"a", "b"}, 0)
		assert.Empty(t, picked)

		picked = Sample([]string{"a", "b"}, -1)
		assert.Empty(t, picked)
	})
}

func TestSampleDoesNotMutatePool(t *testing.T) {
	pool := []int{1, 2, 3, 4, 5}

	Sample(pool, 2)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, pool)
}

func TestSampleDuplicateValues(t *testing.T) {
	// sampling is by position, duplicate values must not confuse it
	pool := []string{"dup", "dup", "dup", "dup"}

	picked := Sample(pool, 2)
	require.Len(t, picked, 2)
}

func TestSampleUniformity(t *testing.T) {
	const (
		n      = 10
		k      = 3
		trials = 30000
	)

	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	counts := make([]int, n)
	for i := 0; i < trials; i++ {
		for _, v := range Sample(pool, k) {
			counts[v]++
		}
	}

	// each element should appear with frequency ~ k/n
	expected := float64(k) / float64(n)
	for i, c := range counts {
		freq := float64(c) / float64(trials)
		assert.InDelta(t, expected, freq, 0.02, "element %d drifted from uniform", i)
	}
}
