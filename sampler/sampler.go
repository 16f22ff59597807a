package sampler

import "math/rand"

// Sample returns k elements of pool chosen uniformly at random without
// replacement, via Fisher-Yates over a copy. Selection is by position, so
// pools with duplicate values are fine. When the pool has k or fewer
// elements the whole pool is returned.
func Sample[T any](pool []T, k int) []T {
	cpy := append([]T(nil), pool...)

	if k >= len(cpy) {
		return cpy
	}

	if k < 0 {
		k = 0
	}

	rand.Shuffle(len(cpy), func(i, j int) {
		cpy[i], cpy[j] = cpy[j], cpy[i]
	})

	return cpy[:k]
}
