package round

import (
	"math/rand/v2"
	"slices"
)

// Shuffle returns a uniformly random permutation of s (Fisher–Yates).
// The input slice is not modified.
func Shuffle[T any](s []T, r *rand.Rand) []T {
	out := slices.Clone(s)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
