package engine

import "math/rand/v2"

// Random is the randomness source used by computer placement. *rand.Rand
// from math/rand/v2 satisfies it.
type Random interface {
	// IntN returns a uniform value in [0, n)
	IntN(n int) int
}

// NewRandom returns a deterministic PCG-backed source for the given seed
func NewRandom(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// NewSeed draws a fresh seed from the runtime's global generator
func NewSeed() int64 {
	return rand.Int64()
}

// intBetween returns a uniform value in [lo, hi]
func intBetween(rng Random, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
