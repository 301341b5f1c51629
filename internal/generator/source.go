package generator

import (
	"math/rand/v2"
	"time"
)

// Source produces uniformly distributed integers.
type Source interface {
	// IntRange returns an integer in [lo, hi], both inclusive.
	IntRange(lo, hi int) int
}

// SeededSource is a Source backed by a PCG generator. It is not safe for
// concurrent use.
type SeededSource struct {
	rng  *rand.Rand
	seed int64
}

// NewSource returns a seeded source. A zero seed picks one from the clock;
// Seed reports the value actually used so a run can be reproduced.
func NewSource(seed int64) *SeededSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SeededSource{
		rng:  rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed returns the seed the source was created with
func (s *SeededSource) Seed() int64 {
	return s.seed
}

func (s *SeededSource) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}
