package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from seed, so a shuffle
// sequence can be replayed by reusing the seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns seed unchanged unless it is zero, in which case a seed is
// derived from the current time.
func Seed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	s := int64(mix(uint64(time.Now().UnixNano())) >> 1)
	if s == 0 {
		s = 1
	}
	return s
}

// Derive returns the seed for the n-th independent stream of a base seed.
func Derive(base int64, n int) int64 {
	return int64(mix(uint64(base)+uint64(n)*goldenRatio64) >> 1)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
