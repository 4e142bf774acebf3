// Package randutil derives reproducible random sources from seeds.
package randutil

import (
	"hash/fnv"
	rand "math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// DeriveSeed mixes a base seed with a label so that several players started
// from one seed get independent, reproducible streams.
func DeriveSeed(seed int64, label string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(label))
	return int64(mix(uint64(seed) ^ h.Sum64()))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
