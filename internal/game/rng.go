package game

import (
	"hash/fnv"
	"math/rand"
)

// NewRNG builds a deterministic random source from a seed string, so tests
// and replays can pin the exact spawn and shape sequence.
func NewRNG(seed string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
