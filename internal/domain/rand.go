package domain

import (
	"math/rand"
	"time"
)

// Rand is the randomness used for role dealing and tie-breaks. *math/rand.Rand
// satisfies it; tests substitute a fixed-sequence source to pin tie-break
// outcomes.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a time-seeded randomness source
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
