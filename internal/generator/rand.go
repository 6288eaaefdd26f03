// Package generator builds the deterministic synthetic customer roster.
package generator

import "math"

// Rand is a mulberry32 pseudo-random stream. It is small, fast and fully
// determined by its 32-bit seed, so the same seed always produces the same
// roster. A Rand is not safe for concurrent use.
type Rand struct {
	state uint32
}

// NewRand returns a stream seeded with seed. Only the low 32 bits are used.
func NewRand(seed int) *Rand {
	return &Rand{state: uint32(seed)}
}

// Float64 returns the next value in [0, 1).
func (r *Rand) Float64() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296.0
}

// Intn returns floor(Float64() * n), a value in [0, n).
func (r *Rand) Intn(n int) int {
	return int(math.Floor(r.Float64() * float64(n)))
}
