package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
// It is intended for Reset-time world generation; per-tick randomness must use the
// stateless hash functions below so that a tick depends only on its inputs.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// IntN returns a random int in [0, n).
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Float64 returns a random float64 in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }

// Mix64 is a splitmix64 finalizer. It turns a structured input (coordinates,
// tick counters) into a well-distributed 64-bit value.
func Mix64(v uint64) uint64 {
	v += 0x9e3779b97f4a7c15
	v = (v ^ (v >> 30)) * 0xbf58476d1ce4e5b9
	v = (v ^ (v >> 27)) * 0x94d049bb133111eb
	return v ^ (v >> 31)
}

// Hash2 hashes a 2D position together with a seed into a 64-bit value.
// Equal inputs always produce equal outputs; there is no hidden state.
func Hash2(x, y int, seed uint64) uint64 {
	return Mix64(uint64(int64(x)) ^ Mix64(uint64(int64(y))^seed))
}

// Unit maps a position and seed to a float64 in [0, 1).
func Unit(x, y int, seed uint64) float64 {
	return float64(Hash2(x, y, seed)>>11) / float64(1<<53)
}

// Coin maps a position and seed to a boolean with probability 1/2.
func Coin(x, y int, seed uint64) bool {
	return Hash2(x, y, seed)&1 == 1
}
