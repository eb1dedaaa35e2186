package engine

import (
	"math"
	"math/rand"

	"github.com/nathoo/conceptc/types"
)

// RNG wraps math/rand.Rand with deterministic position tracking.
// Every draw consumes exactly one value from the source, so a seed and a
// position fully describe the state.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// intn returns a value in [0, n).
func (r *RNG) intn(n int) int {
	r.pos++
	return int(uint64(r.src.Int63()) % uint64(n))
}

// Roll returns a random integer in [1, sides]. Sides below 1 roll 1.
func (r *RNG) Roll(sides int) int {
	if sides < 1 {
		sides = 1
	}
	return r.intn(sides) + 1
}

// Pick returns a random index into a slice of length n, or -1 when n is 0.
func (r *RNG) Pick(n int) int {
	if n <= 0 {
		return -1
	}
	return r.intn(n)
}

// RollDuration returns a value in the inclusive range d. An inverted range
// is rolled between its smaller and larger bound.
func (r *RNG) RollDuration(d types.Duration) int {
	lo, hi := d.Min, d.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	// The width is computed in uint64 so {MinInt, MaxInt} cannot overflow.
	span := uint64(hi) - uint64(lo)
	r.pos++
	v := uint64(r.src.Int63())
	if span < math.MaxUint64 {
		v %= span + 1
	}
	return lo + int(v)
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of RNG calls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// RestoreRNG creates an RNG and advances it to the given position.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	rng.pos = position
	return rng
}
