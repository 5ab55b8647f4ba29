package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// TickRNG returns an independent stream for one pass of one tick. The same
// (seed, tick, stream) triple always yields the same sequence, so a tick can
// be replayed without carrying generator state across ticks.
func TickRNG(seed int64, tick uint64, stream uint8) *RNG {
	hi := uint64(seed) ^ 0x9e3779b97f4a7c15
	lo := tick<<8 | uint64(stream)
	return &RNG{r: rand.New(rand.NewPCG(hi, lo))}
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Chance reports true with probability pct/100. Values outside [0,100] clamp.
func (r *RNG) Chance(pct int) bool {
	if pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	return r.r.IntN(100) < pct
}

// IntRange returns an int in the inclusive range [lo, hi].
func (r *RNG) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.r.IntN(hi-lo+1)
}

// Uint8 returns a uniformly distributed byte.
func (r *RNG) Uint8() uint8 {
	return uint8(r.r.Uint32())
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
