// Package pcg implements the PCG32 (XSH-RR) pseudorandom number generator
// with exact cross-platform reproducibility, O(log n) jump-ahead/jump-back
// and O(log n) signed distance between states on the same stream.
//
// A PCG32 walks one of 2^63 non-overlapping streams selected by its
// sequence number; its 64-bit state can be read, checkpointed and restored
// at any point without replaying draws.
package pcg

import (
	"errors"
	"math"
	"math/bits"
)

const (
	// Multiplier is the LCG multiplier shared by every PCG32 stream.
	Multiplier = 6364136223846793005

	// DefaultState and DefaultSeq are the reference seed constants from the
	// published PCG algorithm. Generators built with them reproduce the
	// historic reference sequence.
	DefaultState = 0x853c49e6748fea9b
	DefaultSeq   = 0xda3e39cb94b95bdb
)

// ErrZeroBound is returned by Uint32n when given a zero bound. The reference
// algorithm loops forever on it; we reject it instead.
var ErrZeroBound = errors.New("pcg: bounded draw requires bound > 0")

// PCG32 is a single-stream PCG generator with 64 bits of state and 32-bit
// output. The zero value is not seeded; use New, Default, or Seed.
//
// A PCG32 is a self-contained mutable value. Concurrent use of one instance
// from multiple goroutines is not supported; distinct instances are fully
// independent.
type PCG32 struct {
	state     uint64
	increment uint64
	initstate uint64
	initseq   uint64
}

// New returns a generator seeded with the given stream offset and sequence
// selector.
func New(initstate, initseq uint64) *PCG32 {
	g := &PCG32{}
	g.Seed(initstate, initseq)
	return g
}

// Default returns a generator seeded with the reference constants.
func Default() *PCG32 {
	return New(DefaultState, DefaultSeq)
}

// Seed reinitialises the generator. The increment becomes (initseq<<1)|1 —
// always odd, as the full-period recurrence requires — and the state is
// warmed up with the two-step PCG construction that decorrelates seed and
// sequence.
func (g *PCG32) Seed(initstate, initseq uint64) {
	g.initstate = initstate
	g.initseq = initseq
	g.increment = (initseq << 1) | 1
	g.state = 0
	g.step()
	g.state += initstate
	g.step()
}

// step advances the linear-congruential recurrence by one.
func (g *PCG32) step() {
	g.state = g.state*Multiplier + g.increment
}

// Uint32 draws the next value: the XSH-RR output permutation of the current
// state, advancing the state by exactly one step.
func (g *PCG32) Uint32() uint32 {
	old := g.state
	g.step()
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// Uint32n draws a value uniform on [0, bound) by threshold rejection: raw
// draws below (-bound) mod bound are discarded, so the reduction never
// biases toward low residues the way masking or plain modulo would.
func (g *PCG32) Uint32n(bound uint32) (uint32, error) {
	if bound == 0 {
		return 0, ErrZeroBound
	}
	threshold := -bound % bound
	for {
		v := g.Uint32()
		if v >= threshold {
			return v % bound, nil
		}
	}
}

// Float64 draws a double uniform on [0, 1) with 32 bits of precision. The
// draw is packed into the mantissa of a double in [1, 2) and shifted down,
// so every drawn bit pattern is exactly representable and no rejection
// branch is needed.
func (g *PCG32) Float64() float64 {
	u := uint64(g.Uint32())
	return math.Float64frombits(1023<<52|u<<20) - 1.0
}

// Float32 draws a float uniform on [0, 1) with 23 bits of precision, via the
// same [1, 2) mantissa-packing construction.
func (g *PCG32) Float32() float32 {
	u := g.Uint32()
	return math.Float32frombits(127<<23|u>>9) - 1.0
}

// State returns the current 64-bit state. Together with the seed pair it is
// a complete checkpoint of the generator.
func (g *PCG32) State() uint64 { return g.state }

// InitState returns the seed value the stream was initialised with.
func (g *PCG32) InitState() uint64 { return g.initstate }

// InitSeq returns the sequence selector the stream was initialised with.
func (g *PCG32) InitSeq() uint64 { return g.initseq }

// Restore unconditionally overwrites the state. Any 64-bit value is a valid
// state, so no validation is possible; the caller is responsible for
// supplying a checkpoint taken from the same stream.
func (g *PCG32) Restore(state uint64) {
	g.state = state
}

// Equal reports whether two generators are at the same point of the same
// stream. It deliberately compares only (state, increment) — not the seed —
// so two generators restored to one state from different initstate values
// compare equal. This matches the reference semantics.
func (g *PCG32) Equal(o *PCG32) bool {
	return g.state == o.state && g.increment == o.increment
}
