package pcg

import "errors"

// ErrStreamMismatch is returned by Distance when the two generators carry
// different increments and therefore walk different streams. Distance is
// only defined along a single stream.
var ErrStreamMismatch = errors.New("pcg: generators are on different streams")

// Advance moves the state forward (positive delta) or backward (negative
// delta) by |delta| steps in O(log |delta|) word operations, without
// performing the intermediate draws.
//
// Backward movement wraps the full 64-bit modulus the long way round: the
// state space is a cyclic group under the affine map, so advancing by the
// two's-complement image of a negative delta is exact. Advance(k) followed
// by Advance(-k) restores the state bit for bit.
func (g *PCG32) Advance(delta int64) {
	g.state = advanceLCG(g.state, uint64(delta), Multiplier, g.increment)
}

// advanceLCG applies the affine map state' = mult*state + plus delta times
// by fast exponentiation over the binary digits of delta, per Brown's
// "Random Number Generation with Arbitrary Strides". Doubling the map k
// squares the multiplier and folds the additive term, so the whole jump
// costs at most 64 iterations.
func advanceLCG(state, delta, curMult, curPlus uint64) uint64 {
	accMult := uint64(1)
	accPlus := uint64(0)
	for delta != 0 {
		if delta&1 != 0 {
			accMult *= curMult
			accPlus = accPlus*curMult + curPlus
		}
		curPlus = (curMult + 1) * curPlus
		curMult *= curMult
		delta >>= 1
	}
	return accMult*state + accPlus
}

// Distance returns the signed number of steps g must advance to reach o's
// current state, so g.Advance(d) with d = g.Distance(o) makes the two
// generators equal. A negative result means o is behind g. The two
// generators must share an increment; there is no other way to detect that
// two states belong to different streams.
//
// The search bisects on one bit of the working state at a time while the
// affine coefficients for "advance 2^i steps" are doubled alongside, fixing
// the bits of the distance from least significant upward. Once bit i of the
// working state matches the target it can never be disturbed by advances of
// 2^j for j > i, so the loop pins all 64 bits in at most 64 iterations.
func (g *PCG32) Distance(o *PCG32) (int64, error) {
	if g.increment != o.increment {
		return 0, ErrStreamMismatch
	}
	curState := g.state
	curMult := uint64(Multiplier)
	curPlus := g.increment
	var dist uint64
	for bit := uint64(1); bit != 0 && curState != o.state; bit <<= 1 {
		if (o.state & bit) != (curState & bit) {
			curState = curState*curMult + curPlus
			dist |= bit
		}
		curPlus = (curMult + 1) * curPlus
		curMult *= curMult
	}
	return int64(dist), nil
}
