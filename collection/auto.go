package collection

import (
	"github.com/lox/randstream/internal/tensor"
	"github.com/lox/randstream/pcg"
)

// Auto holds either a single generator or a collection, selected by the
// rank of the seed array it was built from: rank 0 yields a scalar
// generator, rank >= 1 a collection. It is a convenience layer over the two
// representations, not a third behavior; its methods dispatch to whichever
// is populated and keep the collection's broadcast semantics (a scalar's
// "outer shape" is empty).
type Auto struct {
	gen  *pcg.PCG32
	coll *Collection
}

// FromSeeds builds an Auto from a seed array, with default sequence
// selectors.
func FromSeeds(initstates *tensor.U64) (*Auto, error) {
	return fromSeeds(initstates, nil)
}

// FromSeedsWithSeq builds an Auto from paired seed and sequence arrays of
// identical shape.
func FromSeedsWithSeq(initstates, initseqs *tensor.U64) (*Auto, error) {
	if !tensor.SameShape(initstates.Shape(), initseqs.Shape()) {
		return nil, ErrShapeMismatch
	}
	return fromSeeds(initstates, initseqs)
}

func fromSeeds(initstates, initseqs *tensor.U64) (*Auto, error) {
	if initstates.Rank() == 0 {
		seq := uint64(pcg.DefaultSeq)
		if initseqs != nil {
			seq = initseqs.Data()[0]
		}
		return &Auto{gen: pcg.New(initstates.Data()[0], seq)}, nil
	}
	var seqs []uint64
	if initseqs != nil {
		seqs = initseqs.Data()
	}
	coll, err := NewOf(Dyn(initstates.Shape()), initstates.Data(), seqs)
	if err != nil {
		return nil, err
	}
	return &Auto{coll: coll}, nil
}

// IsScalar reports whether the Auto wraps a single generator.
func (a *Auto) IsScalar() bool { return a.gen != nil }

// Gen returns the underlying scalar generator, or nil for collections.
func (a *Auto) Gen() *pcg.PCG32 { return a.gen }

// Coll returns the underlying collection, or nil for scalars.
func (a *Auto) Coll() *Collection { return a.coll }

// Shape returns the outer shape: empty for a scalar.
func (a *Auto) Shape() []int {
	if a.gen != nil {
		return nil
	}
	return a.coll.Shape()
}

// Size returns the number of cells: 1 for a scalar.
func (a *Auto) Size() int {
	if a.gen != nil {
		return 1
	}
	return a.coll.Size()
}

// Random draws an array of shape Shape() ++ inner.
func (a *Auto) Random(inner ...int) *tensor.F64 {
	if a.gen != nil {
		return a.gen.Random(inner...)
	}
	return a.coll.Random(inner...)
}

// Weibull draws Weibull variates of shape Shape() ++ inner.
func (a *Auto) Weibull(k, lambda float64, inner ...int) (*tensor.F64, error) {
	if a.gen != nil {
		return a.gen.Weibull(k, lambda, inner...)
	}
	return a.coll.Weibull(k, lambda, inner...)
}

// Exponential draws Exponential variates of shape Shape() ++ inner.
func (a *Auto) Exponential(lambda float64, inner ...int) (*tensor.F64, error) {
	if a.gen != nil {
		return a.gen.Exponential(lambda, inner...)
	}
	return a.coll.Exponential(lambda, inner...)
}

// Normal draws Normal variates of shape Shape() ++ inner.
func (a *Auto) Normal(mu, sigma float64, inner ...int) (*tensor.F64, error) {
	if a.gen != nil {
		return a.gen.Normal(mu, sigma, inner...)
	}
	return a.coll.Normal(mu, sigma, inner...)
}

// States returns the current state array of shape Shape().
func (a *Auto) States() *tensor.U64 {
	if a.gen != nil {
		out := tensor.New[uint64]()
		out.Data()[0] = a.gen.State()
		return out
	}
	return a.coll.States()
}

// InitStates returns the seed array of shape Shape().
func (a *Auto) InitStates() *tensor.U64 {
	if a.gen != nil {
		out := tensor.New[uint64]()
		out.Data()[0] = a.gen.InitState()
		return out
	}
	return a.coll.InitStates()
}

// InitSeqs returns the sequence-selector array of shape Shape().
func (a *Auto) InitSeqs() *tensor.U64 {
	if a.gen != nil {
		out := tensor.New[uint64]()
		out.Data()[0] = a.gen.InitSeq()
		return out
	}
	return a.coll.InitSeqs()
}

// Restore overwrites states from an array of shape Shape().
func (a *Auto) Restore(states *tensor.U64) error {
	if a.gen != nil {
		if states.Rank() != 0 {
			return ErrShapeMismatch
		}
		a.gen.Restore(states.Data()[0])
		return nil
	}
	return a.coll.Restore(states)
}

// Advance jumps cells by per-cell deltas of shape Shape().
func (a *Auto) Advance(deltas *tensor.I64) error {
	if a.gen != nil {
		if deltas.Rank() != 0 {
			return ErrShapeMismatch
		}
		a.gen.Advance(deltas.Data()[0])
		return nil
	}
	return a.coll.Advance(deltas)
}

// AdvanceAll jumps every cell by the same signed delta.
func (a *Auto) AdvanceAll(delta int64) {
	if a.gen != nil {
		a.gen.Advance(delta)
		return
	}
	a.coll.AdvanceAll(delta)
}

// DistanceStates returns per-cell signed step counts to a state array of
// shape Shape().
func (a *Auto) DistanceStates(states *tensor.U64) (*tensor.I64, error) {
	if a.gen != nil {
		if states.Rank() != 0 {
			return nil, ErrShapeMismatch
		}
		target := pcg.New(a.gen.InitState(), a.gen.InitSeq())
		target.Restore(states.Data()[0])
		d, err := a.gen.Distance(target)
		if err != nil {
			return nil, err
		}
		out := tensor.New[int64]()
		out.Data()[0] = d
		return out, nil
	}
	return a.coll.DistanceStates(states)
}
