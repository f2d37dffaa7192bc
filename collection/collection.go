// Package collection provides shape-indexed collections of independent
// PCG32 generators. A collection owns one generator per logical cell in a
// row-major layout and broadcasts draws, distribution transforms and state
// operations across its cells, producing arrays whose leading axes
// enumerate the generators.
package collection

import (
	"errors"
	"fmt"

	"github.com/lox/randstream/internal/tensor"
	"github.com/lox/randstream/pcg"
)

// ErrShapeMismatch is returned when a paired input array does not match the
// collection's shape.
var ErrShapeMismatch = errors.New("collection: shape mismatch")

// ErrOutOfBounds is returned by At and AtIndex for indices outside the
// collection.
var ErrOutOfBounds = errors.New("collection: index out of bounds")

// Store abstracts how a collection stores its shape: growable for
// dynamic-rank collections, array-backed for collections whose rank is
// known at compile time. Both expose the identical contract.
type Store interface {
	Dims() []int
}

// Dyn stores a shape of any rank.
type Dyn []int

// Dims returns the dimensions.
func (d Dyn) Dims() []int { return d }

// Fixed1, Fixed2 and Fixed3 store shapes of compile-time known rank.
type (
	Fixed1 [1]int
	Fixed2 [2]int
	Fixed3 [3]int
)

// Dims returns the dimensions.
func (f Fixed1) Dims() []int { return f[:] }

// Dims returns the dimensions.
func (f Fixed2) Dims() []int { return f[:] }

// Dims returns the dimensions.
func (f Fixed3) Dims() []int { return f[:] }

// Of is a shape-indexed collection of independent generators, generic over
// its shape storage. Which streams it samples is fixed at construction by
// the seed arrays; only the per-cell states are mutable afterwards.
type Of[S Store] struct {
	shape   S
	strides []int
	size    int
	gens    []pcg.PCG32
}

// Collection is the dynamic-rank collection most callers want.
type Collection = Of[Dyn]

// NewOf builds a collection with explicit shape storage. initstates must
// hold one seed per cell in row-major order; initseqs may be nil, in which
// case every cell uses pcg.DefaultSeq, or must match initstates in length.
func NewOf[S Store](shape S, initstates, initseqs []uint64) (*Of[S], error) {
	dims := shape.Dims()
	size := tensor.Size(dims)
	if len(initstates) != size {
		return nil, fmt.Errorf("%w: %d seeds for shape %v (want %d)", ErrShapeMismatch, len(initstates), dims, size)
	}
	if initseqs != nil && len(initseqs) != len(initstates) {
		return nil, fmt.Errorf("%w: %d initseq values for %d initstate values", ErrShapeMismatch, len(initseqs), len(initstates))
	}

	c := &Of[S]{
		shape:   shape,
		strides: tensor.Strides(dims),
		size:    size,
		gens:    make([]pcg.PCG32, size),
	}
	for i := range c.gens {
		seq := uint64(pcg.DefaultSeq)
		if initseqs != nil {
			seq = initseqs[i]
		}
		c.gens[i].Seed(initstates[i], seq)
	}
	return c, nil
}

// New builds a dynamic-rank collection shaped like the initstate array,
// with the default sequence selector in every cell.
func New(initstates *tensor.U64) (*Collection, error) {
	return NewOf(Dyn(initstates.Shape()), initstates.Data(), nil)
}

// NewWithSeq builds a dynamic-rank collection from paired initstate and
// initseq arrays, which must have identical shapes.
func NewWithSeq(initstates, initseqs *tensor.U64) (*Collection, error) {
	if !tensor.SameShape(initstates.Shape(), initseqs.Shape()) {
		return nil, fmt.Errorf("%w: initstate shape %v, initseq shape %v", ErrShapeMismatch, initstates.Shape(), initseqs.Shape())
	}
	return NewOf(Dyn(initstates.Shape()), initstates.Data(), initseqs.Data())
}

// Shape returns the collection's dimensions. Callers must not mutate it.
func (c *Of[S]) Shape() []int { return c.shape.Dims() }

// Rank returns the number of dimensions.
func (c *Of[S]) Rank() int { return len(c.shape.Dims()) }

// Size returns the number of cells.
func (c *Of[S]) Size() int { return c.size }

// At returns the generator at a flat row-major index.
func (c *Of[S]) At(flat int) (*pcg.PCG32, error) {
	if flat < 0 || flat >= c.size {
		return nil, fmt.Errorf("%w: flat index %d for size %d", ErrOutOfBounds, flat, c.size)
	}
	return &c.gens[flat], nil
}

// AtIndex returns the generator at a multi-index, which must have exactly
// one entry per collection dimension.
func (c *Of[S]) AtIndex(idx ...int) (*pcg.PCG32, error) {
	dims := c.shape.Dims()
	if len(idx) != len(dims) {
		return nil, fmt.Errorf("%w: got %d indices for rank %d", ErrShapeMismatch, len(idx), len(dims))
	}
	flat := 0
	for i, ix := range idx {
		if ix < 0 || ix >= dims[i] {
			return nil, fmt.Errorf("%w: index %d out of range for dimension %d (size %d)", ErrOutOfBounds, ix, i, dims[i])
		}
		flat += ix * c.strides[i]
	}
	return &c.gens[flat], nil
}

// project draws one inner-shaped block per cell and stacks the blocks along
// the collection's axes. Cells are visited in row-major order and each block
// is placed contiguously at its cell's offset.
func (c *Of[S]) project(inner []int, draw func(g *pcg.PCG32) (*tensor.F64, error)) (*tensor.F64, error) {
	out := tensor.New[float64](tensor.Concat(c.Shape(), inner)...)
	block := tensor.Size(inner)
	data := out.Data()
	for i := range c.gens {
		cell, err := draw(&c.gens[i])
		if err != nil {
			return nil, err
		}
		copy(data[i*block:(i+1)*block], cell.Data())
	}
	return out, nil
}

// Random draws product(inner) uniform doubles from every cell's own
// generator. The result has shape Shape() ++ inner: outer axes enumerate
// generators, inner axes enumerate each generator's draws.
func (c *Of[S]) Random(inner ...int) *tensor.F64 {
	out, err := c.project(inner, func(g *pcg.PCG32) (*tensor.F64, error) {
		return g.Random(inner...), nil
	})
	if err != nil {
		// The uniform draw has no failure modes.
		panic(err)
	}
	return out
}

// Weibull broadcasts pcg.Weibull across the cells.
func (c *Of[S]) Weibull(k, lambda float64, inner ...int) (*tensor.F64, error) {
	return c.project(inner, func(g *pcg.PCG32) (*tensor.F64, error) {
		return g.Weibull(k, lambda, inner...)
	})
}

// Exponential broadcasts pcg.Exponential across the cells.
func (c *Of[S]) Exponential(lambda float64, inner ...int) (*tensor.F64, error) {
	return c.project(inner, func(g *pcg.PCG32) (*tensor.F64, error) {
		return g.Exponential(lambda, inner...)
	})
}

// Normal broadcasts pcg.Normal across the cells.
func (c *Of[S]) Normal(mu, sigma float64, inner ...int) (*tensor.F64, error) {
	return c.project(inner, func(g *pcg.PCG32) (*tensor.F64, error) {
		return g.Normal(mu, sigma, inner...)
	})
}

// States returns every cell's current state as an array of the collection's
// shape, in the same flattening order the cells were constructed in.
func (c *Of[S]) States() *tensor.U64 {
	return c.gather(func(g *pcg.PCG32) uint64 { return g.State() })
}

// InitStates returns every cell's seed value.
func (c *Of[S]) InitStates() *tensor.U64 {
	return c.gather(func(g *pcg.PCG32) uint64 { return g.InitState() })
}

// InitSeqs returns every cell's sequence selector.
func (c *Of[S]) InitSeqs() *tensor.U64 {
	return c.gather(func(g *pcg.PCG32) uint64 { return g.InitSeq() })
}

func (c *Of[S]) gather(read func(g *pcg.PCG32) uint64) *tensor.U64 {
	out := tensor.New[uint64](c.Shape()...)
	data := out.Data()
	for i := range c.gens {
		data[i] = read(&c.gens[i])
	}
	return out
}

// Restore overwrites every cell's state from an array of the collection's
// shape. Cells are restored independently; no cross-cell validation is
// possible.
func (c *Of[S]) Restore(states *tensor.U64) error {
	if !tensor.SameShape(states.Shape(), c.Shape()) {
		return fmt.Errorf("%w: state array shape %v for collection shape %v", ErrShapeMismatch, states.Shape(), c.Shape())
	}
	for i, s := range states.Data() {
		c.gens[i].Restore(s)
	}
	return nil
}

// Advance jumps every cell by its own signed delta from an array of the
// collection's shape.
func (c *Of[S]) Advance(deltas *tensor.I64) error {
	if !tensor.SameShape(deltas.Shape(), c.Shape()) {
		return fmt.Errorf("%w: delta array shape %v for collection shape %v", ErrShapeMismatch, deltas.Shape(), c.Shape())
	}
	for i, d := range deltas.Data() {
		c.gens[i].Advance(d)
	}
	return nil
}

// AdvanceAll jumps every cell by the same signed delta.
func (c *Of[S]) AdvanceAll(delta int64) {
	for i := range c.gens {
		c.gens[i].Advance(delta)
	}
}

// Distance returns the per-cell signed step counts from this collection's
// cells to the other's. The collections must have identical shapes and the
// paired cells must share increments.
func (c *Of[S]) Distance(other *Of[S]) (*tensor.I64, error) {
	if !tensor.SameShape(other.Shape(), c.Shape()) {
		return nil, fmt.Errorf("%w: other collection shape %v for collection shape %v", ErrShapeMismatch, other.Shape(), c.Shape())
	}
	out := tensor.New[int64](c.Shape()...)
	data := out.Data()
	for i := range c.gens {
		d, err := c.gens[i].Distance(&other.gens[i])
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		data[i] = d
	}
	return out, nil
}

// DistanceStates returns the per-cell signed step counts from the cells'
// current states to the given state array, interpreted on each cell's own
// stream.
func (c *Of[S]) DistanceStates(states *tensor.U64) (*tensor.I64, error) {
	if !tensor.SameShape(states.Shape(), c.Shape()) {
		return nil, fmt.Errorf("%w: state array shape %v for collection shape %v", ErrShapeMismatch, states.Shape(), c.Shape())
	}
	out := tensor.New[int64](c.Shape()...)
	data := out.Data()
	for i, s := range states.Data() {
		target := pcg.New(c.gens[i].InitState(), c.gens[i].InitSeq())
		target.Restore(s)
		d, err := c.gens[i].Distance(target)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		data[i] = d
	}
	return out, nil
}
