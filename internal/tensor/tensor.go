// Package tensor provides a minimal dense, row-major n-dimensional array.
// It carries the shape/stride bookkeeping used by the generator collections
// and sampling code; it is plumbing, not a numerical library.
package tensor

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a multi-index or flat index falls outside
// the array.
var ErrOutOfBounds = errors.New("tensor: index out of bounds")

// ErrRankMismatch is returned when a multi-index has the wrong number of
// dimensions for the array it indexes.
var ErrRankMismatch = errors.New("tensor: index rank mismatch")

// Element is the set of scalar types a Dense array can hold.
type Element interface {
	~float64 | ~uint64 | ~int64
}

// Dense is a dense row-major array of shape Shape(). A rank-0 Dense holds
// exactly one element.
type Dense[T Element] struct {
	shape   []int
	strides []int
	data    []T
}

// Convenience instantiations used throughout the module.
type (
	F64 = Dense[float64]
	U64 = Dense[uint64]
	I64 = Dense[int64]
)

// New allocates a zeroed array with the given shape. No dimensions means
// rank 0: a single scalar cell.
func New[T Element](shape ...int) *Dense[T] {
	d, err := FromSlice(make([]T, Size(shape)), shape...)
	if err != nil {
		// Size(shape) guarantees the lengths agree; only a negative
		// dimension can land here.
		panic(err)
	}
	return d
}

// FromSlice wraps an existing flat slice as an array of the given shape.
// The slice is used directly, not copied; its length must equal the shape's
// element count.
func FromSlice[T Element](data []T, shape ...int) (*Dense[T], error) {
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("tensor: negative dimension %d", dim)
		}
	}
	if len(data) != Size(shape) {
		return nil, fmt.Errorf("tensor: %d elements do not fill shape %v (want %d)", len(data), shape, Size(shape))
	}
	owned := make([]int, len(shape))
	copy(owned, shape)
	return &Dense[T]{shape: owned, strides: Strides(owned), data: data}, nil
}

// Shape returns the array's dimensions. Callers must not mutate it.
func (d *Dense[T]) Shape() []int { return d.shape }

// Strides returns the row-major strides matching Shape().
func (d *Dense[T]) Strides() []int { return d.strides }

// Rank returns the number of dimensions.
func (d *Dense[T]) Rank() int { return len(d.shape) }

// Size returns the total number of elements.
func (d *Dense[T]) Size() int { return len(d.data) }

// Data returns the flat row-major backing slice.
func (d *Dense[T]) Data() []T { return d.data }

// At returns the element at the given multi-index.
func (d *Dense[T]) At(idx ...int) (T, error) {
	var zero T
	flat, err := d.flatten(idx)
	if err != nil {
		return zero, err
	}
	return d.data[flat], nil
}

// Set stores v at the given multi-index.
func (d *Dense[T]) Set(v T, idx ...int) error {
	flat, err := d.flatten(idx)
	if err != nil {
		return err
	}
	d.data[flat] = v
	return nil
}

// Map applies f to every element in place, in row-major order.
func (d *Dense[T]) Map(f func(T) T) {
	for i, v := range d.data {
		d.data[i] = f(v)
	}
}

// flatten converts a multi-index to a flat offset via the strides.
func (d *Dense[T]) flatten(idx []int) (int, error) {
	if len(idx) != len(d.shape) {
		return 0, fmt.Errorf("%w: got %d indices for rank %d", ErrRankMismatch, len(idx), len(d.shape))
	}
	flat := 0
	for i, ix := range idx {
		if ix < 0 || ix >= d.shape[i] {
			return 0, fmt.Errorf("%w: index %d out of range for dimension %d (size %d)", ErrOutOfBounds, ix, i, d.shape[i])
		}
		flat += ix * d.strides[i]
	}
	return flat, nil
}

// Size returns the element count of a shape: the product of its dimensions,
// 1 for the empty (rank-0) shape.
func Size(shape []int) int {
	n := 1
	for _, dim := range shape {
		n *= dim
	}
	return n
}

// Strides computes row-major strides for a shape.
func Strides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

// SameShape reports whether two shapes are identical dimension by dimension.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Concat returns outer ++ inner as a fresh shape slice.
func Concat(outer, inner []int) []int {
	out := make([]int, 0, len(outer)+len(inner))
	out = append(out, outer...)
	out = append(out, inner...)
	return out
}
