package pcg

import (
	"fmt"
	"math"

	"github.com/lox/randstream/internal/tensor"
)

// Source is anything that can fill a buffer with uniform doubles on [0, 1)
// deterministically. PCG32 implements it; the sampling functions below work
// against any implementation, which keeps the distribution transforms
// testable without a real generator.
type Source interface {
	DrawList(dst []float64)
}

// ConstSource is a Source that yields its value for every draw. Useful for
// pinning distribution transforms in tests.
type ConstSource float64

// DrawList fills dst with the constant.
func (c ConstSource) DrawList(dst []float64) {
	for i := range dst {
		dst[i] = float64(c)
	}
}

// DrawList fills dst with sequential Float64 draws, in index order.
func (g *PCG32) DrawList(dst []float64) {
	for i := range dst {
		dst[i] = g.Float64()
	}
}

// Random returns an array of the given shape filled with uniform [0, 1)
// draws in row-major order. No dimensions means rank 0: a single scalar
// cell consuming exactly one draw.
func Random(src Source, shape ...int) *tensor.F64 {
	out := tensor.New[float64](shape...)
	src.DrawList(out.Data())
	return out
}

// Weibull returns Weibull(k, lambda) variates of the given shape, one
// uniform draw per element, via the inverse CDF
// x = lambda * (-ln(1-u))^(1/k). k = 1 degenerates to the exponential
// distribution.
func Weibull(src Source, k, lambda float64, shape ...int) (*tensor.F64, error) {
	if k <= 0 || lambda <= 0 {
		return nil, fmt.Errorf("pcg: weibull requires k > 0 and lambda > 0, got k=%v lambda=%v", k, lambda)
	}
	out := Random(src, shape...)
	out.Map(func(u float64) float64 {
		return lambda * math.Pow(-math.Log1p(-u), 1/k)
	})
	return out, nil
}

// Exponential returns Exponential(lambda) variates of the given shape, one
// uniform draw per element.
func Exponential(src Source, lambda float64, shape ...int) (*tensor.F64, error) {
	if lambda <= 0 {
		return nil, fmt.Errorf("pcg: exponential requires lambda > 0, got %v", lambda)
	}
	out := Random(src, shape...)
	out.Map(func(u float64) float64 {
		return -math.Log1p(-u) / lambda
	})
	return out, nil
}

// Normal returns Normal(mu, sigma) variates of the given shape via the
// Box-Muller transform. Elements are produced in pairs, two uniform draws
// per pair; an odd final element still consumes both draws of its pair, so
// the stream position after the call depends only on the element count.
func Normal(src Source, mu, sigma float64, shape ...int) (*tensor.F64, error) {
	if sigma < 0 {
		return nil, fmt.Errorf("pcg: normal requires sigma >= 0, got %v", sigma)
	}
	out := tensor.New[float64](shape...)
	data := out.Data()
	buf := make([]float64, 2)
	for i := 0; i < len(data); i += 2 {
		src.DrawList(buf)
		r := math.Sqrt(-2 * math.Log1p(-buf[0]))
		theta := 2 * math.Pi * buf[1]
		data[i] = mu + sigma*r*math.Cos(theta)
		if i+1 < len(data) {
			data[i+1] = mu + sigma*r*math.Sin(theta)
		}
	}
	return out, nil
}

// Random is shorthand for Random(g, shape...).
func (g *PCG32) Random(shape ...int) *tensor.F64 {
	return Random(g, shape...)
}

// Weibull is shorthand for Weibull(g, k, lambda, shape...).
func (g *PCG32) Weibull(k, lambda float64, shape ...int) (*tensor.F64, error) {
	return Weibull(g, k, lambda, shape...)
}

// Exponential is shorthand for Exponential(g, lambda, shape...).
func (g *PCG32) Exponential(lambda float64, shape ...int) (*tensor.F64, error) {
	return Exponential(g, lambda, shape...)
}

// Normal is shorthand for Normal(g, mu, sigma, shape...).
func (g *PCG32) Normal(mu, sigma float64, shape ...int) (*tensor.F64, error) {
	return Normal(g, mu, sigma, shape...)
}
