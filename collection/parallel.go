package collection

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/randstream/internal/tensor"
	"github.com/lox/randstream/pcg"
)

// RandomParallel is Random with the cells partitioned across workers. Each
// worker owns a contiguous, disjoint range of cells and writes only its own
// cells' blocks, so per-cell values and the row-major assembly order of the
// output are identical to the sequential Random. workers <= 0 means
// GOMAXPROCS.
func (c *Of[S]) RandomParallel(ctx context.Context, workers int, inner ...int) (*tensor.F64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > c.size {
		workers = c.size
	}
	if workers <= 1 {
		return c.Random(inner...), nil
	}

	out := tensor.New[float64](tensor.Concat(c.Shape(), inner)...)
	block := tensor.Size(inner)
	data := out.Data()

	g, ctx := errgroup.WithContext(ctx)
	per := c.size / workers
	rem := c.size % workers

	lo := 0
	for w := 0; w < workers; w++ {
		n := per
		if w < rem {
			n++
		}
		start, end := lo, lo+n
		lo = end

		g.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				fillBlock(&c.gens[i], data[i*block:(i+1)*block])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parallel draw: %w", err)
	}
	return out, nil
}

func fillBlock(g *pcg.PCG32, dst []float64) {
	g.DrawList(dst)
}
