package collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomParallelMatchesSequential(t *testing.T) {
	seeds := seedTensor(t, []int{4, 8}, 2000)

	sequential, err := New(seeds)
	require.NoError(t, err)
	parallel, err := New(seeds)
	require.NoError(t, err)

	want := sequential.Random(16)
	got, err := parallel.RandomParallel(context.Background(), 5, 16)
	require.NoError(t, err)

	assert.Equal(t, want.Shape(), got.Shape())
	assert.Equal(t, want.Data(), got.Data(), "parallel fill must preserve per-cell values and assembly order")

	// Both collections end at the same per-cell states.
	assert.Equal(t, sequential.States().Data(), parallel.States().Data())
}

func TestRandomParallelWorkerClamping(t *testing.T) {
	c, err := New(seedTensor(t, []int{2}, 5))
	require.NoError(t, err)

	// More workers than cells degrades gracefully.
	out, err := c.RandomParallel(context.Background(), 64, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, out.Shape())

	// workers <= 0 selects a default.
	out, err = c.RandomParallel(context.Background(), 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, out.Shape())
}

func TestRandomParallelCancelled(t *testing.T) {
	c, err := New(seedTensor(t, []int{64}, 1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.RandomParallel(ctx, 4, 1024)
	assert.Error(t, err)
}
