package tensor

import (
	"errors"
	"testing"
)

func TestStrides(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
		want  []int
	}{
		{"rank 0", nil, []int{}},
		{"vector", []int{7}, []int{1}},
		{"matrix", []int{2, 3}, []int{3, 1}},
		{"cube", []int{4, 2, 5}, []int{10, 5, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strides(tt.shape)
			if !SameShape(got, tt.want) {
				t.Errorf("Strides(%v) = %v, want %v", tt.shape, got, tt.want)
			}
		})
	}
}

func TestSize(t *testing.T) {
	if Size(nil) != 1 {
		t.Errorf("Size(rank 0) = %d, want 1", Size(nil))
	}
	if Size([]int{3, 0, 2}) != 0 {
		t.Errorf("Size with zero dimension = %d, want 0", Size([]int{3, 0, 2}))
	}
	if Size([]int{2, 3, 4}) != 24 {
		t.Errorf("Size(2,3,4) = %d, want 24", Size([]int{2, 3, 4}))
	}
}

func TestAtSetRowMajor(t *testing.T) {
	d := New[int64](2, 3)
	n := int64(0)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if err := d.Set(n, i, j); err != nil {
				t.Fatal(err)
			}
			n++
		}
	}

	// Row-major fill means the flat data is simply 0..5.
	for i, v := range d.Data() {
		if v != int64(i) {
			t.Errorf("flat[%d] = %d, want %d", i, v, i)
		}
	}

	v, err := d.At(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if v != 5 {
		t.Errorf("At(1,2) = %d, want 5", v)
	}
}

func TestIndexErrors(t *testing.T) {
	d := New[float64](2, 3)

	if _, err := d.At(2, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("At(2,0) error = %v, want ErrOutOfBounds", err)
	}
	if _, err := d.At(0, -1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("At(0,-1) error = %v, want ErrOutOfBounds", err)
	}
	if _, err := d.At(1); !errors.Is(err, ErrRankMismatch) {
		t.Errorf("At with 1 index error = %v, want ErrRankMismatch", err)
	}
	if err := d.Set(0, 0, 0, 0); !errors.Is(err, ErrRankMismatch) {
		t.Errorf("Set with 3 indices error = %v, want ErrRankMismatch", err)
	}
}

func TestFromSlice(t *testing.T) {
	if _, err := FromSlice([]uint64{1, 2, 3}, 2, 2); err == nil {
		t.Error("FromSlice with mismatched length should fail")
	}

	d, err := FromSlice([]uint64{1, 2, 3, 4}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.At(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v != 3 {
		t.Errorf("At(1,0) = %d, want 3", v)
	}
}

func TestRankZero(t *testing.T) {
	d := New[float64]()
	if d.Rank() != 0 || d.Size() != 1 {
		t.Fatalf("rank-0 tensor: rank=%d size=%d, want 0 and 1", d.Rank(), d.Size())
	}
	if err := d.Set(0.5); err != nil {
		t.Fatal(err)
	}
	v, err := d.At()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0.5 {
		t.Errorf("At() = %v, want 0.5", v)
	}
}

func TestConcat(t *testing.T) {
	got := Concat([]int{2, 3}, []int{4})
	if !SameShape(got, []int{2, 3, 4}) {
		t.Errorf("Concat = %v, want [2 3 4]", got)
	}
	if got := Concat(nil, nil); len(got) != 0 {
		t.Errorf("Concat(nil, nil) = %v, want empty", got)
	}
}
