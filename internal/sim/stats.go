// Package sim runs Monte Carlo draws against a generator or collection and
// summarises the resulting samples.
package sim

import (
	"math"
	"sort"
)

// Summary accumulates sample moments and retains the raw values for
// percentile queries.
type Summary struct {
	Count int
	Sum   float64
	Sum2  float64 // sum of squares for variance
	Min   float64
	Max   float64

	values []float64
	sorted bool
}

// Add incorporates one sample.
func (s *Summary) Add(v float64) {
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}
	s.Count++
	s.Sum += v
	s.Sum2 += v * v
	s.values = append(s.values, v)
	s.sorted = false
}

// AddAll incorporates a batch of samples.
func (s *Summary) AddAll(vs []float64) {
	for _, v := range vs {
		s.Add(v)
	}
}

// Mean returns the arithmetic mean, 0 when empty.
func (s *Summary) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Variance returns the sample variance, 0 for fewer than two samples.
func (s *Summary) Variance() float64 {
	if s.Count < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Count)*mean*mean) / float64(s.Count-1)
}

// StdDev returns the sample standard deviation.
func (s *Summary) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Summary) StdError() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Count))
}

// Percentile returns the p-th percentile (0 <= p <= 1) by nearest-rank on
// the sorted samples, 0 when empty.
func (s *Summary) Percentile(p float64) float64 {
	if s.Count == 0 {
		return 0
	}
	if !s.sorted {
		sort.Float64s(s.values)
		s.sorted = true
	}
	idx := int(p * float64(s.Count-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= s.Count {
		idx = s.Count - 1
	}
	return s.values[idx]
}

// Median returns the 50th percentile.
func (s *Summary) Median() float64 {
	return s.Percentile(0.5)
}
