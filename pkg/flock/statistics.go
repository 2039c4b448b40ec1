package flock

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Statistics is a sample mean with its Bessel-corrected standard deviation.
type Statistics struct {
	Mean  float64 `json:"mean"`
	Sigma float64 `json:"sigma"`
}

func (s Statistics) String() string {
	return fmt.Sprintf("%g +- %g", s.Mean, s.Sigma)
}

// sampleStatistics needs at least two values.
func sampleStatistics(values []float64) (Statistics, error) {
	if len(values) < 2 {
		return Statistics{}, fmt.Errorf("%w: got %d values, need at least 2", ErrInsufficientData, len(values))
	}
	mean, variance := stat.MeanVariance(values, nil)
	// rounding can leave a tiny negative variance on constant samples
	return Statistics{Mean: mean, Sigma: math.Sqrt(math.Max(variance, 0))}, nil
}
