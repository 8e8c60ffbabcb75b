// Package signal holds the input side of the codec: signal validation, the
// logistic-map generator used by tests and benchmarks, and raw little-endian
// float64 serialization.
package signal

import (
	"fmt"
	"math"

	"github.com/arloliu/chaoscodec/errs"
)

// MinLength is the shortest signal the codec accepts. The recurrence needs two
// seed samples and at least one predicted sample.
const MinLength = 3

// Validate checks that x has at least MinLength samples and that every sample
// is finite.
func Validate(x []float64) error {
	if len(x) < MinLength {
		return fmt.Errorf("%w: got %d", errs.ErrSignalTooShort, len(x))
	}

	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sample %d: %w", i, errs.ErrNonFiniteSample)
		}
	}

	return nil
}

// Logistic generates n samples of the logistic map x[t+1] = r·x[t]·(1-x[t])
// starting at x0.
func Logistic(r, x0 float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	x := make([]float64, n)
	x[0] = x0
	for t := 1; t < n; t++ {
		prev := x[t-1]
		x[t] = r * prev * (1 - prev)
	}

	return x
}

// Constant returns n copies of c.
func Constant(c float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = c
	}

	return x
}
