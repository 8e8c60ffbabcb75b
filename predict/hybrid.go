package predict

import (
	"fmt"

	"github.com/arloliu/chaoscodec/errs"
)

// Hybrid returns base[i] + mirror[i] for every index.
func Hybrid(base, mirror []float64) ([]float64, error) {
	if len(base) != len(mirror) {
		return nil, fmt.Errorf("%w: base %d, mirror %d", errs.ErrLengthMismatch, len(base), len(mirror))
	}

	out := make([]float64, len(base))
	for i := range base {
		out[i] = base[i] + mirror[i]
	}

	return out, nil
}

// Residual returns x[i] - reconstruction[i] for every index.
func Residual(x, reconstruction []float64) ([]float64, error) {
	if len(x) != len(reconstruction) {
		return nil, fmt.Errorf("%w: signal %d, reconstruction %d", errs.ErrLengthMismatch, len(x), len(reconstruction))
	}

	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] - reconstruction[i]
	}

	return out, nil
}
