// Package evaluate measures codec accuracy and compares payload sizes against
// general-purpose compressors.
package evaluate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/chaoscodec/errs"
)

// Report holds accuracy metrics of a reconstruction.
type Report struct {
	Samples int
	// MSE is the mean squared error.
	MSE float64
	// MAE is the mean absolute error.
	MAE float64
	// MaxAbsError is the largest absolute sample error.
	MaxAbsError float64
	// Cosine is the cosine similarity of both signals.
	Cosine float64
	// Variance is the population variance of the original signal.
	Variance float64
	// LossRatio is MSE/Variance; 0 when the original is constant and exactly reproduced.
	LossRatio float64
}

// String returns a one-line summary.
func (r Report) String() string {
	return fmt.Sprintf("MSE=%.3e MAE=%.3e max=%.3e cosine=%.9f loss=%.3e",
		r.MSE, r.MAE, r.MaxAbsError, r.Cosine, r.LossRatio)
}

// Metrics compares a reconstruction with the original signal.
func Metrics(original, reconstructed []float64) (Report, error) {
	if len(original) != len(reconstructed) {
		return Report{}, fmt.Errorf("%w: original %d, reconstructed %d", errs.ErrLengthMismatch, len(original), len(reconstructed))
	}
	if len(original) == 0 {
		return Report{}, fmt.Errorf("%w: empty signal", errs.ErrInvalidInput)
	}

	diff := make([]float64, len(original))
	floats.SubTo(diff, original, reconstructed)

	n := float64(len(diff))
	r := Report{
		Samples:     len(diff),
		MSE:         floats.Dot(diff, diff) / n,
		MAE:         floats.Norm(diff, 1) / n,
		MaxAbsError: floats.Norm(diff, math.Inf(1)),
		Cosine:      cosine(original, reconstructed),
	}

	_, r.Variance = stat.PopMeanVariance(original, nil)
	switch {
	case r.Variance > 0:
		r.LossRatio = r.MSE / r.Variance
	case r.MSE > 0:
		r.LossRatio = math.Inf(1)
	}

	return r, nil
}

// cosine returns a·b / (|a|·|b|). Two zero vectors are identical (1); one zero
// vector against a non-zero one is orthogonal (0).
func cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	switch {
	case na == 0 && nb == 0:
		return 1
	case na == 0 || nb == 0:
		return 0
	}

	return floats.Dot(a, b) / (na * nb)
}
