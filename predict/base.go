package predict

import (
	"context"
	"fmt"
	"math"

	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/linear"
	"github.com/arloliu/chaoscodec/signal"
)

// BaseWidth is the feature width of the base model: x[t-1], x[t], x[t]².
const BaseWidth = 3

// contextCheckMask makes Reconstruct poll its context every 64Ki samples.
const contextCheckMask = 1<<16 - 1

// BasePredictor trains and replays the quadratic autoregressive model.
//
// The zero value is ready to use.
type BasePredictor struct{}

// Train fits the base model on rows [x[t-1], x[t], x[t]²] with target x[t+1]
// for t = 1..N-2.
func (BasePredictor) Train(x []float64) (linear.Result, error) {
	if err := signal.Validate(x); err != nil {
		return linear.Result{}, err
	}

	res, err := linear.Fit(baseSamples(x))
	if err != nil {
		return linear.Result{}, fmt.Errorf("fit base model: %w", err)
	}

	return res, nil
}

// Reconstruct replays the model for n samples starting from two seed values.
//
// out[0] and out[1] are the seeds; every later sample is computed from the two
// previously reconstructed samples, never from the original signal. A
// non-finite sample aborts the reconstruction with errs.ErrNumericalDivergence.
// The context is polled periodically so callers can bound long signals.
func (BasePredictor) Reconstruct(ctx context.Context, model linear.Model, seed0, seed1 float64, n int) ([]float64, error) {
	if err := model.Check(BaseWidth); err != nil {
		return nil, err
	}
	if n < signal.MinLength {
		return nil, fmt.Errorf("%w: got %d", errs.ErrSignalTooShort, n)
	}
	if !isFinite(seed0) || !isFinite(seed1) {
		return nil, fmt.Errorf("seed: %w", errs.ErrNonFiniteSample)
	}

	w1, w2, w3 := model.Coefficients[0], model.Coefficients[1], model.Coefficients[2]
	b := model.Intercept

	out := make([]float64, n)
	out[0], out[1] = seed0, seed1

	prev2, prev := seed0, seed1
	for i := 2; i < n; i++ {
		if i&contextCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("reconstruct sample %d: %w", i, err)
			}
		}

		// Explicit conversions round every product, which keeps the compiler
		// from fusing multiply-adds and makes the sequence identical on every
		// architecture.
		next := float64(w1*prev2) + float64(w2*prev) + float64(w3*float64(prev*prev)) + b
		if !isFinite(next) {
			return nil, fmt.Errorf("%w at sample %d", errs.ErrNumericalDivergence, i)
		}

		out[i] = next
		prev2, prev = prev, next
	}

	return out, nil
}

// baseSamples exposes the base training rows of a signal.
type baseSamples []float64

func (s baseSamples) Len() int   { return len(s) - 2 }
func (s baseSamples) Width() int { return BaseWidth }

func (s baseSamples) Row(i int, x []float64) float64 {
	t := i + 1
	x[0], x[1], x[2] = s[t-1], s[t], s[t]*s[t]

	return s[t+1]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
