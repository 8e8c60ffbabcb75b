package predict

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/linear"
	"github.com/arloliu/chaoscodec/signal"
)

// MirrorWidth is the feature width of the mirror model: src[t-1], src[t].
const MirrorWidth = 2

// minChunk is the smallest index range handed to one worker by ApplyParallel.
const minChunk = 1 << 14

// MirrorTrainingSet pairs forward-built features with reverse-ordered targets.
//
// Row r (t = r+1, t = 1..N-2) has the features [src[t-1], src[t]] read in
// forward order and the target residual[N-1-t] read from the opposite end of
// the residual series. The two sequences are deliberately not aligned.
type MirrorTrainingSet struct {
	source  []float64
	targets []float64
}

// NewMirrorTrainingSet builds the training rows for the mirror stage.
func NewMirrorTrainingSet(source, residual []float64) (MirrorTrainingSet, error) {
	if len(source) != len(residual) {
		return MirrorTrainingSet{}, fmt.Errorf("%w: source %d, residual %d", errs.ErrLengthMismatch, len(source), len(residual))
	}
	if err := signal.Validate(source); err != nil {
		return MirrorTrainingSet{}, fmt.Errorf("mirror source: %w", err)
	}
	if err := signal.Validate(residual); err != nil {
		return MirrorTrainingSet{}, fmt.Errorf("residual: %w", err)
	}

	n := len(residual)
	targets := make([]float64, n-2)
	for t := 1; t <= n-2; t++ {
		targets[t-1] = residual[n-1-t]
	}

	return MirrorTrainingSet{source: source, targets: targets}, nil
}

// Len returns the number of training rows.
func (m MirrorTrainingSet) Len() int { return len(m.targets) }

// Width returns MirrorWidth.
func (m MirrorTrainingSet) Width() int { return MirrorWidth }

// Features fills x with the forward features of row r.
func (m MirrorTrainingSet) Features(r int, x []float64) {
	x[0], x[1] = m.source[r], m.source[r+1]
}

// Target returns the reverse-ordered target of row r.
func (m MirrorTrainingSet) Target(r int) float64 {
	return m.targets[r]
}

// Row implements linear.Samples.
func (m MirrorTrainingSet) Row(r int, x []float64) float64 {
	m.Features(r, x)

	return m.Target(r)
}

// MirrorPredictor trains and applies the mirror residual model.
//
// The zero value is ready to use.
type MirrorPredictor struct{}

// Train fits the mirror model on the given source and residual series.
func (MirrorPredictor) Train(source, residual []float64) (linear.Result, error) {
	set, err := NewMirrorTrainingSet(source, residual)
	if err != nil {
		return linear.Result{}, err
	}

	res, err := linear.Fit(set)
	if err != nil {
		return linear.Result{}, fmt.Errorf("fit mirror model: %w", err)
	}

	return res, nil
}

// Apply predicts the residual series from source.
//
// With rev[i] = src[N-1-i] the model yields p[i] = R1·rev[i] + R2·rev[i+1] + Rb
// for i = 0..N-3, and the output is p read back in sample order:
// out[j] = p[N-1-j] for j >= 2. out[0] and out[1] are always zero.
func (MirrorPredictor) Apply(model linear.Model, source []float64) ([]float64, error) {
	if err := checkMirrorInput(model, source); err != nil {
		return nil, err
	}

	out := make([]float64, len(source))
	applyRange(model, source, out, 2, len(source))

	return out, nil
}

// ApplyParallel computes the same result as Apply using up to workers
// goroutines over disjoint index ranges.
func (p MirrorPredictor) ApplyParallel(ctx context.Context, model linear.Model, source []float64, workers int) ([]float64, error) {
	n := len(source)
	if workers <= 1 || n < 2*minChunk {
		return p.Apply(model, source)
	}
	if err := checkMirrorInput(model, source); err != nil {
		return nil, err
	}

	out := make([]float64, n)
	chunk := max(minChunk, (n-2+workers-1)/workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 2; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			applyRange(model, source, out, lo, hi)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("mirror apply: %w", err)
	}

	return out, nil
}

func checkMirrorInput(model linear.Model, source []float64) error {
	if err := model.Check(MirrorWidth); err != nil {
		return err
	}
	if len(source) < signal.MinLength {
		return fmt.Errorf("%w: got %d", errs.ErrSignalTooShort, len(source))
	}

	return nil
}

// applyRange writes out[j] for lo <= j < hi, with lo >= 2.
func applyRange(model linear.Model, source, out []float64, lo, hi int) {
	n := len(source)
	r1, r2, rb := model.Coefficients[0], model.Coefficients[1], model.Intercept

	for j := lo; j < hi; j++ {
		i := n - 1 - j
		// rev[i] = source[n-1-i] = source[j], rev[i+1] = source[j-1]
		out[j] = float64(r1*source[n-1-i]) + float64(r2*source[n-2-i]) + rb
	}
}
