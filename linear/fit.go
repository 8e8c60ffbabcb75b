package linear

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/chaoscodec/errs"
)

const (
	// relativeEigenTolerance drops eigen directions whose eigenvalue is below
	// this fraction of the largest one.
	relativeEigenTolerance = 1e-12
	// scaleEigenTolerance drops eigen directions that are indistinguishable from
	// rounding noise relative to the uncentered feature energy. A constant
	// feature column falls below it even when its computed mean is off by an ulp.
	scaleEigenTolerance = 1e-24
)

// Samples is a row-oriented regression design.
//
// Row fills x (len(x) == Width()) with the features of row i and returns the
// target value. Fit calls Row three times for every index, so implementations
// must be deterministic and free of side effects.
type Samples interface {
	Len() int
	Width() int
	Row(i int, x []float64) float64
}

// Fit computes the ordinary least squares model for the given samples.
//
// The solution minimizes the squared error over all rows. When the design is
// rank deficient the minimum-norm coefficient vector is returned, so a
// constant target yields zero coefficients and an intercept equal to the
// target mean.
func Fit(s Samples) (Result, error) {
	n, p := s.Len(), s.Width()
	if n <= 0 {
		return Result{}, fmt.Errorf("%w: no rows to fit", errs.ErrInvalidInput)
	}
	if p <= 0 {
		return Result{}, fmt.Errorf("%w: design has %d features", errs.ErrFeatureWidth, p)
	}

	inv := 1 / float64(n)
	row := make([]float64, p)

	// First pass: means.
	meanX := make([]float64, p)
	var meanY float64
	for i := range n {
		meanY += s.Row(i, row)
		floats.Add(meanX, row)
	}
	floats.Scale(inv, meanX)
	meanY *= inv

	if !isFinite(meanY) || !allFinite(meanX) {
		return Result{}, fmt.Errorf("linear: %w", errs.ErrNonFiniteSample)
	}

	// Second pass: centered cross-products. The residual sums of the centered
	// values correct the means for the rounding of the first pass.
	gram := make([]float64, p*p)
	cross := make([]float64, p)
	sumDX := make([]float64, p)
	dx := make([]float64, p)
	var sumDY, syy, energy, targetEnergy float64

	for i := range n {
		y := s.Row(i, row)
		dy := y - meanY
		targetEnergy += y * y
		for j := range p {
			dx[j] = row[j] - meanX[j]
			energy += row[j] * row[j]
		}

		for j := range p {
			sumDX[j] += dx[j]
			cross[j] += dx[j] * dy
			for k := j; k < p; k++ {
				gram[j*p+k] += dx[j] * dx[k]
			}
		}
		sumDY += dy
		syy += dy * dy
	}

	for j := range p {
		cross[j] -= sumDX[j] * sumDY * inv
		for k := j; k < p; k++ {
			gram[j*p+k] -= sumDX[j] * sumDX[k] * inv
			gram[k*p+j] = gram[j*p+k]
		}
		meanX[j] += sumDX[j] * inv
	}
	syy = math.Max(0, syy-sumDY*sumDY*inv)
	meanY += sumDY * inv

	w, rank, err := solvePseudoInverse(p, gram, cross, scaleEigenTolerance*energy)
	if err != nil {
		return Result{}, err
	}

	model := Model{Coefficients: w, Intercept: meanY - floats.Dot(w, meanX)}

	// Third pass: squared error of the fitted model. syy - w·cross cancels
	// catastrophically on an exact fit.
	var sse float64
	for i := range n {
		e := s.Row(i, row) - model.Predict(row)
		sse += e * e
	}

	r2 := 1.0
	if syy > scaleEigenTolerance*targetEnergy {
		r2 = 1 - sse/syy
	}

	return Result{
		Model:    model,
		RSquared: r2,
		RMSE:     math.Sqrt(sse * inv),
		Rank:     rank,
		Samples:  n,
	}, nil
}

// FitRows fits a model on an explicit design matrix, one slice per row.
func FitRows(x [][]float64, y []float64) (Result, error) {
	if len(x) != len(y) {
		return Result{}, fmt.Errorf("%w: %d rows, %d targets", errs.ErrLengthMismatch, len(x), len(y))
	}
	if len(x) == 0 {
		return Result{}, fmt.Errorf("%w: no rows to fit", errs.ErrInvalidInput)
	}

	width := len(x[0])
	for i, r := range x {
		if len(r) != width {
			return Result{}, fmt.Errorf("%w: row %d has %d features, want %d", errs.ErrFeatureWidth, i, len(r), width)
		}
	}

	return Fit(rowSamples{x: x, y: y, width: width})
}

type rowSamples struct {
	x     [][]float64
	y     []float64
	width int
}

func (r rowSamples) Len() int   { return len(r.y) }
func (r rowSamples) Width() int { return r.width }

func (r rowSamples) Row(i int, x []float64) float64 {
	copy(x, r.x[i])

	return r.y[i]
}

// solvePseudoInverse solves gram·w = cross using the eigen decomposition of the
// symmetric gram matrix, ignoring directions whose eigenvalue is at or below
// max(relativeEigenTolerance·λmax, floor).
func solvePseudoInverse(p int, gram, cross []float64, floor float64) ([]float64, int, error) {
	var eig mat.EigenSym
	if !eig.Factorize(mat.NewSymDense(p, gram), true) {
		return nil, 0, errors.New("linear: eigen decomposition did not converge")
	}

	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	tol := math.Max(relativeEigenTolerance*floats.Max(values), floor)
	w := make([]float64, p)
	rank := 0
	v := make([]float64, p)

	for i, lambda := range values {
		if lambda <= tol {
			continue
		}
		rank++
		mat.Col(v, i, &vectors)
		floats.AddScaled(w, floats.Dot(v, cross)/lambda, v)
	}

	return w, rank, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if !isFinite(v) {
			return false
		}
	}

	return true
}
