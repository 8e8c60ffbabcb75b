package linear

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arloliu/chaoscodec/errs"
)

// Model is a fitted linear model: y = Coefficients·x + Intercept.
type Model struct {
	// Coefficients holds one weight per feature, in feature order.
	Coefficients []float64
	// Intercept is the constant term.
	Intercept float64
}

// NewModel builds a model from coefficients and intercept. The coefficient
// slice is copied.
func NewModel(intercept float64, coefficients ...float64) Model {
	return Model{Coefficients: slices.Clone(coefficients), Intercept: intercept}
}

// Width returns the feature width of the model.
func (m Model) Width() int {
	return len(m.Coefficients)
}

// Predict applies the model to one feature row.
//
// Panics if len(x) does not match the model width; use Check at trust
// boundaries.
func (m Model) Predict(x []float64) float64 {
	if len(x) != len(m.Coefficients) {
		panic(fmt.Sprintf("linear: feature row has %d values, model expects %d", len(x), len(m.Coefficients)))
	}

	y := m.Intercept
	for i, w := range m.Coefficients {
		y += w * x[i]
	}

	return y
}

// Check verifies that the model has exactly width coefficients.
func (m Model) Check(width int) error {
	if len(m.Coefficients) != width {
		return fmt.Errorf("%w: got %d, want %d", errs.ErrFeatureWidth, len(m.Coefficients), width)
	}

	return nil
}

// Clone returns a deep copy of the model.
func (m Model) Clone() Model {
	return Model{Coefficients: slices.Clone(m.Coefficients), Intercept: m.Intercept}
}

// Equal reports whether both models have identical coefficients and intercept.
func (m Model) Equal(other Model) bool {
	return m.Intercept == other.Intercept && slices.Equal(m.Coefficients, other.Coefficients)
}

// String returns a human-readable formula.
func (m Model) String() string {
	var sb strings.Builder
	sb.WriteString("y =")
	for i, w := range m.Coefficients {
		fmt.Fprintf(&sb, " %+.6g*x%d", w, i+1)
	}
	fmt.Fprintf(&sb, " %+.6g", m.Intercept)

	return sb.String()
}

// Result is the outcome of a least squares fit.
type Result struct {
	// Model is the fitted model at full float64 precision.
	Model Model
	// RSquared is the coefficient of determination. It is 1 when the target is
	// constant and perfectly reproduced.
	RSquared float64
	// RMSE is the root mean square training error.
	RMSE float64
	// Rank is the number of eigen directions kept by the pseudo-inverse.
	Rank int
	// Samples is the number of rows the model was fitted on.
	Samples int
}

// String returns a summary of the fit.
func (r Result) String() string {
	return fmt.Sprintf("Fit{%s, R²: %.6f, RMSE: %.3g, rank: %d/%d, n: %d}",
		r.Model, r.RSquared, r.RMSE, r.Rank, r.Model.Width(), r.Samples)
}
