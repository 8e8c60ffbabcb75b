// Package linear provides the ordinary least squares model shared by the
// predictive stages of the codec.
//
// A Model is an ordered coefficient vector plus an intercept. Models are fitted
// once from a Samples source and are treated as frozen afterwards:
//
//	result, err := linear.Fit(linear.Rows(x, y))
//	if err != nil {
//	    return err
//	}
//	yhat := result.Model.Predict([]float64{1.5, 2.0})
//
// # Fitting
//
// Fit solves the centered normal equations with a symmetric eigen
// decomposition (gonum mat.EigenSym) and applies the Moore-Penrose
// pseudo-inverse, so rank-deficient designs such as a constant signal or two
// collinear features produce the minimum-norm solution instead of an error.
// The intercept is recovered from the feature and target means.
//
// Samples are streamed through the Samples interface three times (means,
// centered cross-products, then the squared error of the fitted model), so
// callers never materialize an N×p design matrix.
//
// # Diagnostics
//
// Every fit carries R², RMSE and the effective rank of the design, which the
// codec surfaces as quality signals.
package linear
