package codec

import (
	"fmt"
	"math"

	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/linear"
	"github.com/arloliu/chaoscodec/payload"
)

// checkModels rejects model parameters that are not finite after the round
// trip through the storage precision.
func checkModels(m payload.Models, precision format.Precision) error {
	for _, named := range []struct {
		name  string
		model linear.Model
	}{
		{name: "base", model: m.Base},
		{name: "mirror", model: m.Mirror},
	} {
		for i, w := range named.model.Coefficients {
			if !isFinite(w) {
				return fmt.Errorf("%w: %s coefficient %d is %v at %s precision",
					errs.ErrNumericalDivergence, named.name, i+1, w, precision)
			}
		}
		if !isFinite(named.model.Intercept) {
			return fmt.Errorf("%w: %s intercept is %v at %s precision",
				errs.ErrNumericalDivergence, named.name, named.model.Intercept, precision)
		}
	}

	return nil
}

// checkFinite fails on the first non-finite value of a pipeline stage.
func checkFinite(stage string, values []float64) error {
	for i, v := range values {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s sample %d is %v", errs.ErrNumericalDivergence, stage, i, v)
		}
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
