// Package quantize converts the final correction term of the codec into 16-bit
// signed integers at a fixed scale and back.
//
// Values are rounded half to even and clamped to [-32768, 32767]. Clamping is
// not an error: it is counted in Stats so callers can monitor how often the
// predictive stages leave corrections outside the representable range.
package quantize

import (
	"fmt"
	"math"

	"github.com/arloliu/chaoscodec/errs"
)

// DefaultScale is the default quantization scale.
const DefaultScale = 1e4

// Delta is a quantized correction series.
type Delta struct {
	// Values holds round(delta·Scale) clamped to the int16 range.
	Values []int16
	// Scale is the multiplier applied before rounding.
	Scale float64
}

// Len returns the number of quantized values.
func (d Delta) Len() int {
	return len(d.Values)
}

// Stats counts clipped values.
type Stats struct {
	Clipped int
	Total   int
}

// ClipRatio returns Clipped/Total, or 0 for an empty series.
func (s Stats) ClipRatio() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.Clipped) / float64(s.Total)
}

// String returns a summary of the statistics.
func (s Stats) String() string {
	return fmt.Sprintf("clipped %d/%d (%.4f%%)", s.Clipped, s.Total, 100*s.ClipRatio())
}

// Quantizer quantizes corrections at a fixed scale.
type Quantizer struct {
	scale float64
}

// New creates a quantizer. The scale must be finite and positive.
func New(scale float64) (Quantizer, error) {
	if err := ValidateScale(scale); err != nil {
		return Quantizer{}, err
	}

	return Quantizer{scale: scale}, nil
}

// ValidateScale reports errs.ErrInvalidScale for a non-finite or non-positive scale.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return fmt.Errorf("%w: %v", errs.ErrInvalidScale, scale)
	}

	return nil
}

// Scale returns the quantization scale.
func (q Quantizer) Scale() float64 {
	return q.scale
}

// Encode quantizes x[i] - hybrid[i] for every index.
func (q Quantizer) Encode(x, hybrid []float64) (Delta, Stats, error) {
	if len(x) != len(hybrid) {
		return Delta{}, Stats{}, fmt.Errorf("%w: signal %d, hybrid %d", errs.ErrLengthMismatch, len(x), len(hybrid))
	}

	values := make([]int16, len(x))
	stats := Stats{Total: len(x)}

	for i := range x {
		v, clipped := quantize(x[i]-hybrid[i], q.scale)
		if clipped {
			stats.Clipped++
		}
		values[i] = v
	}

	return Delta{Values: values, Scale: q.scale}, stats, nil
}

// Decode returns hybrid[i] + Dequantize(delta.Values[i], delta.Scale).
func Decode(delta Delta, hybrid []float64) ([]float64, error) {
	if err := ValidateScale(delta.Scale); err != nil {
		return nil, err
	}
	if len(delta.Values) != len(hybrid) {
		return nil, fmt.Errorf("%w: delta %d, hybrid %d", errs.ErrLengthMismatch, len(delta.Values), len(hybrid))
	}

	out := make([]float64, len(hybrid))
	for i, v := range delta.Values {
		out[i] = hybrid[i] + Dequantize(v, delta.Scale)
	}

	return out, nil
}

// Quantize returns clamp(roundHalfEven(delta·scale), -32768, 32767).
//
// NaN maps to 0 and counts as clipped in Encode.
func Quantize(delta, scale float64) int16 {
	v, _ := quantize(delta, scale)

	return v
}

// Dequantize returns q/scale computed in float32 precision.
func Dequantize(q int16, scale float64) float64 {
	return float64(float32(q) / float32(scale))
}

func quantize(delta, scale float64) (int16, bool) {
	r := math.RoundToEven(delta * scale)

	switch {
	case math.IsNaN(r):
		return 0, true
	case r > math.MaxInt16:
		return math.MaxInt16, true
	case r < math.MinInt16:
		return math.MinInt16, true
	}

	return int16(r), false
}
