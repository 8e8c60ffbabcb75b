package encoding

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chaoscodec/endian"
	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/format"
)

var le = endian.GetLittleEndianEngine()

func TestNumericRaw_RoundTrip(t *testing.T) {
	values := []float64{0, -0.5, math.Pi, 1e-300, math.MaxFloat64, math.Inf(-1)}

	enc := NewNumericRawEncoder(le)
	defer enc.Finish()
	enc.Write(values[0])
	enc.WriteSlice(values[1:])

	require.Equal(t, len(values), enc.Len())
	require.Equal(t, len(values)*8, enc.Size())

	dec := NewNumericRawDecoder(le)
	got := slices.Collect(dec.All(enc.Bytes(), len(values)))
	require.Equal(t, values, got)

	v, ok := dec.At(enc.Bytes(), 2, len(values))
	require.True(t, ok)
	require.Equal(t, math.Pi, v)

	_, ok = dec.At(enc.Bytes(), len(values), len(values))
	require.False(t, ok)
	_, ok = dec.At(enc.Bytes(), -1, len(values))
	require.False(t, ok)
}

func TestNumericRaw_ShortData(t *testing.T) {
	dec := NewNumericRawDecoder(le)
	require.Empty(t, slices.Collect(dec.All(make([]byte, 15), 2)))
	require.Empty(t, slices.Collect(dec.All(nil, 0)))
}

func TestEncoder_PanicsAfterFinish(t *testing.T) {
	enc := NewNumericRawEncoder(le)
	enc.Finish()
	require.Panics(t, func() { enc.Write(1) })
	require.Panics(t, func() { _ = enc.Bytes() })
	require.Zero(t, enc.Len())

	i16 := NewInt16Encoder(le)
	i16.Finish()
	require.Panics(t, func() { i16.WriteSlice([]int16{1}) })
}

func TestInt16_RoundTrip(t *testing.T) {
	values := []int16{0, 1, -1, math.MaxInt16, math.MinInt16, 12345, -20000}

	enc := NewInt16Encoder(le)
	defer enc.Finish()
	enc.WriteSlice(values[:3])
	for _, v := range values[3:] {
		enc.Write(v)
	}

	require.Equal(t, len(values)*2, enc.Size())
	require.Equal(t, []byte{0xff, 0x7f}, enc.Bytes()[6:8])

	got, err := DecodeAll[int16](NewInt16Decoder(le), enc.Bytes())
	require.NoError(t, err)
	require.Equal(t, values, got)

	prefixed := enc.AppendTo([]byte{0xaa})
	require.Len(t, prefixed, 1+len(values)*2)
	require.Equal(t, byte(0xaa), prefixed[0])
}

func TestDecodeAll_RejectsPartialValue(t *testing.T) {
	_, err := DecodeAll[int16](NewInt16Decoder(le), []byte{1, 2, 3})
	require.Error(t, err)

	got, err := DecodeAll[float64](NewNumericRawDecoder(le), nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestReducedFloat_Precisions(t *testing.T) {
	values := []float64{4.0, -4.0, 0.0, 0.1, 1e-12, 70000}

	tests := []struct {
		precision format.Precision
		expected  []float64
	}{
		{
			precision: format.PrecisionFloat16,
			// 0.1 is not representable in binary16; 1e-12 underflows; 70000 overflows.
			expected: []float64{4.0, -4.0, 0.0, 0.0999755859375, 0, math.Inf(1)},
		},
		{
			precision: format.PrecisionFloat32,
			expected:  []float64{4.0, -4.0, 0.0, float64(float32(0.1)), float64(float32(1e-12)), 70000},
		},
		{
			precision: format.PrecisionFloat64,
			expected:  values,
		},
	}

	for _, tt := range tests {
		t.Run(tt.precision.String(), func(t *testing.T) {
			enc, err := NewReducedFloatEncoder(le, tt.precision)
			require.NoError(t, err)
			defer enc.Finish()

			enc.WriteSlice(values)
			require.Equal(t, len(values)*tt.precision.Width(), enc.Size())
			require.Equal(t, tt.precision, enc.Precision())

			dec, err := NewReducedFloatDecoder(le, tt.precision)
			require.NoError(t, err)

			got, err := DecodeAll[float64](dec, enc.Bytes())
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestReducedFloat_InvalidPrecision(t *testing.T) {
	_, err := NewReducedFloatEncoder(le, format.Precision(0))
	require.ErrorIs(t, err, errs.ErrInvalidPrecision)

	_, err = NewReducedFloatDecoder(le, format.Precision(9))
	require.ErrorIs(t, err, errs.ErrInvalidPrecision)
}
