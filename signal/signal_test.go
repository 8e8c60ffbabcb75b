package signal

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chaoscodec/errs"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		err  error
	}{
		{name: "ok", x: []float64{1, 2, 3}},
		{name: "empty", x: nil, err: errs.ErrSignalTooShort},
		{name: "two samples", x: []float64{1, 2}, err: errs.ErrSignalTooShort},
		{name: "nan", x: []float64{1, math.NaN(), 3}, err: errs.ErrNonFiniteSample},
		{name: "inf", x: []float64{1, 2, 3, math.Inf(-1)}, err: errs.ErrNonFiniteSample},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.x)
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
			require.ErrorIs(t, err, errs.ErrInvalidInput)
		})
	}

	require.ErrorContains(t, Validate([]float64{0, 0, math.NaN()}), "sample 2")
}

func TestLogistic(t *testing.T) {
	x := Logistic(4, 0.6, 1000)
	require.Len(t, x, 1000)
	require.Equal(t, 0.6, x[0])
	require.InDelta(t, 0.96, x[1], 1e-15)
	require.InDelta(t, 0.1536, x[2], 1e-15)

	for _, v := range x {
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}

	require.Nil(t, Logistic(4, 0.6, 0))
	require.Equal(t, x, Logistic(4, 0.6, 1000))
}

func TestConstant(t *testing.T) {
	require.Equal(t, []float64{2.5, 2.5, 2.5}, Constant(2.5, 3))
	require.Nil(t, Constant(1, -1))
}

func TestRaw_RoundTrip(t *testing.T) {
	x := Logistic(3.9, 0.1, 257)

	data := EncodeRaw(x)
	require.Len(t, data, len(x)*8)

	got, err := DecodeRaw(data)
	require.NoError(t, err)
	require.Equal(t, x, got)

	_, err = DecodeRaw(data[:len(data)-3])
	require.Error(t, err)
}

func TestRaw_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signal.f64")
	x := []float64{0.25, -1, math.MaxFloat64}

	require.NoError(t, WriteFile(path, x))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, x, got)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.f64"))
	require.Error(t, err)
}
