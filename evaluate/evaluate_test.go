package evaluate

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chaoscodec/compress"
	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/signal"
)

func TestMetrics(t *testing.T) {
	original := []float64{1, 2, 3, 4}
	recon := []float64{1, 2, 3, 5}

	r, err := Metrics(original, recon)
	require.NoError(t, err)
	require.Equal(t, 4, r.Samples)
	require.InDelta(t, 0.25, r.MSE, 1e-15)
	require.InDelta(t, 0.25, r.MAE, 1e-15)
	require.InDelta(t, 1.0, r.MaxAbsError, 0)
	require.InDelta(t, 1.25, r.Variance, 1e-15)
	require.InDelta(t, 0.2, r.LossRatio, 1e-15)
	require.InDelta(t, 34/(math.Sqrt(30)*math.Sqrt(39)), r.Cosine, 1e-15)
	require.Contains(t, r.String(), "MSE=2.500e-01")
}

func TestMetrics_Identical(t *testing.T) {
	x := signal.Logistic(4, 0.6, 1000)

	r, err := Metrics(x, x)
	require.NoError(t, err)
	require.Zero(t, r.MSE)
	require.Zero(t, r.LossRatio)
	require.InDelta(t, 1.0, r.Cosine, 1e-15)
}

func TestMetrics_ConstantOriginal(t *testing.T) {
	r, err := Metrics([]float64{2, 2, 2}, []float64{2, 2, 2})
	require.NoError(t, err)
	require.Zero(t, r.LossRatio)

	r, err = Metrics([]float64{2, 2, 2}, []float64{2, 2, 3})
	require.NoError(t, err)
	require.True(t, math.IsInf(r.LossRatio, 1))

	r, err = Metrics([]float64{0, 0, 0}, []float64{0, 0, 0})
	require.NoError(t, err)
	require.InDelta(t, 1.0, r.Cosine, 0)

	r, err = Metrics([]float64{0, 0, 0}, []float64{0, 1, 0})
	require.NoError(t, err)
	require.Zero(t, r.Cosine)
}

func TestMetrics_Errors(t *testing.T) {
	_, err := Metrics([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, errs.ErrLengthMismatch)

	_, err = Metrics(nil, nil)
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestCompare(t *testing.T) {
	raw := signal.EncodeRaw(signal.Logistic(4, 0.6, 8192))

	cmp, err := Compare(context.Background(), raw, 1000)
	require.NoError(t, err)
	require.Equal(t, len(raw), cmp.RawSize)
	require.Len(t, cmp.Rows, len(compress.BaselineTypes())+1)

	codec := cmp.Codec()
	require.Equal(t, CodecName, codec.Name)
	require.InDelta(t, 1000/float64(len(raw)), codec.Ratio, 1e-15)

	for i, row := range cmp.Baselines() {
		require.Equal(t, compress.BaselineTypes()[i].String(), row.Name)
		require.NoError(t, row.Err)
		require.Positive(t, row.Size)
		require.InDelta(t, float64(row.Size)/float64(len(raw)), row.Ratio, 1e-15)
	}

	best, ok := cmp.Smallest()
	require.True(t, ok)
	for _, row := range cmp.Baselines() {
		require.LessOrEqual(t, best.Size, row.Size)
	}
}

func TestCompare_FailuresStayInRow(t *testing.T) {
	cmp, err := Compare(context.Background(), []byte("abc"), 3, format.CompressionZlib, format.CompressionType(0x7f))
	require.NoError(t, err)
	require.Len(t, cmp.Rows, 3)
	require.NoError(t, cmp.Rows[1].Err)
	require.Error(t, cmp.Rows[2].Err)
	require.Zero(t, cmp.Rows[2].Size)

	best, ok := cmp.Smallest()
	require.True(t, ok)
	require.Equal(t, "Zlib", best.Name)
}

func TestCompare_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compare(ctx, []byte("abc"), 3, format.CompressionZlib)
	require.ErrorIs(t, err, context.Canceled)
}
