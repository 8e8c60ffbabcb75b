package predict

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/linear"
	"github.com/arloliu/chaoscodec/signal"
)

func TestBasePredictor_TrainLogistic(t *testing.T) {
	x := signal.Logistic(4, 0.6, 4096)

	res, err := BasePredictor{}.Train(x)
	require.NoError(t, err)
	require.Equal(t, 4094, res.Samples)

	if diff := cmp.Diff([]float64{0, 4, -4}, res.Model.Coefficients, cmpopts.EquateApprox(0, 1e-8)); diff != "" {
		t.Fatalf("coefficients mismatch (-want +got):\n%s", diff)
	}
	require.InDelta(t, 0, res.Model.Intercept, 1e-8)
	require.Greater(t, res.RSquared, 0.999999)
}

func TestBasePredictor_TrainRejectsInvalidSignal(t *testing.T) {
	_, err := BasePredictor{}.Train([]float64{1, 2})
	require.ErrorIs(t, err, errs.ErrSignalTooShort)

	_, err = BasePredictor{}.Train([]float64{1, math.Inf(1), 2, 3})
	require.ErrorIs(t, err, errs.ErrNonFiniteSample)
}

func TestBasePredictor_Reconstruct(t *testing.T) {
	model := linear.NewModel(0, 0, 4, -4)

	for _, n := range []int{3, 4, 100, 1000} {
		out, err := BasePredictor{}.Reconstruct(context.Background(), model, 0.6, 0.96, n)
		require.NoError(t, err)
		require.Len(t, out, n)
		require.Equal(t, 0.6, out[0])
		require.Equal(t, 0.96, out[1])
		require.InDelta(t, 0.1536, out[2], 1e-12)

		for i := 2; i < n; i++ {
			want := 4*out[i-1] - 4*out[i-1]*out[i-1]
			require.InDelta(t, want, out[i], 1e-12)
		}
	}
}

func TestBasePredictor_ReconstructUsesOwnOutputs(t *testing.T) {
	// x[t+1] = 0.5·x[t-1] + 0.25·x[t] + 1
	model := linear.NewModel(1, 0.5, 0.25, 0)

	out, err := BasePredictor{}.Reconstruct(context.Background(), model, 2, 4, 5)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 3, 3.75, 3.4375}, out)
}

func TestBasePredictor_ReconstructDivergence(t *testing.T) {
	model := linear.NewModel(0, 0, 2, 1)

	_, err := BasePredictor{}.Reconstruct(context.Background(), model, 1, 1, 200)
	require.ErrorIs(t, err, errs.ErrNumericalDivergence)
	require.ErrorContains(t, err, "at sample")
}

func TestBasePredictor_ReconstructErrors(t *testing.T) {
	ctx := context.Background()

	_, err := BasePredictor{}.Reconstruct(ctx, linear.NewModel(0, 1, 2), 0, 0, 10)
	require.ErrorIs(t, err, errs.ErrFeatureWidth)

	_, err = BasePredictor{}.Reconstruct(ctx, linear.NewModel(0, 0, 0, 0), 0, 0, 2)
	require.ErrorIs(t, err, errs.ErrSignalTooShort)

	_, err = BasePredictor{}.Reconstruct(ctx, linear.NewModel(0, 0, 0, 0), math.NaN(), 0, 10)
	require.ErrorIs(t, err, errs.ErrNonFiniteSample)
}

func TestBasePredictor_ReconstructCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BasePredictor{}.Reconstruct(ctx, linear.NewModel(0.5, 0, 0, 0), 0, 0, 1<<17)
	require.ErrorIs(t, err, context.Canceled)

	// Short signals finish before the first poll.
	out, err := BasePredictor{}.Reconstruct(ctx, linear.NewModel(0.5, 0, 0, 0), 0, 0, 100)
	require.NoError(t, err)
	require.Len(t, out, 100)
}
