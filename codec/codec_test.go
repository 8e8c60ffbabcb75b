package codec

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chaoscodec/compress"
	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/evaluate"
	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/linear"
	"github.com/arloliu/chaoscodec/payload"
	"github.com/arloliu/chaoscodec/quantize"
	"github.com/arloliu/chaoscodec/signal"
)

func encodeDecode(t *testing.T, x []float64, opts ...Option) (*Result, *Decoded) {
	t.Helper()

	enc, err := NewEncoder(opts...)
	require.NoError(t, err)

	res, err := enc.Encode(context.Background(), x)
	require.NoError(t, err)

	dec, err := NewDecoder(append(opts, WithReferenceSignal(x))...)
	require.NoError(t, err)

	out, err := dec.Decode(context.Background(), res.Payload)
	require.NoError(t, err)

	return res, out
}

func TestEndToEnd_LogisticMap(t *testing.T) {
	n := 1_310_720
	if testing.Short() {
		n = 65_536
	}

	x := signal.Logistic(4.0, 0.6, n)
	res, out := encodeDecode(t, x)

	require.Len(t, out.Signal, n)
	require.Equal(t, res.Reconstruction, out.Signal, "decoder must reproduce the encoder reconstruction")

	// float16 storage makes the logistic coefficients exact.
	require.Equal(t, []float64{0, 4, -4}, res.StoredBase.Coefficients)
	require.Zero(t, res.StoredBase.Intercept)

	report, err := evaluate.Metrics(x, out.Signal)
	require.NoError(t, err)
	require.Greater(t, report.Cosine, 0.9999, report.String())
	require.Less(t, report.LossRatio, 1e-6, report.String())
	require.Zero(t, res.Stats.Clip.Clipped)

	raw := signal.EncodeRaw(x)
	cmp, err := evaluate.Compare(context.Background(), raw, res.Payload.Size(),
		format.CompressionZlib, format.CompressionGzip, format.CompressionBzip2, format.CompressionLZMA)
	require.NoError(t, err)

	for _, row := range cmp.Baselines() {
		require.NoError(t, row.Err, row.Name)
		require.Less(t, res.Payload.Size(), row.Size, "codec must beat %s", row.Name)
	}

	t.Logf("raw=%d codec=%d (models=%d residual=%d) %s",
		len(raw), res.Payload.Size(), res.Stats.ModelBytes, res.Stats.ResidualBytes, report)
}

func TestEncode_Deterministic(t *testing.T) {
	x := signal.Logistic(4.0, 0.37, 20_000)

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionLZMA, format.CompressionBzip2} {
		enc, err := NewEncoder(WithCompression(ct))
		require.NoError(t, err)

		first, err := enc.Encode(context.Background(), x)
		require.NoError(t, err)
		second, err := enc.Encode(context.Background(), x)
		require.NoError(t, err)

		require.Equal(t, first.Payload, second.Payload, ct.String())
	}
}

func TestEncode_DoesNotModifyInput(t *testing.T) {
	x := signal.Logistic(4.0, 0.6, 5000)
	orig := append([]float64(nil), x...)

	_, _ = encodeDecode(t, x, WithMirrorSource(format.MirrorFromSignal))
	require.Equal(t, orig, x)
}

func TestRoundTrip_ConfigurationMatrix(t *testing.T) {
	// r = 3.2 settles on a stable two-cycle, so the recurrence stays bounded
	// at every storage precision.
	x := signal.Logistic(3.2, 0.6, 8192)

	precisions := []format.Precision{format.PrecisionFloat16, format.PrecisionFloat32, format.PrecisionFloat64}
	mirrors := []format.MirrorSource{format.MirrorFromReconstruction, format.MirrorFromSignal}

	for _, p := range precisions {
		for _, m := range mirrors {
			for _, ct := range []format.CompressionType{format.CompressionNone, format.CompressionS2, format.CompressionLZ4, format.CompressionGzip} {
				t.Run(p.String()+"/"+m.String()+"/"+ct.String(), func(t *testing.T) {
					res, out := encodeDecode(t, x, WithPrecision(p), WithMirrorSource(m), WithCompression(ct), WithWorkers(3))
					require.Equal(t, res.Reconstruction, out.Signal)

					report, err := evaluate.Metrics(x, out.Signal)
					require.NoError(t, err)
					require.LessOrEqual(t, report.MaxAbsError, 0.5/DefaultScale+1e-6)
				})
			}
		}
	}
}

func TestEncode_ConstantSignal(t *testing.T) {
	for _, c := range []float64{0.5, 0.3, -7} {
		x := signal.Constant(c, 4096)
		res, out := encodeDecode(t, x)

		require.Zero(t, res.StoredBase.Coefficients[0])
		require.Zero(t, res.StoredBase.Coefficients[1])
		require.Zero(t, res.StoredBase.Coefficients[2])
		require.Zero(t, res.Stats.Clip.Clipped)

		nonZero := 0
		for _, q := range out.Delta.Values {
			if q != 0 {
				nonZero++
			}
		}
		require.LessOrEqual(t, nonZero, len(x)/100, "c=%v", c)

		report, err := evaluate.Metrics(x, out.Signal)
		require.NoError(t, err)
		require.Less(t, report.MaxAbsError, 1e-4, "c=%v", c)
	}
}

func TestEncode_OutlierClips(t *testing.T) {
	x := signal.Constant(0.5, 4096)
	x[2048] = 10.5

	res, out := encodeDecode(t, x)
	require.GreaterOrEqual(t, res.Stats.Clip.Clipped, 1)
	require.Positive(t, res.Stats.Clip.ClipRatio())
	require.Equal(t, len(x), res.Stats.Clip.Total)

	for i, v := range out.Signal {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "sample %d is not finite", i)
	}

	// The clipped sample is off by the excess beyond the int16 range, every
	// other sample stays within quantization error.
	for i, v := range out.Signal {
		if i == 2048 {
			require.Greater(t, math.Abs(x[i]-v), 1.0)
			continue
		}
		require.InDelta(t, x[i], v, 1e-3, "sample %d", i)
	}
}

func TestDecode_ReferenceRequired(t *testing.T) {
	x := signal.Logistic(4.0, 0.6, 4096)

	enc, err := NewEncoder(WithMirrorSource(format.MirrorFromSignal))
	require.NoError(t, err)
	res, err := enc.Encode(context.Background(), x)
	require.NoError(t, err)

	dec, err := NewDecoder(WithMirrorSource(format.MirrorFromSignal))
	require.NoError(t, err)
	_, err = dec.Decode(context.Background(), res.Payload)
	require.ErrorIs(t, err, errs.ErrReferenceRequired)

	dec, err = NewDecoder(WithMirrorSource(format.MirrorFromSignal), WithReferenceSignal(x[:100]))
	require.NoError(t, err)
	_, err = dec.Decode(context.Background(), res.Payload)
	require.ErrorIs(t, err, errs.ErrLengthMismatch)

	dec, err = NewDecoder(WithMirrorSource(format.MirrorFromSignal), WithReferenceSignal(x))
	require.NoError(t, err)
	out, err := dec.Decode(context.Background(), res.Payload)
	require.NoError(t, err)
	require.Equal(t, res.Reconstruction, out.Signal)
}

func TestContainer_RoundTrip(t *testing.T) {
	x := signal.Logistic(4.0, 0.6, 10_000)

	enc, err := NewEncoder(WithResidualCompression(format.CompressionLZMA), WithScale(5e3))
	require.NoError(t, err)
	res, err := enc.Encode(context.Background(), x)
	require.NoError(t, err)

	data, err := res.MarshalContainer()
	require.NoError(t, err)

	out, err := DecodeContainer(context.Background(), data)
	require.NoError(t, err)
	require.Equal(t, res.Reconstruction, out.Signal)
	require.InDelta(t, 5e3, out.Delta.Scale, 0)

	data[len(data)-1] ^= 0x01
	_, err = DecodeContainer(context.Background(), data)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestDecode_CorruptPayload(t *testing.T) {
	x := signal.Logistic(4.0, 0.6, 4096)
	res, _ := encodeDecode(t, x)

	dec, err := NewDecoder()
	require.NoError(t, err)

	p := res.Payload
	p.Residual = p.Residual[:len(p.Residual)/2]
	_, err = dec.Decode(context.Background(), p)
	require.ErrorIs(t, err, errs.ErrPayloadCorrupt)

	// Decoding with a different storage precision sees a wrongly sized record.
	dec32, err := NewDecoder(WithPrecision(format.PrecisionFloat32))
	require.NoError(t, err)
	_, err = dec32.Decode(context.Background(), res.Payload)
	require.ErrorIs(t, err, errs.ErrPayloadCorrupt)
}

func TestEncode_InvalidSignal(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	_, err = enc.Encode(context.Background(), []float64{1, 2})
	require.ErrorIs(t, err, errs.ErrSignalTooShort)

	_, err = enc.Encode(context.Background(), []float64{1, 2, math.NaN(), 4})
	require.ErrorIs(t, err, errs.ErrNonFiniteSample)
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

// slowSine is a quarter period over n samples. Consecutive samples are almost
// collinear, so the mirror fit lands on huge opposite-signed coefficients.
func slowSine(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2*math.Pi*float64(i)/float64(n)*0.25) + 0.5
	}

	return x
}

func TestEncode_ModelOverflowsPrecision(t *testing.T) {
	x := slowSine(200_000)

	enc, err := NewEncoder(WithMirrorSource(format.MirrorFromSignal), WithPrecision(format.PrecisionFloat16))
	require.NoError(t, err)

	res, err := enc.Encode(context.Background(), x)
	require.ErrorIs(t, err, errs.ErrNumericalDivergence)
	require.Nil(t, res)

	// float64 storage keeps the same coefficients finite.
	enc, err = NewEncoder(WithMirrorSource(format.MirrorFromSignal), WithPrecision(format.PrecisionFloat64))
	require.NoError(t, err)

	res, err = enc.Encode(context.Background(), x)
	require.NoError(t, err)
	for i, v := range res.Reconstruction {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "sample %d is %v", i, v)
	}
}

func TestDecode_RejectsNonFiniteModel(t *testing.T) {
	pc, err := payload.NewCodec(format.PrecisionFloat32, format.CompressionZstd, format.CompressionZstd)
	require.NoError(t, err)

	p, err := pc.Encode(payload.Models{
		Base:   linear.NewModel(0, 0, 4, -4),
		Mirror: linear.NewModel(0, math.Inf(1), 0),
		Seeds:  [2]float64{0.6, 0.96},
	}, quantize.Delta{Values: make([]int16, 64), Scale: quantize.DefaultScale})
	require.NoError(t, err)

	dec, err := NewDecoder(WithPrecision(format.PrecisionFloat32))
	require.NoError(t, err)

	_, err = dec.Decode(context.Background(), p)
	require.ErrorIs(t, err, errs.ErrNumericalDivergence)
}

func TestCheckFinite(t *testing.T) {
	require.NoError(t, checkFinite("hybrid prediction", []float64{0, 1, -2.5}))

	err := checkFinite("reconstruction", []float64{0, math.NaN(), 1})
	require.ErrorIs(t, err, errs.ErrNumericalDivergence)
	require.ErrorContains(t, err, "reconstruction sample 1")
}

func TestEncode_Timeout(t *testing.T) {
	enc, err := NewEncoder(WithTimeout(time.Nanosecond))
	require.NoError(t, err)

	_, err = enc.Encode(context.Background(), signal.Logistic(4.0, 0.6, 1<<18))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		err  error
	}{
		{name: "zero scale", opt: WithScale(0), err: errs.ErrInvalidScale},
		{name: "nan scale", opt: WithScale(math.NaN()), err: errs.ErrInvalidScale},
		{name: "precision", opt: WithPrecision(format.Precision(7)), err: errs.ErrInvalidPrecision},
		{name: "model compression", opt: WithModelCompression(0), err: errs.ErrInvalidCompression},
		{name: "residual compression", opt: WithResidualCompression(99), err: errs.ErrInvalidCompression},
		{name: "compression", opt: WithCompression(0), err: errs.ErrInvalidCompression},
		{name: "mirror", opt: WithMirrorSource(0), err: errs.ErrInvalidMirrorMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncoder(tt.opt)
			require.ErrorIs(t, err, tt.err)

			_, err = NewDecoder(tt.opt)
			require.ErrorIs(t, err, tt.err)
		})
	}

	_, err := NewEncoder(WithWorkers(0))
	require.Error(t, err)
	_, err = NewEncoder(WithTimeout(-time.Second))
	require.Error(t, err)

	enc, err := NewEncoder(WithLogger(nil), WithWorkers(2), WithScale(123), WithCompression(format.CompressionLZ4))
	require.NoError(t, err)
	cfg := enc.Config()
	require.NotNil(t, cfg.Logger)
	require.Equal(t, 2, cfg.Workers)
	require.InDelta(t, 123.0, cfg.Scale, 0)
	require.Equal(t, format.CompressionLZ4, cfg.ModelCompression)
	require.Equal(t, format.CompressionLZ4, cfg.ResidualCompression)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.InDelta(t, 1e4, cfg.Scale, 0)
	require.Equal(t, format.PrecisionFloat16, cfg.Precision)
	require.Equal(t, format.MirrorFromReconstruction, cfg.MirrorSource)
	require.Contains(t, compress.BaselineTypes(), cfg.ResidualCompression)
}
