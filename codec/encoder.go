package codec

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arloliu/chaoscodec/container"
	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/linear"
	"github.com/arloliu/chaoscodec/payload"
	"github.com/arloliu/chaoscodec/predict"
	"github.com/arloliu/chaoscodec/quantize"
	"github.com/arloliu/chaoscodec/signal"
)

// Encoder encodes signals into payloads.
type Encoder struct {
	cfg       Config
	payload   *payload.Codec
	quantizer quantize.Quantizer
	base      predict.BasePredictor
	mirror    predict.MirrorPredictor
}

// NewEncoder creates an encoder from DefaultConfig and opts.
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	pc, err := payload.NewCodec(cfg.Precision, cfg.ModelCompression, cfg.ResidualCompression)
	if err != nil {
		return nil, err
	}

	q, err := quantize.New(cfg.Scale)
	if err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg, payload: pc, quantizer: q}, nil
}

// Config returns a copy of the encoder configuration.
func (e *Encoder) Config() Config {
	return e.cfg
}

// Encode runs the full encode pipeline on x. x is not modified.
func (e *Encoder) Encode(ctx context.Context, x []float64) (*Result, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	if err := signal.Validate(x); err != nil {
		return nil, err
	}

	var t Timings
	start := time.Now()
	seeds := [2]float64{x[0], x[1]}

	stageStart := time.Now()
	baseFit, err := e.base.Train(x)
	if err != nil {
		return nil, err
	}

	// Reconstruct from the narrowed and widened-back base model rather than the
	// float64 fit. The residual is then measured against the model the decoder
	// reads from the payload, which keeps decoder output bit-identical to
	// Result.Reconstruction.
	stored, _, err := e.storedModels(baseFit.Model, linear.NewModel(0, 0, 0), seeds)
	if err != nil {
		return nil, err
	}
	storedBase := stored.Base
	t.Train = time.Since(stageStart)

	stageStart = time.Now()
	recon, err := e.base.Reconstruct(ctx, storedBase, seeds[0], seeds[1], len(x))
	if err != nil {
		return nil, err
	}

	residual, err := predict.Residual(x, recon)
	if err != nil {
		return nil, err
	}
	t.Reconstruct = time.Since(stageStart)

	stageStart = time.Now()
	source := recon
	if e.cfg.MirrorSource == format.MirrorFromSignal {
		source = x
	}

	mirrorFit, err := e.mirror.Train(source, residual)
	if err != nil {
		return nil, err
	}

	stored, modelBlock, err := e.storedModels(baseFit.Model, mirrorFit.Model, seeds)
	if err != nil {
		return nil, err
	}

	mirrorPred, err := e.mirror.ApplyParallel(ctx, stored.Mirror, source, e.cfg.Workers)
	if err != nil {
		return nil, err
	}

	hybrid, err := predict.Hybrid(recon, mirrorPred)
	if err != nil {
		return nil, err
	}
	if err := checkFinite("hybrid prediction", hybrid); err != nil {
		return nil, err
	}
	t.Mirror = time.Since(stageStart)

	stageStart = time.Now()
	delta, clip, err := e.quantizer.Encode(x, hybrid)
	if err != nil {
		return nil, err
	}

	final, err := quantize.Decode(delta, hybrid)
	if err != nil {
		return nil, err
	}
	if err := checkFinite("reconstruction", final); err != nil {
		return nil, err
	}
	t.Quantize = time.Since(stageStart)

	stageStart = time.Now()
	residualBlock, err := e.payload.EncodeResidual(delta)
	if err != nil {
		return nil, err
	}
	t.Serialize = time.Since(stageStart)
	t.Total = time.Since(start)

	p := payload.Payload{Models: modelBlock, Residual: residualBlock}
	res := &Result{
		Payload: p,
		Header: container.Header{
			Version:             container.Version,
			Precision:           e.cfg.Precision,
			ModelCompression:    e.cfg.ModelCompression,
			ResidualCompression: e.cfg.ResidualCompression,
			MirrorSource:        e.cfg.MirrorSource,
			Scale:               e.cfg.Scale,
		},
		Base:           baseFit,
		Mirror:         mirrorFit,
		StoredBase:     stored.Base,
		StoredMirror:   stored.Mirror,
		Reconstruction: final,
		Stats: Stats{
			Samples:       len(x),
			Clip:          clip,
			ModelBytes:    len(p.Models),
			ResidualBytes: len(p.Residual),
			Timings:       t,
		},
	}

	e.cfg.Logger.DebugContext(ctx, "signal encoded",
		slog.Int("samples", len(x)),
		slog.Int("payload_bytes", p.Size()),
		slog.Int("clipped", clip.Clipped),
		slog.Float64("base_r2", baseFit.RSquared),
		slog.Float64("mirror_r2", mirrorFit.RSquared),
		slog.Any("timings", t),
	)

	return res, nil
}

// storedModels serializes the models and reads them back, returning the
// decoder-visible models and the compressed model block. A parameter that
// overflows the storage precision fails with errs.ErrNumericalDivergence.
func (e *Encoder) storedModels(base, mirror linear.Model, seeds [2]float64) (payload.Models, []byte, error) {
	block, err := e.payload.EncodeModels(base, mirror, seeds)
	if err != nil {
		return payload.Models{}, nil, err
	}

	stored, err := e.payload.DecodeModels(block)
	if err != nil {
		return payload.Models{}, nil, fmt.Errorf("read back model record: %w", err)
	}
	if err := checkModels(stored, e.cfg.Precision); err != nil {
		return payload.Models{}, nil, err
	}

	return stored, block, nil
}
