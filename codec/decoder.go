package codec

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arloliu/chaoscodec/container"
	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/payload"
	"github.com/arloliu/chaoscodec/predict"
	"github.com/arloliu/chaoscodec/quantize"
)

// Decoder decodes payloads into signals.
//
// The payload itself carries the scale; Precision, the compression types and
// MirrorSource must match the encoder configuration.
type Decoder struct {
	cfg     Config
	payload *payload.Codec
	base    predict.BasePredictor
	mirror  predict.MirrorPredictor
}

// NewDecoder creates a decoder from DefaultConfig and opts.
func NewDecoder(opts ...Option) (*Decoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	pc, err := payload.NewCodec(cfg.Precision, cfg.ModelCompression, cfg.ResidualCompression)
	if err != nil {
		return nil, err
	}

	return &Decoder{cfg: cfg, payload: pc}, nil
}

// NewContainerDecoder creates a decoder configured from a container header.
// opts are applied after the header settings, typically WithReferenceSignal
// or WithLogger.
func NewContainerDecoder(h container.Header, opts ...Option) (*Decoder, error) {
	headerOpts := []Option{
		WithPrecision(h.Precision),
		WithModelCompression(h.ModelCompression),
		WithResidualCompression(h.ResidualCompression),
		WithMirrorSource(h.MirrorSource),
		WithScale(h.Scale),
	}

	return NewDecoder(append(headerOpts, opts...)...)
}

// DecodeContainer parses a container file and decodes its payload.
func DecodeContainer(ctx context.Context, data []byte, opts ...Option) (*Decoded, error) {
	f, err := container.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	dec, err := NewContainerDecoder(f.Header, opts...)
	if err != nil {
		return nil, err
	}

	out, err := dec.Decode(ctx, f.Payload)
	if err != nil {
		return nil, err
	}
	if out.Delta.Scale != f.Header.Scale {
		return nil, fmt.Errorf("%w: residual scale %v, header %v", errs.ErrPayloadCorrupt, out.Delta.Scale, f.Header.Scale)
	}

	return out, nil
}

// Config returns a copy of the decoder configuration.
func (d *Decoder) Config() Config {
	return d.cfg
}

// Decode reconstructs a signal from p.
func (d *Decoder) Decode(ctx context.Context, p payload.Payload) (*Decoded, error) {
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	var t Timings
	start := time.Now()

	models, delta, err := d.payload.Decode(p)
	if err != nil {
		return nil, err
	}
	t.Serialize = time.Since(start)

	if err := checkModels(models, d.cfg.Precision); err != nil {
		return nil, err
	}

	n := delta.Len()
	var source []float64
	if d.cfg.MirrorSource == format.MirrorFromSignal {
		if d.cfg.Reference == nil {
			return nil, errs.ErrReferenceRequired
		}
		if len(d.cfg.Reference) != n {
			return nil, fmt.Errorf("reference signal: %w: got %d samples, payload has %d", errs.ErrLengthMismatch, len(d.cfg.Reference), n)
		}
		source = d.cfg.Reference
	}

	stageStart := time.Now()
	recon, err := d.base.Reconstruct(ctx, models.Base, models.Seeds[0], models.Seeds[1], n)
	if err != nil {
		return nil, err
	}
	t.Reconstruct = time.Since(stageStart)

	if source == nil {
		source = recon
	}

	stageStart = time.Now()
	mirrorPred, err := d.mirror.ApplyParallel(ctx, models.Mirror, source, d.cfg.Workers)
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
	final, err := quantize.Decode(delta, hybrid)
	if err != nil {
		return nil, err
	}
	if err := checkFinite("reconstruction", final); err != nil {
		return nil, err
	}
	t.Quantize = time.Since(stageStart)
	t.Total = time.Since(start)

	d.cfg.Logger.DebugContext(ctx, "payload decoded",
		slog.Int("samples", n),
		slog.Int("payload_bytes", p.Size()),
		slog.Any("timings", t),
	)

	return &Decoded{Signal: final, Models: models, Delta: delta, Timings: t}, nil
}
