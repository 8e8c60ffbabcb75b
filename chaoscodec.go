// Package chaoscodec provides a lossy, model-based codec for chaotic time
// series such as logistic-map trajectories.
//
// The encoder trains two small linear models on the signal: a base model that
// regenerates the series autoregressively from its first two samples, and a
// mirror model that predicts what the base model gets wrong from a
// time-reversed view of the series. Only the model parameters, the two seed
// samples and a 16-bit quantized correction per sample are stored, so a
// smooth-but-chaotic signal shrinks far below what general-purpose compressors
// achieve on its raw float64 bytes.
//
// # Core Features
//
//   - Deterministic round trip: the decoder output is bit-identical to the
//     reconstruction reported by the encoder
//   - Bounded error: every sample is within 0.5/Scale of the original unless
//     its correction was clipped, which is counted, never hidden
//   - Model parameters stored as float16, float32 or float64
//   - Per-block compression (None, Zstd, S2, LZ4, Zlib, Gzip, Bzip2, LZMA)
//   - Self-describing container files with an xxHash64 checksum
//
// # Basic Usage
//
//	x := signal.Logistic(4, 0.6, 1<<16)
//
//	data, err := chaoscodec.Encode(ctx, x)
//	if err != nil {
//	    return err
//	}
//
//	y, err := chaoscodec.Decode(ctx, data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the codec and
// container packages. For stage timings, clip statistics, raw payloads or
// decoder reuse, use the codec package directly.
package chaoscodec

import (
	"context"
	"fmt"
	"os"

	"github.com/arloliu/chaoscodec/codec"
	"github.com/arloliu/chaoscodec/signal"
)

// NewEncoder creates an encoder with custom options.
//
// Available options:
//   - codec.WithScale(float64)
//   - codec.WithPrecision(format.PrecisionFloat16|Float32|Float64)
//   - codec.WithCompression / WithModelCompression / WithResidualCompression
//   - codec.WithMirrorSource(format.MirrorFromReconstruction|MirrorFromSignal)
//   - codec.WithWorkers, codec.WithTimeout, codec.WithLogger
func NewEncoder(opts ...codec.Option) (*codec.Encoder, error) {
	return codec.NewEncoder(opts...)
}

// NewDecoder creates a decoder for raw payloads. The options must match the
// encoder that produced them; container files carry their own settings and
// should be decoded with Decode instead.
func NewDecoder(opts ...codec.Option) (*codec.Decoder, error) {
	return codec.NewDecoder(opts...)
}

// Encode encodes x and returns it framed as a container file.
func Encode(ctx context.Context, x []float64, opts ...codec.Option) ([]byte, error) {
	res, err := encode(ctx, x, opts)
	if err != nil {
		return nil, err
	}

	return res.MarshalContainer()
}

// Decode decodes a container file produced by Encode.
//
// The codec settings are read from the container header; opts may add
// codec.WithReferenceSignal, codec.WithWorkers, codec.WithTimeout or
// codec.WithLogger.
func Decode(ctx context.Context, data []byte, opts ...codec.Option) ([]float64, error) {
	dec, err := codec.DecodeContainer(ctx, data, opts...)
	if err != nil {
		return nil, err
	}

	return dec.Signal, nil
}

// EncodeFile reads a raw little-endian float64 signal from inPath, encodes it
// and writes the container file to outPath.
func EncodeFile(ctx context.Context, inPath, outPath string, opts ...codec.Option) (*codec.Result, error) {
	x, err := signal.ReadFile(inPath)
	if err != nil {
		return nil, err
	}

	res, err := encode(ctx, x, opts)
	if err != nil {
		return nil, err
	}

	data, err := res.MarshalContainer()
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil { //nolint: gosec
		return nil, fmt.Errorf("write container: %w", err)
	}

	return res, nil
}

// DecodeFile reads a container file from inPath, decodes it and writes the
// signal to outPath as raw little-endian float64 values.
func DecodeFile(ctx context.Context, inPath, outPath string, opts ...codec.Option) (*codec.Decoded, error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}

	dec, err := codec.DecodeContainer(ctx, data, opts...)
	if err != nil {
		return nil, err
	}

	if err := signal.WriteFile(outPath, dec.Signal); err != nil {
		return nil, err
	}

	return dec, nil
}

func encode(ctx context.Context, x []float64, opts []codec.Option) (*codec.Result, error) {
	enc, err := codec.NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return enc.Encode(ctx, x)
}
