// Package payload serializes the codec output into two independently
// compressed byte blocks.
//
// # Model record
//
// The seven model parameters are stored in fixed order
//
//	[W1 W2 W3 b R1 R2 Rb]
//
// at the configured storage precision, followed by the two float64 seed
// samples. The record is exactly 7·w+16 bytes where w is the precision width.
//
// # Residual record
//
//	[scale float64][N × int16]
//
// N is implied by the record length.
//
// Both records are little-endian, carry no length prefixes and are compressed
// independently. Narrowing to the storage precision happens only in
// EncodeModels; DecodeModels widens back to float64.
package payload

import (
	"fmt"
	"math"

	"github.com/arloliu/chaoscodec/compress"
	"github.com/arloliu/chaoscodec/encoding"
	"github.com/arloliu/chaoscodec/endian"
	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/linear"
	"github.com/arloliu/chaoscodec/predict"
	"github.com/arloliu/chaoscodec/quantize"
	"github.com/arloliu/chaoscodec/signal"
)

const (
	// ParamCount is the number of stored model parameters.
	ParamCount = predict.BaseWidth + 1 + predict.MirrorWidth + 1
	// seedBytes is the size of the two float64 seeds.
	seedBytes = 2 * 8
	// scaleBytes is the size of the residual scale field.
	scaleBytes = 8
)

// Payload is the encoded form of a signal.
type Payload struct {
	// Models is the compressed model record.
	Models []byte
	// Residual is the compressed residual record.
	Residual []byte
}

// Size returns the total encoded size in bytes.
func (p Payload) Size() int {
	return len(p.Models) + len(p.Residual)
}

// Models is the decoded content of a model record.
type Models struct {
	Base   linear.Model
	Mirror linear.Model
	// Seeds are the first two samples of the signal.
	Seeds [2]float64
}

// ModelRecordSize returns the uncompressed model record size for precision.
func ModelRecordSize(precision format.Precision) int {
	return ParamCount*precision.Width() + seedBytes
}

// Codec serializes and compresses payload records.
//
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	engine              endian.EndianEngine
	precision           format.Precision
	modelCompression    format.CompressionType
	residualCompression format.CompressionType
	modelCodec          compress.Codec
	residualCodec       compress.Codec
}

// NewCodec creates a payload codec.
func NewCodec(precision format.Precision, modelCompression, residualCompression format.CompressionType) (*Codec, error) {
	if precision.Width() == 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidPrecision, precision)
	}

	modelCodec, err := compress.CreateCodec(modelCompression, "model")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidCompression, err)
	}

	residualCodec, err := compress.CreateCodec(residualCompression, "residual")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidCompression, err)
	}

	return &Codec{
		engine:              endian.GetLittleEndianEngine(),
		precision:           precision,
		modelCompression:    modelCompression,
		residualCompression: residualCompression,
		modelCodec:          modelCodec,
		residualCodec:       residualCodec,
	}, nil
}

// Precision returns the model parameter storage precision.
func (c *Codec) Precision() format.Precision { return c.precision }

// ModelCompression returns the model block compression type.
func (c *Codec) ModelCompression() format.CompressionType { return c.modelCompression }

// ResidualCompression returns the residual block compression type.
func (c *Codec) ResidualCompression() format.CompressionType { return c.residualCompression }

// Encode serializes and compresses both records.
func (c *Codec) Encode(models Models, delta quantize.Delta) (Payload, error) {
	m, err := c.EncodeModels(models.Base, models.Mirror, models.Seeds)
	if err != nil {
		return Payload{}, err
	}

	r, err := c.EncodeResidual(delta)
	if err != nil {
		return Payload{}, err
	}

	return Payload{Models: m, Residual: r}, nil
}

// Decode decompresses and parses both records.
func (c *Codec) Decode(p Payload) (Models, quantize.Delta, error) {
	models, err := c.DecodeModels(p.Models)
	if err != nil {
		return Models{}, quantize.Delta{}, err
	}

	delta, err := c.DecodeResidual(p.Residual)
	if err != nil {
		return Models{}, quantize.Delta{}, err
	}

	return models, delta, nil
}

// EncodeModels narrows the model parameters to the storage precision, appends
// the seeds and compresses the record.
func (c *Codec) EncodeModels(base, mirror linear.Model, seeds [2]float64) ([]byte, error) {
	if err := base.Check(predict.BaseWidth); err != nil {
		return nil, fmt.Errorf("base model: %w", err)
	}
	if err := mirror.Check(predict.MirrorWidth); err != nil {
		return nil, fmt.Errorf("mirror model: %w", err)
	}

	params, err := encoding.NewReducedFloatEncoder(c.engine, c.precision)
	if err != nil {
		return nil, err
	}
	defer params.Finish()

	params.WriteSlice(base.Coefficients)
	params.Write(base.Intercept)
	params.WriteSlice(mirror.Coefficients)
	params.Write(mirror.Intercept)

	record := make([]byte, 0, ModelRecordSize(c.precision))
	record = append(record, params.Bytes()...)
	record = c.engine.AppendUint64(record, math.Float64bits(seeds[0]))
	record = c.engine.AppendUint64(record, math.Float64bits(seeds[1]))

	compressed, err := c.modelCodec.Compress(record)
	if err != nil {
		return nil, fmt.Errorf("compress model record: %w", err)
	}

	return compressed, nil
}

// DecodeModels decompresses a model record and widens its parameters to float64.
func (c *Codec) DecodeModels(data []byte) (Models, error) {
	record, err := c.modelCodec.Decompress(data)
	if err != nil {
		return Models{}, fmt.Errorf("%w: model block: %w", errs.ErrPayloadCorrupt, err)
	}

	if want := ModelRecordSize(c.precision); len(record) != want {
		return Models{}, fmt.Errorf("%w: model record is %d bytes, want %d", errs.ErrPayloadCorrupt, len(record), want)
	}

	dec, err := encoding.NewReducedFloatDecoder(c.engine, c.precision)
	if err != nil {
		return Models{}, err
	}

	split := ParamCount * c.precision.Width()
	params, err := encoding.DecodeAll[float64](dec, record[:split])
	if err != nil {
		return Models{}, fmt.Errorf("%w: %w", errs.ErrPayloadCorrupt, err)
	}

	seeds, err := encoding.DecodeAll[float64](encoding.NewNumericRawDecoder(c.engine), record[split:])
	if err != nil {
		return Models{}, fmt.Errorf("%w: %w", errs.ErrPayloadCorrupt, err)
	}

	return Models{
		Base:   linear.NewModel(params[3], params[0:3]...),
		Mirror: linear.NewModel(params[6], params[4:6]...),
		Seeds:  [2]float64{seeds[0], seeds[1]},
	}, nil
}

// EncodeResidual serializes the scale and the quantized values and compresses
// the record.
func (c *Codec) EncodeResidual(delta quantize.Delta) ([]byte, error) {
	if err := quantize.ValidateScale(delta.Scale); err != nil {
		return nil, err
	}
	if delta.Len() < signal.MinLength {
		return nil, fmt.Errorf("%w: residual has %d values", errs.ErrSignalTooShort, delta.Len())
	}

	values := encoding.NewInt16Encoder(c.engine)
	defer values.Finish()
	values.WriteSlice(delta.Values)

	record := make([]byte, 0, scaleBytes+values.Size())
	record = c.engine.AppendUint64(record, math.Float64bits(delta.Scale))
	record = values.AppendTo(record)

	compressed, err := c.residualCodec.Compress(record)
	if err != nil {
		return nil, fmt.Errorf("compress residual record: %w", err)
	}

	return compressed, nil
}

// DecodeResidual decompresses a residual record.
func (c *Codec) DecodeResidual(data []byte) (quantize.Delta, error) {
	record, err := c.residualCodec.Decompress(data)
	if err != nil {
		return quantize.Delta{}, fmt.Errorf("%w: residual block: %w", errs.ErrPayloadCorrupt, err)
	}

	if len(record) < scaleBytes {
		return quantize.Delta{}, fmt.Errorf("%w: residual record is %d bytes", errs.ErrPayloadCorrupt, len(record))
	}

	scale := math.Float64frombits(c.engine.Uint64(record[:scaleBytes]))
	if err := quantize.ValidateScale(scale); err != nil {
		return quantize.Delta{}, fmt.Errorf("%w: %w", errs.ErrPayloadCorrupt, err)
	}

	values, err := encoding.DecodeAll[int16](encoding.NewInt16Decoder(c.engine), record[scaleBytes:])
	if err != nil {
		return quantize.Delta{}, fmt.Errorf("%w: %w", errs.ErrPayloadCorrupt, err)
	}
	if len(values) < signal.MinLength {
		return quantize.Delta{}, fmt.Errorf("%w: residual has %d values", errs.ErrPayloadCorrupt, len(values))
	}

	return quantize.Delta{Values: values, Scale: scale}, nil
}
