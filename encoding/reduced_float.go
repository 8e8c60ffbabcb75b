package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/x448/float16"

	"github.com/arloliu/chaoscodec/endian"
	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/internal/pool"
)

// ReducedFloatEncoder stores float64 values at a reduced storage precision.
//
// Float16 narrowing goes through float32 first; values beyond the binary16
// range become ±Inf and subnormal underflow becomes ±0, as in IEEE 754.
type ReducedFloatEncoder struct {
	buf       *pool.ByteBuffer
	engine    endian.EndianEngine
	precision format.Precision
	width     int
	count     int
}

var _ ColumnarEncoder[float64] = (*ReducedFloatEncoder)(nil)

// NewReducedFloatEncoder creates an encoder for the given storage precision.
func NewReducedFloatEncoder(engine endian.EndianEngine, precision format.Precision) (*ReducedFloatEncoder, error) {
	width := precision.Width()
	if width == 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidPrecision, precision)
	}

	return &ReducedFloatEncoder{
		buf:       pool.GetRecordBuffer(),
		engine:    engine,
		precision: precision,
		width:     width,
	}, nil
}

// Precision returns the storage precision.
func (e *ReducedFloatEncoder) Precision() format.Precision {
	return e.precision
}

// Write narrows and encodes a single value. Panics if Finish() has been called.
func (e *ReducedFloatEncoder) Write(v float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	start := e.buf.Len()
	e.buf.ExtendOrGrow(e.width)
	e.put(e.buf.Slice(start, start+e.width), v)
}

// WriteSlice narrows and encodes values. Panics if Finish() has been called.
func (e *ReducedFloatEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if len(values) == 0 {
		return
	}

	e.count += len(values)
	startIdx := e.buf.Len()
	e.buf.ExtendOrGrow(len(values) * e.width)

	for i, v := range values {
		offset := startIdx + i*e.width
		e.put(e.buf.Slice(offset, offset+e.width), v)
	}
}

func (e *ReducedFloatEncoder) put(dst []byte, v float64) {
	switch e.precision { //nolint: exhaustive
	case format.PrecisionFloat16:
		e.engine.PutUint16(dst, float16.Fromfloat32(float32(v)).Bits())
	case format.PrecisionFloat32:
		e.engine.PutUint32(dst, math.Float32bits(float32(v)))
	default:
		e.engine.PutUint64(dst, math.Float64bits(v))
	}
}

// Bytes returns the encoded bytes. Panics if Finish() has been called.
func (e *ReducedFloatEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *ReducedFloatEncoder) Len() int {
	return e.count
}

// Size returns the number of encoded bytes. Panics if Finish() has been called.
func (e *ReducedFloatEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *ReducedFloatEncoder) Finish() {
	if e.buf != nil {
		pool.PutRecordBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// ReducedFloatDecoder widens values written by ReducedFloatEncoder back to float64.
type ReducedFloatDecoder struct {
	engine    endian.EndianEngine
	precision format.Precision
	width     int
}

var _ ColumnarDecoder[float64] = ReducedFloatDecoder{}

// NewReducedFloatDecoder creates a decoder for the given storage precision.
func NewReducedFloatDecoder(engine endian.EndianEngine, precision format.Precision) (ReducedFloatDecoder, error) {
	width := precision.Width()
	if width == 0 {
		return ReducedFloatDecoder{}, fmt.Errorf("%w: %d", errs.ErrInvalidPrecision, precision)
	}

	return ReducedFloatDecoder{engine: engine, precision: precision, width: width}, nil
}

// Width returns the bytes per stored value.
func (d ReducedFloatDecoder) Width() int { return d.width }

// All yields count widened values from data.
func (d ReducedFloatDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if count <= 0 || len(data) < count*d.width {
			return
		}

		for i := range count {
			start := i * d.width
			if !yield(d.get(data[start : start+d.width])) {
				return
			}
		}
	}
}

// At returns the widened value at index.
func (d ReducedFloatDecoder) At(data []byte, index int, count int) (float64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	start := index * d.width
	if start+d.width > len(data) {
		return 0, false
	}

	return d.get(data[start : start+d.width]), true
}

func (d ReducedFloatDecoder) get(src []byte) float64 {
	switch d.precision { //nolint: exhaustive
	case format.PrecisionFloat16:
		return float64(float16.Frombits(d.engine.Uint16(src)).Float32())
	case format.PrecisionFloat32:
		return float64(math.Float32frombits(d.engine.Uint32(src)))
	default:
		return math.Float64frombits(d.engine.Uint64(src))
	}
}
