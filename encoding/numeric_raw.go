package encoding

import (
	"iter"
	"math"

	"github.com/arloliu/chaoscodec/endian"
	"github.com/arloliu/chaoscodec/internal/pool"
)

// NumericRawEncoder encodes float64 values in their IEEE 754 binary64 form.
type NumericRawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[float64] = (*NumericRawEncoder)(nil)

// NewNumericRawEncoder creates a float64 encoder using the given byte order.
func NewNumericRawEncoder(engine endian.EndianEngine) *NumericRawEncoder {
	return &NumericRawEncoder{
		engine: engine,
		buf:    pool.GetRecordBuffer(),
	}
}

// Write encodes a single float64 value.
//
// Panics if Finish() has been called.
func (e *NumericRawEncoder) Write(val float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	start := e.buf.Len()
	e.buf.ExtendOrGrow(8)
	e.engine.PutUint64(e.buf.Slice(start, start+8), math.Float64bits(val))
}

// WriteSlice encodes values with a single buffer growth of 8*len(values) bytes.
//
// Panics if Finish() has been called.
func (e *NumericRawEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if len(values) == 0 {
		return
	}

	e.count += len(values)
	startIdx := e.buf.Len()
	e.buf.ExtendOrGrow(len(values) * 8)

	for i, v := range values {
		offset := startIdx + i*8
		e.engine.PutUint64(e.buf.Slice(offset, offset+8), math.Float64bits(v))
	}
}

// Bytes returns the encoded bytes. Panics if Finish() has been called.
func (e *NumericRawEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *NumericRawEncoder) Len() int {
	return e.count
}

// Size returns the number of encoded bytes. Panics if Finish() has been called.
func (e *NumericRawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *NumericRawEncoder) Finish() {
	if e.buf != nil {
		pool.PutRecordBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// NumericRawDecoder decodes float64 values written by NumericRawEncoder.
//
// It is a stateless value and safe for concurrent use.
type NumericRawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[float64] = NumericRawDecoder{}

// NewNumericRawDecoder creates a float64 decoder; engine must match the encoder's.
func NewNumericRawDecoder(engine endian.EndianEngine) NumericRawDecoder {
	return NumericRawDecoder{engine: engine}
}

// Width returns 8.
func (d NumericRawDecoder) Width() int { return 8 }

// All yields count float64 values from data.
func (d NumericRawDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if count <= 0 || len(data) < count*8 {
			return
		}

		for i := range count {
			start := i * 8
			if !yield(math.Float64frombits(d.engine.Uint64(data[start : start+8]))) {
				return
			}
		}
	}
}

// At returns the float64 value at index.
func (d NumericRawDecoder) At(data []byte, index int, count int) (float64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	start := index * 8
	if start+8 > len(data) {
		return 0, false
	}

	return math.Float64frombits(d.engine.Uint64(data[start : start+8])), true
}
