package encoding

import (
	"iter"

	"github.com/arloliu/chaoscodec/endian"
	"github.com/arloliu/chaoscodec/internal/pool"
)

// Int16Encoder encodes int16 values as two's complement 16-bit words.
type Int16Encoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[int16] = (*Int16Encoder)(nil)

// NewInt16Encoder creates an int16 encoder using the given byte order.
func NewInt16Encoder(engine endian.EndianEngine) *Int16Encoder {
	return &Int16Encoder{
		engine: engine,
		buf:    pool.GetRecordBuffer(),
	}
}

// Write encodes a single value. Panics if Finish() has been called.
func (e *Int16Encoder) Write(v int16) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	start := e.buf.Len()
	e.buf.ExtendOrGrow(2)
	e.engine.PutUint16(e.buf.Slice(start, start+2), uint16(v))
}

// WriteSlice encodes values with a single buffer growth. Panics if Finish() has been called.
func (e *Int16Encoder) WriteSlice(values []int16) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if len(values) == 0 {
		return
	}

	e.count += len(values)
	startIdx := e.buf.Len()
	e.buf.ExtendOrGrow(len(values) * 2)

	for i, v := range values {
		offset := startIdx + i*2
		e.engine.PutUint16(e.buf.Slice(offset, offset+2), uint16(v))
	}
}

// AppendTo writes the encoded bytes after dst, so a record can be prefixed
// with fixed fields without an extra copy.
func (e *Int16Encoder) AppendTo(dst []byte) []byte {
	return append(dst, e.Bytes()...)
}

// Bytes returns the encoded bytes. Panics if Finish() has been called.
func (e *Int16Encoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *Int16Encoder) Len() int {
	return e.count
}

// Size returns the number of encoded bytes. Panics if Finish() has been called.
func (e *Int16Encoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *Int16Encoder) Finish() {
	if e.buf != nil {
		pool.PutRecordBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// Int16Decoder decodes values written by Int16Encoder.
type Int16Decoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[int16] = Int16Decoder{}

// NewInt16Decoder creates an int16 decoder; engine must match the encoder's.
func NewInt16Decoder(engine endian.EndianEngine) Int16Decoder {
	return Int16Decoder{engine: engine}
}

// Width returns 2.
func (d Int16Decoder) Width() int { return 2 }

// All yields count int16 values from data.
func (d Int16Decoder) All(data []byte, count int) iter.Seq[int16] {
	return func(yield func(int16) bool) {
		if count <= 0 || len(data) < count*2 {
			return
		}

		for i := range count {
			start := i * 2
			if !yield(int16(d.engine.Uint16(data[start : start+2]))) {
				return
			}
		}
	}
}

// At returns the int16 value at index.
func (d Int16Decoder) At(data []byte, index int, count int) (int16, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	start := index * 2
	if start+2 > len(data) {
		return 0, false
	}

	return int16(d.engine.Uint16(data[start : start+2])), true
}
