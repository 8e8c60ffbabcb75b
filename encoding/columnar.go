package encoding

import (
	"fmt"
	"iter"
)

// ColumnarEncoder appends fixed-width values of type T to an internal buffer.
type ColumnarEncoder[T any] interface {
	// Bytes returns the encoded byte slice.
	// The returned slice is valid until the next call to Write, WriteSlice, or Finish.
	// The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of encoded values.
	Len() int

	// Size returns the number of encoded bytes.
	Size() int

	// Finish returns the internal buffer to the pool. The encoder is unusable afterwards.
	Finish()

	// Write encodes a single value.
	Write(v T)

	// WriteSlice encodes a slice of values with a single buffer growth.
	WriteSlice(values []T)
}

// ColumnarDecoder reads fixed-width values of type T from a byte slice.
type ColumnarDecoder[T any] interface {
	// All yields the first count values of data. It yields nothing when data
	// holds fewer than count values.
	All(data []byte, count int) iter.Seq[T]

	// At returns the value at index, or false when index is out of [0, count)
	// or beyond data.
	At(data []byte, index int, count int) (T, bool)

	// Width returns the number of bytes per value.
	Width() int
}

// DecodeAll decodes data as a whole number of fixed-width values.
//
// Unlike ColumnarDecoder.All, it rejects trailing bytes: a record whose length
// is not a multiple of the decoder width is malformed.
func DecodeAll[T any](dec ColumnarDecoder[T], data []byte) ([]T, error) {
	width := dec.Width()
	if len(data)%width != 0 {
		return nil, fmt.Errorf("record length %d is not a multiple of %d", len(data), width)
	}

	count := len(data) / width
	out := make([]T, 0, count)
	for v := range dec.All(data, count) {
		out = append(out, v)
	}

	return out, nil
}
