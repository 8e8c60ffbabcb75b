// Package encoding implements the fixed-width columnar encoders used by
// chaoscodec records.
//
// Every record in a payload is a sequence of fixed-width little-endian values
// whose count is implied by the record length, never length-prefixed:
//
//   - NumericRawEncoder / NumericRawDecoder: float64, 8 bytes per value. Used for
//     seeds, the quantization scale and raw signal files.
//   - Int16Encoder / Int16Decoder: int16, 2 bytes per value. Used for the
//     quantized residual.
//   - ReducedFloatEncoder / ReducedFloatDecoder: float16, float32 or float64
//     per format.Precision. Used for model parameters; narrowing to the storage
//     precision happens here and nowhere else.
//
// Encoders draw their buffers from internal/pool and must be released with
// Finish once the bytes have been copied or compressed:
//
//	enc := encoding.NewInt16Encoder(endian.GetLittleEndianEngine())
//	defer enc.Finish()
//	enc.WriteSlice(values)
//	compressed, err := codec.Compress(enc.Bytes())
package encoding
