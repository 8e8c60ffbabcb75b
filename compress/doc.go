// Package compress provides the generic byte-stream codecs used by chaoscodec.
//
// Compression is the last stage of the payload pipeline: the model record and
// the residual record are each serialized to a fixed-width byte layout and
// then handed to a Codec. The same codecs double as baselines when the
// evaluator compares the payload size against compressing the raw float64
// signal directly.
//
// # Supported Algorithms
//
//   - None:  pass-through (format.CompressionNone)
//   - Zstd:  klauspost/compress zstd, or valyala/gozstd with the gozstd build tag
//   - S2:    klauspost/compress s2
//   - LZ4:   pierrec/lz4 block format
//   - Zlib:  klauspost/compress zlib (RFC 1950)
//   - Gzip:  klauspost/compress gzip (RFC 1952)
//   - Bzip2: dsnet/compress bzip2
//   - LZMA:  ulikunitz/xz classic .lzma stream
//
// The residual record is a stream of little-endian int16 values whose high
// bytes are strongly skewed, so entropy coders (Zstd, LZMA, Bzip2) do far
// better on it than pure LZ77 codecs (S2, LZ4).
//
// # Usage
//
//	codec, err := compress.CreateCodec(format.CompressionZstd, "residual")
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(record)
//
// # Empty Input
//
// Every codec maps an empty input to a nil output for both Compress and
// Decompress, so an empty block never carries framing overhead.
//
// # Thread Safety
//
// All codecs are stateless values or use sync.Pool internally and are safe for
// concurrent use.
package compress
