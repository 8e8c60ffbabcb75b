package compress

import (
	"fmt"

	"github.com/arloliu/chaoscodec/format"
)

// Compressor compresses a serialized record.
//
// The returned slice is newly allocated and owned by the caller, except for
// NoOpCompressor which returns its input. The input is never modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores data produced by the matching Compressor.
//
// Error conditions:
//   - Returns error if input data is corrupted or invalid
//   - Returns error if data was compressed with an incompatible algorithm
//   - Returns error if the decompressed size exceeds the codec's safety limit
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compression of a buffer.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64

	// CompressionTimeNs is the time taken to compress the data
	CompressionTimeNs int64
}

// CompressionRatio returns compressed size / original size, or 0 for an empty input.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec creates a new Codec for compressionType.
//
// Parameters:
//   - compressionType: Type of compression
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionZlib:
		return NewZlibCompressor(), nil
	case format.CompressionGzip:
		return NewGzipCompressor(), nil
	case format.CompressionBzip2:
		return NewBzip2Compressor(), nil
	case format.CompressionLZMA:
		return NewLZMACompressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:  NewNoOpCompressor(),
	format.CompressionZstd:  NewZstdCompressor(),
	format.CompressionS2:    NewS2Compressor(),
	format.CompressionLZ4:   NewLZ4Compressor(),
	format.CompressionZlib:  NewZlibCompressor(),
	format.CompressionGzip:  NewGzipCompressor(),
	format.CompressionBzip2: NewBzip2Compressor(),
	format.CompressionLZMA:  NewLZMACompressor(),
}

// GetCodec retrieves the shared built-in Codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// BaselineTypes lists the general-purpose compressors a payload is compared
// against, in report order.
func BaselineTypes() []format.CompressionType {
	return []format.CompressionType{
		format.CompressionZlib,
		format.CompressionGzip,
		format.CompressionBzip2,
		format.CompressionLZMA,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
}
