package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ZlibCompressor provides zlib (RFC 1950) compression at the default level.
type ZlibCompressor struct {
	level int
}

var _ Codec = (*ZlibCompressor)(nil)

// NewZlibCompressor creates a zlib compressor at zlib.DefaultCompression.
func NewZlibCompressor() ZlibCompressor {
	return ZlibCompressor{level: zlib.DefaultCompression}
}

// NewZlibCompressorLevel creates a zlib compressor with an explicit level
// between zlib.HuffmanOnly and zlib.BestCompression.
func NewZlibCompressorLevel(level int) (ZlibCompressor, error) {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return ZlibCompressor{}, fmt.Errorf("invalid zlib level: %d", level)
	}

	return ZlibCompressor{level: level}, nil
}

// Compress compresses the input data into a zlib stream.
func (c ZlibCompressor) Compress(data []byte) ([]byte, error) {
	return compressStream("zlib", data, func(w io.Writer) (io.WriteCloser, error) {
		return zlib.NewWriterLevel(w, c.level)
	})
}

// Decompress decompresses a zlib stream.
func (c ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	return decompressStream("zlib", r)
}
