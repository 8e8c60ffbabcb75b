package compress

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

const (
	// lzmaHeaderLen is the size of the classic .lzma header: properties byte,
	// dictionary capacity and uncompressed size.
	lzmaHeaderLen = 13
	// lzmaMaxDictCap rejects headers that would make the reader allocate an
	// oversized dictionary before any data is validated.
	lzmaMaxDictCap = 64 * 1024 * 1024
	// lzmaMaxProperties is the largest valid lc/lp/pb properties byte.
	lzmaMaxProperties = 224
)

// LZMACompressor provides classic LZMA (.lzma, "LZMA alone") compression.
type LZMACompressor struct{}

var _ Codec = (*LZMACompressor)(nil)

// NewLZMACompressor creates a new LZMA compressor.
func NewLZMACompressor() LZMACompressor {
	return LZMACompressor{}
}

// Compress compresses the input data into an LZMA stream.
func (c LZMACompressor) Compress(data []byte) ([]byte, error) {
	return compressStream("lzma", data, func(w io.Writer) (io.WriteCloser, error) {
		return lzma.NewWriter(w)
	})
}

// Decompress decompresses an LZMA stream.
func (c LZMACompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < lzmaHeaderLen {
		return nil, fmt.Errorf("lzma decompression failed: stream shorter than header (%d bytes)", len(data))
	}
	if data[0] > lzmaMaxProperties {
		return nil, fmt.Errorf("lzma decompression failed: invalid properties byte 0x%02x", data[0])
	}
	if dictCap := binary.LittleEndian.Uint32(data[1:5]); dictCap > lzmaMaxDictCap {
		return nil, fmt.Errorf("lzma decompression failed: dictionary capacity %d exceeds limit", dictCap)
	}

	r, err := lzma.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("lzma decompression failed: %w", err)
	}

	return decompressStream("lzma", r)
}
