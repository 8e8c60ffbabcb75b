package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

// Bzip2Compressor provides bzip2 compression. The standard library only
// ships a bzip2 reader, so both directions use dsnet/compress.
type Bzip2Compressor struct{}

var _ Codec = (*Bzip2Compressor)(nil)

// NewBzip2Compressor creates a bzip2 compressor using 900k blocks.
func NewBzip2Compressor() Bzip2Compressor {
	return Bzip2Compressor{}
}

// Compress compresses the input data into a bzip2 stream.
func (c Bzip2Compressor) Compress(data []byte) ([]byte, error) {
	return compressStream("bzip2", data, func(w io.Writer) (io.WriteCloser, error) {
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	})
}

// Decompress decompresses a bzip2 stream.
func (c Bzip2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("bzip2 decompression failed: %w", err)
	}
	defer r.Close()

	return decompressStream("bzip2", r)
}
