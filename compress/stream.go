package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// maxDecompressedSize bounds every decompression so a corrupt or hostile block
// cannot exhaust memory. The largest legitimate block is the residual record
// of a long signal at two bytes per sample.
const maxDecompressedSize = 256 * 1024 * 1024 // 256MiB

// ErrDecompressedTooLarge is returned when a block would decompress past maxDecompressedSize.
var ErrDecompressedTooLarge = errors.New("decompressed size exceeds limit")

// compressStream runs data through the writer returned by newWriter and
// returns the compressed bytes.
func compressStream(name string, data []byte, newWriter func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	w, err := newWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("%s writer: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%s compression failed: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s compression failed: %w", name, err)
	}

	return buf.Bytes(), nil
}

// decompressStream reads r to the end, enforcing maxDecompressedSize.
func decompressStream(name string, r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, maxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s decompression failed: %w", name, err)
	}
	if len(out) > maxDecompressedSize {
		return nil, fmt.Errorf("%s decompression failed: %w", name, ErrDecompressedTooLarge)
	}

	return out, nil
}
