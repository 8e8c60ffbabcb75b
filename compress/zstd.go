package compress

// ZstdCompressor provides Zstandard compression.
//
// Zstd is the default codec for both payload blocks: its literal Huffman stage
// captures the skewed high bytes of the int16 residual record well.
//
// Two implementations exist: a pure Go one based on klauspost/compress (the
// default) and a cgo one based on valyala/gozstd, selected with the gozstd
// build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
