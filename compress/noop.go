package compress

// NoOpCompressor passes data through unchanged.
//
// It is useful to measure the raw record sizes or when the payload is handed
// to an outer compressing transport.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data as-is, sharing its memory. An empty input yields nil.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return data, nil
}

// Decompress returns data as-is, sharing its memory. An empty input yields nil.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return data, nil
}
