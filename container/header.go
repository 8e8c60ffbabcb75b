// Package container frames a payload as a self-describing file.
//
// A container is a fixed 40-byte little-endian header followed by the model
// block and the residual block:
//
//	offset  size  field
//	0       4     magic "CHC1"
//	4       1     version
//	5       1     model parameter precision
//	6       1     model block compression
//	7       1     residual block compression
//	8       1     mirror source
//	9       3     reserved, zero
//	12      8     quantization scale (float64)
//	20      4     model block length
//	24      4     residual block length
//	28      8     xxhash64 of model block || residual block
//	36      4     reserved, zero
//
// The header carries everything a decoder needs to rebuild the payload codec,
// so a container file decodes without out-of-band configuration.
package container

import (
	"fmt"
	"math"

	"github.com/arloliu/chaoscodec/endian"
	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/quantize"
)

const (
	// HeaderSize is the size of the container header in bytes.
	HeaderSize = 40
	// Version is the container format version written by this package.
	Version = 1
)

// Magic identifies a container file.
var Magic = [4]byte{'C', 'H', 'C', '1'}

// Header is the fixed-size container header.
type Header struct {
	Version             uint8                  // byte offset 4
	Precision           format.Precision       // byte offset 5
	ModelCompression    format.CompressionType // byte offset 6
	ResidualCompression format.CompressionType // byte offset 7
	MirrorSource        format.MirrorSource    // byte offset 8
	Scale               float64                // byte offset 12-19
	ModelsLength        uint32                 // byte offset 20-23
	ResidualLength      uint32                 // byte offset 24-27
	Checksum            uint64                 // byte offset 28-35
}

// Validate checks the header fields that do not depend on the blocks.
func (h *Header) Validate() error {
	if h.Version != Version {
		return fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidHeader, h.Version)
	}
	if h.Precision.Width() == 0 {
		return fmt.Errorf("%w: %w: %d", errs.ErrInvalidHeader, errs.ErrInvalidPrecision, h.Precision)
	}
	if !h.ModelCompression.IsValid() || !h.ResidualCompression.IsValid() {
		return fmt.Errorf("%w: %w: %d/%d", errs.ErrInvalidHeader, errs.ErrInvalidCompression, h.ModelCompression, h.ResidualCompression)
	}
	if !h.MirrorSource.IsValid() {
		return fmt.Errorf("%w: %w: %d", errs.ErrInvalidHeader, errs.ErrInvalidMirrorMode, h.MirrorSource)
	}
	if err := quantize.ValidateScale(h.Scale); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidHeader, err)
	}

	return nil
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := endian.GetLittleEndianEngine()

	copy(b[0:4], Magic[:])
	b[4] = h.Version
	b[5] = uint8(h.Precision)
	b[6] = uint8(h.ModelCompression)
	b[7] = uint8(h.ResidualCompression)
	b[8] = uint8(h.MirrorSource)
	engine.PutUint64(b[12:20], math.Float64bits(h.Scale))
	engine.PutUint32(b[20:24], h.ModelsLength)
	engine.PutUint32(b[24:28], h.ResidualLength)
	engine.PutUint64(b[28:36], h.Checksum)

	return b
}

// Parse parses and validates a header from exactly HeaderSize bytes.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: header is %d bytes, want %d", errs.ErrInvalidHeader, len(data), HeaderSize)
	}
	if [4]byte(data[0:4]) != Magic {
		return fmt.Errorf("%w: bad magic %q", errs.ErrInvalidHeader, data[0:4])
	}

	if !isZero(data[9:12]) || !isZero(data[36:40]) {
		return fmt.Errorf("%w: reserved bytes are not zero", errs.ErrInvalidHeader)
	}

	engine := endian.GetLittleEndianEngine()

	h.Version = data[4]
	h.Precision = format.Precision(data[5])
	h.ModelCompression = format.CompressionType(data[6])
	h.ResidualCompression = format.CompressionType(data[7])
	h.MirrorSource = format.MirrorSource(data[8])
	h.Scale = math.Float64frombits(engine.Uint64(data[12:20]))
	h.ModelsLength = engine.Uint32(data[20:24])
	h.ResidualLength = engine.Uint32(data[24:28])
	h.Checksum = engine.Uint64(data[28:36])

	return h.Validate()
}

// ParseHeader parses the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the header", errs.ErrInvalidHeader, len(data))
	}

	var h Header
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}

	return true
}
