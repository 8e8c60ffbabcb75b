package container

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/internal/hash"
	"github.com/arloliu/chaoscodec/payload"
)

// File is a parsed container.
type File struct {
	Header  Header
	Payload payload.Payload
}

// PayloadCodec returns the payload codec described by the header.
func (f *File) PayloadCodec() (*payload.Codec, error) {
	return payload.NewCodec(f.Header.Precision, f.Header.ModelCompression, f.Header.ResidualCompression)
}

// Size returns the serialized container size.
func (f *File) Size() int {
	return HeaderSize + f.Payload.Size()
}

// Marshal serializes h and p into a container.
//
// The block lengths and the checksum in h are computed from p; a zero Version
// is replaced by the current Version.
func Marshal(h Header, p payload.Payload) ([]byte, error) {
	if len(p.Models) > math.MaxUint32 || len(p.Residual) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: block exceeds 4 GiB", errs.ErrInvalidInput)
	}

	if h.Version == 0 {
		h.Version = Version
	}
	h.ModelsLength = uint32(len(p.Models))
	h.ResidualLength = uint32(len(p.Residual))
	h.Checksum = hash.SumBlocks(p.Models, p.Residual)

	if err := h.Validate(); err != nil {
		return nil, err
	}

	out := make([]byte, 0, HeaderSize+p.Size())
	out = append(out, h.Bytes()...)
	out = append(out, p.Models...)
	out = append(out, p.Residual...)

	return out, nil
}

// Unmarshal parses a container. The returned payload blocks alias data.
func Unmarshal(data []byte) (File, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return File{}, err
	}

	body := data[HeaderSize:]
	want := uint64(h.ModelsLength) + uint64(h.ResidualLength)
	if uint64(len(body)) != want {
		return File{}, fmt.Errorf("%w: container body is %d bytes, header declares %d", errs.ErrPayloadCorrupt, len(body), want)
	}

	p := payload.Payload{
		Models:   body[:h.ModelsLength],
		Residual: body[h.ModelsLength:],
	}

	if sum := hash.SumBlocks(p.Models, p.Residual); sum != h.Checksum {
		return File{}, fmt.Errorf("%w: got %016x, header %016x", errs.ErrChecksumMismatch, sum, h.Checksum)
	}

	return File{Header: h, Payload: p}, nil
}

// Write marshals a container to w.
func Write(w io.Writer, h Header, p payload.Payload) (int64, error) {
	data, err := Marshal(h, p)
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("write container: %w", err)
	}

	return int64(n), nil
}

// Read reads and parses a whole container from r.
func Read(r io.Reader) (File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return File{}, fmt.Errorf("read container: %w", err)
	}

	return Unmarshal(data)
}
