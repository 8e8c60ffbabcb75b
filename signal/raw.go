package signal

import (
	"fmt"
	"os"

	"github.com/arloliu/chaoscodec/encoding"
	"github.com/arloliu/chaoscodec/endian"
)

// EncodeRaw serializes x as consecutive little-endian IEEE 754 float64 values.
//
// This is the raw representation baseline compressors are measured against.
func EncodeRaw(x []float64) []byte {
	enc := encoding.NewNumericRawEncoder(endian.GetLittleEndianEngine())
	defer enc.Finish()

	enc.WriteSlice(x)

	return append([]byte(nil), enc.Bytes()...)
}

// DecodeRaw parses data written by EncodeRaw.
func DecodeRaw(data []byte) ([]float64, error) {
	values, err := encoding.DecodeAll[float64](encoding.NewNumericRawDecoder(endian.GetLittleEndianEngine()), data)
	if err != nil {
		return nil, fmt.Errorf("raw signal: %w", err)
	}

	return values, nil
}

// ReadFile reads a raw float64 signal file.
func ReadFile(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signal: %w", err)
	}

	return DecodeRaw(data)
}

// WriteFile writes x to path as a raw float64 signal file.
func WriteFile(path string, x []float64) error {
	if err := os.WriteFile(path, EncodeRaw(x), 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("write signal: %w", err)
	}

	return nil
}
