package compress

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chaoscodec/format"
)

var errMismatch = errors.New("round trip mismatch")

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"NoOp":  NewNoOpCompressor(),
		"Zstd":  NewZstdCompressor(),
		"S2":    NewS2Compressor(),
		"LZ4":   NewLZ4Compressor(),
		"Zlib":  NewZlibCompressor(),
		"Gzip":  NewGzipCompressor(),
		"Bzip2": NewBzip2Compressor(),
		"LZMA":  NewLZMACompressor(),
	}
}

// residualLikeData builds little-endian int16 values with a skewed
// distribution, the shape of a quantized residual record.
func residualLikeData(n int) []byte {
	out := make([]byte, 0, n*2)
	x := 0.3
	for range n {
		x = 3.99 * x * (1 - x)
		q := int16(math.Round((x - 0.5) * 8000))
		out = binary.LittleEndian.AppendUint16(out, uint16(q))
	}

	return out
}

func TestCreateCodec(t *testing.T) {
	for _, ct := range append(BaselineTypes(), format.CompressionNone) {
		codec, err := CreateCodec(ct, "test")
		require.NoError(t, err, ct.String())
		require.NotNil(t, codec)

		shared, err := GetCodec(ct)
		require.NoError(t, err)
		require.NotNil(t, shared)
	}

	_, err := CreateCodec(format.CompressionType(0xff), "residual")
	require.EqualError(t, err, "invalid residual compression: Unknown")

	_, err = GetCodec(format.CompressionType(0))
	require.Error(t, err)
}

func TestBaselineTypes(t *testing.T) {
	types := BaselineTypes()
	require.Len(t, types, 7)
	require.Equal(t, format.CompressionZlib, types[0])
	require.NotContains(t, types, format.CompressionNone)
}

func TestCompressionStats(t *testing.T) {
	stats := CompressionStats{Algorithm: format.CompressionZstd, OriginalSize: 1000, CompressedSize: 250}
	require.InDelta(t, 0.25, stats.CompressionRatio(), 1e-12)
	require.InDelta(t, 75.0, stats.SpaceSavings(), 1e-9)

	require.Zero(t, CompressionStats{}.CompressionRatio())
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Nil(t, compressed)

			compressed, err = codec.Compress([]byte{})
			require.NoError(t, err)
			require.Nil(t, compressed)

			decompressed, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Nil(t, decompressed)
		})
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "single_byte", data: []byte{0x42}},
		{name: "small_text", data: []byte("logistic map r=4.0 x0=0.6")},
		{name: "repeated_pattern", data: bytes.Repeat([]byte{0x10, 0x27, 0xf0, 0xd8}, 512)},
		{name: "residual_like", data: residualLikeData(20000)},
		{name: "highly_compressible", data: make([]byte, 1024*1024)},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)
					require.NotEmpty(t, compressed)

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.True(t, bytes.Equal(tc.data, decompressed), "decompressed data must match original")
				})
			}
		})
	}
}

func TestEntropyCodersBeatRawOnResiduals(t *testing.T) {
	data := residualLikeData(50000)
	for _, name := range []string{"Zstd", "LZMA", "Bzip2", "Zlib"} {
		compressed, err := getAllCodecs()[name].Compress(data)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(data), name)
	}
}

func TestAllCodecs_Deterministic(t *testing.T) {
	data := residualLikeData(4096)
	for name, codec := range getAllCodecs() {
		first, err := codec.Compress(data)
		require.NoError(t, err)
		second, err := codec.Compress(data)
		require.NoError(t, err)
		require.Equal(t, first, second, name)
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalidInputs := []struct {
		name string
		data []byte
	}{
		{name: "random_bytes", data: []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{name: "text_as_compressed", data: []byte("this is not compressed data")},
		{name: "corrupted_header", data: []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}},
	}

	for codecName, codec := range getAllCodecs() {
		if codecName == "NoOp" {
			continue
		}
		t.Run(codecName, func(t *testing.T) {
			for _, input := range invalidInputs {
				t.Run(input.name, func(t *testing.T) {
					_, err := codec.Decompress(input.data)
					require.Error(t, err)
				})
			}
		})
	}
}

func TestLZMA_RejectsOversizedDictionary(t *testing.T) {
	header := make([]byte, lzmaHeaderLen+4)
	header[0] = 0x5d
	binary.LittleEndian.PutUint32(header[1:5], lzmaMaxDictCap+1)

	_, err := NewLZMACompressor().Decompress(header)
	require.ErrorContains(t, err, "dictionary capacity")
}

func TestZlibCompressorLevel(t *testing.T) {
	_, err := NewZlibCompressorLevel(42)
	require.Error(t, err)

	best, err := NewZlibCompressorLevel(9)
	require.NoError(t, err)

	data := residualLikeData(2048)
	compressed, err := best.Compress(data)
	require.NoError(t, err)
	restored, err := NewZlibCompressor().Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, restored)
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	const numGoroutines = 16
	data := residualLikeData(1024)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			var wg sync.WaitGroup
			errCh := make(chan error, numGoroutines)
			for range numGoroutines {
				wg.Add(1)
				go func() {
					defer wg.Done()
					compressed, err := codec.Compress(data)
					if err != nil {
						errCh <- err
						return
					}
					restored, err := codec.Decompress(compressed)
					if err != nil {
						errCh <- err
						return
					}
					if !bytes.Equal(data, restored) {
						errCh <- errMismatch
					}
				}()
			}
			wg.Wait()
			close(errCh)
			for err := range errCh {
				require.NoError(t, err)
			}
		})
	}
}
