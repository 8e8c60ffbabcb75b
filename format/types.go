package format

import "strings"

type (
	CompressionType uint8
	Precision       uint8
	MirrorSource    uint8
)

const (
	CompressionNone  CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd  CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2    CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4   CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
	CompressionZlib  CompressionType = 0x5 // CompressionZlib represents zlib (RFC 1950) compression.
	CompressionGzip  CompressionType = 0x6 // CompressionGzip represents gzip (RFC 1952) compression.
	CompressionBzip2 CompressionType = 0x7 // CompressionBzip2 represents bzip2 compression.
	CompressionLZMA  CompressionType = 0x8 // CompressionLZMA represents classic LZMA (.lzma) compression.
)

const (
	PrecisionFloat16 Precision = 0x1 // PrecisionFloat16 stores model parameters as IEEE 754 binary16.
	PrecisionFloat32 Precision = 0x2 // PrecisionFloat32 stores model parameters as IEEE 754 binary32.
	PrecisionFloat64 Precision = 0x3 // PrecisionFloat64 stores model parameters as IEEE 754 binary64.
)

const (
	// MirrorFromReconstruction feeds the mirror stage with the base reconstruction,
	// which the decoder can rebuild from the payload alone.
	MirrorFromReconstruction MirrorSource = 0x1
	// MirrorFromSignal feeds the mirror stage with the original signal. Decoding
	// then needs the original signal as a reference.
	MirrorFromSignal MirrorSource = 0x2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZlib:
		return "Zlib"
	case CompressionGzip:
		return "Gzip"
	case CompressionBzip2:
		return "Bzip2"
	case CompressionLZMA:
		return "LZMA"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is a known compression type.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZMA
}

// ParseCompressionType maps a case-insensitive name to a CompressionType.
// The second return value is false for unknown names.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	case "zlib":
		return CompressionZlib, true
	case "gzip", "gz":
		return CompressionGzip, true
	case "bzip2", "bz2":
		return CompressionBzip2, true
	case "lzma", "xz":
		return CompressionLZMA, true
	default:
		return 0, false
	}
}

func (p Precision) String() string {
	switch p {
	case PrecisionFloat16:
		return "float16"
	case PrecisionFloat32:
		return "float32"
	case PrecisionFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// Width returns the number of bytes one stored parameter occupies, or 0 for
// an unknown precision.
func (p Precision) Width() int {
	switch p {
	case PrecisionFloat16:
		return 2
	case PrecisionFloat32:
		return 4
	case PrecisionFloat64:
		return 8
	default:
		return 0
	}
}

// ParsePrecision maps names such as "float16", "f16" or "half" to a Precision.
func ParsePrecision(name string) (Precision, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "float16", "f16", "half", "16":
		return PrecisionFloat16, true
	case "float32", "f32", "single", "32":
		return PrecisionFloat32, true
	case "float64", "f64", "double", "64":
		return PrecisionFloat64, true
	default:
		return 0, false
	}
}

func (m MirrorSource) String() string {
	switch m {
	case MirrorFromReconstruction:
		return "reconstruction"
	case MirrorFromSignal:
		return "signal"
	default:
		return "unknown"
	}
}

// IsValid reports whether m is a known mirror source.
func (m MirrorSource) IsValid() bool {
	return m == MirrorFromReconstruction || m == MirrorFromSignal
}

// ParseMirrorSource maps "reconstruction" or "signal" to a MirrorSource.
func ParseMirrorSource(name string) (MirrorSource, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "reconstruction", "recon", "":
		return MirrorFromReconstruction, true
	case "signal", "original":
		return MirrorFromSignal, true
	default:
		return 0, false
	}
}
