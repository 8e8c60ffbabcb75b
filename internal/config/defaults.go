package config

import (
	"github.com/arloliu/chaoscodec/codec"
	"github.com/arloliu/chaoscodec/format"
)

const (
	defaultPrecision           = "float16"
	defaultModelCompression    = "zstd"
	defaultResidualCompression = "zstd"
	defaultMirrorSource        = "reconstruction"
	defaultTimeoutSeconds      = 0

	defaultLogFormat = "auto"
	defaultLogLevel  = "info"

	defaultBenchSamples = 1 << 16
	defaultBenchR       = 4.0
	defaultBenchX0      = 0.6
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	baselines := make([]string, 0, 8)
	for _, ct := range defaultBaselines() {
		baselines = append(baselines, ct.String())
	}

	return Config{
		Codec: Codec{
			Scale:               codec.DefaultScale,
			Precision:           defaultPrecision,
			ModelCompression:    defaultModelCompression,
			ResidualCompression: defaultResidualCompression,
			MirrorSource:        defaultMirrorSource,
			Workers:             0,
			TimeoutSeconds:      defaultTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Bench: Bench{
			Samples:   defaultBenchSamples,
			R:         defaultBenchR,
			X0:        defaultBenchX0,
			Baselines: baselines,
		},
	}
}

func defaultBaselines() []format.CompressionType {
	return []format.CompressionType{
		format.CompressionZlib,
		format.CompressionGzip,
		format.CompressionBzip2,
		format.CompressionLZMA,
	}
}
