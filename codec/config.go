package codec

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/internal/options"
	"github.com/arloliu/chaoscodec/quantize"
)

// Default configuration values.
const (
	DefaultScale               = quantize.DefaultScale
	DefaultPrecision           = format.PrecisionFloat16
	DefaultModelCompression    = format.CompressionZstd
	DefaultResidualCompression = format.CompressionZstd
	DefaultMirrorSource        = format.MirrorFromReconstruction
)

// Config holds the settings shared by Encoder and Decoder.
//
// Build it with DefaultConfig and functional options; encoder and decoder copy
// it at construction so later changes never leak into running pipelines.
type Config struct {
	// Scale is the quantization scale of the final correction.
	Scale float64
	// Precision is the storage precision of model parameters.
	Precision format.Precision
	// ModelCompression compresses the model record.
	ModelCompression format.CompressionType
	// ResidualCompression compresses the residual record.
	ResidualCompression format.CompressionType
	// MirrorSource selects the series the mirror stage is trained on and applied to.
	MirrorSource format.MirrorSource
	// Reference is the original signal, required by the decoder when
	// MirrorSource is MirrorFromSignal.
	Reference []float64
	// Workers bounds the goroutines used by the parallel stages.
	Workers int
	// Timeout bounds a whole Encode or Decode call. Zero disables it.
	Timeout time.Duration
	// Logger receives stage timings at debug level.
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Scale:               DefaultScale,
		Precision:           DefaultPrecision,
		ModelCompression:    DefaultModelCompression,
		ResidualCompression: DefaultResidualCompression,
		MirrorSource:        DefaultMirrorSource,
		Workers:             runtime.GOMAXPROCS(0),
		Logger:              slog.New(slog.DiscardHandler),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := quantize.ValidateScale(c.Scale); err != nil {
		return err
	}
	if c.Precision.Width() == 0 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidPrecision, c.Precision)
	}
	if !c.ModelCompression.IsValid() {
		return fmt.Errorf("%w: model %d", errs.ErrInvalidCompression, c.ModelCompression)
	}
	if !c.ResidualCompression.IsValid() {
		return fmt.Errorf("%w: residual %d", errs.ErrInvalidCompression, c.ResidualCompression)
	}
	if !c.MirrorSource.IsValid() {
		return fmt.Errorf("%w: %d", errs.ErrInvalidMirrorMode, c.MirrorSource)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Logger == nil {
		return errors.New("logger must not be nil")
	}

	return nil
}

// Option configures an Encoder or Decoder.
type Option = options.Option[*Config]

// WithScale sets the quantization scale. It must be finite and positive.
func WithScale(scale float64) Option {
	return options.New(func(c *Config) error {
		if err := quantize.ValidateScale(scale); err != nil {
			return err
		}
		c.Scale = scale

		return nil
	})
}

// WithPrecision sets the storage precision of model parameters.
func WithPrecision(p format.Precision) Option {
	return options.New(func(c *Config) error {
		if p.Width() == 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidPrecision, p)
		}
		c.Precision = p

		return nil
	})
}

// WithModelCompression sets the model record compression.
func WithModelCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if !ct.IsValid() {
			return fmt.Errorf("%w: model %d", errs.ErrInvalidCompression, ct)
		}
		c.ModelCompression = ct

		return nil
	})
}

// WithResidualCompression sets the residual record compression.
func WithResidualCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if !ct.IsValid() {
			return fmt.Errorf("%w: residual %d", errs.ErrInvalidCompression, ct)
		}
		c.ResidualCompression = ct

		return nil
	})
}

// WithCompression sets the compression of both records.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if !ct.IsValid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidCompression, ct)
		}
		c.ModelCompression = ct
		c.ResidualCompression = ct

		return nil
	})
}

// WithMirrorSource selects the mirror stage source series.
func WithMirrorSource(m format.MirrorSource) Option {
	return options.New(func(c *Config) error {
		if !m.IsValid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidMirrorMode, m)
		}
		c.MirrorSource = m

		return nil
	})
}

// WithReferenceSignal supplies the original signal to a decoder configured
// with MirrorFromSignal. The slice is not copied and must not be modified
// while the decoder uses it.
func WithReferenceSignal(x []float64) Option {
	return options.NoError(func(c *Config) {
		c.Reference = x
	})
}

// WithWorkers bounds the goroutines used by the parallel stages.
func WithWorkers(n int) Option {
	return options.New(func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		c.Workers = n

		return nil
	})
}

// WithTimeout bounds each Encode and Decode call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return options.New(func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("timeout must not be negative, got %s", d)
		}
		c.Timeout = d

		return nil
	})
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		c.Logger = l
	})
}

func newConfig(opts []Option) (Config, error) {
	cfg := DefaultConfig()
	if err := options.ApplyAndValidate(&cfg, opts...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
