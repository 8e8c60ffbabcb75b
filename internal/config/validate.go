package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/quantize"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCodec(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateBench()
}

func (c *Config) validateCodec() error {
	if err := quantize.ValidateScale(c.Codec.Scale); err != nil {
		return fmt.Errorf("codec.scale: %w", err)
	}
	if _, ok := format.ParsePrecision(c.Codec.Precision); !ok {
		return fmt.Errorf("codec.precision: unsupported value %q", c.Codec.Precision)
	}
	if _, ok := format.ParseCompressionType(c.Codec.ModelCompression); !ok {
		return fmt.Errorf("codec.model_compression: unsupported value %q", c.Codec.ModelCompression)
	}
	if _, ok := format.ParseCompressionType(c.Codec.ResidualCompression); !ok {
		return fmt.Errorf("codec.residual_compression: unsupported value %q", c.Codec.ResidualCompression)
	}
	if _, ok := format.ParseMirrorSource(c.Codec.MirrorSource); !ok {
		return fmt.Errorf("codec.mirror_source: unsupported value %q", c.Codec.MirrorSource)
	}
	if c.Codec.Workers < 0 {
		return errors.New("codec.workers must be zero or positive")
	}
	if c.Codec.TimeoutSeconds < 0 {
		return errors.New("codec.timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateBench() error {
	if c.Bench.Samples < 3 {
		return fmt.Errorf("bench.samples must be at least 3, got %d", c.Bench.Samples)
	}
	if math.IsNaN(c.Bench.R) || c.Bench.R <= 0 || c.Bench.R > 4 {
		return fmt.Errorf("bench.r must be in (0, 4], got %v", c.Bench.R)
	}
	if math.IsNaN(c.Bench.X0) || c.Bench.X0 <= 0 || c.Bench.X0 >= 1 {
		return fmt.Errorf("bench.x0 must be in (0, 1), got %v", c.Bench.X0)
	}
	if _, err := c.BenchBaselines(); err != nil {
		return err
	}
	return nil
}
