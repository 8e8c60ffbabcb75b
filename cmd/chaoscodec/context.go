package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/arloliu/chaoscodec/codec"
	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/internal/config"
	"github.com/arloliu/chaoscodec/internal/logging"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(w io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	opts := logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Writer: w}
	if c.flags.logLevel != "" {
		opts.Level = c.flags.logLevel
	}
	if c.flags.logFormat != "" {
		opts.Format = c.flags.logFormat
	}

	return logging.New(opts)
}

// codecFlags are the per-invocation overrides of the [codec] config section.
type codecFlags struct {
	scale        float64
	precision    string
	compression  string
	mirrorSource string
	workers      int
	timeout      int
}

func (f *codecFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "Quantization scale")
	cmd.Flags().StringVar(&f.precision, "precision", "", "Model parameter precision (float16, float32, float64)")
	cmd.Flags().StringVar(&f.compression, "compression", "", "Compression of both payload blocks")
	cmd.Flags().StringVar(&f.mirrorSource, "mirror-source", "", "Mirror stage source (reconstruction, signal)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Goroutines used by the parallel stages")
	cmd.Flags().IntVar(&f.timeout, "timeout", 0, "Timeout in seconds for the whole operation")
}

// options layers the changed flags over cfg. Options apply in order, so the
// flag options appended last win.
func (f *codecFlags) options(cmd *cobra.Command, cfg *config.Config) ([]codec.Option, error) {
	opts, err := cfg.CodecOptions()
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("scale") {
		opts = append(opts, codec.WithScale(f.scale))
	}
	if changed("precision") {
		p, ok := format.ParsePrecision(f.precision)
		if !ok {
			return nil, fmt.Errorf("--precision: unsupported value %q", f.precision)
		}
		opts = append(opts, codec.WithPrecision(p))
	}
	if changed("compression") {
		ct, ok := format.ParseCompressionType(f.compression)
		if !ok {
			return nil, fmt.Errorf("--compression: unsupported value %q", f.compression)
		}
		opts = append(opts, codec.WithCompression(ct))
	}
	if changed("mirror-source") {
		m, ok := format.ParseMirrorSource(f.mirrorSource)
		if !ok {
			return nil, fmt.Errorf("--mirror-source: unsupported value %q", f.mirrorSource)
		}
		opts = append(opts, codec.WithMirrorSource(m))
	}
	if changed("workers") {
		opts = append(opts, codec.WithWorkers(f.workers))
	}
	if changed("timeout") {
		if f.timeout < 0 {
			return nil, fmt.Errorf("--timeout must be zero or positive, got %d", f.timeout)
		}
		opts = append(opts, codec.WithTimeout(secondsDuration(f.timeout)))
	}

	return opts, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
