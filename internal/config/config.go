package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/arloliu/chaoscodec/codec"
	"github.com/arloliu/chaoscodec/format"
)

// Codec holds the encoder and decoder settings.
type Codec struct {
	// Scale is the quantization scale of the final correction.
	Scale float64 `toml:"scale"`
	// Precision is the model parameter storage precision: float16, float32 or float64.
	Precision string `toml:"precision"`
	// ModelCompression and ResidualCompression name a compressor: none, zstd,
	// s2, lz4, zlib, gzip, bzip2 or lzma.
	ModelCompression    string `toml:"model_compression"`
	ResidualCompression string `toml:"residual_compression"`
	// MirrorSource is reconstruction or signal. Payloads encoded with signal
	// can only be decoded with the original signal at hand.
	MirrorSource string `toml:"mirror_source"`
	// Workers bounds the parallel stages. Zero uses GOMAXPROCS.
	Workers int `toml:"workers"`
	// TimeoutSeconds bounds each encode or decode call. Zero disables it.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Logging selects the log output.
type Logging struct {
	// Format is auto, console or json. auto picks console on a terminal.
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Bench parameterizes the logistic-map benchmark.
type Bench struct {
	Samples   int      `toml:"samples"`
	R         float64  `toml:"r"`
	X0        float64  `toml:"x0"`
	Baselines []string `toml:"baselines"`
}

// Config encapsulates all configuration values for the chaoscodec CLI.
type Config struct {
	Codec   Codec   `toml:"codec"`
	Logging Logging `toml:"logging"`
	Bench   Bench   `toml:"bench"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/chaoscodec/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path and whether a file existed there.
//
// With an empty path the default location is tried first, then chaoscodec.toml
// in the working directory.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("chaoscodec.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() {
	c.Codec.Precision = strings.ToLower(strings.TrimSpace(c.Codec.Precision))
	c.Codec.ModelCompression = strings.ToLower(strings.TrimSpace(c.Codec.ModelCompression))
	c.Codec.ResidualCompression = strings.ToLower(strings.TrimSpace(c.Codec.ResidualCompression))
	c.Codec.MirrorSource = strings.ToLower(strings.TrimSpace(c.Codec.MirrorSource))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// CodecOptions converts the [codec] section into codec options. The config
// must have passed Validate.
func (c *Config) CodecOptions() ([]codec.Option, error) {
	precision, ok := format.ParsePrecision(c.Codec.Precision)
	if !ok {
		return nil, fmt.Errorf("codec.precision: unsupported value %q", c.Codec.Precision)
	}
	modelCT, ok := format.ParseCompressionType(c.Codec.ModelCompression)
	if !ok {
		return nil, fmt.Errorf("codec.model_compression: unsupported value %q", c.Codec.ModelCompression)
	}
	residualCT, ok := format.ParseCompressionType(c.Codec.ResidualCompression)
	if !ok {
		return nil, fmt.Errorf("codec.residual_compression: unsupported value %q", c.Codec.ResidualCompression)
	}
	mirror, ok := format.ParseMirrorSource(c.Codec.MirrorSource)
	if !ok {
		return nil, fmt.Errorf("codec.mirror_source: unsupported value %q", c.Codec.MirrorSource)
	}

	opts := []codec.Option{
		codec.WithScale(c.Codec.Scale),
		codec.WithPrecision(precision),
		codec.WithModelCompression(modelCT),
		codec.WithResidualCompression(residualCT),
		codec.WithMirrorSource(mirror),
		codec.WithTimeout(time.Duration(c.Codec.TimeoutSeconds) * time.Second),
	}
	if c.Codec.Workers > 0 {
		opts = append(opts, codec.WithWorkers(c.Codec.Workers))
	}

	return opts, nil
}

// BenchBaselines returns the [bench] baseline compressors in configured order.
func (c *Config) BenchBaselines() ([]format.CompressionType, error) {
	out := make([]format.CompressionType, 0, len(c.Bench.Baselines))
	for _, name := range c.Bench.Baselines {
		ct, ok := format.ParseCompressionType(name)
		if !ok || ct == format.CompressionNone {
			return nil, fmt.Errorf("bench.baselines: unsupported value %q", name)
		}
		out = append(out, ct)
	}

	return out, nil
}

// Marshal renders c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	return data, nil
}

// CreateSample writes the default configuration to the specified location.
// An existing file is left untouched unless overwrite is set.
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists", path)
		}
	}

	cfg := Default()
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	sample := append([]byte(sampleHeader), data...)
	if err := os.WriteFile(path, sample, 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

const sampleHeader = `# chaoscodec configuration
#
# codec.precision:       float16 | float32 | float64
# codec.*_compression:   none | zstd | s2 | lz4 | zlib | gzip | bzip2 | lzma
# codec.mirror_source:   reconstruction | signal
# logging.format:        auto | console | json

`

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath applies the config path expansion rules (tilde, absolute) to pathValue.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
