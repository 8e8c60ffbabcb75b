package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chaoscodec/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "", want: slog.LevelInfo},
		{in: "info", want: slog.LevelInfo},
		{in: " DEBUG ", want: slog.LevelDebug},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := logging.ParseLevel("trace")
	require.Error(t, err)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}})
	require.ErrorContains(t, err, "log format")

	_, err = logging.New(logging.Options{Level: "loud", Writer: &bytes.Buffer{}})
	require.ErrorContains(t, err, "log level")
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("signal encoded", slog.Int("samples", 4096), slog.Duration("total", 3*time.Millisecond))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "signal encoded", entry["msg"])
	require.EqualValues(t, 4096, entry["samples"])
	require.Contains(t, entry, "ts")
	require.NotContains(t, entry, "source", "source is only added at debug level")
}

func TestAutoFormatOnNonTerminalIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Writer: &buf})
	require.NoError(t, err)
	require.False(t, logging.IsTerminal(&buf))

	logger.Warn("clip ratio high")
	require.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	require.NoError(t, err)

	logger.With(slog.String("command", "encode")).
		WithGroup("stats").
		Info("payload written",
			slog.Int("bytes", 1024),
			slog.String("path", "out file.chc"),
			slog.Any("err", errors.New("none")),
		)

	out := buf.String()
	require.Contains(t, out, "INFO – payload written\n")
	require.Contains(t, out, "    command: encode\n")
	require.Contains(t, out, "    stats.bytes: 1024\n")
	require.Contains(t, out, "    stats.path: \"out file.chc\"\n")
	require.Contains(t, out, "    stats.err: none\n")
	require.NotContains(t, out, ".go:")
}

func TestConsoleLoggerGroupsTimings(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	require.NoError(t, err)

	logger.Debug("stage timings", slog.Group("timings", slog.Duration("train", time.Second)))

	out := buf.String()
	require.Contains(t, out, "DEBUG – stage timings [logger_test.go:")
	require.Contains(t, out, "    timings.train: 1s\n")
}

func TestNewNop(t *testing.T) {
	logger := logging.NewNop()
	require.False(t, logger.Enabled(t.Context(), slog.LevelError))
}
