package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

func secondsDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}

func formatBytes(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

func formatRatio(r float64) string {
	return fmt.Sprintf("%.4f", r)
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
