package evaluate

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/chaoscodec/compress"
	"github.com/arloliu/chaoscodec/format"
)

// CodecName is the row name used for the chaoscodec payload in comparisons.
const CodecName = "chaoscodec"

// Row is one entry of a size comparison.
type Row struct {
	// Name identifies the compressor.
	Name string
	// Size is the compressed size in bytes, or 0 when Err is set.
	Size int
	// Ratio is Size divided by the raw size.
	Ratio float64
	// Duration is the time spent compressing.
	Duration time.Duration
	// Err records a compressor failure. Failures never abort a comparison.
	Err error
}

// Comparison is the result of Compare.
type Comparison struct {
	// RawSize is the size of the raw serialized signal.
	RawSize int
	// Rows holds the codec row first, followed by one row per baseline in
	// the requested order.
	Rows []Row
}

// Codec returns the chaoscodec row.
func (c Comparison) Codec() Row {
	return c.Rows[0]
}

// Baselines returns the baseline rows.
func (c Comparison) Baselines() []Row {
	return c.Rows[1:]
}

// Smallest returns the successful baseline row with the smallest size and
// false if every baseline failed.
func (c Comparison) Smallest() (Row, bool) {
	var best Row
	found := false
	for _, r := range c.Baselines() {
		if r.Err != nil {
			continue
		}
		if !found || r.Size < best.Size {
			best, found = r, true
		}
	}

	return best, found
}

// Compare compresses raw with every baseline concurrently and reports their
// sizes next to codecSize. An empty baselines list uses compress.BaselineTypes.
//
// A failing baseline is reported in its row. Only context cancellation
// aborts the comparison.
func Compare(ctx context.Context, raw []byte, codecSize int, baselines ...format.CompressionType) (Comparison, error) {
	if len(baselines) == 0 {
		baselines = compress.BaselineTypes()
	}

	cmp := Comparison{
		RawSize: len(raw),
		Rows:    make([]Row, len(baselines)+1),
	}
	cmp.Rows[0] = Row{Name: CodecName, Size: codecSize, Ratio: ratio(codecSize, len(raw))}

	g, ctx := errgroup.WithContext(ctx)
	for i, ct := range baselines {
		row := &cmp.Rows[i+1]
		row.Name = ct.String()

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			stats, err := compressWithStats(ct, raw)
			row.Duration = time.Duration(stats.CompressionTimeNs)
			if err != nil {
				row.Err = err
				return nil
			}
			row.Size = int(stats.CompressedSize)
			row.Ratio = stats.CompressionRatio()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Comparison{}, fmt.Errorf("compare: %w", err)
	}

	return cmp, nil
}

func compressWithStats(ct format.CompressionType, raw []byte) (compress.CompressionStats, error) {
	stats := compress.CompressionStats{Algorithm: ct, OriginalSize: int64(len(raw))}

	codec, err := compress.GetCodec(ct)
	if err != nil {
		return stats, err
	}

	start := time.Now()
	out, err := codec.Compress(raw)
	stats.CompressionTimeNs = time.Since(start).Nanoseconds()
	if err != nil {
		return stats, fmt.Errorf("%s: %w", ct, err)
	}
	stats.CompressedSize = int64(len(out))

	return stats, nil
}

func ratio(size, raw int) float64 {
	if raw == 0 {
		return 0
	}

	return float64(size) / float64(raw)
}
