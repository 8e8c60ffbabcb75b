package main

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arloliu/chaoscodec/codec"
	"github.com/arloliu/chaoscodec/evaluate"
	"github.com/arloliu/chaoscodec/format"
	"github.com/arloliu/chaoscodec/signal"
)

type benchFlags struct {
	samples    int
	r          float64
	x0         float64
	baselines  []string
	plotPath   string
	plotWindow int
}

func newBenchCommand(ctx *commandContext) *cobra.Command {
	bf := &benchFlags{}
	flags := &codecFlags{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Encode a logistic-map signal and compare against general-purpose compressors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}
			opts = append(opts, codec.WithLogger(logger))

			samples, r, x0 := cfg.Bench.Samples, cfg.Bench.R, cfg.Bench.X0
			changed := cmd.Flags().Changed
			if changed("samples") {
				samples = bf.samples
			}
			if changed("r") {
				r = bf.r
			}
			if changed("x0") {
				x0 = bf.x0
			}
			if samples < signal.MinLength {
				return fmt.Errorf("--samples must be at least %d, got %d", signal.MinLength, samples)
			}

			baselines, err := cfg.BenchBaselines()
			if err != nil {
				return err
			}
			if changed("baselines") {
				baselines, err = parseBaselines(bf.baselines)
				if err != nil {
					return err
				}
			}

			x := signal.Logistic(r, x0, samples)

			enc, err := codec.NewEncoder(opts...)
			if err != nil {
				return fmt.Errorf("create encoder: %w", err)
			}
			res, err := enc.Encode(cmd.Context(), x)
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			data, err := res.MarshalContainer()
			if err != nil {
				return err
			}

			dec, err := codec.DecodeContainer(cmd.Context(), data,
				codec.WithLogger(logger),
				codec.WithReferenceSignal(x),
				codec.WithWorkers(enc.Config().Workers),
			)
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}

			report, err := evaluate.Metrics(x, dec.Signal)
			if err != nil {
				return err
			}
			cmp, err := evaluate.Compare(cmd.Context(), signal.EncodeRaw(x), len(data), baselines...)
			if err != nil {
				return err
			}

			logger.Debug("benchmark finished",
				slog.Int("samples", samples),
				slog.Any("timings", res.Stats.Timings),
				slog.String("metrics", report.String()),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logistic map r=%g x0=%g, %s samples, %s raw\n\n",
				r, x0, humanize.Comma(int64(samples)), formatBytes(cmp.RawSize))
			fmt.Fprintln(out, renderMetrics(res, dec, report))
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderComparison(cmp))

			if bf.plotPath != "" {
				if err := writeSignalPlot(bf.plotPath, x, dec.Signal, bf.plotWindow); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nWrote plot to %s\n", bf.plotPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&bf.samples, "samples", "n", 0, "Number of samples to generate")
	cmd.Flags().Float64Var(&bf.r, "r", 0, "Logistic map parameter")
	cmd.Flags().Float64Var(&bf.x0, "x0", 0, "Logistic map initial value")
	cmd.Flags().StringSliceVar(&bf.baselines, "baselines", nil, "Baseline compressors to compare against")
	cmd.Flags().StringVar(&bf.plotPath, "plot", "", "Write a signal/reconstruction plot (png, svg or pdf)")
	cmd.Flags().IntVar(&bf.plotWindow, "plot-window", defaultPlotWindow, "Number of leading samples to plot")
	flags.register(cmd)
	return cmd
}

func parseBaselines(names []string) ([]format.CompressionType, error) {
	out := make([]format.CompressionType, 0, len(names))
	for _, name := range names {
		ct, ok := format.ParseCompressionType(name)
		if !ok || ct == format.CompressionNone {
			return nil, fmt.Errorf("--baselines: unsupported value %q", name)
		}
		out = append(out, ct)
	}
	return out, nil
}

func renderMetrics(res *codec.Result, dec *codec.Decoded, report evaluate.Report) string {
	matches := "yes"
	for i, v := range dec.Signal {
		if math.Float64bits(v) != math.Float64bits(res.Reconstruction[i]) {
			matches = "no"
			break
		}
	}

	rows := [][]string{
		{"MSE", fmt.Sprintf("%.3e", report.MSE)},
		{"MAE", fmt.Sprintf("%.3e", report.MAE)},
		{"Max abs error", fmt.Sprintf("%.3e", report.MaxAbsError)},
		{"Cosine similarity", fmt.Sprintf("%.9f", report.Cosine)},
		{"Loss ratio", fmt.Sprintf("%.3e", report.LossRatio)},
		{"Base R²", fmt.Sprintf("%.6f", res.Base.RSquared)},
		{"Mirror R²", fmt.Sprintf("%.6f", res.Mirror.RSquared)},
		{"Clipped", fmt.Sprintf("%d (%.4f%%)", res.Stats.Clip.Clipped, 100*res.Stats.Clip.ClipRatio())},
		{"Model block", formatBytes(res.Stats.ModelBytes)},
		{"Residual block", formatBytes(res.Stats.ResidualBytes)},
		{"Encode time", res.Stats.Timings.Total.String()},
		{"Decode time", dec.Timings.Total.String()},
		{"Decoder matches encoder", matches},
	}

	return renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderComparison(cmp evaluate.Comparison) string {
	codecSize := cmp.Codec().Size
	rows := make([][]string, 0, len(cmp.Rows))
	for _, row := range cmp.Rows {
		if row.Err != nil {
			rows = append(rows, []string{row.Name, "-", "-", "-", "error: " + row.Err.Error()})
			continue
		}
		versus, elapsed := "-", "-"
		if row.Name != evaluate.CodecName {
			elapsed = row.Duration.String()
			if codecSize > 0 {
				versus = fmt.Sprintf("%.1fx", float64(row.Size)/float64(codecSize))
			}
		}
		rows = append(rows, []string{
			row.Name,
			formatBytes(row.Size),
			formatRatio(row.Ratio),
			versus,
			elapsed,
		})
	}

	return renderTable(
		[]string{"Compressor", "Size", "Ratio", "vs chaoscodec", "Time"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}
