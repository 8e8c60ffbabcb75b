package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arloliu/chaoscodec/codec"
	"github.com/arloliu/chaoscodec/signal"
)

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	var output string
	flags := &codecFlags{}

	cmd := &cobra.Command{
		Use:   "encode <signal.f64>",
		Short: "Encode a raw float64 signal into a container file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			target := strings.TrimSpace(output)
			if target == "" {
				target = input + ".chc"
			}

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

			x, err := signal.ReadFile(input)
			if err != nil {
				return err
			}

			enc, err := codec.NewEncoder(opts...)
			if err != nil {
				return fmt.Errorf("create encoder: %w", err)
			}

			res, err := enc.Encode(cmd.Context(), x)
			if err != nil {
				return fmt.Errorf("encode %s: %w", input, err)
			}

			data, err := res.MarshalContainer()
			if err != nil {
				return err
			}
			if err := writeOutput(target, data); err != nil {
				return err
			}

			logger.Info("signal encoded",
				slog.String("input", input),
				slog.String("output", target),
				slog.Int("samples", res.Stats.Samples),
				slog.Int("container_bytes", len(data)),
				slog.Int("clipped", res.Stats.Clip.Clipped),
			)
			if res.Stats.Clip.Clipped > 0 {
				logger.Warn("quantization clipped corrections; consider a smaller scale",
					slog.Int("clipped", res.Stats.Clip.Clipped),
					slog.Float64("clip_ratio", res.Stats.Clip.ClipRatio()),
				)
			}

			out := cmd.OutOrStdout()
			rawSize := 8 * len(x)
			fmt.Fprintf(out, "Encoded %s samples from %s into %s\n", humanize.Comma(int64(len(x))), input, target)
			fmt.Fprintf(out, "  raw size:       %s\n", formatBytes(rawSize))
			fmt.Fprintf(out, "  container size: %s (%s of raw)\n", formatBytes(len(data)), formatRatio(float64(len(data))/float64(rawSize)))
			fmt.Fprintf(out, "  clipped:        %d\n", res.Stats.Clip.Clipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination container file (default <input>.chc)")
	flags.register(cmd)
	return cmd
}
