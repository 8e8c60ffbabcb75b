package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arloliu/chaoscodec/codec"
	"github.com/arloliu/chaoscodec/errs"
	"github.com/arloliu/chaoscodec/signal"
)

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	var output string
	var reference string
	var workers int

	cmd := &cobra.Command{
		Use:   "decode <file.chc>",
		Short: "Decode a container file into a raw float64 signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			target := strings.TrimSpace(output)
			if target == "" {
				target = strings.TrimSuffix(input, ".chc") + ".decoded.f64"
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts := []codec.Option{
				codec.WithLogger(logger),
				codec.WithTimeout(secondsDuration(cfg.Codec.TimeoutSeconds)),
			}
			if cmd.Flags().Changed("workers") {
				opts = append(opts, codec.WithWorkers(workers))
			} else if cfg.Codec.Workers > 0 {
				opts = append(opts, codec.WithWorkers(cfg.Codec.Workers))
			}
			if reference != "" {
				ref, err := signal.ReadFile(reference)
				if err != nil {
					return err
				}
				opts = append(opts, codec.WithReferenceSignal(ref))
			}

			data, err := readInput(input)
			if err != nil {
				return err
			}

			dec, err := codec.DecodeContainer(cmd.Context(), data, opts...)
			if err != nil {
				if errors.Is(err, errs.ErrReferenceRequired) {
					return fmt.Errorf("decode %s: %w (pass --reference with the original signal)", input, err)
				}
				return fmt.Errorf("decode %s: %w", input, err)
			}

			if err := signal.WriteFile(target, dec.Signal); err != nil {
				return err
			}

			logger.Info("payload decoded",
				slog.String("input", input),
				slog.String("output", target),
				slog.Int("samples", len(dec.Signal)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Decoded %s samples from %s into %s\n", humanize.Comma(int64(len(dec.Signal))), input, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination raw float64 file (default <input>.decoded.f64)")
	cmd.Flags().StringVar(&reference, "reference", "", "Original signal, required for payloads encoded with --mirror-source=signal")
	cmd.Flags().IntVar(&workers, "workers", 0, "Goroutines used by the parallel stages")
	return cmd
}
