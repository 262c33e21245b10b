package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vearutop/imwatermark"
)

func newDecodeCmd(stdout io.Writer, logger *zerolog.Logger) *cobra.Command {
	var (
		in, out string
		length  int
		codec   codecFlags
	)

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Recover a text watermark and write it to the output file",
		RunE: func(_ *cobra.Command, _ []string) error {
			opt, err := codec.options(*logger)
			if err != nil {
				return err
			}
			text, err := imwatermark.DecodeFile(in, out, length, opt)
			if err != nil {
				return err
			}
			logger.Debug().Str("input", in).Int("bytes", length).Msg("watermark decoded")
			_, err = fmt.Fprintln(stdout, text)
			return err
		},
	}

	cmd.Flags().StringVarP(&in, "input", "i", "", "watermarked image (required)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "text file to write (required)")
	cmd.Flags().IntVarP(&length, "length", "l", 4, "watermark length in bytes")
	codec.register(cmd)
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
