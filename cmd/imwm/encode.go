package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vearutop/imwatermark"
)

// codecFlags are shared by subcommands that run the codec.
type codecFlags struct {
	scaleU, scaleV float64
	block          int
	chroma         string
}

func (f *codecFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.scaleU, "scale-u", 36, "quantization step for the U channel, 0 disables it")
	cmd.Flags().Float64Var(&f.scaleV, "scale-v", 36, "quantization step for the V channel, 0 disables it")
	cmd.Flags().IntVar(&f.block, "block", 4, "block side in the approximation subband")
	cmd.Flags().StringVar(&f.chroma, "chroma", "u", "chroma planes to subsample before embedding: u, v or uv")
}

func (f *codecFlags) options(logger zerolog.Logger) (func(o *imwatermark.Options), error) {
	var chroma imwatermark.ChromaChannels
	switch strings.ToLower(f.chroma) {
	case "u":
		chroma = imwatermark.ChromaU
	case "v":
		chroma = imwatermark.ChromaV
	case "uv":
		chroma = imwatermark.ChromaUV
	default:
		return nil, fmt.Errorf("invalid --chroma %q, want u, v or uv", f.chroma)
	}
	return func(o *imwatermark.Options) {
		o.Scales[1] = f.scaleU
		o.Scales[2] = f.scaleV
		o.BlockSize = f.block
		o.Chroma = chroma
		o.Logger = logger
	}, nil
}

func newEncodeCmd(logger *zerolog.Logger) *cobra.Command {
	var (
		in, out, text string
		quality       int
		codec         codecFlags
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Embed a text watermark, output format follows the -o extension (.jpg, .jpeg, .png)",
		RunE: func(_ *cobra.Command, _ []string) error {
			opt, err := codec.options(*logger)
			if err != nil {
				return err
			}
			if err := imwatermark.EncodeFile(in, out, func(o *imwatermark.FileOptions) {
				o.Text = text
				o.Quality = quality
				o.Codec = append(o.Codec, opt)
			}); err != nil {
				return err
			}
			logger.Info().Str("input", in).Str("output", out).Str("watermark", text).Msg("watermark embedded")
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "input", "i", "", "input image (required)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output image (required)")
	cmd.Flags().StringVarP(&text, "watermark", "w", "SDV2", "watermark text")
	cmd.Flags().IntVarP(&quality, "quality", "q", 100, "JPEG quality, 0-100")
	codec.register(cmd)
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
