package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vearutop/imwatermark"
	"github.com/vearutop/imwatermark/robust"
)

func newRobustCmd(stdout io.Writer, logger *zerolog.Logger) *cobra.Command {
	var (
		inputs    []string
		text      string
		jpegQ     []int
		resamples []float64
		blurs     []float64
		codec     codecFlags
	)

	cmd := &cobra.Command{
		Use:   "robust",
		Short: "Measure watermark recovery after JPEG, resampling and blur",
		RunE: func(_ *cobra.Command, _ []string) error {
			opt, err := codec.options(*logger)
			if err != nil {
				return err
			}

			images := make([]robust.Image, 0, len(inputs))
			for _, p := range inputs {
				px, err := imwatermark.LoadPixelsFile(p)
				if err != nil {
					return err
				}
				images = append(images, robust.Image{Name: filepath.Base(p), Pixels: px})
			}

			attacks := []robust.Attack{robust.Identity{}}
			for _, q := range jpegQ {
				if err := imwatermark.ValidateQuality(q); err != nil {
					return err
				}
				attacks = append(attacks,
					robust.JPEG{Quality: q},
					robust.JPEG{Quality: q, FullChroma: true},
				)
			}
			for _, f := range resamples {
				attacks = append(attacks, robust.Resample{Factor: f, Interpolation: resize.Bilinear})
			}
			for _, s := range blurs {
				attacks = append(attacks, robust.Blur{Sigma: s})
			}

			rep, err := robust.Runner{
				Payload: []byte(text),
				Attacks: attacks,
				Codec:   []func(o *imwatermark.Options){opt},
				Logger:  *logger,
			}.Run(images)
			if err != nil {
				return err
			}

			for _, name := range rep.Attacks() {
				if _, err := fmt.Fprintf(stdout, "%-20s %6.2f%%\n", name, 100*rep.RecoveryRate(name)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "source image, repeatable (required)")
	cmd.Flags().StringVarP(&text, "watermark", "w", "SDV2", "watermark text")
	cmd.Flags().IntSliceVar(&jpegQ, "jpeg", []int{75, 90}, "JPEG qualities to try")
	cmd.Flags().Float64SliceVar(&resamples, "resample", []float64{0.5}, "resampling factors to try")
	cmd.Flags().Float64SliceVar(&blurs, "blur", []float64{0.6}, "gaussian blur sigmas to try")
	codec.register(cmd)
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
