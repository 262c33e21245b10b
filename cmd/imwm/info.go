package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vearutop/imwatermark"
)

func newInfoCmd(stdout io.Writer) *cobra.Command {
	var (
		in    string
		block int
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show image dimensions, JPEG headers and watermark capacity",
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := os.ReadFile(filepath.Clean(in))
			if err != nil {
				return err
			}
			px, format, err := imwatermark.LoadPixelsBytes(data)
			if err != nil {
				return err
			}
			capacity, err := imwatermark.Capacity(px.Width, px.Height, func(o *imwatermark.Options) {
				o.BlockSize = block
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(stdout, "format:   %s\n", format)
			fmt.Fprintf(stdout, "size:     %dx%d\n", px.Width, px.Height)
			fmt.Fprintf(stdout, "capacity: %d bits (%d bytes) per channel\n", capacity, capacity/8)
			if format == imwatermark.FormatJPEG {
				info, err := imwatermark.ProbeJPEG(data)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "quality:  ~%d\n", info.Quality)
				chroma := "subsampled"
				if info.FullChroma() {
					chroma = "4:4:4"
				}
				fmt.Fprintf(stdout, "chroma:   %s\n", chroma)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "input", "i", "", "image to inspect (required)")
	cmd.Flags().IntVar(&block, "block", 4, "block side in the approximation subband")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
