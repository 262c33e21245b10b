// Command imwm embeds and recovers invisible image watermarks.
package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := newRootCmd(os.Stdout, &logger).Execute(); err != nil {
		logger.Error().Err(err).Msg("imwm failed")
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer, logger *zerolog.Logger) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "imwm",
		Short:         "Embed and recover invisible image watermarks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			*logger = logger.Level(level)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log codec debug events")

	root.AddCommand(
		newEncodeCmd(logger),
		newDecodeCmd(out, logger),
		newRobustCmd(out, logger),
		newInfoCmd(out),
	)
	return root
}
