package imwatermark

import (
	"runtime"

	"github.com/rs/zerolog"
)

// SubsampleMode selects the chroma subsampling emulation applied before embedding.
type SubsampleMode int

const (
	// Subsample420 duplicates even columns and rows over odd ones (4:2:0-style).
	Subsample420 SubsampleMode = iota
	// Subsample442 is not implemented, requesting it fails with ErrUnsupportedSubsampleMode.
	Subsample442
	// SubsampleNone leaves chroma untouched.
	SubsampleNone
)

func (m SubsampleMode) String() string {
	switch m {
	case Subsample420:
		return "4:2:0"
	case Subsample442:
		return "4:4:2"
	case SubsampleNone:
		return "none"
	default:
		return "unknown"
	}
}

// ChromaChannels selects chroma planes for subsampling emulation.
type ChromaChannels int

const (
	// ChromaU selects the U plane.
	ChromaU ChromaChannels = 1 << iota
	// ChromaV selects the V plane.
	ChromaV
)

// ChromaUV selects both chroma planes.
const ChromaUV = ChromaU | ChromaV

func (c ChromaChannels) has(channel int) bool {
	switch channel {
	case chanU:
		return c&ChromaU != 0
	case chanV:
		return c&ChromaV != 0
	default:
		return false
	}
}

// Options controls watermark encoding and decoding.
type Options struct {
	// Scales is the quantization step per Y, U, V channel, a channel with scale <= 0 is skipped.
	Scales [3]float64
	// BlockSize is the side of a square block in the approximation subband, even and >= 2.
	BlockSize int
	// Subsample is the chroma subsampling emulation used by Encode.
	Subsample SubsampleMode
	// Chroma selects planes affected by Subsample.
	Chroma ChromaChannels
	// Workers limits block-level parallelism, GOMAXPROCS if <= 0.
	Workers int
	// Logger receives debug events, silent by default.
	Logger zerolog.Logger
}

// DefaultOptions returns the options used when no overrides are given.
func DefaultOptions() Options {
	return Options{
		Scales:    [3]float64{0, defaultChromaStep, defaultChromaStep},
		BlockSize: defaultBlockSize,
		Subsample: Subsample420,
		Chroma:    ChromaU,
		Workers:   runtime.GOMAXPROCS(0),
		Logger:    zerolog.Nop(),
	}
}

func buildOptions(opts []func(o *Options)) (Options, error) {
	opt := DefaultOptions()
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	if opt.BlockSize < 2 || opt.BlockSize%2 != 0 {
		return opt, ErrInvalidBlockSize
	}
	if opt.Workers <= 0 {
		opt.Workers = runtime.GOMAXPROCS(0)
	}
	return opt, nil
}

// FileOptions controls EncodeFile.
type FileOptions struct {
	// Text is the watermark payload, "SDV2" by default.
	Text string
	// Quality is the JPEG quality (0-100), ignored for PNG output.
	Quality int
	// Codec holds codec overrides.
	Codec []func(o *Options)
}
