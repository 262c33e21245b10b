package imwatermark

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Encode embeds payload into a copy of px and returns the watermarked pixels.
// The result is deterministic for the same input, payload and options.
func Encode(px *Pixels, payload []byte, opts ...func(o *Options)) (*Pixels, error) {
	if err := px.check(); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	opt, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	bits := unpackBits(payload)
	channels := activeChannels(opt.Scales)
	if capacity := blockCapacity(px.Width, px.Height, opt.BlockSize); len(channels) > 0 && capacity < len(bits) {
		return nil, fmt.Errorf("%w: %d bits, %d blocks", ErrPayloadTooLarge, len(bits), capacity)
	}

	planes := rgbToYUV(px, opt.Workers)
	planes, err = subsample(planes, opt.Subsample, opt.Chroma)
	if err != nil {
		return nil, err
	}

	var g errgroup.Group
	for _, c := range channels {
		g.Go(func() error {
			sub := haarForward(planes[c], opt.BlockSize)
			embedBlocks(sub.approx, bits, opt.Scales[c], opt.BlockSize, opt.Workers)
			planes[c] = writeRegion(planes[c], haarInverse(sub))
			opt.Logger.Debug().
				Int("channel", c).
				Float64("scale", opt.Scales[c]).
				Int("blocks", newBlockGrid(sub.approx, opt.BlockSize).total()).
				Msg("watermark embedded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return yuvToRGB(planes, opt.Workers), nil
}

// Decode recovers bitLen watermark bits from px and packs them into bitLen/8 bytes.
func Decode(px *Pixels, bitLen int, opts ...func(o *Options)) ([]byte, error) {
	if err := px.check(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	opt, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	if bitLen <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBitLength, bitLen)
	}

	planes := rgbToYUV(px, opt.Workers)
	channels := activeChannels(opt.Scales)
	scores := make([][]float64, len(channels))

	var g errgroup.Group
	for i, c := range channels {
		g.Go(func() error {
			sub := haarForward(planes[c], opt.BlockSize)
			scores[i] = extractScores(sub.approx, opt.Scales[c], opt.BlockSize, opt.Workers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v := newVotes(bitLen)
	for i, s := range scores {
		v.add(s)
		opt.Logger.Debug().Int("channel", channels[i]).Int("blocks", len(s)).Msg("watermark votes collected")
	}
	return packBits(v.bits()), nil
}

// EncodeText embeds text as UTF-8, ill-formed sequences are replaced with U+FFFD.
func EncodeText(px *Pixels, text string, opts ...func(o *Options)) (*Pixels, error) {
	return Encode(px, textBytes(text), opts...)
}

// DecodeText recovers byteLen bytes and interprets them as UTF-8 text.
// Invalid sequences are replaced with U+FFFD, malformed text is not an error.
func DecodeText(px *Pixels, byteLen int, opts ...func(o *Options)) (string, error) {
	b, err := Decode(px, byteLen*8, opts...)
	if err != nil {
		return "", err
	}
	return bytesText(b), nil
}

// Capacity returns the number of blocks available per chroma channel, i.e. the maximum
// number of payload bits that can be embedded into an image of the given size.
func Capacity(width, height int, opts ...func(o *Options)) (int, error) {
	if err := ValidateSize(width, height); err != nil {
		return 0, err
	}
	opt, err := buildOptions(opts)
	if err != nil {
		return 0, err
	}
	return blockCapacity(width, height, opt.BlockSize), nil
}

func blockCapacity(width, height, block int) int {
	rows := height / block * block / 2 / block
	cols := width / block * block / 2 / block
	return rows * cols
}

func activeChannels(scales [3]float64) []int {
	var channels []int
	for c, s := range scales {
		if s > 0 {
			channels = append(channels, c)
		}
	}
	return channels
}
