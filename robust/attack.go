// Package robust measures watermark survival under common image transformations.
package robust

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"

	"github.com/vearutop/imwatermark"
	"github.com/vearutop/imwatermark/internal/jpegx"
)

// Attack transforms watermarked pixels the way a distribution channel would.
type Attack interface {
	Name() string
	Apply(px *imwatermark.Pixels) (*imwatermark.Pixels, error)
}

// Identity returns pixels unchanged.
type Identity struct{}

// Name implements Attack.
func (Identity) Name() string { return "none" }

// Apply implements Attack.
func (Identity) Apply(px *imwatermark.Pixels) (*imwatermark.Pixels, error) {
	return px.Clone(), nil
}

// JPEG re-encodes pixels as baseline JPEG and decodes them back.
type JPEG struct {
	Quality int
	// FullChroma keeps chroma at full resolution (4:4:4) instead of 4:2:0.
	FullChroma bool
}

// Name implements Attack.
func (a JPEG) Name() string {
	s := "420"
	if a.FullChroma {
		s = "444"
	}
	return fmt.Sprintf("jpeg-q%d-%s", a.Quality, s)
}

// Apply implements Attack.
func (a JPEG) Apply(px *imwatermark.Pixels) (*imwatermark.Pixels, error) {
	var buf bytes.Buffer
	opt := jpegx.EncoderOptions{Quality: a.Quality, Sampling: jpegx.Sampling420}
	if a.FullChroma {
		opt.Sampling = jpegx.Sampling444
	}
	if err := jpegx.Encode(&buf, px.Image(), opt); err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}
	img, err := jpeg.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}
	return imwatermark.FromImage(img), nil
}

// Resample scales pixels by Factor and back to the original size.
type Resample struct {
	Factor float64
	// Interpolation is nearest neighbor when zero.
	Interpolation resize.InterpolationFunction
}

// Name implements Attack.
func (a Resample) Name() string {
	return fmt.Sprintf("resample-%g", a.Factor)
}

// Apply implements Attack.
func (a Resample) Apply(px *imwatermark.Pixels) (*imwatermark.Pixels, error) {
	if a.Factor <= 0 {
		return nil, fmt.Errorf("%s: factor must be positive", a.Name())
	}
	interp := a.Interpolation
	w := max(1, uint(float64(px.Width)*a.Factor))
	h := max(1, uint(float64(px.Height)*a.Factor))
	small := resize.Resize(w, h, px.Image(), interp)
	back := resize.Resize(uint(px.Width), uint(px.Height), small, interp)
	return imwatermark.FromImage(back), nil
}

// Blur applies a gaussian blur.
type Blur struct {
	Sigma float64
}

// Name implements Attack.
func (a Blur) Name() string {
	return fmt.Sprintf("blur-%g", a.Sigma)
}

// Apply implements Attack.
func (a Blur) Apply(px *imwatermark.Pixels) (*imwatermark.Pixels, error) {
	if a.Sigma <= 0 {
		return px.Clone(), nil
	}
	g := gift.New(gift.GaussianBlur(float32(a.Sigma)))
	src := px.Image()
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return imwatermark.FromImage(dst), nil
}

// Chain applies attacks in order.
type Chain []Attack

// Name implements Attack.
func (c Chain) Name() string {
	names := make([]string, 0, len(c))
	for _, a := range c {
		names = append(names, a.Name())
	}
	return strings.Join(names, "+")
}

// Apply implements Attack.
func (c Chain) Apply(px *imwatermark.Pixels) (*imwatermark.Pixels, error) {
	out := px.Clone()
	for _, a := range c {
		var err error
		if out, err = a.Apply(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
