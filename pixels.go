package imwatermark

import (
	"errors"
	"image"
	"image/color"
)

// Pixels is an 8-bit RGB pixel grid in row-major order.
type Pixels struct {
	Width  int
	Height int
	Pix    []uint8 // RGB triplets, len(Pix) == Width*Height*3
}

// NewPixels allocates a black pixel grid.
func NewPixels(width, height int) *Pixels {
	return &Pixels{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// At returns RGB values at x, y.
func (p *Pixels) At(x, y int) (r, g, b uint8) {
	i := (y*p.Width + x) * 3
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2]
}

// Set stores RGB values at x, y.
func (p *Pixels) Set(x, y int, r, g, b uint8) {
	i := (y*p.Width + x) * 3
	p.Pix[i], p.Pix[i+1], p.Pix[i+2] = r, g, b
}

// Clone returns a deep copy.
func (p *Pixels) Clone() *Pixels {
	return &Pixels{
		Width:  p.Width,
		Height: p.Height,
		Pix:    append([]uint8(nil), p.Pix...),
	}
}

func (p *Pixels) check() error {
	if p == nil {
		return errors.New("nil pixels")
	}
	if p.Width <= 0 || p.Height <= 0 || len(p.Pix) != p.Width*p.Height*3 {
		return errors.New("invalid pixel buffer dimensions")
	}
	return ValidateSize(p.Width, p.Height)
}

// FromImage converts any image to an RGB pixel grid, alpha is dropped.
func FromImage(img image.Image) *Pixels {
	b := img.Bounds()
	out := NewPixels(b.Dx(), b.Dy())
	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < out.Height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+out.Width*4]
			dst := out.Pix[y*out.Width*3 : (y+1)*out.Width*3]
			for x := 0; x < out.Width; x++ {
				dst[x*3] = row[x*4]
				dst[x*3+1] = row[x*4+1]
				dst[x*3+2] = row[x*4+2]
			}
		}
	case *image.YCbCr:
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				yi := src.YOffset(b.Min.X+x, b.Min.Y+y)
				ci := src.COffset(b.Min.X+x, b.Min.Y+y)
				r, g, bl := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				out.Set(x, y, r, g, bl)
			}
		}
	default:
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				out.Set(x, y, c.R, c.G, c.B)
			}
		}
	}
	return out
}

// Image returns an opaque NRGBA image sharing no memory with p.
func (p *Pixels) Image() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		src := p.Pix[y*p.Width*3 : (y+1)*p.Width*3]
		row := out.Pix[y*out.Stride : y*out.Stride+p.Width*4]
		for x := 0; x < p.Width; x++ {
			row[x*4] = src[x*3]
			row[x*4+1] = src[x*3+1]
			row[x*4+2] = src[x*3+2]
			row[x*4+3] = 0xFF
		}
	}
	return out
}
