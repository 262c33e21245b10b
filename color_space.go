package imwatermark

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	chanY = iota
	chanU
	chanV
)

// yuvPlanes holds Y, U, V planes as rows x cols matrices.
type yuvPlanes [3]*mat.Dense

// Column-vector convention: a row of RGB triplets (cols x 3) times the matrix gives YUV.
var rgbToYUVMatrix = mat.NewDense(3, 3, []float64{
	0.29900, -0.14713, 0.61500,
	0.58700, -0.28886, -0.51499,
	0.11400, 0.43600, -0.10001,
})

var yuvToRGBMatrix = mat.NewDense(3, 3, []float64{
	1.00000, 1.00000, 1.00000,
	0.00000, -0.39465, 2.03211,
	1.13983, -0.58060, 0.00000,
})

// rgbToYUV converts pixels to integer-valued YUV planes clipped to [0, 255].
func rgbToYUV(px *Pixels, workers int) yuvPlanes {
	w, h := px.Width, px.Height
	planes := yuvPlanes{
		mat.NewDense(h, w, nil),
		mat.NewDense(h, w, nil),
		mat.NewDense(h, w, nil),
	}
	parallelFor(h, workers, func(start, end int) {
		src := mat.NewDense(w, 3, nil)
		var dst mat.Dense
		raw := src.RawMatrix().Data
		for y := start; y < end; y++ {
			for i, v := range px.Pix[y*w*3 : (y+1)*w*3] {
				raw[i] = float64(v)
			}
			dst.Mul(src, rgbToYUVMatrix)
			out := dst.RawMatrix()
			rowY := planes[chanY].RawRowView(y)
			rowU := planes[chanU].RawRowView(y)
			rowV := planes[chanV].RawRowView(y)
			for x := 0; x < w; x++ {
				o := out.Data[x*out.Stride:]
				rowY[x] = roundClip(o[0])
				rowU[x] = roundClip(o[1] + chromaOffset)
				rowV[x] = roundClip(o[2] + chromaOffset)
			}
		}
	})
	return planes
}

// yuvToRGB converts YUV planes back to pixels.
func yuvToRGB(planes yuvPlanes, workers int) *Pixels {
	h, w := planes[chanY].Dims()
	px := NewPixels(w, h)
	parallelFor(h, workers, func(start, end int) {
		src := mat.NewDense(w, 3, nil)
		var dst mat.Dense
		raw := src.RawMatrix().Data
		for y := start; y < end; y++ {
			rowY := planes[chanY].RawRowView(y)
			rowU := planes[chanU].RawRowView(y)
			rowV := planes[chanV].RawRowView(y)
			for x := 0; x < w; x++ {
				raw[x*3] = rowY[x]
				raw[x*3+1] = rowU[x] - chromaOffset
				raw[x*3+2] = rowV[x] - chromaOffset
			}
			dst.Mul(src, yuvToRGBMatrix)
			out := dst.RawMatrix()
			pix := px.Pix[y*w*3 : (y+1)*w*3]
			for x := 0; x < w; x++ {
				o := out.Data[x*out.Stride:]
				pix[x*3] = uint8(roundClip(o[0]))
				pix[x*3+1] = uint8(roundClip(o[1]))
				pix[x*3+2] = uint8(roundClip(o[2]))
			}
		}
	})
	return px
}

// roundClip clips to [0, 255] and rounds half to even.
func roundClip(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return math.RoundToEven(v)
}
