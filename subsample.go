package imwatermark

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// subsample applies chroma subsampling emulation and returns a new plane set.
// Unselected planes are shared with the input.
func subsample(planes yuvPlanes, mode SubsampleMode, chroma ChromaChannels) (yuvPlanes, error) {
	switch mode {
	case SubsampleNone:
		return planes, nil
	case Subsample420:
	default:
		return planes, fmt.Errorf("%w: %s", ErrUnsupportedSubsampleMode, mode)
	}

	out := planes
	for _, c := range [...]int{chanU, chanV} {
		if chroma.has(c) {
			out[c] = subsamplePlane(planes[c])
		}
	}
	return out, nil
}

// subsamplePlane copies every even column over the following odd one,
// then every even row over the following odd one.
func subsamplePlane(src *mat.Dense) *mat.Dense {
	rows, cols := src.Dims()
	dst := mat.DenseCopyOf(src)
	for r := 0; r < rows; r++ {
		row := dst.RawRowView(r)
		for c := 1; c < cols; c += 2 {
			row[c] = row[c-1]
		}
	}
	for r := 1; r < rows; r += 2 {
		copy(dst.RawRowView(r), dst.RawRowView(r-1))
	}
	return dst
}
