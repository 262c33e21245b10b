package imwatermark

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// subbands is a single-level 2D Haar decomposition of a block-aligned plane region.
type subbands struct {
	approx *mat.Dense
	horiz  *mat.Dense
	vert   *mat.Dense
	diag   *mat.Dense
}

// alignedRegion returns the largest region dimensions that are multiples of block.
func alignedRegion(plane *mat.Dense, block int) (rows, cols int) {
	rows, cols = plane.Dims()
	return rows / block * block, cols / block * block
}

// haarForward decomposes the block-aligned top-left region of plane.
// Trailing rows and columns are ignored.
func haarForward(plane *mat.Dense, block int) subbands {
	rows, cols := alignedRegion(plane, block)
	hr, hc := rows/2, cols/2
	s := subbands{
		approx: mat.NewDense(hr, hc, nil),
		horiz:  mat.NewDense(hr, hc, nil),
		vert:   mat.NewDense(hr, hc, nil),
		diag:   mat.NewDense(hr, hc, nil),
	}
	for i := 0; i < hr; i++ {
		top := plane.RawRowView(2 * i)
		bottom := plane.RawRowView(2*i + 1)
		ra, rh := s.approx.RawRowView(i), s.horiz.RawRowView(i)
		rv, rd := s.vert.RawRowView(i), s.diag.RawRowView(i)
		for j := 0; j < hc; j++ {
			a, b := top[2*j], top[2*j+1]
			c, d := bottom[2*j], bottom[2*j+1]
			ra[j] = (a + b + c + d) / 2
			rh[j] = (a + b - c - d) / 2
			rv[j] = (a - b + c - d) / 2
			rd[j] = (a - b - c + d) / 2
		}
	}
	return s
}

// haarInverse reconstructs the region from subbands.
//
// Horizontal and vertical details are fed in swapped positions, as in earlier releases.
// Only the approximation subband is read back, so decode is unaffected.
func haarInverse(s subbands) *mat.Dense {
	hr, hc := s.approx.Dims()
	out := mat.NewDense(hr*2, hc*2, nil)
	h, v := s.vert, s.horiz
	for i := 0; i < hr; i++ {
		top := out.RawRowView(2 * i)
		bottom := out.RawRowView(2*i + 1)
		ra, rh := s.approx.RawRowView(i), h.RawRowView(i)
		rv, rd := v.RawRowView(i), s.diag.RawRowView(i)
		for j := 0; j < hc; j++ {
			a, hh, vv, d := ra[j], rh[j], rv[j], rd[j]
			top[2*j] = (a + hh + vv + d) / 2
			top[2*j+1] = (a + hh - vv - d) / 2
			bottom[2*j] = (a - hh + vv - d) / 2
			bottom[2*j+1] = (a - hh - vv + d) / 2
		}
	}
	return out
}

// writeRegion returns a copy of plane with the top-left region replaced by region values
// truncated toward zero, matching integer plane storage.
func writeRegion(plane, region *mat.Dense) *mat.Dense {
	dst := mat.DenseCopyOf(plane)
	rows, cols := region.Dims()
	for r := 0; r < rows; r++ {
		row := dst.RawRowView(r)
		for c, v := range region.RawRowView(r)[:cols] {
			row[c] = math.Trunc(v)
		}
	}
	return dst
}
