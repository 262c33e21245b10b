package jpegx

import "math"

// dctCos[x][u] = C(u)/2 * cos((2x+1)uπ/16), C(0) = 1/√2.
var dctCos [8][8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			c := 0.5
			if u == 0 {
				c = 0.5 / math.Sqrt2
			}
			dctCos[x][u] = c * math.Cos(float64(2*x+1)*float64(u)*math.Pi/16)
		}
	}
}

// fdct performs a level-shifted forward DCT on b in natural order.
// The output is scaled by 8, callers divide by 8*quant.
func fdct(b *block) {
	var tmp [blockSize]float64
	// Rows.
	for y := 0; y < 8; y++ {
		for u := 0; u < 8; u++ {
			var s float64
			for x := 0; x < 8; x++ {
				s += float64(b[8*y+x]-128) * dctCos[x][u]
			}
			tmp[8*y+u] = s
		}
	}
	// Columns.
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			var s float64
			for y := 0; y < 8; y++ {
				s += tmp[8*y+u] * dctCos[y][v]
			}
			b[8*v+u] = int32(math.Round(8 * s))
		}
	}
}
