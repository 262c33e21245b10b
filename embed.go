package imwatermark

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// blockGrid describes the row-major tiling of an approximation subband into square blocks.
type blockGrid struct {
	size       int
	rows, cols int
}

func newBlockGrid(approx *mat.Dense, size int) blockGrid {
	r, c := approx.Dims()
	return blockGrid{size: size, rows: r / size, cols: c / size}
}

func (g blockGrid) total() int {
	return g.rows * g.cols
}

// view returns the i-th block as a view sharing storage with approx.
func (g blockGrid) view(approx *mat.Dense, i int) *mat.Dense {
	r := i / g.cols * g.size
	c := i % g.cols * g.size
	return approx.Slice(r, r+g.size, c, c+g.size).(*mat.Dense)
}

// dominant returns the position of the coefficient with the largest magnitude,
// skipping the first coefficient of the block. Ties resolve to the first position.
func dominant(block *mat.Dense, size int) (row, col int) {
	best := -1.0
	for pos := 1; pos < size*size; pos++ {
		v := math.Abs(block.At(pos/size, pos%size))
		if v > best {
			best = v
			row, col = pos/size, pos%size
		}
	}
	return row, col
}

// quantize moves v into the lower (bit 0) or upper (bit 1) quarter of its quantization cell.
func quantize(v, scale float64, bit uint8) float64 {
	offset := 0.25 + 0.5*float64(bit)
	if v >= 0 {
		return (math.Floor(v/scale) + offset) * scale
	}
	return -1 * (math.Floor(-v/scale) + offset) * scale
}

// embedBlocks writes bits[i%len(bits)] into the dominant coefficient of block i.
func embedBlocks(approx *mat.Dense, bits []uint8, scale float64, size, workers int) {
	grid := newBlockGrid(approx, size)
	parallelFor(grid.total(), workers, func(start, end int) {
		for i := start; i < end; i++ {
			block := grid.view(approx, i)
			r, c := dominant(block, size)
			block.Set(r, c, quantize(block.At(r, c), scale, bits[i%len(bits)]))
		}
	})
}
