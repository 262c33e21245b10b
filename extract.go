package imwatermark

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// inferBit reads the quantization cell half of the dominant coefficient.
func inferBit(v, scale float64) float64 {
	if math.Mod(math.Abs(v), scale) > 0.5*scale {
		return 1
	}
	return 0
}

// extractScores returns the inferred bit of every block in row-major order.
// Each block writes only its own slot, so workers need no synchronization.
func extractScores(approx *mat.Dense, scale float64, size, workers int) []float64 {
	grid := newBlockGrid(approx, size)
	scores := make([]float64, grid.total())
	parallelFor(grid.total(), workers, func(start, end int) {
		for i := start; i < end; i++ {
			block := grid.view(approx, i)
			r, c := dominant(block, size)
			scores[i] = inferBit(block.At(r, c), scale)
		}
	})
	return scores
}

// votes collects per-block bit scores for each watermark bit position.
type votes [][]float64

func newVotes(bitLen int) votes {
	return make(votes, bitLen)
}

// add appends block scores, block i votes for position i%len(v).
func (v votes) add(scores []float64) {
	for i, s := range scores {
		k := i % len(v)
		v[k] = append(v[k], s)
	}
}

// means returns the average score per position, NaN for a position without votes.
func (v votes) means() []float64 {
	out := make([]float64, len(v))
	for i, bucket := range v {
		if len(bucket) == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.Mean(bucket, nil)
	}
	return out
}

// bits thresholds the scaled means, a position without votes decodes as 0.
func (v votes) bits() []uint8 {
	out := make([]uint8, len(v))
	for i, m := range v.means() {
		if m*255 > voteThreshold {
			out[i] = 1
		}
	}
	return out
}
