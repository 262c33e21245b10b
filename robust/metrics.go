package robust

import (
	"math"
	"math/bits"

	"gonum.org/v1/gonum/stat"

	"github.com/vearutop/imwatermark"
)

// BitErrorRate returns the fraction of differing bits, missing bytes count as fully wrong.
func BitErrorRate(want, got []byte) float64 {
	n := max(len(want), len(got))
	if n == 0 {
		return 0
	}
	errs := 0
	for i := 0; i < n; i++ {
		if i >= len(want) || i >= len(got) {
			errs += 8
			continue
		}
		errs += bits.OnesCount8(want[i] ^ got[i])
	}
	return float64(errs) / float64(n*8)
}

// PSNR returns the peak signal-to-noise ratio in dB, +Inf for identical images and
// NaN for mismatched dimensions.
func PSNR(a, b *imwatermark.Pixels) float64 {
	if a.Width != b.Width || a.Height != b.Height || len(a.Pix) != len(b.Pix) {
		return math.NaN()
	}
	sq := make([]float64, len(a.Pix))
	for i := range a.Pix {
		d := float64(a.Pix[i]) - float64(b.Pix[i])
		sq[i] = d * d
	}
	mse := stat.Mean(sq, nil)
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255/mse)
}
