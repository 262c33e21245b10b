package jpegx

import "math"

// EstimateQuality inverts the quality scaling applied to the standard luminance table.
// The table is in zig-zag order, as stored in a DQT segment.
func EstimateQuality(lum [blockSize]byte) int {
	var sum float64
	allOnes := true
	for i, q := range lum {
		if q != 1 {
			allOnes = false
		}
		sum += float64(q) * 100 / float64(unscaledQuant[quantIndexLuminance][i])
	}
	if allOnes {
		return 100
	}
	sc := sum / blockSize
	var quality float64
	if sc <= 100 {
		quality = (200 - sc) / 2
	} else {
		quality = 5000 / sc
	}
	return int(math.Max(1, math.Min(100, math.Round(quality))))
}
