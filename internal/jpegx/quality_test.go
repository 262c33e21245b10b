package jpegx

import "testing"

func TestEstimateQuality(t *testing.T) {
	for _, quality := range []int{25, 50, 75, 90, 100} {
		sc := 200 - quality*2
		if quality < 50 {
			sc = 5000 / quality
		}
		var table [blockSize]byte
		for i, b := range unscaledQuant[quantIndexLuminance] {
			table[i] = byte(max(1, min(255, (int(b)*sc+50)/100)))
		}
		got := EstimateQuality(table)
		if d := got - quality; d < -2 || d > 2 {
			t.Fatalf("quality %d estimated as %d", quality, got)
		}
	}
}
