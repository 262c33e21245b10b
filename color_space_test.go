package imwatermark

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestRGBToYUV_roundTrip(t *testing.T) {
	px := noisePixels(64, 48)
	// Keep chroma within the storable range.
	for i, v := range px.Pix {
		px.Pix[i] = 64 + v/2
	}
	planes := rgbToYUV(px, 4)

	for c, p := range planes {
		r, cols := p.Dims()
		if r != 48 || cols != 64 {
			t.Fatalf("plane %d dims %dx%d", c, r, cols)
		}
	}

	back := yuvToRGB(planes, 3)
	maxDiff := 0
	for i := range px.Pix {
		d := int(px.Pix[i]) - int(back.Pix[i])
		if d < 0 {
			d = -d
		}
		maxDiff = max(maxDiff, d)
	}
	if maxDiff > 2 {
		t.Fatalf("max round trip difference %d", maxDiff)
	}
}

func TestRGBToYUV_neutralGray(t *testing.T) {
	px := grayPixels(4, 2, 128)
	planes := rgbToYUV(px, 1)

	for c, want := range [3]float64{128, 128, 128} {
		if got := planes[c].At(1, 3); got != want {
			t.Fatalf("channel %d: got %v, want %v", c, got, want)
		}
	}
}

func TestRoundClip(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{-3, 0},
		{300, 255},
		{127.5, 128},
		{128.5, 128},
		{0.4, 0},
		{254.6, 255},
	} {
		if got := roundClip(tc.in); got != tc.want {
			t.Fatalf("roundClip(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSubsamplePlane(t *testing.T) {
	src := mat.NewDense(3, 5, []float64{
		1, 2, 3, 4, 5,
		6, 7, 8, 9, 10,
		11, 12, 13, 14, 15,
	})
	got := subsamplePlane(src)
	want := mat.NewDense(3, 5, []float64{
		1, 1, 3, 3, 5,
		1, 1, 3, 3, 5,
		11, 11, 13, 13, 15,
	})
	if !mat.Equal(got, want) {
		t.Fatalf("got\n%v\nwant\n%v", mat.Formatted(got), mat.Formatted(want))
	}
	if src.At(0, 1) != 2 {
		t.Fatalf("source plane modified")
	}
}

func TestSubsample_modes(t *testing.T) {
	planes := rgbToYUV(noisePixels(8, 8), 1)

	out, err := subsample(planes, SubsampleNone, ChromaUV)
	if err != nil {
		t.Fatal(err)
	}
	if out != planes {
		t.Fatalf("SubsampleNone must pass planes through")
	}

	out, err = subsample(planes, Subsample420, ChromaV)
	if err != nil {
		t.Fatal(err)
	}
	if out[chanY] != planes[chanY] || out[chanU] != planes[chanU] {
		t.Fatalf("unselected planes must be shared")
	}
	if out[chanV].At(1, 1) != planes[chanV].At(0, 0) {
		t.Fatalf("V plane not subsampled")
	}

	if _, err := subsample(planes, Subsample442, ChromaU); err == nil {
		t.Fatalf("expected error for 4:4:2")
	}
	if _, err := subsample(planes, SubsampleMode(42), ChromaU); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
