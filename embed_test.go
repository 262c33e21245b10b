package imwatermark

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestQuantize(t *testing.T) {
	for _, tc := range []struct {
		v    float64
		bit  uint8
		want float64
	}{
		{v: 256, bit: 0, want: 261},
		{v: 256, bit: 1, want: 279},
		{v: 0, bit: 0, want: 9},
		{v: 0, bit: 1, want: 27},
		{v: -10, bit: 0, want: -9},
		{v: -40, bit: 1, want: -63},
	} {
		got := quantize(tc.v, 36, tc.bit)
		if got != tc.want {
			t.Fatalf("quantize(%v, 36, %d) = %v, want %v", tc.v, tc.bit, got, tc.want)
		}
		if b := inferBit(got, 36); b != float64(tc.bit) {
			t.Fatalf("inferBit(%v) = %v, want %d", got, b, tc.bit)
		}
	}
}

func TestInferBit_margin(t *testing.T) {
	// Quantized values survive perturbations below a quarter step.
	for _, bit := range []uint8{0, 1} {
		q := quantize(1000, 36, bit)
		for _, d := range []float64{-8.9, -4, 0, 4, 8.9} {
			if got := inferBit(q+d, 36); got != float64(bit) {
				t.Fatalf("bit %d with offset %v decoded as %v", bit, d, got)
			}
		}
	}
}

func TestDominant(t *testing.T) {
	block := mat.NewDense(2, 2, []float64{
		999, -5,
		5, 3,
	})
	r, c := dominant(block, 2)
	if r != 0 || c != 1 {
		t.Fatalf("got (%d, %d), want first of equal magnitudes (0, 1)", r, c)
	}

	block.Set(1, 1, -7)
	r, c = dominant(block, 2)
	if r != 1 || c != 1 {
		t.Fatalf("got (%d, %d), want (1, 1)", r, c)
	}
}

func TestEmbedExtractBlocks(t *testing.T) {
	approx := mat.NewDense(8, 12, nil)
	grid := newBlockGrid(approx, 4)
	for i := 0; i < grid.total(); i++ {
		block := grid.view(approx, i)
		for k := 0; k < 16; k++ {
			block.Set(k/4, k%4, 1)
		}
		block.Set(0, 0, 500)
		pos := i%15 + 1
		block.Set(pos/4, pos%4, float64(100+10*i))
	}
	bits := []uint8{1, 0, 1, 1, 0}

	embedBlocks(approx, bits, 36, 4, 3)
	scores := extractScores(approx, 36, 4, 2)
	if len(scores) != 6 {
		t.Fatalf("got %d scores, want 6", len(scores))
	}
	for i, s := range scores {
		if s != float64(bits[i%len(bits)]) {
			t.Fatalf("block %d: score %v, want %d", i, s, bits[i%len(bits)])
		}
	}
}

func TestVotes(t *testing.T) {
	v := newVotes(3)
	v.add([]float64{1, 0, 1, 1, 0, 0, 1})
	v.add([]float64{0, 0, 1})

	means := v.means()
	want := []float64{0.75, 0, 2.0 / 3}
	for i := range want {
		if math.Abs(means[i]-want[i]) > 1e-12 {
			t.Fatalf("mean %d: got %v, want %v", i, means[i], want[i])
		}
	}

	bits := v.bits()
	if bits[0] != 1 || bits[1] != 0 || bits[2] != 1 {
		t.Fatalf("unexpected bits %v", bits)
	}
}

func TestVotes_threshold(t *testing.T) {
	v := newVotes(2)
	// 0.5*255 = 127.5 > 127.
	v.add([]float64{1, 0, 0, 1})
	if b := v.bits(); b[0] != 1 || b[1] != 1 {
		t.Fatalf("ties must decode as 1, got %v", b)
	}

	empty := newVotes(4)
	empty.add([]float64{1, 1})
	if !math.IsNaN(empty.means()[3]) {
		t.Fatalf("empty bucket mean must be NaN")
	}
	if b := empty.bits(); b[0] != 1 || b[2] != 0 || b[3] != 0 {
		t.Fatalf("unexpected bits %v", b)
	}
}
