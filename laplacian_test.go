package retouch

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLaplacianKernel(t *testing.T) {
	k := LaplacianKernel()

	want := [5][5]int{
		{-4, -1, 0, -1, -4},
		{-1, 2, 3, 2, -1},
		{0, 3, 4, 3, 0},
		{-1, 2, 3, 2, -1},
		{-4, -1, 0, -1, -4},
	}
	if k != want {
		t.Fatalf("LaplacianKernel() = %v, want %v", k, want)
	}

	sum := 0
	for _, row := range k {
		for _, v := range row {
			sum += v
		}
	}
	if sum != 0 {
		t.Errorf("kernel sum = %d, want 0", sum)
	}

	// Returned array is a copy.
	k[2][2] = 100
	if LaplacianKernel()[2][2] != 4 {
		t.Error("modifying the returned kernel changed the filter")
	}
}

func TestApplyLaplacianDimensions(t *testing.T) {
	sizes := [][2]int{{5, 5}, {6, 9}, {12, 7}, {32, 32}}
	for _, sz := range sizes {
		src := patternBuffer(t, sz[0], sz[1])
		out, err := ApplyLaplacian(src)
		if err != nil {
			t.Fatalf("ApplyLaplacian(%dx%d) failed: %v", sz[0], sz[1], err)
		}
		if out.Width() != sz[0]-4 || out.Height() != sz[1]-4 {
			t.Errorf("ApplyLaplacian(%dx%d) = %dx%d, want %dx%d",
				sz[0], sz[1], out.Width(), out.Height(), sz[0]-4, sz[1]-4)
		}
	}
}

func TestApplyLaplacianTooSmall(t *testing.T) {
	sizes := [][2]int{{4, 10}, {10, 4}, {1, 1}, {4, 4}}
	for _, sz := range sizes {
		_, err := ApplyLaplacian(uniformBuffer(t, sz[0], sz[1], Gray(0.5)))
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%dx%d: error = %v, want ErrInvalidParameter", sz[0], sz[1], err)
		}
	}
	if _, err := ApplyLaplacian(nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("nil: error = %v, want ErrInvalidParameter", err)
	}
}

// TestApplyLaplacianUniformGray tests the flat-channel fallback on a
// uniform image, where every neighbourhood has the same response.
func TestApplyLaplacianUniformGray(t *testing.T) {
	src := uniformBuffer(t, 6, 6, Gray(0.5))

	t.Run("default fill", func(t *testing.T) {
		out, err := ApplyLaplacian(src)
		if err != nil {
			t.Fatalf("ApplyLaplacian failed: %v", err)
		}
		if out.Width() != 2 || out.Height() != 2 {
			t.Fatalf("size = %dx%d, want 2x2", out.Width(), out.Height())
		}
		for i, c := range out.Pixels() {
			if c != Gray(0.5) {
				t.Errorf("pixel %d = %v, want mid-gray", i, c)
			}
		}
	})

	t.Run("custom fill", func(t *testing.T) {
		out, err := ApplyLaplacian(src, WithFlatFill(0.2))
		if err != nil {
			t.Fatalf("ApplyLaplacian failed: %v", err)
		}
		for i, c := range out.Pixels() {
			if c != Gray(0.2) {
				t.Errorf("pixel %d = %v, want 0.2", i, c)
			}
		}
	})

	t.Run("strict", func(t *testing.T) {
		out, err := ApplyLaplacian(src, WithStrictRange())
		if !errors.Is(err, ErrDegenerateRange) {
			t.Errorf("error = %v, want ErrDegenerateRange", err)
		}
		if out != nil {
			t.Error("strict failure returned a buffer")
		}
	})
}

func TestApplyLaplacianFallbackLogged(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	if _, err := ApplyLaplacian(uniformBuffer(t, 5, 5, Gray(0.1))); err != nil {
		t.Fatalf("ApplyLaplacian failed: %v", err)
	}
	if !strings.Contains(buf.String(), "flat channel") {
		t.Errorf("expected a fallback debug record, got: %s", buf.String())
	}
}

// TestApplyLaplacianImpulse tests the response to a single bright pixel.
// Output (x,y) is centred on source (x+2,y+2), so a 7x7 image with a
// white centre sees the middle 3x3 of the kernel: [[2,3,2],[3,4,3],[2,3,2]].
func TestApplyLaplacianImpulse(t *testing.T) {
	pixels := make([]RGB, 7*7)
	pixels[3*7+3] = Gray(1)
	src := mustBuffer(t, 7, 7, pixels)

	out, err := ApplyLaplacian(src)
	if err != nil {
		t.Fatalf("ApplyLaplacian failed: %v", err)
	}

	// Range [2, 4] normalizes 2 -> 0, 3 -> 0.5, 4 -> 1.
	want := [3][3]float64{
		{0, 0.5, 0},
		{0.5, 1, 0.5},
		{0, 0.5, 0},
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := mustGet(t, out, x, y); !colorApproxEqual(got, Gray(want[y][x]), 1e-12) {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, want[y][x])
			}
		}
	}
}

// TestApplyLaplacianWindowFollowsPixel tests that moving the impulse moves
// the response, i.e. the window is offset by the output position.
func TestApplyLaplacianWindowFollowsPixel(t *testing.T) {
	pixels := make([]RGB, 9*9)
	pixels[2*9+6] = Gray(1) // source (6, 2)
	src := mustBuffer(t, 9, 9, pixels)

	out, err := ApplyLaplacian(src)
	if err != nil {
		t.Fatalf("ApplyLaplacian failed: %v", err)
	}

	// The kernel maximum (4) lands on the output centred on the impulse:
	// source (6,2) is output (4,0). That pixel alone maps to 1.
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			c := mustGet(t, out, x, y)
			isPeak := x == 4 && y == 0
			if isPeak != (c.R == 1) {
				t.Errorf("(%d,%d) = %v, peak expected only at (4,0)", x, y, c)
			}
		}
	}
}

// TestApplyLaplacianFullRange tests that each channel reaches exactly 0
// and exactly 1 somewhere.
func TestApplyLaplacianFullRange(t *testing.T) {
	out, err := ApplyLaplacian(noiseBuffer(t, 20, 15, 123))
	if err != nil {
		t.Fatalf("ApplyLaplacian failed: %v", err)
	}

	var min0, max1 [3]bool
	for _, c := range out.Pixels() {
		for i, v := range []float64{c.R, c.G, c.B} {
			if v < 0 || v > 1 {
				t.Fatalf("channel %d value %v outside [0,1]", i, v)
			}
			min0[i] = min0[i] || v == 0
			max1[i] = max1[i] || v == 1
		}
	}
	for i := range 3 {
		if !min0[i] || !max1[i] {
			t.Errorf("channel %d: reaches 0 = %t, reaches 1 = %t", i, min0[i], max1[i])
		}
	}
}

// TestApplyLaplacianChannelsIndependent tests that each output channel
// depends only on the same input channel.
func TestApplyLaplacianChannelsIndependent(t *testing.T) {
	a := noiseBuffer(t, 10, 10, 17)
	b := noiseBuffer(t, 10, 10, 91)

	// mixed keeps a's blue and takes red and green from b.
	ap, bp := a.Pixels(), b.Pixels()
	mixed := make([]RGB, len(ap))
	for i := range ap {
		mixed[i] = RGB{R: bp[i].R, G: bp[i].G, B: ap[i].B}
	}

	outA, err := ApplyLaplacian(a)
	if err != nil {
		t.Fatalf("ApplyLaplacian(a) failed: %v", err)
	}
	outM, err := ApplyLaplacian(mustBuffer(t, 10, 10, mixed))
	if err != nil {
		t.Fatalf("ApplyLaplacian(mixed) failed: %v", err)
	}

	pa, pm := outA.Pixels(), outM.Pixels()
	for i := range pa {
		if pa[i].B != pm[i].B {
			t.Fatalf("pixel %d: blue %v vs %v changed with red/green input", i, pa[i].B, pm[i].B)
		}
	}
}

func TestApplyLaplacianSingleFlatChannel(t *testing.T) {
	// Red and green are constant, blue varies.
	src := noiseBuffer(t, 8, 8, 5)
	p := src.Pixels()
	for i := range p {
		p[i].R, p[i].G = 0.3, 0.7
	}

	out, err := ApplyLaplacian(mustBuffer(t, 8, 8, p))
	if err != nil {
		t.Fatalf("ApplyLaplacian failed: %v", err)
	}
	sawLow, sawHigh := false, false
	for _, c := range out.Pixels() {
		if c.R != 0.5 || c.G != 0.5 {
			t.Fatalf("flat channels = (%v, %v), want 0.5", c.R, c.G)
		}
		sawLow = sawLow || c.B == 0
		sawHigh = sawHigh || c.B == 1
	}
	if !sawLow || !sawHigh {
		t.Error("blue channel not normalized to the full range")
	}

	if _, err := ApplyLaplacian(mustBuffer(t, 8, 8, p), WithStrictRange()); !errors.Is(err, ErrDegenerateRange) {
		t.Errorf("strict error = %v, want ErrDegenerateRange", err)
	}
}

func TestApplyLaplacianWorkersMatchSerial(t *testing.T) {
	src := noiseBuffer(t, 40, 37, 8)

	serial, err := ApplyLaplacian(src)
	if err != nil {
		t.Fatalf("serial ApplyLaplacian failed: %v", err)
	}
	for _, n := range []int{2, 3, 8, 64} {
		par, err := ApplyLaplacian(src, WithWorkers(n))
		if err != nil {
			t.Fatalf("WithWorkers(%d) failed: %v", n, err)
		}
		if !serial.Equal(par) {
			t.Errorf("WithWorkers(%d) changed the result", n)
		}
	}
}

func TestApplyLaplacianDoesNotMutate(t *testing.T) {
	src := patternBuffer(t, 8, 8)
	before := src.Pixels()

	if _, err := ApplyLaplacian(src); err != nil {
		t.Fatalf("ApplyLaplacian failed: %v", err)
	}
	if !src.Equal(mustBuffer(t, 8, 8, before)) {
		t.Error("ApplyLaplacian modified its source")
	}
}

func BenchmarkApplyLaplacian(b *testing.B) {
	src := noiseBuffer(b, 1280, 720, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ApplyLaplacian(src)
	}
}
