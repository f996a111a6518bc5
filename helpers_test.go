package retouch

import "testing"

// Test helper functions shared across package tests.

// mustBuffer creates a buffer from pixels or fails the test.
func mustBuffer(t testing.TB, w, h int, pixels []RGB) *PixelBuffer {
	t.Helper()
	b, err := FromPixels(w, h, pixels)
	if err != nil {
		t.Fatalf("FromPixels(%d, %d) failed: %v", w, h, err)
	}
	return b
}

// uniformBuffer creates a w×h buffer filled with c.
func uniformBuffer(t testing.TB, w, h int, c RGB) *PixelBuffer {
	t.Helper()
	pixels := make([]RGB, w*h)
	for i := range pixels {
		pixels[i] = c
	}
	return mustBuffer(t, w, h, pixels)
}

// patternBuffer creates a w×h buffer with deterministic, 8-bit aligned
// channel values that differ per channel.
func patternBuffer(t testing.TB, w, h int) *PixelBuffer {
	t.Helper()
	pixels := make([]RGB, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pixels[y*w+x] = RGB{
				R: float64((x*37+y*91)%256) / 255,
				G: float64((x*53+y*29+101)%256) / 255,
				B: float64((x*x*7+y*13+17)%256) / 255,
			}
		}
	}
	return mustBuffer(t, w, h, pixels)
}

// noiseBuffer creates a w×h buffer with values that are not 8-bit aligned.
func noiseBuffer(t testing.TB, w, h int, seed uint32) *PixelBuffer {
	t.Helper()
	state := seed | 1
	next := func() float64 {
		// xorshift32
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		return float64(state) / float64(^uint32(0))
	}
	pixels := make([]RGB, w*h)
	for i := range pixels {
		pixels[i] = RGB{R: next(), G: next(), B: next()}
	}
	return mustBuffer(t, w, h, pixels)
}

// mustGet returns the pixel at (x, y) or fails the test.
func mustGet(t testing.TB, b *PixelBuffer, x, y int) RGB {
	t.Helper()
	c, err := b.Get(x, y)
	if err != nil {
		t.Fatalf("Get(%d, %d) failed: %v", x, y, err)
	}
	return c
}

// absf returns the absolute value of a float64.
func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// colorApproxEqual compares two colors with tolerance.
func colorApproxEqual(a, b RGB, tolerance float64) bool {
	return absf(a.R-b.R) <= tolerance &&
		absf(a.G-b.G) <= tolerance &&
		absf(a.B-b.B) <= tolerance
}
