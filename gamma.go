package retouch

import (
	"fmt"
	"math"
)

// GammaTable is a 256-entry tone curve indexed by an 8-bit channel sample.
//
// Entry i holds (i/255)^(1/gamma). The curve treats the three channels
// identically and independently; it is a display tone curve, not sRGB
// decoding. A table is read-only after BuildGammaTable returns it and may
// be shared between goroutines.
type GammaTable struct {
	gamma   float64
	entries [256]float64
}

// BuildGammaTable computes the tone curve for gamma.
// Returns ErrInvalidParameter if gamma is not a positive finite number.
//
// Example:
//
//	lut, _ := retouch.BuildGammaTable(2.2)
//	lut.At(128) // ~0.7310 (brighter midtones)
func BuildGammaTable(gamma float64) (*GammaTable, error) {
	if !(gamma > 0) || math.IsInf(gamma, 1) {
		return nil, fmt.Errorf("%w: gamma %v", ErrInvalidParameter, gamma)
	}

	t := &GammaTable{gamma: gamma}
	exp := 1.0 / gamma
	for i := 1; i < 255; i++ {
		t.entries[i] = math.Pow(float64(i)/255.0, exp)
	}
	// Pin the endpoints; Pow may drift for extreme exponents.
	t.entries[0] = 0
	t.entries[255] = 1
	return t, nil
}

// Gamma returns the exponent the table was built for.
func (t *GammaTable) Gamma() float64 {
	return t.gamma
}

// At returns entry i.
func (t *GammaTable) At(i uint8) float64 {
	return t.entries[i]
}

// Entries returns a copy of all 256 entries.
func (t *GammaTable) Entries() [256]float64 {
	return t.entries
}

// Lookup maps a channel value through the curve. c is quantized with
// floor(c*255), clamped to [0, 255].
func (t *GammaTable) Lookup(c float64) float64 {
	return t.entries[quantize8(c)]
}

// quantize8 returns floor(c*255) clamped to [0, 255]. NaN maps to 0.
func quantize8(c float64) int {
	v := math.Floor(c * 255)
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

// ApplyGamma returns a new buffer with every channel of buf mapped through
// table. buf is not modified.
func ApplyGamma(buf *PixelBuffer, table *GammaTable, opts ...Option) (*PixelBuffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidParameter)
	}
	if table == nil {
		return nil, fmt.Errorf("%w: nil gamma table", ErrInvalidParameter)
	}

	o := resolveOptions(opts)
	out := newPixelBuffer(buf.width, buf.height)

	o.forRows(buf.height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			src, dst := buf.row(y), out.row(y)
			for x, c := range src {
				dst[x] = RGB{
					R: table.Lookup(c.R),
					G: table.Lookup(c.G),
					B: table.Lookup(c.B),
				}
			}
		}
	})

	return out, nil
}
