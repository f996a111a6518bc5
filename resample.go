package retouch

import (
	"fmt"
	"math"
	"strings"
)

// Interpolation selects how Resize samples the source buffer.
type Interpolation uint8

const (
	// NearestNeighbor copies the source pixel at the floored scaled
	// coordinate. Hard edges and aliasing are preserved.
	NearestNeighbor Interpolation = iota

	// Bilinear blends the four surrounding source pixels by their
	// fractional distance. Smoother, but blurs edges.
	Bilinear
)

// String returns a string representation of the interpolation mode.
func (m Interpolation) String() string {
	switch m {
	case NearestNeighbor:
		return "NearestNeighbor"
	case Bilinear:
		return "Bilinear"
	default:
		return fmt.Sprintf("Interpolation(%d)", uint8(m))
	}
}

// valid reports whether m is a known mode.
func (m Interpolation) valid() bool {
	return m == NearestNeighbor || m == Bilinear
}

// ParseInterpolation parses "nearest", "nearest-neighbor" or "bilinear"
// (case-insensitive).
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest", "nearest-neighbor", "nearestneighbor", "nn":
		return NearestNeighbor, nil
	case "bilinear", "linear":
		return Bilinear, nil
	default:
		return 0, fmt.Errorf("%w: interpolation %q", ErrInvalidParameter, s)
	}
}

// maxDimension bounds the sizes ScaledSize will produce.
const maxDimension = 1 << 20

// ScaledSize returns the target size for scaling a width×height buffer by
// scale: floor(width*scale) by floor(height*scale), each at least 1.
// Returns ErrInvalidParameter for a non-positive source size, a scale that
// is not a positive finite number, or a result larger than 2^20 on either
// axis.
func ScaledSize(width, height int, scale float64) (int, int, error) {
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: source size %dx%d", ErrInvalidParameter, width, height)
	}
	if !(scale > 0) || math.IsInf(scale, 1) {
		return 0, 0, fmt.Errorf("%w: scale %v", ErrInvalidParameter, scale)
	}
	w := math.Floor(float64(width) * scale)
	h := math.Floor(float64(height) * scale)
	if w > maxDimension || h > maxDimension {
		return 0, 0, fmt.Errorf("%w: scale %v gives %vx%v", ErrInvalidParameter, scale, w, h)
	}
	return max(int(w), 1), max(int(h), 1), nil
}

// Resize returns a new newWidth×newHeight buffer resampled from src.
// Returns ErrInvalidParameter for a nil source, non-positive target
// dimensions or an unknown mode.
//
// Resizing to the source size returns a buffer equal to src for both
// modes.
func Resize(src *PixelBuffer, newWidth, newHeight int, mode Interpolation, opts ...Option) (*PixelBuffer, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidParameter)
	}
	if newWidth <= 0 || newHeight <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", ErrInvalidParameter, newWidth, newHeight)
	}
	if !mode.valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, mode)
	}

	o := resolveOptions(opts)
	dst := newPixelBuffer(newWidth, newHeight)

	switch mode {
	case NearestNeighbor:
		o.forRows(newHeight, func(y0, y1 int) { resizeNearest(src, dst, y0, y1) })
	case Bilinear:
		o.forRows(newHeight, func(y0, y1 int) { resizeBilinear(src, dst, y0, y1) })
	}

	return dst, nil
}

// resizeNearest fills rows [y0, y1) of dst. Source indices use integer
// arithmetic so that floor(i*srcW/dstW) is exact.
func resizeNearest(src, dst *PixelBuffer, y0, y1 int) {
	sw, sh := src.width, src.height
	dw, dh := dst.width, dst.height

	for j := y0; j < y1; j++ {
		sy := j * sh / dh
		srow, drow := src.row(sy), dst.row(j)
		for i := range drow {
			drow[i] = srow[i*sw/dw]
		}
	}
}

// resizeBilinear fills rows [y0, y1) of dst.
//
// Samples are blended on the 0..255 scale and rounded to the nearest
// integer. The result is then held inside the range of the four samples,
// so rounding never produces a value darker or brighter than every
// contributing source pixel.
func resizeBilinear(src, dst *PixelBuffer, y0, y1 int) {
	sw, sh := src.width, src.height
	xFactor := float64(sw) / float64(dst.width)
	yFactor := float64(sh) / float64(dst.height)

	for i := y0; i < y1; i++ {
		oy := float64(i) * yFactor
		oy1 := min(int(math.Floor(oy)), sh-1)
		oy2 := min(oy1+1, sh-1)
		dy1 := oy - float64(oy1)
		dy2 := 1 - dy1

		row1, row2 := src.row(oy1), src.row(oy2)
		drow := dst.row(i)

		for j := range drow {
			ox := float64(j) * xFactor
			ox1 := min(int(math.Floor(ox)), sw-1)
			ox2 := min(ox1+1, sw-1)
			dx1 := ox - float64(ox1)
			dx2 := 1 - dx1

			p11, p21 := row1[ox1], row1[ox2]
			p12, p22 := row2[ox1], row2[ox2]

			drow[j] = RGB{
				R: blend(p11.R, p21.R, p12.R, p22.R, dx1, dx2, dy1, dy2),
				G: blend(p11.G, p21.G, p12.G, p22.G, dx1, dx2, dy1, dy2),
				B: blend(p11.B, p21.B, p12.B, p22.B, dx1, dx2, dy1, dy2),
			}
		}
	}
}

// blend interpolates one channel of the four samples p11 (top-left),
// p21 (top-right), p12 (bottom-left) and p22 (bottom-right).
func blend(p11, p21, p12, p22, dx1, dx2, dy1, dy2 float64) float64 {
	v := dy2*(dx2*p11*255+dx1*p21*255) + dy1*(dx2*p12*255+dx1*p22*255)
	v = math.Round(v) / 255

	lo := min(p11, p21, p12, p22)
	hi := max(p11, p21, p12, p22)
	return math.Min(math.Max(v, lo), hi)
}
