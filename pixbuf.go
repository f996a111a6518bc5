package retouch

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// RGB is one pixel with linear channels in [0, 1].
type RGB struct {
	R, G, B float64
}

// Gray returns an RGB with all three channels set to v.
func Gray(v float64) RGB {
	return RGB{R: v, G: v, B: v}
}

// clamped returns c with every channel clamped to [0, 1].
func (c RGB) clamped() RGB {
	return RGB{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

// PixelBuffer is a width×height grid of RGB pixels stored row-major.
//
// A PixelBuffer is immutable once a constructor or transform returns it:
// no method writes to it and every transform allocates its own output.
// It is therefore safe to share between goroutines without locking.
type PixelBuffer struct {
	width  int
	height int
	pix    []RGB
}

// newPixelBuffer allocates a zeroed buffer. Callers validate dimensions.
func newPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    make([]RGB, width*height),
	}
}

// NewPixelBuffer creates a black buffer with the given dimensions.
// Returns ErrInvalidParameter if width or height is non-positive.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: buffer size %dx%d", ErrInvalidParameter, width, height)
	}
	return newPixelBuffer(width, height), nil
}

// FromPixels creates a buffer from row-major pixels. The slice is copied
// and every channel is clamped to [0, 1]; NaN becomes 0.
func FromPixels(width, height int, pixels []RGB) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: buffer size %dx%d", ErrInvalidParameter, width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for a %dx%d buffer", ErrInvalidParameter, len(pixels), width, height)
	}

	b := newPixelBuffer(width, height)
	for i, c := range pixels {
		b.pix[i] = c.clamped()
	}
	return b, nil
}

// FromImage converts any image.Image to a PixelBuffer. Premultiplied and
// palette-based sources are converted to straight RGB; alpha is dropped.
func FromImage(img image.Image) (*PixelBuffer, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidParameter)
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrInvalidParameter, width, height)
	}

	// Normalize to 16-bit straight alpha so every source model takes the
	// same read path below.
	nrgba := image.NewNRGBA64(image.Rect(0, 0, width, height))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)

	b := newPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		row := b.pix[y*width : (y+1)*width]
		for x := range row {
			c := nrgba.NRGBA64At(x, y)
			row[x] = RGB{
				R: float64(c.R) / 0xffff,
				G: float64(c.G) / 0xffff,
				B: float64(c.B) / 0xffff,
			}
		}
	}
	return b, nil
}

// Width returns the width of the buffer in pixels.
func (b *PixelBuffer) Width() int {
	return b.width
}

// Height returns the height of the buffer in pixels.
func (b *PixelBuffer) Height() int {
	return b.height
}

// Len returns the number of pixels, width*height.
func (b *PixelBuffer) Len() int {
	return len(b.pix)
}

// Get returns the pixel at (x, y).
// Returns ErrOutOfBounds if the coordinates are outside the buffer.
func (b *PixelBuffer) Get(x, y int) (RGB, error) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return RGB{}, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	return b.pix[y*b.width+x], nil
}

// Pixels returns a copy of the row-major pixel data.
func (b *PixelBuffer) Pixels() []RGB {
	out := make([]RGB, len(b.pix))
	copy(out, b.pix)
	return out
}

// at returns the pixel at (x, y) without bounds checks.
func (b *PixelBuffer) at(x, y int) RGB {
	return b.pix[y*b.width+x]
}

// row returns the pixels of row y.
func (b *PixelBuffer) row(y int) []RGB {
	return b.pix[y*b.width : (y+1)*b.width]
}

// Equal reports whether two buffers have the same size and identical pixels.
func (b *PixelBuffer) Equal(other *PixelBuffer) bool {
	return b.EqualWithin(other, 0)
}

// EqualWithin reports whether two buffers have the same size and every
// channel differs by at most tol.
func (b *PixelBuffer) EqualWithin(other *PixelBuffer, tol float64) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.width != other.width || b.height != other.height {
		return false
	}
	for i, c := range b.pix {
		o := other.pix[i]
		if math.Abs(c.R-o.R) > tol || math.Abs(c.G-o.G) > tol || math.Abs(c.B-o.B) > tol {
			return false
		}
	}
	return true
}

// ToImage converts the buffer to an opaque 8-bit image for display.
// Channels are rounded to the nearest 8-bit value.
func (b *PixelBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for i, c := range b.pix {
		o := i * 4
		img.Pix[o+0] = to8(c.R)
		img.Pix[o+1] = to8(c.G)
		img.Pix[o+2] = to8(c.B)
		img.Pix[o+3] = 0xff
	}
	return img
}

// to8 quantizes a [0, 1] channel to 0..255 with round-to-nearest.
func to8(v float64) uint8 {
	//nolint:gosec // G115: value is clamped to [0,255]
	return uint8(math.Round(clamp01(v) * 255))
}

// clamp01 clamps v to [0, 1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
