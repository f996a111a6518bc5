package retouch

import (
	"fmt"
	"math"
	"sync"
)

// laplacianKernel is the 5×5 edge kernel. Its entries sum to zero, so a
// uniform neighbourhood has no response.
var laplacianKernel = [5][5]int{
	{-4, -1, 0, -1, -4},
	{-1, 2, 3, 2, -1},
	{0, 3, 4, 3, 0},
	{-1, 2, 3, 2, -1},
	{-4, -1, 0, -1, -4},
}

// laplacianRadius is the number of source pixels lost on each side.
const laplacianRadius = 2

// LaplacianKernel returns a copy of the 5×5 kernel used by ApplyLaplacian.
func LaplacianKernel() [5][5]int {
	return laplacianKernel
}

// rawSample is the unnormalized, signed filter response of one output
// pixel, one accumulator per channel.
type rawSample struct {
	r, g, b float64
}

// channelRange tracks the minimum and maximum response of each channel.
type channelRange struct {
	min, max rawSample
}

func newChannelRange() channelRange {
	inf := math.Inf(1)
	return channelRange{
		min: rawSample{inf, inf, inf},
		max: rawSample{-inf, -inf, -inf},
	}
}

func (cr *channelRange) add(s rawSample) {
	cr.min.r, cr.max.r = math.Min(cr.min.r, s.r), math.Max(cr.max.r, s.r)
	cr.min.g, cr.max.g = math.Min(cr.min.g, s.g), math.Max(cr.max.g, s.g)
	cr.min.b, cr.max.b = math.Min(cr.min.b, s.b), math.Max(cr.max.b, s.b)
}

func (cr *channelRange) merge(o channelRange) {
	cr.add(o.min)
	cr.add(o.max)
}

// ApplyLaplacian convolves src with the 5×5 Laplacian kernel and maps the
// signed response of each channel linearly onto [0, 1] using that
// channel's global minimum and maximum.
//
// The output is (width-4)×(height-4): no padding is done, so the two
// outermost rows and columns on each side have no output pixel. Returns
// ErrInvalidParameter if src is nil or smaller than 5×5.
//
// A channel whose response is the same everywhere (a flat source, or a
// 5×5 source with a single output pixel) has no range to normalize. It is
// filled with 0.5, or the value given by WithFlatFill; under
// WithStrictRange the call fails with ErrDegenerateRange instead.
func ApplyLaplacian(src *PixelBuffer, opts ...Option) (*PixelBuffer, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidParameter)
	}
	if src.width < 2*laplacianRadius+1 || src.height < 2*laplacianRadius+1 {
		return nil, fmt.Errorf("%w: laplacian needs at least 5x5, got %dx%d",
			ErrInvalidParameter, src.width, src.height)
	}

	o := resolveOptions(opts)
	outW := src.width - 2*laplacianRadius
	outH := src.height - 2*laplacianRadius

	// Pass 1: raw responses and per-channel range.
	raw := make([]rawSample, outW*outH)
	stats := newChannelRange()
	var statsMu sync.Mutex

	o.forRows(outH, func(y0, y1 int) {
		local := newChannelRange()
		for y := y0; y < y1; y++ {
			for x := 0; x < outW; x++ {
				s := convolveAt(src, x+laplacianRadius, y+laplacianRadius)
				raw[y*outW+x] = s
				local.add(s)
			}
		}
		statsMu.Lock()
		stats.merge(local)
		statsMu.Unlock()
	})

	flatR := stats.max.r == stats.min.r
	flatG := stats.max.g == stats.min.g
	flatB := stats.max.b == stats.min.b
	if flatR || flatG || flatB {
		if o.strictRange {
			return nil, fmt.Errorf("%w: flat channels r=%t g=%t b=%t",
				ErrDegenerateRange, flatR, flatG, flatB)
		}
		Logger().Debug("retouch: laplacian flat channel fallback",
			"r", flatR, "g", flatG, "b", flatB, "fill", o.flatFill)
	}

	// Pass 2: normalize.
	out := newPixelBuffer(outW, outH)
	o.forRows(outH, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			srow, drow := raw[y*outW:(y+1)*outW], out.row(y)
			for x, s := range srow {
				drow[x] = RGB{
					R: normalize(s.r, stats.min.r, stats.max.r, flatR, o.flatFill),
					G: normalize(s.g, stats.min.g, stats.max.g, flatG, o.flatFill),
					B: normalize(s.b, stats.min.b, stats.max.b, flatB, o.flatFill),
				}
			}
		}
	})

	return out, nil
}

// convolveAt returns the kernel response centred on source pixel (cx, cy).
// The caller guarantees the full 5×5 window lies inside src.
func convolveAt(src *PixelBuffer, cx, cy int) rawSample {
	var s rawSample
	for ky := 0; ky < 5; ky++ {
		row := src.row(cy + ky - laplacianRadius)
		for kx := 0; kx < 5; kx++ {
			k := laplacianKernel[ky][kx]
			if k == 0 {
				continue
			}
			p := row[cx+kx-laplacianRadius]
			w := float64(k)
			s.r += w * p.R
			s.g += w * p.G
			s.b += w * p.B
		}
	}
	return s
}

// normalize maps v from [lo, hi] to [0, 1]. The division form keeps the
// endpoints exact: lo maps to 0 and hi to 1.
func normalize(v, lo, hi float64, flat bool, fill float64) float64 {
	if flat {
		return fill
	}
	return clamp01((v - lo) / (hi - lo))
}
