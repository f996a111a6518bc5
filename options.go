package retouch

import "github.com/gogpu/retouch/internal/parallel"

// Option configures a single transform call.
// Options change scheduling and failure policy, never the pixels a
// successful call produces.
//
// Example:
//
//	// Split the rows over four bands of the shared worker pool
//	out, err := retouch.Resize(src, 1920, 1080, retouch.Bilinear, retouch.WithWorkers(4))
//
//	// Fail instead of filling flat channels
//	edges, err := retouch.ApplyLaplacian(src, retouch.WithStrictRange())
type Option func(*options)

// options holds the resolved per-call settings.
type options struct {
	workers     int
	flatFill    float64
	strictRange bool
}

// defaultOptions returns synchronous, single-band execution with a
// mid-gray fill for flat Laplacian channels.
func defaultOptions() options {
	return options{
		workers:  1,
		flatFill: 0.5,
	}
}

func resolveOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithWorkers splits the output rows into n bands processed on the shared
// worker pool. The call still blocks until the whole buffer is done.
// n <= 1 runs everything on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(n, 1)
	}
}

// WithFlatFill sets the value written to a channel whose Laplacian
// response is flat. v is clamped to [0, 1]. The default is 0.5.
func WithFlatFill(v float64) Option {
	return func(o *options) {
		o.flatFill = clamp01(v)
	}
}

// WithStrictRange makes ApplyLaplacian fail with ErrDegenerateRange
// instead of filling a flat channel.
func WithStrictRange() Option {
	return func(o *options) {
		o.strictRange = true
	}
}

// forRows runs fn over [0, height) in the configured number of bands.
func (o options) forRows(height int, fn func(y0, y1 int)) {
	if o.workers <= 1 {
		fn(0, height)
		return
	}
	parallel.Shared().ParallelFor(height, o.workers, fn)
}
