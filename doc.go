// Package retouch provides pixel-level transforms for interactive image
// adjustment.
//
// # Overview
//
// retouch works on [PixelBuffer], an immutable grid of linear RGB pixels
// with channels in [0, 1]. Three transforms build on it:
//
//   - [ApplyGamma] remaps tones through a 256-entry [GammaTable]
//   - [Resize] resamples with [NearestNeighbor] or [Bilinear] interpolation
//   - [ApplyLaplacian] detects edges with a fixed 5×5 kernel and
//     normalizes the signed response per channel
//
// Every transform allocates a new buffer and never modifies its input,
// so buffers can be shared between goroutines freely.
//
// # Quick Start
//
//	src, _ := retouch.FromImage(img) // any decoded image.Image
//
//	cfg := retouch.DefaultConfig()
//	cfg.Gamma = 2.2
//	cfg.Scale = 0.5
//	cfg.EdgeFilter = true
//
//	out, err := retouch.Compose(src, cfg)
//	if err != nil {
//	    return err
//	}
//	display := out.ToImage()
//
// # Pipeline
//
// [Compose] runs the stages in a fixed order, edge filter, then resize,
// then gamma, and skips stages whose parameter is at its identity value.
// An interactive front end holds a [Session], which computes the edge
// buffer once per source image and reuses it for every later render.
//
// # Errors
//
// Failures wrap [ErrInvalidParameter], [ErrOutOfBounds] or
// [ErrDegenerateRange]; test with errors.Is. No transform returns a
// partial result.
//
// # Logging
//
// retouch is silent by default. [SetLogger] installs a *slog.Logger that
// receives debug records for pipeline stages.
package retouch

// Version is the current version of the library.
const Version = "0.1.0"
