package retouch

import (
	"fmt"
	"math"
)

// Config holds the display parameters supplied by the presentation layer.
type Config struct {
	// Gamma is the tone curve exponent. 1 leaves tones unchanged.
	Gamma float64

	// Scale multiplies both dimensions. 1 leaves the size unchanged.
	Scale float64

	// Interpolation selects the resampling mode used when Scale != 1.
	Interpolation Interpolation

	// EdgeFilter enables the Laplacian edge filter.
	EdgeFilter bool

	// Workers is passed to WithWorkers for every stage.
	// 0 or 1 keeps all work on the calling goroutine.
	Workers int
}

// DefaultConfig returns the identity configuration: gamma 1, scale 1,
// bilinear interpolation, edge filter off.
func DefaultConfig() Config {
	return Config{
		Gamma:         1,
		Scale:         1,
		Interpolation: Bilinear,
	}
}

// Validate reports the first invalid field as an ErrInvalidParameter.
func (c Config) Validate() error {
	if !(c.Gamma > 0) || math.IsInf(c.Gamma, 1) {
		return fmt.Errorf("%w: gamma %v", ErrInvalidParameter, c.Gamma)
	}
	if !(c.Scale > 0) || math.IsInf(c.Scale, 1) {
		return fmt.Errorf("%w: scale %v", ErrInvalidParameter, c.Scale)
	}
	if !c.Interpolation.valid() {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, c.Interpolation)
	}
	return nil
}

// IsIdentity reports whether Compose would return its source unchanged.
func (c Config) IsIdentity() bool {
	return !c.EdgeFilter && c.Scale == 1 && c.Gamma == 1
}

// OutputSize returns the size Compose produces for a width×height source.
func (c Config) OutputSize(width, height int) (int, int, error) {
	if err := c.Validate(); err != nil {
		return 0, 0, err
	}
	if c.EdgeFilter {
		if width < 2*laplacianRadius+1 || height < 2*laplacianRadius+1 {
			return 0, 0, fmt.Errorf("%w: laplacian needs at least 5x5, got %dx%d",
				ErrInvalidParameter, width, height)
		}
		width -= 2 * laplacianRadius
		height -= 2 * laplacianRadius
	}
	if c.Scale == 1 {
		if width <= 0 || height <= 0 {
			return 0, 0, fmt.Errorf("%w: source size %dx%d", ErrInvalidParameter, width, height)
		}
		return width, height, nil
	}
	return ScaledSize(width, height, c.Scale)
}

// options converts the scheduling fields of c to per-call options.
func (c Config) options() []Option {
	return []Option{WithWorkers(c.Workers)}
}

// Compose produces the display buffer for src under cfg.
//
// Stages run in a fixed order: edge filter, then resize, then gamma.
// A stage whose parameter is at its identity value (filter off, scale 1,
// gamma 1) is skipped; with every stage skipped src itself is returned.
// Nothing is cached: use ComposeFiltered or a Session to reuse the edge
// buffer across calls.
func Compose(src *PixelBuffer, cfg Config) (*PixelBuffer, error) {
	return compose(src, nil, cfg)
}

// ComposeFiltered is Compose with a precomputed edge buffer, normally the
// result of ApplyLaplacian(src). edges is used in place of running the
// filter when cfg.EdgeFilter is set and ignored otherwise.
func ComposeFiltered(src, edges *PixelBuffer, cfg Config) (*PixelBuffer, error) {
	if cfg.EdgeFilter && edges == nil {
		return nil, fmt.Errorf("%w: nil edge buffer", ErrInvalidParameter)
	}
	return compose(src, edges, cfg)
}

func compose(src, edges *PixelBuffer, cfg Config) (*PixelBuffer, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidParameter)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := Logger()
	opts := cfg.options()
	cur := src

	if cfg.EdgeFilter {
		if edges == nil {
			var err error
			if edges, err = ApplyLaplacian(src, opts...); err != nil {
				return nil, fmt.Errorf("retouch: edge stage: %w", err)
			}
		}
		cur = edges
		log.Debug("retouch: stage", "name", "edge", "width", cur.width, "height", cur.height)
	}

	if cfg.Scale != 1 {
		w, h, err := ScaledSize(cur.width, cur.height, cfg.Scale)
		if err != nil {
			return nil, fmt.Errorf("retouch: resize stage: %w", err)
		}
		if cur, err = Resize(cur, w, h, cfg.Interpolation, opts...); err != nil {
			return nil, fmt.Errorf("retouch: resize stage: %w", err)
		}
		log.Debug("retouch: stage", "name", "resize", "mode", cfg.Interpolation.String(), "width", w, "height", h)
	}

	if cfg.Gamma != 1 {
		table, err := BuildGammaTable(cfg.Gamma)
		if err != nil {
			return nil, fmt.Errorf("retouch: gamma stage: %w", err)
		}
		if cur, err = ApplyGamma(cur, table, opts...); err != nil {
			return nil, fmt.Errorf("retouch: gamma stage: %w", err)
		}
		log.Debug("retouch: stage", "name", "gamma", "gamma", cfg.Gamma)
	}

	return cur, nil
}
