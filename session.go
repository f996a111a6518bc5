package retouch

import (
	"fmt"
	"sync"
)

// Session holds the state a presentation layer keeps between parameter
// changes: the original buffer and the edge-filtered buffer derived from
// it. The edge buffer is computed on first use and reused by every later
// Render; nothing else is cached.
//
// Thread safety: Session is safe for concurrent use. Callers that need a
// consistent "current display" still serialize their own parameter
// changes.
type Session struct {
	original *PixelBuffer
	opts     []Option

	edgesOnce sync.Once
	edges     *PixelBuffer
	edgesErr  error
}

// NewSession creates a session over original. opts are used when the
// edge buffer is computed.
func NewSession(original *PixelBuffer, opts ...Option) (*Session, error) {
	if original == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidParameter)
	}
	return &Session{original: original, opts: opts}, nil
}

// Original returns the buffer the session was created with.
func (s *Session) Original() *PixelBuffer {
	return s.original
}

// Edges returns the edge-filtered original, computing it on the first
// call. Concurrent first calls wait for a single computation and share
// its result, including its error.
func (s *Session) Edges() (*PixelBuffer, error) {
	s.edgesOnce.Do(func() {
		s.edges, s.edgesErr = ApplyLaplacian(s.original, s.opts...)
		Logger().Debug("retouch: session edges computed",
			"width", s.original.width, "height", s.original.height, "err", s.edgesErr)
	})
	return s.edges, s.edgesErr
}

// Render composes the display buffer for cfg from the session's buffers.
// The edge buffer is only computed when cfg.EdgeFilter is set.
func (s *Session) Render(cfg Config) (*PixelBuffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.EdgeFilter {
		return compose(s.original, nil, cfg)
	}
	edges, err := s.Edges()
	if err != nil {
		return nil, fmt.Errorf("retouch: edge stage: %w", err)
	}
	return compose(s.original, edges, cfg)
}
