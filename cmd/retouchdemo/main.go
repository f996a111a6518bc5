// Command retouchdemo runs the retouch pipeline over a synthetic test
// pattern and prints the size and channel range after each setting.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/retouch"
)

func main() {
	var (
		width   = flag.Int("width", 320, "pattern width")
		height  = flag.Int("height", 240, "pattern height")
		gamma   = flag.Float64("gamma", 2.2, "gamma exponent")
		scale   = flag.Float64("scale", 1.5, "scale factor")
		mode    = flag.String("mode", "bilinear", "interpolation: nearest or bilinear")
		edges   = flag.Bool("edges", false, "enable the Laplacian edge filter")
		workers = flag.Int("workers", 1, "row bands per transform")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		retouch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	interp, err := retouch.ParseInterpolation(*mode)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}

	src, err := testPattern(*width, *height)
	if err != nil {
		log.Fatalf("Failed to build pattern: %v", err)
	}

	session, err := retouch.NewSession(src)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	p := message.NewPrinter(language.English)

	// Walk the controls the way a user would: each step changes one value.
	cfg := retouch.DefaultConfig()
	cfg.Workers = *workers
	steps := []struct {
		label string
		apply func(*retouch.Config)
	}{
		{"original", func(*retouch.Config) {}},
		{"gamma", func(c *retouch.Config) { c.Gamma = *gamma }},
		{"scale", func(c *retouch.Config) { c.Scale = *scale; c.Interpolation = interp }},
		{"edges", func(c *retouch.Config) { c.EdgeFilter = *edges }},
		{"reset", func(c *retouch.Config) { *c = retouch.DefaultConfig(); c.Workers = *workers }},
	}

	for _, step := range steps {
		step.apply(&cfg)

		out, err := session.Render(cfg)
		if err != nil {
			log.Fatalf("Render %s failed: %v", step.label, err)
		}

		lo, hi := channelRange(out)
		p.Printf("%-8s gamma=%.3f scale=%.3f mode=%v edges=%t -> %dx%d range=[%.3f, %.3f]\n",
			step.label, cfg.Gamma, cfg.Scale, cfg.Interpolation, cfg.EdgeFilter,
			out.Width(), out.Height(), lo, hi)
	}
}

// testPattern builds a diagonal gradient with a bright square in the
// middle, which gives the edge filter something to find.
func testPattern(w, h int) (*retouch.PixelBuffer, error) {
	pixels := make([]retouch.RGB, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x+y) / float64(w+h)
			c := retouch.RGB{R: t, G: 0.5 * t, B: 1 - t}
			if x > w/3 && x < 2*w/3 && y > h/3 && y < 2*h/3 {
				c = retouch.Gray(0.9)
			}
			pixels[y*w+x] = c
		}
	}
	return retouch.FromPixels(w, h, pixels)
}

// channelRange returns the smallest and largest channel value in b.
func channelRange(b *retouch.PixelBuffer) (lo, hi float64) {
	lo, hi = 1, 0
	for _, c := range b.Pixels() {
		lo = min(lo, c.R, c.G, c.B)
		hi = max(hi, c.R, c.G, c.B)
	}
	return lo, hi
}
