package parallel

// Band is a half-open range [Start, End) of rows.
type Band struct {
	Start int
	End   int
}

// Len returns the number of rows in the band.
func (b Band) Len() int {
	return b.End - b.Start
}

// Bands splits [0, n) into at most parts contiguous, non-empty bands of
// near-equal size that together cover every row exactly once.
// Returns nil for n <= 0. parts <= 1 yields a single band.
func Bands(n, parts int) []Band {
	if n <= 0 {
		return nil
	}
	parts = max(min(parts, n), 1)

	bands := make([]Band, 0, parts)
	base, extra := n/parts, n%parts
	start := 0
	for i := range parts {
		size := base
		if i < extra {
			size++
		}
		bands = append(bands, Band{Start: start, End: start + size})
		start += size
	}
	return bands
}
