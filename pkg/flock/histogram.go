package flock

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	barGlyph    = "-"
	sigmaGlyph  = "σ"
	centerGlyph = "*"

	// maxBarLength bounds a single bar segment; a longer one means the norm is too small.
	maxBarLength = 1000
)

// Histogram renders one horizontal bar per entry, every character standing
// for norm units. When the error is smaller than the entry the bar shows the
// uncertainty band around the value:
//
//	10+-2 |--σ*σ
//
// otherwise a single bar ends with the value marker:
//
//	20+-25 |----*
//
// norm must be strictly positive; checking it is up to the caller. A norm so
// small that a bar would exceed maxBarLength characters fails with ErrInvalidParameter.
func Histogram(entries, errs []float64, norm float64) ([]string, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("%w: got %d histogram entries", ErrInsufficientData, len(entries))
	}
	if len(errs) != len(entries) {
		return nil, fmt.Errorf("%w: %d entries, %d errors", ErrMismatchedSeries, len(entries), len(errs))
	}

	rows := make([]string, len(entries))
	for i, entry := range entries {
		var b strings.Builder
		fmt.Fprintf(&b, "%.0f+-%.0f |", entry, errs[i])
		if errs[i] < entry {
			low, err := bar(entry-errs[i], norm)
			if err != nil {
				return nil, err
			}
			band, err := bar(errs[i], norm)
			if err != nil {
				return nil, err
			}
			b.WriteString(low)
			b.WriteString(sigmaGlyph)
			b.WriteString(band)
			b.WriteString(centerGlyph)
			b.WriteString(band)
			b.WriteString(sigmaGlyph)
		} else {
			full, err := bar(entry, norm)
			if err != nil {
				return nil, err
			}
			b.WriteString(full)
			b.WriteString(centerGlyph)
		}
		rows[i] = b.String()
	}
	return rows, nil
}

// WriteHistogram writes the rows of Histogram to w, one per line.
func WriteHistogram(w io.Writer, entries, errs []float64, norm float64) error {
	rows, err := Histogram(entries, errs, norm)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

func bar(value, norm float64) (string, error) {
	n := math.Round(value / norm)
	if !(n > 0) {
		return "", nil
	}
	if n > maxBarLength {
		return "", fmt.Errorf("%w: a norm of %g draws %g characters for %g, at most %d allowed, use a larger norm",
			ErrInvalidParameter, norm, n, value, maxBarLength)
	}
	return strings.Repeat(barGlyph, int(n)), nil
}
