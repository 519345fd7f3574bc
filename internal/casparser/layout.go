package casparser

import (
	"sort"
	"strings"

	"casfolio/cas-import/internal/models"
)

// LayoutConfig holds the geometric tolerances for row reconstruction.
// Tolerances are expressed as multiples of the page's median font size so a
// single configuration works across statements rendered at different sizes.
type LayoutConfig struct {
	// RowTolerance is the vertical band, in font-size multiples, within
	// which two runs share a baseline.
	RowTolerance float64

	// CellGap is the horizontal gap, in font-size multiples, below which
	// adjacent runs merge into one logical cell.
	CellGap float64

	// MaxParallelPages bounds concurrent per-page reconstruction.
	MaxParallelPages int
}

// DefaultLayoutConfig returns the tolerances that work for the common
// depository layouts.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		RowTolerance:     0.5,
		CellGap:          1.0,
		MaxParallelPages: 4,
	}
}

// glyphGapFactor is the gap (in font-size multiples) under which two merged
// runs are considered split glyphs of one word and joined without a space.
const glyphGapFactor = 0.15

// ReconstructRows clusters one page's text runs into rows. Runs arrive in
// extraction order, which is not reading order: they are sorted top-to-bottom
// (descending y, since the PDF origin is bottom-left), then left-to-right,
// and grouped into rows by a single greedy vertical pass. A page with no
// runs yields no rows.
func ReconstructRows(runs []models.TextRun, cfg LayoutConfig) []models.Row {
	if len(runs) == 0 {
		return nil
	}

	font := medianFontSize(runs)
	tolerance := cfg.RowTolerance * font

	sorted := make([]models.TextRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows []models.Row
	var band []models.TextRun
	bandY := sorted[0].Y

	flush := func() {
		if len(band) > 0 {
			rows = append(rows, buildRow(band, cfg.CellGap*font))
			band = band[:0]
		}
	}

	for _, run := range sorted {
		// Greedy banding: the anchor is the first run of the band, so row
		// bands never overlap.
		if len(band) > 0 && bandY-run.Y > tolerance {
			flush()
			bandY = run.Y
		}
		if len(band) == 0 {
			bandY = run.Y
		}
		band = append(band, run)
	}
	flush()

	return rows
}

// buildRow orders a band's runs left-to-right and merges sub-gap neighbors
// into cells.
func buildRow(band []models.TextRun, gapThreshold float64) models.Row {
	sort.SliceStable(band, func(i, j int) bool {
		return band[i].X < band[j].X
	})

	row := models.Row{
		Page: band[0].Page,
		Y:    band[0].Y,
	}

	var cur models.Cell
	var curText strings.Builder
	open := false

	flush := func() {
		if open {
			cur.Text = curText.String()
			row.Cells = append(row.Cells, cur)
			curText.Reset()
			open = false
		}
	}

	for _, run := range band {
		if !open {
			cur = models.Cell{X: run.X, Width: run.Width}
			curText.WriteString(run.Text)
			open = true
			continue
		}

		gap := run.X - cur.Right()
		if gap >= gapThreshold {
			flush()
			cur = models.Cell{X: run.X, Width: run.Width}
			curText.WriteString(run.Text)
			open = true
			continue
		}

		// Same cell. Tiny gaps are kerned glyph splits and join directly;
		// larger sub-threshold gaps are word spacing within one value.
		if gap > glyphGapFactor*run.FontSize && !strings.HasSuffix(curText.String(), " ") {
			curText.WriteString(" ")
		}
		curText.WriteString(run.Text)
		cur.Width = run.X + run.Width - cur.X
	}
	flush()

	return row
}

// medianFontSize returns the median font size of the page's runs, used to
// scale the clustering tolerances. Falls back to a nominal 10pt when runs
// carry no size information.
func medianFontSize(runs []models.TextRun) float64 {
	sizes := make([]float64, 0, len(runs))
	for _, r := range runs {
		if r.FontSize > 0 {
			sizes = append(sizes, r.FontSize)
		}
	}
	if len(sizes) == 0 {
		return 10
	}
	sort.Float64s(sizes)
	mid := len(sizes) / 2
	if len(sizes)%2 == 0 {
		return (sizes[mid-1] + sizes[mid]) / 2
	}
	return sizes[mid]
}
