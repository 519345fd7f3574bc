package casparser

import (
	"testing"

	"casfolio/cas-import/internal/models"
)

// mkrun builds a text run with a 10pt font; width scales with text length
// the way extracted statement text roughly does.
func mkrun(page int, x, y float64, text string) models.TextRun {
	return models.TextRun{
		Text:     text,
		Page:     page,
		X:        x,
		Y:        y,
		Width:    float64(len(text)) * 5,
		FontSize: 10,
		Font:     "Helvetica",
	}
}

func TestReconstructRowsEmptyPage(t *testing.T) {
	rows := ReconstructRows(nil, DefaultLayoutConfig())
	if len(rows) != 0 {
		t.Errorf("expected no rows for empty page, got %d", len(rows))
	}
}

func TestReconstructRowsOrdersTopToBottom(t *testing.T) {
	// Extraction order deliberately scrambled: lower row first, and the
	// second cell of the top row before the first.
	runs := []models.TextRun{
		mkrun(1, 50, 600, "second-row"),
		mkrun(1, 200, 700, "right"),
		mkrun(1, 50, 700, "left"),
	}

	rows := ReconstructRows(runs, DefaultLayoutConfig())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].Text() != "left right" {
		t.Errorf("top row = %q, want %q", rows[0].Text(), "left right")
	}
	if rows[1].Text() != "second-row" {
		t.Errorf("bottom row = %q, want %q", rows[1].Text(), "second-row")
	}

	// Cells must be monotonically non-decreasing in x.
	for _, row := range rows {
		for i := 1; i < len(row.Cells); i++ {
			if row.Cells[i].X < row.Cells[i-1].X {
				t.Errorf("row %q cells out of x order", row.Text())
			}
		}
	}
}

func TestReconstructRowsVerticalTolerance(t *testing.T) {
	// Baselines 2pt apart sit well within half a 10pt font: one row.
	runs := []models.TextRun{
		mkrun(1, 50, 700, "a"),
		mkrun(1, 100, 698, "b"),
	}
	rows := ReconstructRows(runs, DefaultLayoutConfig())
	if len(rows) != 1 {
		t.Fatalf("expected 1 row for near baselines, got %d", len(rows))
	}

	// 12pt apart exceeds the band: two rows.
	runs = []models.TextRun{
		mkrun(1, 50, 700, "a"),
		mkrun(1, 100, 688, "b"),
	}
	rows = ReconstructRows(runs, DefaultLayoutConfig())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for distant baselines, got %d", len(rows))
	}
}

func TestReconstructRowsMergesSplitGlyphs(t *testing.T) {
	// "RELIAN" + "CE" split by the extractor with a sub-glyph gap must come
	// back as one word; the widely spaced "ISIN" stays a separate cell.
	runs := []models.TextRun{
		mkrun(1, 50, 700, "RELIAN"),
		mkrun(1, 80.5, 700, "CE"), // right edge of RELIAN is x=80
		mkrun(1, 200, 700, "ISIN"),
	}

	rows := ReconstructRows(runs, DefaultLayoutConfig())
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if len(rows[0].Cells) != 2 {
		t.Fatalf("expected 2 cells, got %d: %q", len(rows[0].Cells), rows[0].Text())
	}
	if rows[0].Cells[0].Text != "RELIANCE" {
		t.Errorf("merged cell = %q, want %q", rows[0].Cells[0].Text, "RELIANCE")
	}
}

func TestReconstructRowsWordSpacingWithinCell(t *testing.T) {
	// A 4pt gap is below the cell threshold (10pt at default config) but
	// above glyph spacing: same cell, joined with a space.
	runs := []models.TextRun{
		mkrun(1, 50, 700, "RELIANCE"),
		mkrun(1, 94, 700, "INDUSTRIES"), // right edge of RELIANCE is x=90
	}

	rows := ReconstructRows(runs, DefaultLayoutConfig())
	if len(rows) != 1 || len(rows[0].Cells) != 1 {
		t.Fatalf("expected a single merged cell, got %+v", rows)
	}
	if rows[0].Cells[0].Text != "RELIANCE INDUSTRIES" {
		t.Errorf("cell = %q, want %q", rows[0].Cells[0].Text, "RELIANCE INDUSTRIES")
	}
}

func TestMedianFontSize(t *testing.T) {
	runs := []models.TextRun{
		{FontSize: 8}, {FontSize: 10}, {FontSize: 12},
	}
	if got := medianFontSize(runs); got != 10 {
		t.Errorf("medianFontSize = %v, want 10", got)
	}

	if got := medianFontSize([]models.TextRun{{FontSize: 0}}); got != 10 {
		t.Errorf("medianFontSize fallback = %v, want 10", got)
	}
}
