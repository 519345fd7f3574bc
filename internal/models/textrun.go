package models

import "strings"

// TextRun is one positioned fragment of text extracted from a PDF page.
// Coordinates are in PDF user space with the origin at the bottom-left of
// the page. Runs are immutable once produced by the loader.
type TextRun struct {
	Text     string
	Page     int
	X        float64
	Y        float64
	Width    float64
	FontSize float64
	Font     string
}

// Cell is a logical value inside a reconstructed row: one or more adjacent
// runs merged across sub-cell gaps.
type Cell struct {
	Text  string
	X     float64
	Width float64
}

// Right returns the x coordinate of the cell's right edge.
func (c Cell) Right() float64 {
	return c.X + c.Width
}

// Row is an ordered sequence of cells sharing an inferred baseline.
// Cells are ordered left-to-right; the invariant is enforced by the layout
// reconstructor, which produces rows from a single greedy vertical pass.
type Row struct {
	Page  int
	Y     float64
	Cells []Cell
}

// Text joins the row's cells with single spaces, in reading order. Used for
// pattern matching and for diagnostics output.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		if t := strings.TrimSpace(c.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// RowKind classifies a reconstructed row for the extraction stage.
type RowKind int

const (
	// RowKindOther covers front-matter, footers, running balances and
	// anything else the extractor should skip silently.
	RowKindOther RowKind = iota
	// RowKindSectionHeader opens a new holding section.
	RowKindSectionHeader
	// RowKindColumnHeader carries the column labels for the rows below it.
	RowKindColumnHeader
	// RowKindTransaction is a candidate transaction row.
	RowKindTransaction
)

func (k RowKind) String() string {
	switch k {
	case RowKindSectionHeader:
		return "section-header"
	case RowKindColumnHeader:
		return "column-header"
	case RowKindTransaction:
		return "transaction"
	default:
		return "other"
	}
}

// ColumnName identifies a field slot in a statement table.
type ColumnName string

const (
	ColumnDate        ColumnName = "Date"
	ColumnDescription ColumnName = "Description"
	ColumnQuantity    ColumnName = "Quantity"
	ColumnPrice       ColumnName = "Price"
	ColumnType        ColumnName = "Type"
	ColumnBalance     ColumnName = "Balance"
)

// Column is a named field slot with x-range boundaries, inferred from a
// column-header row of the active template.
type Column struct {
	Name ColumnName
	MinX float64
	MaxX float64
}

// Contains reports whether the given x center falls inside the column band.
func (c Column) Contains(x float64) bool {
	return x >= c.MinX && x < c.MaxX
}

// Section is a contiguous block of rows belonging to one holding, bounded by
// its header row and the next header (or end of document). A section with no
// transaction rows is valid: the holding simply had no activity.
type Section struct {
	Name    string
	Symbol  string
	ISIN    string
	Page    int
	Rows    []Row
	Columns []Column
}
