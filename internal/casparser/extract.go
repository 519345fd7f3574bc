package casparser

import (
	"math"
	"strings"
	"time"

	"casfolio/cas-import/internal/currencyutils"
	"casfolio/cas-import/internal/dateutils"
	"casfolio/cas-import/internal/models"

	"github.com/shopspring/decimal"
)

// candidate is an extracted transaction with its row provenance, kept until
// validation so dropped records can cite the row they came from.
type candidate struct {
	tx      models.ParsedTransaction
	page    int
	rowText string
}

// extractSections walks each section's rows, classifies them, and maps
// transaction rows to candidates. Rows that look like transaction attempts
// but cannot be mapped become diagnostics; structural rows (sub-headers,
// running balances, disclaimers) are skipped silently.
func extractSections(sections []segmentedSection) ([]candidate, []models.Diagnostic) {
	var candidates []candidate
	var diagnostics []models.Diagnostic

	for _, seg := range sections {
		columns := seg.section.Columns

		for _, row := range seg.section.Rows {
			switch classifyRow(row, seg.template) {
			case models.RowKindColumnHeader:
				columns = inferColumns(row, seg.template)

			case models.RowKindTransaction:
				c, reason := extractRow(row, seg.section, seg.template, columns)
				if reason != "" {
					diagnostics = append(diagnostics, models.Diagnostic{
						Page:    row.Page,
						RowText: row.Text(),
						Reason:  reason,
					})
					continue
				}
				candidates = append(candidates, c)

			default:
				// RowKindOther: nothing to extract, nothing to report.
			}
		}
	}

	return candidates, diagnostics
}

// classifyRow decides what a row is before any field parsing happens.
// A row counts as a transaction candidate when it carries a date-shaped
// value plus a numeric value, or an explicit type token plus a numeric value
// (the latter so rows with a mangled date surface as diagnostics instead of
// vanishing).
func classifyRow(row models.Row, tmpl *Template) models.RowKind {
	if len(row.Cells) == 0 {
		return models.RowKindOther
	}

	if labelMatches(row, tmpl) >= 2 {
		return models.RowKindColumnHeader
	}

	tokens := rowTokens(row)
	hasDate := false
	hasNumber := false
	hasTypeToken := false
	for _, tok := range tokens {
		if !hasDate && dateutils.LooksLikeDate(tok) {
			hasDate = true
			continue
		}
		if currencyutils.LooksLikeNumber(tok) {
			hasNumber = true
			continue
		}
		if _, ok := tmpl.TypeToken(tok); ok {
			hasTypeToken = true
		}
	}
	// Month-name dates can span tokens ("02 Jan 2023").
	if !hasDate {
		if _, _, ok := findDate(tokens); ok {
			hasDate = true
		}
	}

	if (hasDate || hasTypeToken) && hasNumber {
		return models.RowKindTransaction
	}
	return models.RowKindOther
}

// labelMatches counts how many of a row's cells are recognized column
// labels.
func labelMatches(row models.Row, tmpl *Template) int {
	n := 0
	for _, cell := range row.Cells {
		if _, ok := tmpl.ColumnFor(cell.Text); ok {
			n++
		}
	}
	return n
}

// inferColumns derives column x-range boundaries from a column-header row.
// Each boundary sits midway between the right edge of one label and the
// start of the next; the first column extends to the left page edge and the
// last to the right.
func inferColumns(row models.Row, tmpl *Template) []models.Column {
	type labeled struct {
		name models.ColumnName
		cell models.Cell
	}
	var labels []labeled
	for _, cell := range row.Cells {
		if name, ok := tmpl.ColumnFor(cell.Text); ok {
			labels = append(labels, labeled{name: name, cell: cell})
		}
	}
	if len(labels) < 2 {
		return nil
	}

	columns := make([]models.Column, len(labels))
	for i, l := range labels {
		minX := math.Inf(-1)
		if i > 0 {
			minX = (labels[i-1].cell.Right() + l.cell.X) / 2
		}
		maxX := math.Inf(1)
		if i < len(labels)-1 {
			maxX = (l.cell.Right() + labels[i+1].cell.X) / 2
		}
		columns[i] = models.Column{Name: l.name, MinX: minX, MaxX: maxX}
	}
	return columns
}

// extractRow maps a transaction row's cells into a typed candidate. The
// empty reason string means success; any other value is the diagnostic
// reason for skipping the row.
func extractRow(row models.Row, sec models.Section, tmpl *Template, columns []models.Column) (candidate, string) {
	var fields rowFields
	if len(columns) > 0 {
		fields = mapByColumns(row, columns)
	} else {
		fields = mapByTokens(row)
	}

	date, ok := fields.parseDate()
	if !ok {
		return candidate{}, "no parseable date in row"
	}

	quantity, qtySigned, ok := fields.parseQuantity()
	if !ok {
		return candidate{}, "no parseable quantity in row"
	}

	price, ok := fields.parsePrice()
	if !ok {
		return candidate{}, "no parseable price in row"
	}

	txType, ok := inferType(fields, tmpl, quantity, qtySigned)
	if !ok {
		return candidate{}, "ambiguous transaction type: no BUY/SELL token and quantity is unsigned"
	}

	description := fields.description
	if description == "" {
		description = sec.Name
	}

	return candidate{
		tx: models.ParsedTransaction{
			Date:        date,
			Symbol:      sec.Symbol,
			Description: description,
			Type:        txType,
			Quantity:    quantity.Abs(),
			Price:       price.Abs(),
		},
		page:    row.Page,
		rowText: row.Text(),
	}, ""
}

// rowFields is the intermediate field view of one row, produced either by
// column mapping or by the ordered-token fallback.
type rowFields struct {
	dateText     string
	typeText     string
	quantityText string
	priceText    string
	description  string
}

func (f rowFields) parseDate() (time.Time, bool) {
	t, _, err := dateutils.ParseDate(f.dateText)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseQuantity returns the quantity and whether its source text carried an
// explicit sign (used for type inference when no BUY/SELL token exists).
func (f rowFields) parseQuantity() (decimal.Decimal, bool, bool) {
	text := strings.TrimSpace(f.quantityText)
	if text == "" {
		return decimal.Zero, false, false
	}
	q, err := currencyutils.ParseAmount(text)
	if err != nil {
		return decimal.Zero, false, false
	}
	signed := strings.HasPrefix(text, "-") || strings.HasPrefix(text, "+") || strings.HasPrefix(text, "(")
	return q, signed, true
}

func (f rowFields) parsePrice() (decimal.Decimal, bool) {
	p, err := currencyutils.ParseAmount(f.priceText)
	if err != nil || strings.TrimSpace(f.priceText) == "" {
		return decimal.Zero, false
	}
	return p, true
}

// inferType resolves the transaction direction: explicit token first, then
// the sign of a signed quantity.
func inferType(fields rowFields, tmpl *Template, quantity decimal.Decimal, qtySigned bool) (models.TransactionType, bool) {
	if fields.typeText != "" {
		if t, ok := tmpl.TypeToken(fields.typeText); ok {
			return t, true
		}
	}
	// A type token may hide inside the description when the statement has
	// no dedicated type column.
	for _, tok := range strings.Fields(fields.description) {
		if t, ok := tmpl.TypeToken(tok); ok {
			return t, true
		}
	}
	if qtySigned {
		if quantity.IsNegative() {
			return models.TypeSell, true
		}
		return models.TypeBuy, true
	}
	return models.TypeOther, false
}

// mapByColumns assigns each cell to the column containing its center.
func mapByColumns(row models.Row, columns []models.Column) rowFields {
	var fields rowFields
	var descParts []string

	for _, cell := range row.Cells {
		center := cell.X + cell.Width/2
		assigned := false
		for _, col := range columns {
			if !col.Contains(center) {
				continue
			}
			assigned = true
			switch col.Name {
			case models.ColumnDate:
				fields.dateText = joinField(fields.dateText, cell.Text)
			case models.ColumnType:
				fields.typeText = joinField(fields.typeText, cell.Text)
			case models.ColumnQuantity:
				fields.quantityText = joinField(fields.quantityText, cell.Text)
			case models.ColumnPrice:
				fields.priceText = joinField(fields.priceText, cell.Text)
			case models.ColumnDescription:
				descParts = append(descParts, cell.Text)
			case models.ColumnBalance:
				// Running balance: never a transaction field.
			}
			break
		}
		if !assigned {
			descParts = append(descParts, cell.Text)
		}
	}

	fields.description = strings.TrimSpace(strings.Join(descParts, " "))
	return fields
}

// mapByTokens is the fallback for sections that never presented a column
// header: date first, explicit type token anywhere, then numerics in order
// (quantity, then price), with whatever remains forming the description.
func mapByTokens(row models.Row) rowFields {
	tokens := rowTokens(row)

	var fields rowFields
	used := make([]bool, len(tokens))

	if _, idx, ok := findDate(tokens); ok {
		fields.dateText = strings.Join(tokens[idx[0]:idx[1]], " ")
		for i := idx[0]; i < idx[1]; i++ {
			used[i] = true
		}
	}

	var descParts []string
	for i, tok := range tokens {
		if used[i] {
			continue
		}
		if currencyutils.LooksLikeNumber(tok) {
			if fields.quantityText == "" {
				fields.quantityText = tok
			} else if fields.priceText == "" {
				fields.priceText = tok
			}
			// Further numerics (amount, running balance) are dropped:
			// quantity and price are the first two by column convention.
			continue
		}
		descParts = append(descParts, tok)
	}

	// The type token is resolved from the description by inferType; keep
	// it visible there rather than consuming it here.
	fields.description = strings.TrimSpace(strings.Join(descParts, " "))
	return fields
}

// joinField accumulates text from multiple cells mapped to the same column,
// separating parts with a single space.
func joinField(existing, text string) string {
	if existing == "" {
		return text
	}
	if text == "" {
		return existing
	}
	return existing + " " + text
}

// rowTokens flattens a row into whitespace-separated tokens. Cell boundaries
// also split tokens, so both well-separated and merged rows tokenize the
// same way.
func rowTokens(row models.Row) []string {
	var tokens []string
	for _, cell := range row.Cells {
		tokens = append(tokens, strings.Fields(cell.Text)...)
	}
	return tokens
}

// findDate locates the first date in the token stream. Returns the half-open
// token range that formed the date. Windows up to three tokens wide cover
// month-name layouts like "02 Jan 2023".
func findDate(tokens []string) (time.Time, [2]int, bool) {
	for width := 1; width <= 3; width++ {
		for i := 0; i+width <= len(tokens); i++ {
			joined := strings.Join(tokens[i:i+width], " ")
			if t, _, err := dateutils.ParseDate(joined); err == nil {
				return t, [2]int{i, i + width}, true
			}
		}
	}
	return time.Time{}, [2]int{}, false
}
