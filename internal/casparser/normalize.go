package casparser

import (
	"strings"
	"time"

	"casfolio/cas-import/internal/dateutils"
	"casfolio/cas-import/internal/models"
)

// NormalizeTransaction brings a transaction to its canonical form: date
// truncated to a calendar day in UTC, symbol uppercased and trimmed.
// Normalization is a fixed point: applying it to already-normalized input
// changes nothing.
func NormalizeTransaction(tx models.ParsedTransaction) models.ParsedTransaction {
	tx.Date = dateutils.Truncate(tx.Date)
	tx.Symbol = strings.ToUpper(strings.TrimSpace(tx.Symbol))
	tx.Description = strings.TrimSpace(tx.Description)
	return tx
}

// ValidateTransaction checks the invariants every parsed transaction must
// satisfy. The empty string means valid; otherwise the returned reason is
// recorded as a diagnostic. now is the single processing timestamp of the
// pipeline run.
func ValidateTransaction(tx models.ParsedTransaction, now time.Time) string {
	if tx.Type != models.TypeBuy && tx.Type != models.TypeSell {
		return "transaction type must be BUY or SELL"
	}
	if !tx.Quantity.IsPositive() {
		return "quantity must be positive"
	}
	if !tx.Price.IsPositive() {
		return "price must be positive"
	}
	if !dateutils.InPlausibleRange(tx.Date, now) {
		return "date outside plausible range"
	}
	return ""
}

// validateCandidates normalizes and validates extracted candidates, keeping
// valid transactions and turning invalid ones into diagnostics. A malformed
// record never aborts the import: the philosophy throughout is best-effort
// extraction with diagnostics.
func validateCandidates(candidates []candidate, now time.Time) ([]models.ParsedTransaction, []models.Diagnostic) {
	transactions := make([]models.ParsedTransaction, 0, len(candidates))
	var diagnostics []models.Diagnostic

	for _, c := range candidates {
		tx := NormalizeTransaction(c.tx)
		if reason := ValidateTransaction(tx, now); reason != "" {
			diagnostics = append(diagnostics, models.Diagnostic{
				Page:    c.page,
				RowText: c.rowText,
				Reason:  reason,
			})
			continue
		}
		transactions = append(transactions, tx)
	}

	return transactions, diagnostics
}
