package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a parsed transaction.
type TransactionType string

const (
	TypeBuy  TransactionType = "BUY"
	TypeSell TransactionType = "SELL"
	// TypeOther marks rows whose direction could not be inferred. Such
	// records never survive validation; they exist so the extractor can
	// hand the validator something to reject with a reason.
	TypeOther TransactionType = "OTHER"
)

// ParsedTransaction is the pipeline's output entity. It is never mutated
// after validation; its lifetime ends when it is handed to the caller.
type ParsedTransaction struct {
	Date        time.Time       `json:"date"`
	Symbol      string          `json:"symbol"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Diagnostic records one skipped row with the reason it was skipped.
// Diagnostics are data, not errors: a malformed row must not block
// extraction of the rest of the document.
type Diagnostic struct {
	Page    int    `json:"page"`
	RowText string `json:"rowText"`
	Reason  string `json:"reason"`
}

// ParseResult is the complete outcome of parsing one statement: the
// validated transactions plus the diagnostics for every skipped row, both in
// document order.
type ParseResult struct {
	Transactions []ParsedTransaction `json:"transactions"`
	Diagnostics  []Diagnostic        `json:"diagnostics"`
}
