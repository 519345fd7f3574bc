// Package currencyutils parses the numeric formats found in CAS statements.
// Indian statements group digits in lakh/crore style ("1,23,456.78") and
// sometimes mark negatives with parentheses, so plain decimal parsing is not
// enough.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyMarkers strips the currency notations seen on CAS amounts.
// "Rs." must be replaced as a unit so the decimal point survives.
var currencyMarkers = strings.NewReplacer(
	"Rs.", "",
	"Rs ", "",
	"INR", "",
	"₹", "",
	"$", "",
	"€", "",
	"£", "",
	" ", "",
)

// ParseAmount parses a statement amount string into a decimal. Handles
// "2,400.00", "1,23,456.78", "₹2400", "(500.00)" and signed forms.
// An empty string parses to zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount converts statement number formats into the plain form
// decimal.NewFromString accepts.
func StandardizeAmount(amountStr string) string {
	amountStr = strings.TrimSpace(amountStr)

	// Parenthesised negatives: "(500.00)" -> "-500.00"
	negative := false
	if strings.HasPrefix(amountStr, "(") && strings.HasSuffix(amountStr, ")") {
		negative = true
		amountStr = amountStr[1 : len(amountStr)-1]
	}

	amountStr = currencyMarkers.Replace(amountStr)

	// Digit grouping commas, both western (1,234,567.89) and lakh/crore
	// (12,34,567.89) styles.
	amountStr = strings.ReplaceAll(amountStr, ",", "")

	if negative && !strings.HasPrefix(amountStr, "-") {
		amountStr = "-" + amountStr
	}

	return amountStr
}

// LooksLikeNumber reports whether the string standardizes to something
// decimal can parse. Used by the row classifier.
func LooksLikeNumber(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, err := decimal.NewFromString(StandardizeAmount(s))
	return err == nil
}

// FormatAmount renders a decimal with two fixed places, e.g. "2400.00".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
