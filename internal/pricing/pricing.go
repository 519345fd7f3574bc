// Package pricing provides quotes for portfolio valuation. The current
// implementation is an offline source that derives a stable pseudo-price per
// symbol, so valuation output is deterministic without a market data vendor.
package pricing

import (
	"hash/fnv"
	"strings"

	"github.com/shopspring/decimal"
)

// Quote is one symbol's current price.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
}

// Source produces quotes for symbols.
type Source interface {
	Quote(symbol string) Quote
}

// MockSource derives a price from the symbol itself. The same symbol always
// quotes the same price within and across runs.
type MockSource struct{}

// NewMockSource creates the offline quote source.
func NewMockSource() *MockSource {
	return &MockSource{}
}

// Quote returns a stable pseudo-price in the range [10.00, 5009.99].
func (m *MockSource) Quote(symbol string) Quote {
	normalized := strings.ToUpper(strings.TrimSpace(symbol))

	h := fnv.New64a()
	_, _ = h.Write([]byte(normalized))
	sum := h.Sum64()

	rupees := int64(sum % 5000)         // #nosec G115 -- bounded by the modulus
	paise := int64((sum / 5000) % 100)  // #nosec G115 -- bounded by the modulus
	price := decimal.New(rupees*100+paise+1000, -2)

	return Quote{Symbol: normalized, Price: price}
}
