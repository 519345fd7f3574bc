package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType categorizes a holding in the portfolio store.
type AssetType string

const (
	AssetStock      AssetType = "STOCK"
	AssetMutualFund AssetType = "MF"
	AssetGold       AssetType = "GOLD"
	AssetCrypto     AssetType = "CRYPTO"
	AssetEPF        AssetType = "EPF"
	AssetPPF        AssetType = "PPF"
	AssetRealEstate AssetType = "REAL_ESTATE"
	AssetCash       AssetType = "CASH"
)

// Asset is a stored holding. Symbol may be empty for assets without a ticker
// (real estate, PPF); Name is always set.
type Asset struct {
	ID        int64
	Symbol    string
	Name      string
	Type      AssetType
	CreatedAt time.Time
}

// Transaction is a stored buy/sell record against an asset.
type Transaction struct {
	ID       int64
	AssetID  int64
	Date     time.Time
	Type     TransactionType
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Fees     decimal.Decimal
	Notes    string
}
