// Package store persists assets and their transactions in a local SQLite
// database. One database file is one portfolio.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"casfolio/cas-import/internal/dateutils"
	"casfolio/cas-import/internal/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// ErrAssetNotFound is returned by lookups that match no stored asset.
var ErrAssetNotFound = errors.New("asset not found")

// Store wraps the portfolio database. Safe for use from a single process;
// SQLite serializes writers itself.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS assets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol TEXT NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_assets_symbol ON assets(symbol) WHERE symbol != '';

CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	type TEXT NOT NULL,
	quantity TEXT NOT NULL,
	price TEXT NOT NULL,
	fees TEXT NOT NULL DEFAULT '0',
	notes TEXT,
	FOREIGN KEY(asset_id) REFERENCES assets(id)
);

CREATE INDEX IF NOT EXISTS idx_transactions_asset ON transactions(asset_id);
`

// NewStore opens (creating if necessary) the portfolio database at path and
// ensures the schema exists.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateAsset inserts an asset and returns it with its assigned ID.
func (s *Store) CreateAsset(ctx context.Context, asset models.Asset) (models.Asset, error) {
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (symbol, name, type, created_at) VALUES (?, ?, ?, ?)`,
		asset.Symbol, asset.Name, string(asset.Type), asset.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Asset{}, fmt.Errorf("failed to insert asset %s: %w", asset.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Asset{}, fmt.Errorf("failed to read asset id: %w", err)
	}
	asset.ID = id
	return asset, nil
}

// CreateTransaction inserts a transaction against an existing asset.
// Quantity, price and fees are stored as decimal strings so no precision is
// lost round-tripping.
func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (asset_id, date, type, quantity, price, fees, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.AssetID,
		dateutils.ToISODate(tx.Date),
		string(tx.Type),
		tx.Quantity.String(),
		tx.Price.String(),
		tx.Fees.String(),
		tx.Notes)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to read transaction id: %w", err)
	}
	tx.ID = id
	return tx, nil
}

// ListAssets returns every stored asset ordered by name.
func (s *Store) ListAssets(ctx context.Context) ([]models.Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, name, type, created_at FROM assets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// AssetBySymbol looks up an asset by its exact symbol. Returns
// ErrAssetNotFound when no asset carries the symbol.
func (s *Store) AssetBySymbol(ctx context.Context, symbol string) (models.Asset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, symbol, name, type, created_at FROM assets WHERE symbol = ?`, symbol)

	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Asset{}, ErrAssetNotFound
	}
	return asset, err
}

// TransactionsByAsset returns an asset's transactions in date order.
func (s *Store) TransactionsByAsset(ctx context.Context, assetID int64) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, asset_id, date, type, quantity, price, fees, notes
		 FROM transactions WHERE asset_id = ? ORDER BY date, id`, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for asset %d: %w", assetID, err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var (
			tx                   models.Transaction
			dateStr, txType      string
			quantity, price, fee string
			notes                sql.NullString
		)
		if err := rows.Scan(&tx.ID, &tx.AssetID, &dateStr, &txType, &quantity, &price, &fee, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		date, _, err := dateutils.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored transaction %d has bad date %q: %w", tx.ID, dateStr, err)
		}
		tx.Date = date
		tx.Type = models.TransactionType(txType)
		if tx.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("stored transaction %d has bad quantity %q: %w", tx.ID, quantity, err)
		}
		if tx.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("stored transaction %d has bad price %q: %w", tx.ID, price, err)
		}
		if tx.Fees, err = decimal.NewFromString(fee); err != nil {
			return nil, fmt.Errorf("stored transaction %d has bad fees %q: %w", tx.ID, fee, err)
		}
		tx.Notes = notes.String

		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(row scanner) (models.Asset, error) {
	var (
		asset      models.Asset
		assetType  string
		createdStr string
	)
	if err := row.Scan(&asset.ID, &asset.Symbol, &asset.Name, &assetType, &createdStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Asset{}, err
		}
		return models.Asset{}, fmt.Errorf("failed to scan asset: %w", err)
	}
	asset.Type = models.AssetType(assetType)

	created, err := time.Parse(time.RFC3339, createdStr)
	if err != nil {
		// Rows written by other tools may carry the SQLite default format.
		created, err = time.Parse("2006-01-02 15:04:05", createdStr)
		if err != nil {
			return models.Asset{}, fmt.Errorf("asset %d has bad created_at %q", asset.ID, createdStr)
		}
	}
	asset.CreatedAt = created

	return asset, nil
}
