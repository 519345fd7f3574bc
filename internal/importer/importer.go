// Package importer lands parsed statement transactions in the portfolio
// store, resolving each one to a stored asset.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"casfolio/cas-import/internal/logging"
	"casfolio/cas-import/internal/models"
	"casfolio/cas-import/internal/store"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Importer writes parsed transactions into a Store, creating assets on the
// fly for symbols the portfolio has not seen.
type Importer struct {
	store          *store.Store
	log            logging.Logger
	fuzzyThreshold int
}

// ImportSummary reports what one import run did.
type ImportSummary struct {
	ImportID             string
	AssetsCreated        int
	TransactionsImported int
}

// New creates an Importer. fuzzyThreshold is the maximum rank distance
// accepted when matching a statement description against stored asset names;
// -1 disables fuzzy matching entirely.
func New(s *store.Store, logger logging.Logger, fuzzyThreshold int) *Importer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Importer{
		store:          s,
		log:            logger,
		fuzzyThreshold: fuzzyThreshold,
	}
}

// Import persists the parsed transactions. Assets are resolved once per
// symbol and cached for the run; the notes field of every stored transaction
// carries the run's import ID so a bad import can be identified later.
func (im *Importer) Import(ctx context.Context, transactions []models.ParsedTransaction) (ImportSummary, error) {
	summary := ImportSummary{ImportID: uuid.New().String()}

	resolved := make(map[string]models.Asset)

	for _, tx := range transactions {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		asset, ok := resolved[tx.Symbol]
		if !ok {
			var created bool
			var err error
			asset, created, err = im.resolveAsset(ctx, tx)
			if err != nil {
				return summary, fmt.Errorf("resolving asset for %s: %w", tx.Symbol, err)
			}
			if created {
				summary.AssetsCreated++
			}
			resolved[tx.Symbol] = asset
		}

		_, err := im.store.CreateTransaction(ctx, models.Transaction{
			AssetID:  asset.ID,
			Date:     tx.Date,
			Type:     tx.Type,
			Quantity: tx.Quantity,
			Price:    tx.Price,
			Notes:    "import " + summary.ImportID,
		})
		if err != nil {
			return summary, fmt.Errorf("storing transaction for %s: %w", tx.Symbol, err)
		}
		summary.TransactionsImported++
	}

	im.log.Info("Import completed",
		logging.Field{Key: "import_id", Value: summary.ImportID},
		logging.Field{Key: "assets_created", Value: summary.AssetsCreated},
		logging.Field{Key: logging.FieldCount, Value: summary.TransactionsImported})

	return summary, nil
}

// resolveAsset finds the stored asset a transaction belongs to: exact symbol
// match first, then a fuzzy match of the statement description against stored
// asset names, and finally a newly created asset.
func (im *Importer) resolveAsset(ctx context.Context, tx models.ParsedTransaction) (models.Asset, bool, error) {
	asset, err := im.store.AssetBySymbol(ctx, tx.Symbol)
	if err == nil {
		return asset, false, nil
	}
	if !errors.Is(err, store.ErrAssetNotFound) {
		return models.Asset{}, false, err
	}

	if match, ok, err := im.fuzzyMatch(ctx, tx.Description); err != nil {
		return models.Asset{}, false, err
	} else if ok {
		im.log.Info("Matched statement holding to existing asset by name",
			logging.Field{Key: logging.FieldSymbol, Value: tx.Symbol},
			logging.Field{Key: "asset", Value: match.Name})
		return match, false, nil
	}

	created, err := im.store.CreateAsset(ctx, models.Asset{
		Symbol: tx.Symbol,
		Name:   assetName(tx),
		Type:   classifyAssetType(tx.Description),
	})
	if err != nil {
		return models.Asset{}, false, err
	}

	im.log.Info("Created asset from statement",
		logging.Field{Key: logging.FieldSymbol, Value: created.Symbol},
		logging.Field{Key: "type", Value: string(created.Type)})
	return created, true, nil
}

// fuzzyMatch returns the stored asset whose name ranks closest to the
// description, when that rank is within the configured threshold.
func (im *Importer) fuzzyMatch(ctx context.Context, description string) (models.Asset, bool, error) {
	if im.fuzzyThreshold < 0 || strings.TrimSpace(description) == "" {
		return models.Asset{}, false, nil
	}

	assets, err := im.store.ListAssets(ctx)
	if err != nil {
		return models.Asset{}, false, err
	}

	best := models.Asset{}
	bestRank := -1
	for _, asset := range assets {
		rank := fuzzy.RankMatchNormalizedFold(description, asset.Name)
		if rank < 0 || rank > im.fuzzyThreshold {
			continue
		}
		if bestRank < 0 || rank < bestRank {
			best = asset
			bestRank = rank
		}
	}
	return best, bestRank >= 0, nil
}

func assetName(tx models.ParsedTransaction) string {
	if strings.TrimSpace(tx.Description) != "" {
		return strings.TrimSpace(tx.Description)
	}
	return tx.Symbol
}

// classifyAssetType guesses the asset category from statement wording.
// Statements rarely say so outright; unknown stays STOCK, the dominant case
// in equity CAS documents.
func classifyAssetType(description string) models.AssetType {
	upper := strings.ToUpper(description)
	switch {
	case strings.Contains(upper, "GOLD"):
		return models.AssetGold
	case strings.Contains(upper, "FUND") || strings.Contains(upper, "NAV"):
		return models.AssetMutualFund
	default:
		return models.AssetStock
	}
}
