package importer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"casfolio/cas-import/internal/logging"
	"casfolio/cas-import/internal/models"
	"casfolio/cas-import/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "portfolio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func parsedTx(symbol, description string, txType models.TransactionType) models.ParsedTransaction {
	return models.ParsedTransaction{
		Date:        time.Date(2023, time.January, 12, 0, 0, 0, 0, time.UTC),
		Symbol:      symbol,
		Description: description,
		Type:        txType,
		Quantity:    decimal.NewFromInt(10),
		Price:       decimal.RequireFromString("2400.00"),
	}
}

func TestImportCreatesAssetsAndTransactions(t *testing.T) {
	s := newTestStore(t)
	im := New(s, &logging.MockLogger{}, 3)
	ctx := context.Background()

	summary, err := im.Import(ctx, []models.ParsedTransaction{
		parsedTx("RELIANCE", "RELIANCE INDUSTRIES", models.TypeBuy),
		parsedTx("RELIANCE", "RELIANCE INDUSTRIES", models.TypeSell),
		parsedTx("AXISBLUE", "AXIS BLUECHIP FUND", models.TypeBuy),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, summary.ImportID)
	assert.Equal(t, 2, summary.AssetsCreated)
	assert.Equal(t, 3, summary.TransactionsImported)

	reliance, err := s.AssetBySymbol(ctx, "RELIANCE")
	require.NoError(t, err)
	assert.Equal(t, models.AssetStock, reliance.Type)

	fund, err := s.AssetBySymbol(ctx, "AXISBLUE")
	require.NoError(t, err)
	assert.Equal(t, models.AssetMutualFund, fund.Type)

	transactions, err := s.TransactionsByAsset(ctx, reliance.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Contains(t, transactions[0].Notes, summary.ImportID)
}

func TestImportReusesExistingAssetBySymbol(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	existing, err := s.CreateAsset(ctx, models.Asset{
		Symbol: "INFOSYS",
		Name:   "INFOSYS LTD",
		Type:   models.AssetStock,
	})
	require.NoError(t, err)

	im := New(s, &logging.MockLogger{}, 3)
	summary, err := im.Import(ctx, []models.ParsedTransaction{
		parsedTx("INFOSYS", "INFOSYS LTD", models.TypeBuy),
	})
	require.NoError(t, err)
	assert.Zero(t, summary.AssetsCreated)

	transactions, err := s.TransactionsByAsset(ctx, existing.ID)
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}

func TestImportFuzzyMatchesRenamedSymbol(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	existing, err := s.CreateAsset(ctx, models.Asset{
		Symbol: "RELIANCE",
		Name:   "RELIANCE INDUSTRIES",
		Type:   models.AssetStock,
	})
	require.NoError(t, err)

	// Same holding under a different ticker; the statement description has a
	// one-character defect relative to the stored name.
	im := New(s, &logging.MockLogger{}, 3)
	summary, err := im.Import(ctx, []models.ParsedTransaction{
		parsedTx("RELIANCE.NS", "RELIANC INDUSTRIES", models.TypeBuy),
	})
	require.NoError(t, err)
	assert.Zero(t, summary.AssetsCreated)

	transactions, err := s.TransactionsByAsset(ctx, existing.ID)
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}

func TestImportFuzzyDisabled(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateAsset(ctx, models.Asset{
		Symbol: "RELIANCE",
		Name:   "RELIANCE INDUSTRIES",
		Type:   models.AssetStock,
	})
	require.NoError(t, err)

	im := New(s, &logging.MockLogger{}, -1)
	summary, err := im.Import(ctx, []models.ParsedTransaction{
		parsedTx("RELIANCE.NS", "RELIANC INDUSTRIES", models.TypeBuy),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AssetsCreated)
}

func TestImportEmptyInput(t *testing.T) {
	s := newTestStore(t)
	im := New(s, &logging.MockLogger{}, 3)

	summary, err := im.Import(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, summary.TransactionsImported)
	assert.NotEmpty(t, summary.ImportID)
}

func TestClassifyAssetType(t *testing.T) {
	assert.Equal(t, models.AssetGold, classifyAssetType("Nippon Gold ETF"))
	assert.Equal(t, models.AssetMutualFund, classifyAssetType("Axis Bluechip Fund Direct Growth"))
	assert.Equal(t, models.AssetStock, classifyAssetType("RELIANCE INDUSTRIES"))
}
