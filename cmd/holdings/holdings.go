// Package holdings handles portfolio valuation commands
package holdings

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"casfolio/cas-import/cmd/root"
	"casfolio/cas-import/internal/currencyutils"
	"casfolio/cas-import/internal/models"
	"casfolio/cas-import/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// DBPath overrides the configured portfolio database path when set.
var DBPath string

// Cmd represents the holdings command
var Cmd = &cobra.Command{
	Use:   "holdings",
	Short: "Show current holdings and their valuation",
	Long:  `List the assets in the portfolio database with net quantity and valuation.`,
	Run:   holdingsFunc,
}

func init() {
	Cmd.Flags().StringVar(&DBPath, "db", "", "Portfolio database path (overrides configuration)")
}

func holdingsFunc(cmd *cobra.Command, args []string) {
	logger := root.Log

	s, err := root.OpenStore(DBPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open portfolio database")
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close portfolio database")
		}
	}()

	ctx := context.Background()

	assets, err := s.ListAssets(ctx)
	if err != nil {
		logger.WithError(err).Fatal("Failed to list assets")
	}
	if len(assets) == 0 {
		logger.Info("Portfolio is empty; run ingest first")
		return
	}

	quotes := pricing.NewMockSource()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tNAME\tTYPE\tQUANTITY\tPRICE\tVALUE")

	total := decimal.Zero
	for _, asset := range assets {
		transactions, err := s.TransactionsByAsset(ctx, asset.ID)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load transactions")
		}

		quantity := netQuantity(transactions)
		if quantity.IsZero() {
			continue
		}

		quote := quotes.Quote(asset.Symbol)
		value := quantity.Mul(quote.Price)
		total = total.Add(value)

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			asset.Symbol, asset.Name, asset.Type,
			quantity.String(),
			currencyutils.FormatAmount(quote.Price),
			currencyutils.FormatAmount(value))
	}

	fmt.Fprintf(w, "\t\t\t\tTOTAL\t%s\n", currencyutils.FormatAmount(total))
	if err := w.Flush(); err != nil {
		logger.WithError(err).Fatal("Failed to render holdings table")
	}
}

// netQuantity folds buys and sells into the currently held quantity.
func netQuantity(transactions []models.Transaction) decimal.Decimal {
	quantity := decimal.Zero
	for _, tx := range transactions {
		switch tx.Type {
		case models.TypeBuy:
			quantity = quantity.Add(tx.Quantity)
		case models.TypeSell:
			quantity = quantity.Sub(tx.Quantity)
		}
	}
	return quantity
}
