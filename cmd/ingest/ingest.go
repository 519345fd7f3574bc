// Package ingest handles importing parsed statements into the portfolio store
package ingest

import (
	"context"
	"os"

	"casfolio/cas-import/cmd/root"
	"casfolio/cas-import/internal/importer"
	"casfolio/cas-import/internal/logging"

	"github.com/spf13/cobra"
)

// DBPath overrides the configured portfolio database path when set.
var DBPath string

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Parse a CAS PDF and import its transactions into the portfolio database",
	Long: `Parse a Consolidated Account Statement PDF and store its buy/sell
transactions in the local portfolio database, creating assets as needed.`,
	Run: ingestFunc,
}

func init() {
	Cmd.Flags().StringVar(&DBPath, "db", "", "Portfolio database path (overrides configuration)")
}

func ingestFunc(cmd *cobra.Command, args []string) {
	logger := root.Log
	logger.Info("Statement ingest command called",
		logging.Field{Key: logging.FieldFile, Value: root.SharedFlags.Input})

	if root.SharedFlags.Input == "" {
		logger.Fatal("--input is required")
	}

	adapter, err := root.NewParserAdapter()
	if err != nil {
		logger.WithError(err).Fatal("Failed to build parser")
	}

	file, err := os.Open(root.SharedFlags.Input) // #nosec G304 -- CLI tool reads user-provided file paths
	if err != nil {
		logger.WithError(err).Fatal("Failed to open input file")
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close input file")
		}
	}()

	ctx := context.Background()

	result, err := adapter.Parse(ctx, file, root.SharedFlags.Password)
	if err != nil {
		logger.WithError(err).Fatal("Parsing failed")
	}

	for _, d := range result.Diagnostics {
		logger.Warn("Skipped statement row",
			logging.Field{Key: logging.FieldPage, Value: d.Page},
			logging.Field{Key: logging.FieldReason, Value: d.Reason})
	}

	s, err := root.OpenStore(DBPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open portfolio database")
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close portfolio database")
		}
	}()

	im := importer.New(s, logger, root.Cfg.Importer.FuzzyThreshold)
	summary, err := im.Import(ctx, result.Transactions)
	if err != nil {
		logger.WithError(err).Fatal("Import failed")
	}

	logger.Info("Statement ingested successfully!",
		logging.Field{Key: "import_id", Value: summary.ImportID},
		logging.Field{Key: "assets_created", Value: summary.AssetsCreated},
		logging.Field{Key: logging.FieldCount, Value: summary.TransactionsImported})
}
