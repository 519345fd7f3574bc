// Package parse handles statement-to-CSV conversion commands
package parse

import (
	"context"
	"os"

	"casfolio/cas-import/cmd/root"
	"casfolio/cas-import/internal/common"
	"casfolio/cas-import/internal/logging"

	"github.com/spf13/cobra"
)

// DiagnosticsFile receives skipped-row diagnostics as CSV when set.
var DiagnosticsFile string

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a CAS PDF to CSV",
	Long:  `Parse a Consolidated Account Statement PDF and write its transactions to CSV.`,
	Run:   parseFunc,
}

func init() {
	Cmd.Flags().StringVar(&DiagnosticsFile, "diagnostics", "", "Write skipped-row diagnostics to this CSV file")
}

func parseFunc(cmd *cobra.Command, args []string) {
	logger := root.Log
	logger.Info("Statement parse command called",
		logging.Field{Key: logging.FieldFile, Value: root.SharedFlags.Input})

	if root.SharedFlags.Input == "" || root.SharedFlags.Output == "" {
		logger.Fatal("Both --input and --output are required")
	}

	adapter, err := root.NewParserAdapter()
	if err != nil {
		logger.WithError(err).Fatal("Failed to build parser")
	}

	if root.SharedFlags.Validate {
		ok, err := adapter.ValidateFormat(root.SharedFlags.Input)
		if err != nil {
			logger.WithError(err).Fatal("Failed to validate input file")
		}
		if !ok {
			logger.Fatal("Input file is not a PDF document",
				logging.Field{Key: logging.FieldFile, Value: root.SharedFlags.Input})
		}
	}

	ctx := context.Background()

	if DiagnosticsFile == "" {
		if err := adapter.ConvertToCSV(ctx, root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Password); err != nil {
			logger.WithError(err).Fatal("Conversion failed")
		}
		logger.Info("Statement converted to CSV successfully!")
		return
	}

	// With a diagnostics file the parse runs once and feeds both outputs.
	file, err := os.Open(root.SharedFlags.Input) // #nosec G304 -- CLI tool reads user-provided file paths
	if err != nil {
		logger.WithError(err).Fatal("Failed to open input file")
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close input file")
		}
	}()

	result, err := adapter.Parse(ctx, file, root.SharedFlags.Password)
	if err != nil {
		logger.WithError(err).Fatal("Parsing failed")
	}

	if err := common.WriteTransactionsToCSV(logger, result.Transactions, root.SharedFlags.Output); err != nil {
		logger.WithError(err).Fatal("Failed to write transactions CSV")
	}
	if err := common.WriteDiagnosticsToCSV(logger, result.Diagnostics, DiagnosticsFile); err != nil {
		logger.WithError(err).Fatal("Failed to write diagnostics CSV")
	}

	logger.Info("Statement converted to CSV successfully!",
		logging.Field{Key: "transactions", Value: len(result.Transactions)},
		logging.Field{Key: "skipped_rows", Value: len(result.Diagnostics)})
}
