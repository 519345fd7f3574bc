// Package common provides the shared CSV output used by commands.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"casfolio/cas-import/internal/currencyutils"
	"casfolio/cas-import/internal/dateutils"
	"casfolio/cas-import/internal/logging"
	"casfolio/cas-import/internal/models"

	"github.com/gocarina/gocsv"
)

// Delimiter is the CSV output delimiter. Configurable via SetDelimiter.
var Delimiter rune = ','

// SetDelimiter sets the delimiter used for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = delim
		return gocsv.NewSafeCSVWriter(w)
	})
}

// TransactionCSVRow is the stable CSV shape for parsed transactions.
type TransactionCSVRow struct {
	Date        string `csv:"Date"`
	Symbol      string `csv:"Symbol"`
	Description string `csv:"Description"`
	Type        string `csv:"Type"`
	Quantity    string `csv:"Quantity"`
	Price       string `csv:"Price"`
}

// DiagnosticCSVRow is the CSV shape for skipped-row diagnostics.
type DiagnosticCSVRow struct {
	Page    int    `csv:"Page"`
	RowText string `csv:"RowText"`
	Reason  string `csv:"Reason"`
}

// WriteTransactionsToCSV writes parsed transactions to csvFile. All commands
// use this function so output stays uniform.
func WriteTransactionsToCSV(log logging.Logger, transactions []models.ParsedTransaction, csvFile string) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	rows := make([]TransactionCSVRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, TransactionCSVRow{
			Date:        dateutils.ToISODate(tx.Date),
			Symbol:      tx.Symbol,
			Description: tx.Description,
			Type:        string(tx.Type),
			Quantity:    tx.Quantity.String(),
			Price:       currencyutils.FormatAmount(tx.Price),
		})
	}

	log.Info("Writing transactions to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	return writeCSVFile(log, rows, csvFile)
}

// WriteDiagnosticsToCSV writes skipped-row diagnostics to csvFile.
func WriteDiagnosticsToCSV(log logging.Logger, diagnostics []models.Diagnostic, csvFile string) error {
	rows := make([]DiagnosticCSVRow, 0, len(diagnostics))
	for _, d := range diagnostics {
		rows = append(rows, DiagnosticCSVRow{
			Page:    d.Page,
			RowText: d.RowText,
			Reason:  d.Reason,
		})
	}

	log.Info("Writing diagnostics to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	return writeCSVFile(log, rows, csvFile)
}

func writeCSVFile[TRow any](log logging.Logger, rows []TRow, csvFile string) error {
	dir := filepath.Dir(csvFile)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(csvFile) // #nosec G304 -- CLI tool writes user-provided output paths
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close CSV file",
				logging.Field{Key: logging.FieldFile, Value: csvFile})
		}
	}()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("error writing CSV file: %w", err)
	}
	return nil
}
