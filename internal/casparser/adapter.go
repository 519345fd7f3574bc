package casparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"casfolio/cas-import/internal/common"
	"casfolio/cas-import/internal/logging"
	"casfolio/cas-import/internal/models"
)

// Adapter implements models.StatementParser on top of the pipeline.
type Adapter struct {
	parser *Parser
}

// NewAdapter creates the adapter used by commands.
func NewAdapter(layout LayoutConfig, templates []Template, logger logging.Logger) *Adapter {
	return &Adapter{
		parser: New(layout, templates, logger),
	}
}

// Parse reads the whole statement from r and runs the pipeline. The
// document lives only in memory for the duration of the parse.
func (a *Adapter) Parse(ctx context.Context, r io.Reader, password string) (models.ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.ParseResult{}, fmt.Errorf("reading statement: %w", err)
	}
	return a.parser.Parse(ctx, data, password)
}

// ConvertToCSV parses inputFile and writes the transactions to outputFile.
// Skipped rows are logged; callers wanting them on disk use the parse
// command's diagnostics flag.
func (a *Adapter) ConvertToCSV(ctx context.Context, inputFile, outputFile, password string) error {
	file, err := os.Open(inputFile) // #nosec G304 -- CLI tool reads user-provided file paths
	if err != nil {
		return fmt.Errorf("error opening input file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			a.parser.log.WithError(err).Warn("Failed to close input file",
				logging.Field{Key: logging.FieldFile, Value: inputFile})
		}
	}()

	result, err := a.Parse(ctx, file, password)
	if err != nil {
		return err
	}

	for _, d := range result.Diagnostics {
		a.parser.log.Warn("Skipped statement row",
			logging.Field{Key: logging.FieldPage, Value: d.Page},
			logging.Field{Key: logging.FieldReason, Value: d.Reason})
	}

	return common.WriteTransactionsToCSV(a.parser.log, result.Transactions, outputFile)
}

// ValidateFormat cheaply checks the PDF magic header without opening the
// full document.
func (a *Adapter) ValidateFormat(file string) (bool, error) {
	f, err := os.Open(file) // #nosec G304 -- CLI tool reads user-provided file paths
	if err != nil {
		return false, fmt.Errorf("error opening file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			a.parser.log.WithError(err).Warn("Failed to close file",
				logging.Field{Key: logging.FieldFile, Value: file})
		}
	}()

	header := make([]byte, 5)
	if _, err := io.ReadFull(f, header); err != nil {
		return false, nil
	}
	return strings.HasPrefix(string(header), "%PDF-"), nil
}

// SetLogger configures the underlying pipeline's logger.
func (a *Adapter) SetLogger(logger logging.Logger) {
	a.parser.SetLogger(logger)
}
