package models

import (
	"context"
	"io"

	"casfolio/cas-import/internal/logging"
)

// StatementParser is the interface the CAS parser exposes to commands.
type StatementParser interface {
	// Parse reads a statement document from r and returns the parsed
	// transactions plus row-level diagnostics. password may be empty for
	// unencrypted statements. Implementations return typed errors from
	// internal/parsererror for the three fatal cases (decryption failure,
	// corrupt document, no sections found).
	Parse(ctx context.Context, r io.Reader, password string) (ParseResult, error)

	// ConvertToCSV parses inputFile and writes the transactions to
	// outputFile in the standard CSV format.
	ConvertToCSV(ctx context.Context, inputFile, outputFile, password string) error

	// ValidateFormat cheaply checks whether the file looks like a document
	// this parser accepts.
	ValidateFormat(file string) (bool, error)

	// SetLogger configures the parser's logger.
	SetLogger(logger logging.Logger)
}
