// Package parsererror defines the error types produced by the CAS parsing
// pipeline. Only document-level failures are expressed as errors; row-level
// problems travel as diagnostics alongside the parsed transactions.
package parsererror

import "fmt"

// DecryptionError indicates the document is encrypted and the supplied
// password (possibly empty) did not unlock it.
type DecryptionError struct {
	Msg string
}

func (e *DecryptionError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("decryption failed: %s", e.Msg)
	}
	return "decryption failed: wrong or missing password"
}

// CorruptDocumentError indicates the byte stream could not be parsed as a
// PDF document at all.
type CorruptDocumentError struct {
	Msg string
	Err error
}

func (e *CorruptDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt document: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("corrupt document: %s", e.Msg)
}

func (e *CorruptDocumentError) Unwrap() error {
	return e.Err
}

// NoSectionsFoundError indicates the document parsed but no holding header
// matched any known template. This usually means the statement layout is not
// one the configured templates recognize.
type NoSectionsFoundError struct {
	Pages     int
	Templates []string
}

func (e *NoSectionsFoundError) Error() string {
	return fmt.Sprintf("no holding sections found across %d pages (templates tried: %v)", e.Pages, e.Templates)
}

// ParseError wraps a lower-level failure with the pipeline stage and the
// value that triggered it.
type ParseError struct {
	Stage string
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Stage, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError indicates the input file does not conform to the format
// a parser expects (for example a non-PDF handed to the CAS parser).
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
