// Package logging provides a small logging abstraction so the rest of the
// application stays decoupled from the underlying logging framework.
package logging

// Logger is the structured logging interface used throughout cas-import.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// Fatal logs a fatal-level message and exits the program
	Fatal(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log message.
type Field struct {
	Key   string
	Value interface{}
}

// Standardized field names for structured logging. Using the same keys
// everywhere keeps the log output filterable.
const (
	FieldFile     = "file_path"
	FieldPage     = "page"
	FieldSection  = "section"
	FieldSymbol   = "symbol"
	FieldTemplate = "template"
	FieldReason   = "reason"
	FieldCount    = "count"
	FieldError    = "error"
)
