// Package logging provides a logging abstraction layer that decouples the
// parsing and conversion engine from a concrete logging framework.
package logging

// Logger is the structured logging interface used throughout the application.
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
}

// Field is a key-value pair attached to a log message.
type Field struct {
	Key   string
	Value interface{}
}

// Standardized field names so log output stays filterable across commands.
const (
	FieldFile    = "file_path"
	FieldFormat  = "format"
	FieldVersion = "version"
	FieldCount   = "count"
	FieldLine    = "line"
	FieldTag     = "tag"
	FieldType    = "type"
)

var defaultLogger Logger = NewLogrusAdapter("info", "text")

// GetLogger returns the process-wide default logger. Commands replace it
// via SetLogger once configuration has been loaded.
func GetLogger() Logger {
	return defaultLogger
}

// SetLogger replaces the process-wide default logger.
func SetLogger(l Logger) {
	if l != nil {
		defaultLogger = l
	}
}
