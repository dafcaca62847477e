// Package logging decouples the thesaurus tooling from a concrete logging framework.
// Commands and adapters receive a Logger; tests swap in MockLogger.
package logging

import "sync"

// Logger is the structured logger used throughout the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a logger carrying err as context
	WithError(err error) Logger

	// WithField returns a logger carrying a single extra field
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger carrying extra fields
	WithFields(fields ...Field) Logger

	// Fatal logs at fatal level and exits the program
	Fatal(msg string, fields ...Field)

	// Fatalf logs a formatted message at fatal level and exits the program
	Fatalf(msg string, args ...interface{})
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// GetLogger returns the process-wide logger, creating an info/text logrus logger on first use.
func GetLogger() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogrusAdapter("info", "text")
	}
	return defaultLogger
}

// SetDefault replaces the process-wide logger. A nil logger is ignored.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}
