package logger

import "context"

// Logger is the logging abstraction the modules depend on.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// WithContext returns a logger carrying request-scoped fields, if any.
	WithContext(ctx context.Context) Logger

	// WithFields returns a child logger with the given fields attached.
	WithFields(fields ...Field) Logger

	// Sync flushes any buffered log entries.
	Sync() error
}

// Field is a single key/value pair in a log entry.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type nopLogger struct{}

// Nop returns a Logger that discards everything. Used by tests and the CLI's quiet mode.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field) {}
func (nopLogger) Warn(string, ...Field) {}
func (nopLogger) Error(string, ...Field) {}
func (nopLogger) Fatal(string, ...Field) {}
func (n nopLogger) WithContext(context.Context) Logger { return n }
func (n nopLogger) WithFields(...Field) Logger { return n }
func (nopLogger) Sync() error { return nil }
