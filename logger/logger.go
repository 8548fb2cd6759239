// Package logger defines the structured logger used across the module,
// so that callers can plug in the logging library of their choice.
package logger

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// With returns a Field with the given key and value.
func With(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Err returns a Field holding an error under the "error" key.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Logger is a structured logger with levels.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Debug logs on l at debug level, if l is not nil.
func Debug(l Logger, msg string, fields ...Field) {
	if l != nil {
		l.Debug(msg, fields...)
	}
}

// Info logs on l at info level, if l is not nil.
func Info(l Logger, msg string, fields ...Field) {
	if l != nil {
		l.Info(msg, fields...)
	}
}

// Warn logs on l at warn level, if l is not nil.
func Warn(l Logger, msg string, fields ...Field) {
	if l != nil {
		l.Warn(msg, fields...)
	}
}

// Error logs on l at error level, if l is not nil.
func Error(l Logger, msg string, fields ...Field) {
	if l != nil {
		l.Error(msg, fields...)
	}
}
