// Package zaplogger adapts go.uber.org/zap to the logger.Logger interface.
package zaplogger

import (
	"go.uber.org/zap"

	"github.com/get-eventually/messagedb-browser/logger"
)

var _ logger.Logger = &Logger{}

// Logger is a zap.Logger implementing logger.Logger.
type Logger zap.Logger

// Wrap returns l as a logger.Logger.
func Wrap(l *zap.Logger) *Logger {
	return (*Logger)(l)
}

func fields(fields []logger.Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))

	for _, field := range fields {
		if err, ok := field.Value.(error); ok {
			zapFields = append(zapFields, zap.NamedError(field.Key, err))
			continue
		}

		zapFields = append(zapFields, zap.Any(field.Key, field.Value))
	}

	return zapFields
}

// Debug implements logger.Logger.
func (l *Logger) Debug(msg string, f ...logger.Field) { (*zap.Logger)(l).Debug(msg, fields(f)...) }

// Info implements logger.Logger.
func (l *Logger) Info(msg string, f ...logger.Field) { (*zap.Logger)(l).Info(msg, fields(f)...) }

// Warn implements logger.Logger.
func (l *Logger) Warn(msg string, f ...logger.Field) { (*zap.Logger)(l).Warn(msg, fields(f)...) }

// Error implements logger.Logger.
func (l *Logger) Error(msg string, f ...logger.Field) { (*zap.Logger)(l).Error(msg, fields(f)...) }
