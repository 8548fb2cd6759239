package logger

import "testing"

var _ Logger = Test{}

// Test is a Logger writing to the test log through testing.TB.
type Test struct{ tb testing.TB }

// NewTest returns a Logger writing to the log of the given test.
func NewTest(tb testing.TB) Test {
	return Test{tb: tb}
}

func (t Test) log(level, msg string, fields []Field) {
	t.tb.Helper()
	t.tb.Logf("[%s] %s %+v", level, msg, fields)
}

// Debug implements Logger.
func (t Test) Debug(msg string, fields ...Field) { t.log("debug", msg, fields) }

// Info implements Logger.
func (t Test) Info(msg string, fields ...Field) { t.log("info", msg, fields) }

// Warn implements Logger.
func (t Test) Warn(msg string, fields ...Field) { t.log("warn", msg, fields) }

// Error implements Logger.
func (t Test) Error(msg string, fields ...Field) { t.log("error", msg, fields) }
