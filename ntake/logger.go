package ntake

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// BasicLogger is just the start of what a logger might
// support.  Fields are passed as maps so that any structured
// logger can be adapted to it.
type BasicLogger interface {
	Debug(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
}

// StdLogger is implmented by the base library log.Logger
type StdLogger interface {
	Print(v ...interface{})
}

type wrappedStdLogger struct {
	log StdLogger
}

// LoggerFromStd creates a BasicLogger that prints each message and
// its fields on one line.
func LoggerFromStd(log StdLogger) BasicLogger {
	return wrappedStdLogger{log: log}
}

func (std wrappedStdLogger) Error(msg string, fields ...map[string]interface{}) {
	if len(fields) == 0 {
		std.log.Print(msg)
		return
	}
	vals := make([]interface{}, 1, len(fields)*4+1)
	vals[0] = msg
	for _, m := range fields {
		for _, k := range sortedKeys(m) {
			vals = append(vals, " "+k+"="+fmt.Sprint(m[k]))
		}
	}
	std.log.Print(vals...)
}

func (std wrappedStdLogger) Warn(msg string, fields ...map[string]interface{}) {
	std.Error(msg, fields...)
}
func (std wrappedStdLogger) Debug(msg string, fields ...map[string]interface{}) {
	std.Error(msg, fields...)
}

type wrappedZapLogger struct {
	log *zap.Logger
}

// LoggerFromZap adapts a zap logger
func LoggerFromZap(log *zap.Logger) BasicLogger {
	return wrappedZapLogger{log: log}
}

func (z wrappedZapLogger) Error(msg string, fields ...map[string]interface{}) {
	z.log.Error(msg, zapFields(fields)...)
}

func (z wrappedZapLogger) Warn(msg string, fields ...map[string]interface{}) {
	z.log.Warn(msg, zapFields(fields)...)
}

func (z wrappedZapLogger) Debug(msg string, fields ...map[string]interface{}) {
	z.log.Debug(msg, zapFields(fields)...)
}

// Flush syncs the zap logger.  SetErrorOnPanic calls it.
func (z wrappedZapLogger) Flush() {
	_ = z.log.Sync()
}

func zapFields(fields []map[string]interface{}) []zap.Field {
	var zf []zap.Field
	for _, m := range fields {
		for _, k := range sortedKeys(m) {
			zf = append(zf, zap.Any(k, m[k]))
		}
	}
	return zf
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NoLogger is a BasicLogger that discards all inputs
func NoLogger() BasicLogger {
	return nilLogger{}
}

type nilLogger struct{}

var _ BasicLogger = nilLogger{}

func (_ nilLogger) Error(msg string, fields ...map[string]interface{}) {}
func (_ nilLogger) Warn(msg string, fields ...map[string]interface{})  {}
func (_ nilLogger) Debug(msg string, fields ...map[string]interface{}) {}
