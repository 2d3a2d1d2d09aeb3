// Package log wraps logrus behind the small surface the rest of the
// application uses: package-level leveled logging plus field helpers for
// structured entries.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Field is a single structured logging key/value pair
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field for use with LogWithFields
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// LogWithFields returns an entry carrying the given structured fields
func LogWithFields(fields ...Field) *logrus.Entry {
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return std.WithFields(lf)
}

// SetDebug toggles debug-level logging
func SetDebug(debug bool) {
	if debug {
		std.SetLevel(logrus.DebugLevel)
	} else {
		std.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects log output, mainly for tests
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Info logs a message at info level
func Info(args ...interface{}) {
	std.Info(args...)
}

// Infof logs a formatted message at info level
func Infof(format string, args ...interface{}) {
	std.Infof(format, args...)
}

// Warn logs a message at warning level
func Warn(args ...interface{}) {
	std.Warn(args...)
}

// Warnf logs a formatted message at warning level
func Warnf(format string, args ...interface{}) {
	std.Warnf(format, args...)
}

// Error logs a message at error level
func Error(args ...interface{}) {
	std.Error(args...)
}

// Errorf logs a formatted message at error level
func Errorf(format string, args ...interface{}) {
	std.Errorf(format, args...)
}

// Debug logs a message at debug level
func Debug(args ...interface{}) {
	std.Debug(args...)
}

// Debugf logs a formatted message at debug level
func Debugf(format string, args ...interface{}) {
	std.Debugf(format, args...)
}
