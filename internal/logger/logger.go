// Package logger provides go-patch's side-channel diagnostic logging: the
// leveled, environment-gated debug trail used for things like "why did this
// hunk fail to locate at any fuzz level". It never writes the stable,
// user-facing diagnostic strings — those go straight to stdout/stderr from
// internal/driver.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Level is a three-level logging scheme built on top of logrus.
type Level int

const (
	// ErrorLevel logs only errors.
	ErrorLevel Level = iota
	// InfoLevel logs errors and info messages.
	InfoLevel
	// DebugLevel logs everything, including per-hunk match diagnostics.
	DebugLevel
)

// Logger wraps a *logrus.Logger with go-patch's three-level API.
type Logger struct {
	entry *logrus.Logger
}

// New creates a Logger at the given level, writing to stderr.
func New(level Level) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(toLogrusLevel(level))
	return &Logger{entry: l}
}

// NewFromEnv creates a Logger whose level is selected by PATCH_VERBOSE: unset
// or empty means ErrorLevel, anything else means DebugLevel.
func NewFromEnv() *Logger {
	level := ErrorLevel
	if os.Getenv("PATCH_VERBOSE") != "" {
		level = DebugLevel
	}
	return New(level)
}

// SetOutput redirects where log lines are written.
func (l *Logger) SetOutput(w io.Writer) {
	l.entry.SetOutput(w)
}

func toLogrusLevel(level Level) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	default:
		return logrus.ErrorLevel
	}
}

// Error logs a formatted error-level message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Info logs a formatted info-level message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Debug logs a formatted debug-level message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}
