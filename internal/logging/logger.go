// Package logging provides the leveled logger used across springer-dl.
//
// The CLI verbosity flags map onto slog levels: -debug enables Debug,
// -verbose enables Info, -silent raises the threshold to Error, and the
// default shows warnings and errors only.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the logging interface springer-dl components depend on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// DefaultLogger logs through slog with a module prefix.
type DefaultLogger struct {
	logger *slog.Logger
}

const prefix = "[springer-dl] "

// NewDefaultLogger creates a logger writing text records to stderr at the
// given level.
func NewDefaultLogger(level slog.Level) *DefaultLogger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a logger writing to w at the given level.
func NewLoggerTo(w io.Writer, level slog.Level) *DefaultLogger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	return &DefaultLogger{logger: logger}
}

func (d *DefaultLogger) Debug(msg string, args ...any) {
	d.logger.Debug(prefix+msg, args...)
}

func (d *DefaultLogger) Info(msg string, args ...any) {
	d.logger.Info(prefix+msg, args...)
}

func (d *DefaultLogger) Warn(msg string, args ...any) {
	d.logger.Warn(prefix+msg, args...)
}

func (d *DefaultLogger) Error(msg string, args ...any) {
	d.logger.Error(prefix+msg, args...)
}

// Nop is a Logger that discards everything. Useful in tests.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
