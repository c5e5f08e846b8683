// Package log provides structured diagnostic logging for cannyup.
//
// A small Logger interface backed by stdlib slog keeps subsystems
// testable: components accept a Logger field and fall back to the
// package default. Status lines meant for the user (step banners,
// success and warning markers) do not go through this package; they are
// printed by internal/ui. This logger carries diagnostics only, always
// on stderr.
//
// Verbosity mapping:
//   - ERROR (--quiet): errors only
//   - WARN (default): warnings
//   - INFO (--verbose): operational context, commands being run
//   - DEBUG (--debug): full troubleshooting detail
package log

import (
	"io"
	"log/slog"
	"sync"
)

// Logger is the interface for structured logging.
// Method signatures match slog for easy integration.
type Logger interface {
	// Debug logs internal state useful only for troubleshooting,
	// such as resolved paths and subprocess argv.
	Debug(msg string, args ...any)

	// Info logs operational context like "downloading bootstrap script".
	Info(msg string, args ...any)

	// Warn logs recoverable issues the user should know about.
	Warn(msg string, args ...any)

	// Error logs failures that prevent the operation from completing.
	Error(msg string, args ...any)

	// With returns a Logger that includes the given key-value pairs
	// in all subsequent entries.
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

// New creates a Logger backed by slog with the given handler.
func New(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

// NewText creates a Logger writing human-readable lines to w at the
// given level. This is what main wires up after flag parsing.
func NewText(w io.Writer, level slog.Level) Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// LevelFromFlags maps the verbosity flag triple to a slog level.
// Precedence: debug > verbose > quiet > default.
func LevelFromFlags(quiet, verbose, debug bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// noopLogger discards all log output.
type noopLogger struct{}

// NewNoop returns a logger that discards all output. Used in tests and
// as the default before main configures logging.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) With(...any) Logger   { return noopLogger{} }

var (
	defaultLogger Logger = noopLogger{}
	defaultMu     sync.RWMutex
)

// Default returns the global logger configured at startup.
// Returns a noop logger if SetDefault has not been called.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the global logger. Called once from main after
// parsing verbosity flags.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
