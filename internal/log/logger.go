// Package log provides structured logging for texprobe.
//
// A Logger interface backed by stdlib slog keeps probe evaluation
// testable: subsystems accept a Logger via functional options and fall
// back to the process default configured in main().
//
// Diagnostic output always goes to stderr so that command results on
// stdout stay machine-readable.
//
// Verbosity levels:
//   - ERROR (--quiet): errors only
//   - WARN (default): warnings and command output
//   - INFO (--verbose): which external commands run and why
//   - DEBUG (--debug): cache hits, resolver output, exit statuses
package log

import (
	"io"
	"log/slog"
	"sync"
)

// Logger is the interface for structured logging.
// Methods match slog's signature for easy integration.
type Logger interface {
	// Debug logs at DEBUG level. Use for cache hits, resolved paths,
	// and subprocess exit statuses.
	Debug(msg string, args ...any)

	// Info logs at INFO level. Use for operational context like
	// "invoking resolver" or "running functional check".
	Info(msg string, args ...any)

	// Warn logs at WARN level. Use for recoverable oddities like an
	// unparseable version banner or a resolver that died on a signal.
	Warn(msg string, args ...any)

	// Error logs at ERROR level. Use for failures that prevent the
	// command from completing.
	Error(msg string, args ...any)

	// With returns a Logger that includes the given key-value pairs
	// in all subsequent entries.
	With(args ...any) Logger
}

// slogLogger wraps slog.Logger to implement the Logger interface.
type slogLogger struct {
	l *slog.Logger
}

// New creates a Logger backed by slog with the given handler.
func New(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

// NewLeveled creates a text-handler Logger writing to w at the given level.
// This is what main() uses after parsing the verbosity flags.
func NewLeveled(w io.Writer, level slog.Level) Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (s *slogLogger) Debug(msg string, args ...any) {
	s.l.Debug(msg, args...)
}

func (s *slogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

func (s *slogLogger) Warn(msg string, args ...any) {
	s.l.Warn(msg, args...)
}

func (s *slogLogger) Error(msg string, args ...any) {
	s.l.Error(msg, args...)
}

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// noopLogger discards all log output.
type noopLogger struct{}

// NewNoop returns a logger that discards all output.
// Useful for tests or when logging should be disabled.
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

// SetDefault sets the global logger. Called once during program
// initialization, after parsing verbosity flags.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
