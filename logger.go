package qtensor

import (
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with qtensor-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger

	// growth is hot in inference loops that keep changing shapes.
	growSample *rate.Sometimes
}

func newLogger(handler slog.Handler) *Logger {
	return &Logger{
		Logger:     slog.New(handler),
		growSample: &rate.Sometimes{Interval: time.Second},
	}
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return newLogger(handler)
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return newLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return newLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return newLogger(slog.DiscardHandler)
}

// WithKind adds the storage kind ("matrix", "vector", ...) to the logger.
func (l *Logger) WithKind(kind string) *Logger {
	return &Logger{
		Logger:     l.Logger.With("kind", kind),
		growSample: l.growSample,
	}
}

// LogAlloc logs a buffer allocation.
func (l *Logger) LogAlloc(bytes int, d time.Duration, err error) {
	if err != nil {
		l.Error("allocation failed",
			"bytes", bytes,
			"error", err,
		)
		return
	}
	l.Debug("allocation completed",
		"bytes", bytes,
		"duration", d,
	)
}

// LogGrow logs a capacity increase. At most one growth per second is logged.
func (l *Logger) LogGrow(oldCap, newCap, elemSize int) {
	l.growSample.Do(func() {
		l.Debug("capacity grown",
			"old_capacity", oldCap,
			"new_capacity", newCap,
			"bytes", newCap*elemSize,
		)
	})
}

// LogFree logs a buffer being returned to the allocator.
func (l *Logger) LogFree(bytes int, err error) {
	if err != nil {
		l.Error("free failed",
			"bytes", bytes,
			"error", err,
		)
		return
	}
	l.Debug("buffer freed",
		"bytes", bytes,
	)
}

// LogRelease logs a release of a block.
func (l *Logger) LogRelease(capacity int, owned bool) {
	l.Debug("storage released",
		"capacity", capacity,
		"owned", owned,
	)
}
