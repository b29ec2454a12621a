package qtensor

import (
	"log/slog"

	"github.com/hupe1980/qtensor/numa"
)

type options struct {
	allocator        numa.Allocator
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures a Block, Matrix or Vector.
type Option func(*options)

// WithAllocator sets the allocator for owned buffers.
//
// If nil is passed, numa.Default is used. Buffers handed out by the
// allocator must be aligned for the element type.
func WithAllocator(a numa.Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}

// WithLogger sets the logger. Defaults to NoopLogger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLogLevel logs to stderr as text at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector sets the metrics collector. Defaults to NoopMetricsCollector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

var noopLogger = NoopLogger()

func applyOptions(optFns []Option) options {
	var o options
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.allocator == nil {
		o.allocator = numa.Default()
	}
	if o.logger == nil {
		o.logger = noopLogger
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
