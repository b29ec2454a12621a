package numa

import (
	"log/slog"
)

type options struct {
	policy      Policy
	node        int
	memoryLimit int64
	nodeLimit   int64
	prefault    bool
	workers     int
	logger      *slog.Logger
	topology    *Topology
}

// Option configures an allocator.
type Option func(*options)

// WithPolicy sets the node selection policy. Defaults to PolicyLocal.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithNode binds every allocation to node. Implies PolicyBind.
func WithNode(node int) Option {
	return func(o *options) {
		o.policy = PolicyBind
		o.node = node
	}
}

// WithMemoryLimit caps the bytes the allocator may hold at once.
// Allocations beyond the cap fail with ErrMemoryLimitExceeded. 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithNodeMemoryLimit caps the bytes the allocator may hold on any single node.
func WithNodeMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.nodeLimit = bytes
	}
}

// WithPrefault touches every page right after binding so physical memory is
// attached before the buffer is handed out.
func WithPrefault(enabled bool) Option {
	return func(o *options) {
		o.prefault = enabled
	}
}

// WithPrefaultWorkers bounds the goroutines used to prefault one allocation.
// Defaults to GOMAXPROCS.
func WithPrefaultWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTopology overrides topology detection.
func WithTopology(t *Topology) Option {
	return func(o *options) {
		o.topology = t
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		policy: PolicyLocal,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}
