package resource

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrMemoryLimitExceeded is returned when memory limit would be exceeded.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// AnyNode is the node id used for memory not bound to a specific node.
const AnyNode = -1

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for managed memory across all nodes.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// NodeLimitBytes is the hard limit per memory node.
	// If 0, nodes are only tracked.
	NodeLimitBytes int64

	// MaxWorkers bounds background prefault goroutines.
	// If 0, defaults to GOMAXPROCS.
	MaxWorkers int
}

type nodeBudget struct {
	sem  *semaphore.Weighted // nil if unlimited
	used atomic.Int64
}

// Controller manages the memory budget.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	mu    sync.Mutex
	nodes map[int]*nodeBudget
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.GOMAXPROCS(0)
	}

	c := &Controller{
		cfg:   cfg,
		nodes: make(map[int]*nodeBudget),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	return c
}

func (c *Controller) node(id int) *nodeBudget {
	c.mu.Lock()
	defer c.mu.Unlock()

	nb, ok := c.nodes[id]
	if !ok {
		nb = &nodeBudget{}
		if c.cfg.NodeLimitBytes > 0 && id != AnyNode {
			nb.sem = semaphore.NewWeighted(c.cfg.NodeLimitBytes)
		}
		c.nodes[id] = nb
	}
	return nb
}

// AcquireMemory attempts to reserve bytes on the given node.
// Returns ErrMemoryLimitExceeded if the global or node limit would be exceeded.
// Non-blocking - callers control retry/backoff policy.
func (c *Controller) AcquireMemory(node int, bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return ErrMemoryLimitExceeded
		}
	}

	nb := c.node(node)
	if nb.sem != nil {
		if !nb.sem.TryAcquire(bytes) {
			if c.memSem != nil {
				c.memSem.Release(bytes)
			}
			return ErrMemoryLimitExceeded
		}
	}

	nb.used.Add(bytes)
	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory releases bytes reserved on the given node.
func (c *Controller) ReleaseMemory(node int, bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	nb := c.node(node)
	if nb.sem != nil {
		nb.sem.Release(bytes)
	}
	nb.used.Add(-bytes)

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// NodeUsage returns the current memory usage on a node in bytes.
func (c *Controller) NodeUsage(node int) int64 {
	if c == nil {
		return 0
	}
	return c.node(node).used.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// MaxWorkers returns the prefault worker bound.
func (c *Controller) MaxWorkers() int {
	if c == nil {
		return runtime.GOMAXPROCS(0)
	}
	return c.cfg.MaxWorkers
}
