package numa

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/qtensor/internal/resource"
)

// Allocator hands out raw buffers for tensor storage.
//
// Free must receive the exact slice returned by Allocate. len(buf) is the
// allocation size and must match; a different length or a foreign buffer is
// rejected and nothing is freed.
type Allocator interface {
	Allocate(size int) ([]byte, error)
	Free(buf []byte) error
}

// Stats is a snapshot of allocator activity.
type Stats struct {
	Allocs     uint64 // Historical: successful allocations
	Frees      uint64 // Historical: successful frees
	Failures   uint64 // Historical: failed allocations
	LiveAllocs int64  // Current: allocations not yet freed
	LiveBytes  int64  // Current: bytes not yet freed
	PeakBytes  int64  // Historical: maximum of LiveBytes
}

// StatsReporter is implemented by allocators that keep Stats.
type StatsReporter interface {
	Stats() Stats
}

type atomicStats struct {
	allocs     atomic.Uint64
	frees      atomic.Uint64
	failures   atomic.Uint64
	liveAllocs atomic.Int64
	liveBytes  atomic.Int64
	peakBytes  atomic.Int64
}

func (s *atomicStats) recordAlloc(size int) {
	s.allocs.Add(1)
	s.liveAllocs.Add(1)
	live := s.liveBytes.Add(int64(size))
	for {
		peak := s.peakBytes.Load()
		if live <= peak || s.peakBytes.CompareAndSwap(peak, live) {
			return
		}
	}
}

func (s *atomicStats) recordFree(size int) {
	s.frees.Add(1)
	s.liveAllocs.Add(-1)
	s.liveBytes.Add(-int64(size))
}

func (s *atomicStats) snapshot() Stats {
	return Stats{
		Allocs:     s.allocs.Load(),
		Frees:      s.frees.Load(),
		Failures:   s.failures.Load(),
		LiveAllocs: s.liveAllocs.Load(),
		LiveBytes:  s.liveBytes.Load(),
		PeakBytes:  s.peakBytes.Load(),
	}
}

// entry is the bookkeeping for one live allocation.
type entry struct {
	size    int
	node    int
	release func() error
}

// registry maps the first byte of every live buffer to its entry and owns the
// memory budget. Shared by the concrete allocators.
type registry struct {
	mu     sync.Mutex
	live   map[*byte]entry
	budget *resource.Controller
	stats  atomicStats
}

func newRegistry(o options) *registry {
	return &registry{
		live: make(map[*byte]entry),
		budget: resource.NewController(resource.Config{
			MemoryLimitBytes: o.memoryLimit,
			NodeLimitBytes:   o.nodeLimit,
			MaxWorkers:       o.workers,
		}),
	}
}

func (r *registry) reserve(node, size int) error {
	if err := r.budget.AcquireMemory(node, int64(size)); err != nil {
		r.stats.failures.Add(1)
		return fmt.Errorf("numa: allocate %d bytes on node %d: %w", size, node, err)
	}
	return nil
}

func (r *registry) unreserve(node, size int) {
	r.stats.failures.Add(1)
	r.budget.ReleaseMemory(node, int64(size))
}

func (r *registry) add(buf []byte, e entry) {
	r.mu.Lock()
	r.live[unsafe.SliceData(buf)] = e
	r.mu.Unlock()
	r.stats.recordAlloc(e.size)
}

func (r *registry) remove(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	key := unsafe.SliceData(buf)

	r.mu.Lock()
	e, ok := r.live[key]
	if !ok {
		r.mu.Unlock()
		return ErrUnknownBuffer
	}
	if e.size != len(buf) {
		r.mu.Unlock()
		return fmt.Errorf("%w: allocated %d, freeing %d", ErrSizeMismatch, e.size, len(buf))
	}
	delete(r.live, key)
	r.mu.Unlock()

	var err error
	if e.release != nil {
		err = e.release()
	}
	r.budget.ReleaseMemory(e.node, int64(e.size))
	r.stats.recordFree(e.size)
	return err
}
