package numa

import (
	"github.com/hupe1980/qtensor/internal/mem"
	"github.com/hupe1980/qtensor/internal/resource"
)

// HeapAllocator allocates 64-byte aligned buffers on the Go heap.
//
// It has no socket affinity. Free only drops the bookkeeping; the garbage
// collector reclaims the memory once no slice references it.
type HeapAllocator struct {
	reg *registry
}

// NewHeapAllocator creates a heap allocator. Only WithMemoryLimit is honored.
func NewHeapAllocator(optFns ...Option) *HeapAllocator {
	return &HeapAllocator{reg: newRegistry(applyOptions(optFns))}
}

// Allocate returns a zeroed, aligned buffer with len == cap == size.
func (a *HeapAllocator) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if err := a.reg.reserve(resource.AnyNode, size); err != nil {
		return nil, err
	}
	buf := mem.AllocAligned(size)
	a.reg.add(buf, entry{size: size, node: resource.AnyNode})
	return buf, nil
}

// Free releases a buffer returned by Allocate.
func (a *HeapAllocator) Free(buf []byte) error {
	return a.reg.remove(buf)
}

// Stats returns allocation statistics.
func (a *HeapAllocator) Stats() Stats {
	return a.reg.stats.snapshot()
}
