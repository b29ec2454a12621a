package numa

import (
	"sync"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
)

// Tracker wraps an Allocator and records every call.
//
// Each successful allocation gets a sequential id; ids of buffers not yet
// freed are kept in a roaring bitmap so leaks can be listed cheaply even
// after millions of resize cycles. Tracker can also inject allocation
// failures to exercise error paths.
type Tracker struct {
	inner Allocator

	mu         sync.Mutex
	nextID     uint32
	ids        map[*byte]uint32
	sizes      map[uint32]int
	live       *roaring.Bitmap
	allocCalls int
	freeCalls  int
	freeErrors int
	failNext   int
}

// NewTracker wraps inner. A nil inner uses a fresh HeapAllocator.
func NewTracker(inner Allocator) *Tracker {
	if inner == nil {
		inner = NewHeapAllocator()
	}
	return &Tracker{
		inner: inner,
		ids:   make(map[*byte]uint32),
		sizes: make(map[uint32]int),
		live:  roaring.New(),
	}
}

// Allocate forwards to the wrapped allocator unless a failure is pending.
func (t *Tracker) Allocate(size int) ([]byte, error) {
	t.mu.Lock()
	t.allocCalls++
	if t.failNext > 0 {
		t.failNext--
		t.mu.Unlock()
		return nil, ErrInjectedFailure
	}
	t.mu.Unlock()

	buf, err := t.inner.Allocate(size)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.ids[unsafe.SliceData(buf)] = id
	t.sizes[id] = len(buf)
	t.live.Add(id)
	t.mu.Unlock()

	return buf, nil
}

// Free forwards to the wrapped allocator and marks the allocation as released.
func (t *Tracker) Free(buf []byte) error {
	t.mu.Lock()
	t.freeCalls++
	t.mu.Unlock()

	if err := t.inner.Free(buf); err != nil {
		t.mu.Lock()
		t.freeErrors++
		t.mu.Unlock()
		return err
	}
	if len(buf) == 0 {
		return nil
	}

	t.mu.Lock()
	key := unsafe.SliceData(buf)
	if id, ok := t.ids[key]; ok {
		delete(t.ids, key)
		delete(t.sizes, id)
		t.live.Remove(id)
	}
	t.mu.Unlock()
	return nil
}

// FailNext makes the next n Allocate calls fail with ErrInjectedFailure.
func (t *Tracker) FailNext(n int) {
	t.mu.Lock()
	t.failNext = n
	t.mu.Unlock()
}

// AllocCalls returns the number of Allocate calls, including failed ones.
func (t *Tracker) AllocCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocCalls
}

// FreeCalls returns the number of Free calls, including rejected ones.
func (t *Tracker) FreeCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freeCalls
}

// FreeErrors returns the number of Free calls the wrapped allocator rejected.
func (t *Tracker) FreeErrors() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freeErrors
}

// LiveCount returns the number of allocations not yet freed.
func (t *Tracker) LiveCount() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.GetCardinality()
}

// LiveBytes returns the bytes held by allocations not yet freed.
func (t *Tracker) LiveBytes() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := 0
	it := t.live.Iterator()
	for it.HasNext() {
		total += t.sizes[it.Next()]
	}
	return total
}

// Leaks returns the ids of allocations not yet freed, in allocation order.
func (t *Tracker) Leaks() []uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.ToArray()
}

// Stats returns the wrapped allocator's statistics if it keeps any.
func (t *Tracker) Stats() Stats {
	if r, ok := t.inner.(StatsReporter); ok {
		return r.Stats()
	}
	return Stats{}
}
