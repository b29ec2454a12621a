package qtensor

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/hupe1980/qtensor/internal/conv"
)

// Ownership tells whether a block frees its buffer.
type Ownership uint8

const (
	// Owned blocks allocate their buffer and free it on Release.
	Owned Ownership = iota
	// Borrowed blocks reference a buffer whose lifetime is controlled elsewhere.
	Borrowed
)

// String returns the string representation of the ownership.
func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	default:
		return "unknown"
	}
}

// Block is a raw buffer of T that is either owned or borrowed.
//
// Owned blocks grow only: Resize reallocates when the requested capacity
// exceeds the current one and is a no-op otherwise. The buffer is returned
// to the allocator with exactly the size it was allocated with.
//
// A Block is not safe for concurrent use.
type Block[T Element] struct {
	data      []T
	raw       []byte // the allocation backing data; nil unless owned
	ownership Ownership

	// gen changes whenever data stops being valid.
	gen uint64

	opts options
}

// NewBlock returns an empty owned block.
func NewBlock[T Element](optFns ...Option) *Block[T] {
	return &Block[T]{opts: applyOptions(optFns)}
}

// BorrowBlock returns a block referencing buf. The block never frees buf.
func BorrowBlock[T Element](buf []T, optFns ...Option) *Block[T] {
	return &Block[T]{
		data:      buf,
		ownership: Borrowed,
		opts:      applyOptions(optFns),
	}
}

// Data returns the buffer. Its length is the capacity.
func (b *Block[T]) Data() []T { return b.data }

// Capacity returns the number of elements in the buffer.
func (b *Block[T]) Capacity() int { return len(b.data) }

// Ownership returns whether the block owns its buffer.
func (b *Block[T]) Ownership() Ownership { return b.ownership }

// Resize makes room for rows*stride elements.
//
// Calling Resize on a borrowed block panics with ErrContractViolation.
// If the allocation fails the previous buffer is already gone and the
// block is left empty.
func (b *Block[T]) Resize(rows, cols, stride int) error {
	if b.ownership == Borrowed {
		panic(contractViolation("resize of a borrowed block"))
	}
	if rows < 0 || cols < 0 || stride < cols {
		panic(contractViolation("invalid shape %dx%d stride %d", rows, cols, stride))
	}

	required, err := conv.MulInt(rows, stride)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTooLarge, err)
	}
	_, err = b.grow(required)
	return err
}

// grow ensures the block holds at least n elements and reports whether the
// buffer was replaced.
func (b *Block[T]) grow(n int) (bool, error) {
	oldCap := len(b.data)
	if oldCap >= n {
		b.opts.metricsCollector.RecordResize(false)
		return false, nil
	}

	size := SizeOf[T]()
	bytes, err := conv.MulInt(n, size)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrTooLarge, err)
	}

	b.free()
	b.opts.metricsCollector.RecordResize(true)

	start := time.Now()
	raw, err := b.opts.allocator.Allocate(bytes)
	d := time.Since(start)
	b.opts.metricsCollector.RecordAlloc(bytes, d, err)
	b.opts.logger.LogAlloc(bytes, d, err)
	if err != nil {
		return true, &AllocationError{Bytes: bytes, cause: err}
	}

	b.raw = raw
	b.data = unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(raw))), n) //nolint:gosec // allocator buffers are aligned for T
	b.opts.logger.LogGrow(oldCap, n, size)
	return true, nil
}

// Assign makes the block borrow buf. An owned buffer is freed first.
func (b *Block[T]) Assign(buf []T) {
	if b.ownership == Owned {
		b.free()
	}
	b.ownership = Borrowed
	b.data = buf
	b.gen++
}

// Release frees the buffer if the block owns it and leaves the block empty.
// The ownership is kept. Release is idempotent.
func (b *Block[T]) Release() {
	if b.data == nil && b.raw == nil {
		return
	}
	b.opts.logger.LogRelease(len(b.data), b.ownership == Owned)
	if b.ownership == Owned {
		b.free()
		return
	}
	b.data = nil
	b.gen++
}

// free returns an owned buffer to the allocator. Free errors are logged and
// counted; the block forgets the buffer either way.
func (b *Block[T]) free() {
	if b.raw == nil {
		return
	}
	raw := b.raw
	b.raw = nil
	b.data = nil
	b.gen++

	err := b.opts.allocator.Free(raw)
	b.opts.metricsCollector.RecordFree(len(raw), err)
	b.opts.logger.LogFree(len(raw), err)
}
