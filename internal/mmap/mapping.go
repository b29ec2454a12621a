package mmap

import (
	"os"
	"sync/atomic"
)

// Mapping represents an anonymous read-write memory mapping.
// It owns the pages and is responsible for unmapping them.
type Mapping struct {
	data   []byte // full page-rounded mapping, as returned by the OS
	size   int    // bytes requested by the caller
	closed atomic.Bool
	unmap  func([]byte) error
}

// MapAnon maps size bytes of zeroed, private, read-write memory outside the Go heap.
// The mapping is rounded up to the page size; Bytes returns exactly size bytes.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	length := PageRound(size)
	data, unmapFunc, err := osMapAnon(length)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  size,
		unmap: unmapFunc,
	}, nil
}

// PageRound rounds n up to a multiple of the system page size.
func PageRound(n int) int {
	page := os.Getpagesize()
	return (n + page - 1) &^ (page - 1)
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}

// Bytes returns the mapped memory, exactly Size() bytes long.
// The capacity extends to the page-rounded mapping length.
// Warning: The slice is valid only until Close() is called.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data[:m.size]
}

// Size returns the requested size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Len returns the page-rounded length actually mapped.
func (m *Mapping) Len() int {
	return len(m.data)
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osAdvise(m.data, pattern)
}
