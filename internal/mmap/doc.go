// Package mmap provides anonymous off-heap memory mappings.
//
// # Overview
//
// Tensor buffers are large, long-lived and resized rarely. Keeping them outside
// the Go heap removes them from garbage collector scans and lets the numa
// package bind their pages to a specific memory node before first touch.
//
// # Usage
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	buf := m.Bytes()
//	m.Advise(mmap.AccessWillNeed)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2) hints
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT (Advise is a no-op)
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure no
// goroutine touches Bytes() after Close returns; the pages are gone and any
// access faults.
package mmap
