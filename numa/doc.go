// Package numa provides socket-local memory allocation for tensor buffers.
//
// An Allocator hands out raw byte buffers and takes them back. Free must be
// called with the exact slice Allocate returned: the length of the slice is
// the size of the allocation, and a mismatch is rejected with ErrSizeMismatch
// instead of releasing the wrong amount of memory.
//
// # Allocators
//
//   - MmapAllocator: off-heap anonymous mappings bound to a memory node with
//     mbind(2) on Linux. Pages can be prefaulted in parallel so that first
//     touch happens before the buffer reaches a compute kernel.
//   - HeapAllocator: 64-byte aligned Go heap slices. Used where socket
//     affinity does not matter and in tests.
//   - Tracker: wraps any Allocator, counts calls, records live allocations in
//     a roaring bitmap and can inject failures.
//
// # Node Selection
//
//	PolicyLocal       node of the CPU running the allocation (preferred, not strict)
//	PolicyBind        a fixed node (strict)
//	PolicyInterleave  pages spread round-robin over all nodes
//	PolicyNone        no memory policy
//
// When the kernel refuses a memory policy (containers without CAP_SYS_NICE,
// kernels built without NUMA) the allocation still succeeds with default
// placement and a single warning is logged.
//
// # Thread Safety
//
// All allocators in this package are safe for concurrent use.
package numa
