// Package resource implements the memory budget shared by tensor allocators.
//
// The Controller tracks two things:
//
//   - Memory: bytes reserved process-wide and per memory node, with optional
//     hard limits (non-blocking, fail-fast)
//   - Workers: the number of goroutines an allocator may use for background
//     page prefaulting
//
// # Architecture
//
//	┌──────────────────────────────────────────────┐
//	│                  Controller                  │
//	├──────────────────────┬───────────────────────┤
//	│  Memory Limit        │  Node Limits          │
//	│  (weighted sem)      │  (weighted sem/node)  │
//	├──────────────────────┼───────────────────────┤
//	│  AcquireMemory       │  NodeUsage            │
//	│  ReleaseMemory       │                       │
//	│  MemoryUsage         │                       │
//	└──────────────────────┴───────────────────────┘
//
// # Memory Management
//
// AcquireMemory never blocks. It returns ErrMemoryLimitExceeded immediately
// when either the global or the node limit would be exceeded; the caller
// decides whether that is fatal (for tensor buffers it is):
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 8 << 30,
//	})
//
//	if err := rc.AcquireMemory(node, size); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(node, size)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional budgeting without nil checks everywhere.
package resource
