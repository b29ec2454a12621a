package numa

import (
	"log/slog"
	"os"
	"sync"
)

// PolicyEnv names the environment variable read by Default.
const PolicyEnv = "QTENSOR_NUMA_POLICY"

var defaultAllocator = sync.OnceValue(func() Allocator {
	policy, err := ParsePolicy(os.Getenv(PolicyEnv))
	if err != nil {
		slog.Warn("ignoring invalid numa policy", "env", PolicyEnv, "error", err)
		policy = PolicyLocal
	}

	a, err := NewMmapAllocator(WithPolicy(policy))
	if err != nil {
		slog.Warn("numa allocator unavailable, using heap", "error", err)
		return NewHeapAllocator()
	}

	// Platforms without anonymous mappings fail here rather than on first use.
	probe, err := a.Allocate(1)
	if err != nil {
		slog.Warn("anonymous mappings unavailable, using heap", "error", err)
		return NewHeapAllocator()
	}
	_ = a.Free(probe)

	return a
})

// Default returns the process-wide socket-local allocator.
//
// The policy is read once from QTENSOR_NUMA_POLICY: local (default),
// interleave, none, or bind (node 0). If anonymous mappings are unavailable
// a HeapAllocator is returned instead.
func Default() Allocator {
	return defaultAllocator()
}
