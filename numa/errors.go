package numa

import (
	"errors"

	"github.com/hupe1980/qtensor/internal/resource"
)

var (
	// ErrInvalidSize is returned when Allocate is called with a non-positive size.
	ErrInvalidSize = errors.New("numa: invalid allocation size")
	// ErrUnknownBuffer is returned when Free is called with a buffer this allocator did not hand out.
	ErrUnknownBuffer = errors.New("numa: unknown buffer")
	// ErrSizeMismatch is returned when Free is called with a length different from the allocated size.
	ErrSizeMismatch = errors.New("numa: free size does not match allocation size")
	// ErrNoTopology is returned when the NUMA topology cannot be read.
	ErrNoTopology = errors.New("numa: topology not available")
	// ErrInvalidNode is returned when a node is not part of the topology.
	ErrInvalidNode = errors.New("numa: invalid node")
	// ErrInjectedFailure is returned by a Tracker with pending injected failures.
	ErrInjectedFailure = errors.New("numa: injected allocation failure")
	// ErrMemoryLimitExceeded is returned when an allocation would exceed the configured budget.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)
