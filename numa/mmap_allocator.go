package numa

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/hupe1980/qtensor/internal/mmap"
	"github.com/hupe1980/qtensor/internal/resource"
)

// MmapAllocator allocates socket-local, off-heap buffers from anonymous mappings.
type MmapAllocator struct {
	policy   Policy
	node     int
	prefault bool
	topo     *Topology
	logger   *slog.Logger
	reg      *registry

	policyWarn sync.Once
}

// NewMmapAllocator creates an allocator backed by anonymous mappings.
//
// The topology is detected from sysfs unless WithTopology is given. Machines
// without NUMA information are treated as a single node.
func NewMmapAllocator(optFns ...Option) (*MmapAllocator, error) {
	o := applyOptions(optFns)

	topo := o.topology
	if topo == nil {
		detected, err := DetectTopology()
		if err != nil {
			o.logger.Debug("numa topology unavailable, assuming single node", "error", err)
			detected = SingleNode()
		}
		topo = detected
	}

	if o.policy == PolicyBind && !topo.HasNode(o.node) {
		return nil, fmt.Errorf("%w: %d (nodes: %v)", ErrInvalidNode, o.node, topo.Nodes())
	}

	a := &MmapAllocator{
		policy:   o.policy,
		node:     o.node,
		prefault: o.prefault,
		topo:     topo,
		logger:   o.logger,
		reg:      newRegistry(o),
	}

	a.logger.Debug("numa allocator ready",
		"policy", a.policy.String(),
		"nodes", topo.NumNodes(),
		"prefault", a.prefault,
	)
	return a, nil
}

// Allocate maps size bytes and applies the allocator's memory policy.
// The returned slice has len == cap == size.
func (a *MmapAllocator) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	node := a.pickNode()
	if err := a.reg.reserve(node, size); err != nil {
		return nil, err
	}

	m, err := mmap.MapAnon(size)
	if err != nil {
		a.reg.unreserve(node, size)
		return nil, fmt.Errorf("numa: map %d bytes: %w", size, err)
	}

	buf := m.Bytes()
	pages := buf[:cap(buf)]

	a.bind(pages, node)

	if a.prefault {
		_ = m.Advise(mmap.AccessWillNeed)
		if err := prefault(pages, a.reg.budget.MaxWorkers()); err != nil {
			_ = m.Close()
			a.reg.unreserve(node, size)
			return nil, fmt.Errorf("numa: prefault %d bytes: %w", size, err)
		}
	}

	buf = buf[:size:size]
	a.reg.add(buf, entry{size: size, node: node, release: m.Close})
	return buf, nil
}

// Free unmaps a buffer returned by Allocate.
func (a *MmapAllocator) Free(buf []byte) error {
	return a.reg.remove(buf)
}

// Stats returns allocation statistics.
func (a *MmapAllocator) Stats() Stats {
	return a.reg.stats.snapshot()
}

// NodeUsage returns the bytes currently held on node.
func (a *MmapAllocator) NodeUsage(node int) int64 {
	return a.reg.budget.NodeUsage(node)
}

// Policy returns the node selection policy.
func (a *MmapAllocator) Policy() Policy { return a.policy }

// Topology returns the topology the allocator places memory on.
func (a *MmapAllocator) Topology() *Topology { return a.topo }

func (a *MmapAllocator) pickNode() int {
	switch a.policy {
	case PolicyBind:
		return a.node
	case PolicyLocal:
		if node := a.topo.CurrentNode(); node >= 0 {
			return node
		}
		return resource.AnyNode
	default:
		return resource.AnyNode
	}
}

func (a *MmapAllocator) bind(pages []byte, node int) {
	var nodes []int
	switch a.policy {
	case PolicyNone:
		return
	case PolicyInterleave:
		nodes = a.topo.Nodes()
	default:
		if node == resource.AnyNode {
			return
		}
		nodes = []int{node}
	}

	if err := mbind(pages, bindMode(a.policy), nodes); err != nil {
		a.policyWarn.Do(func() {
			a.logger.Warn("memory policy rejected, using default placement",
				"policy", a.policy.String(),
				"error", err,
			)
		})
	}
}
