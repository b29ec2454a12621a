package numa

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
)

// SysfsNodePath is where Linux exposes the NUMA node directories.
const SysfsNodePath = "/sys/devices/system/node"

// Topology describes the memory nodes of the machine and the CPUs attached to them.
type Topology struct {
	nodes    []int
	nodeCPUs map[int][]int
	cpuNode  map[int]int
}

// DetectTopology reads the NUMA topology from sysfs.
func DetectTopology() (*Topology, error) {
	return LoadTopology(SysfsNodePath)
}

// LoadTopology reads the NUMA topology from a sysfs-style node directory.
func LoadTopology(root string) (*Topology, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTopology, err)
	}

	topo := &Topology{
		nodeCPUs: make(map[int][]int),
		cpuNode:  make(map[int]int),
	}

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "node") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(entry.Name(), "node"))
		if err != nil {
			continue
		}
		topo.nodes = append(topo.nodes, id)

		data, err := os.ReadFile(filepath.Join(root, entry.Name(), "cpulist"))
		if err != nil {
			// Memory-only nodes (CXL, HBM) have no cpulist.
			continue
		}
		cpus, err := ParseCPUList(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %w", ErrNoTopology, id, err)
		}
		topo.nodeCPUs[id] = cpus
		for _, cpu := range cpus {
			topo.cpuNode[cpu] = id
		}
	}

	if len(topo.nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes under %s", ErrNoTopology, root)
	}
	slices.Sort(topo.nodes)
	return topo, nil
}

// SingleNode returns a topology with one node (0) owning every CPU.
// Used when the machine exposes no NUMA information.
func SingleNode() *Topology {
	n := runtime.NumCPU()
	cpus := make([]int, n)
	cpuNode := make(map[int]int, n)
	for i := range cpus {
		cpus[i] = i
		cpuNode[i] = 0
	}
	return &Topology{
		nodes:    []int{0},
		nodeCPUs: map[int][]int{0: cpus},
		cpuNode:  cpuNode,
	}
}

// Nodes returns the node ids in ascending order.
func (t *Topology) Nodes() []int { return slices.Clone(t.nodes) }

// NumNodes returns the number of nodes.
func (t *Topology) NumNodes() int { return len(t.nodes) }

// NodeCPUs returns the CPUs attached to a node.
func (t *Topology) NodeCPUs(node int) []int { return slices.Clone(t.nodeCPUs[node]) }

// HasNode reports whether node is part of the topology.
func (t *Topology) HasNode(node int) bool {
	_, ok := slices.BinarySearch(t.nodes, node)
	return ok
}

// CPUNode returns the node a CPU belongs to.
func (t *Topology) CPUNode(cpu int) (int, bool) {
	node, ok := t.cpuNode[cpu]
	return node, ok
}

// CurrentNode returns the node of the CPU the calling goroutine runs on,
// or -1 if it cannot be determined. The answer may be stale as soon as it
// is returned; goroutines migrate.
func (t *Topology) CurrentNode() int {
	cpu := CurrentCPU()
	if cpu < 0 {
		return -1
	}
	if node, ok := t.cpuNode[cpu]; ok {
		return node
	}
	return -1
}

// ParseCPUList parses the kernel cpulist format, e.g. "0-3,8,10-11".
func ParseCPUList(s string) ([]int, error) {
	var cpus []int
	if s == "" {
		return cpus, nil
	}
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("invalid cpu list %q: %w", s, err)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(hi); err != nil {
				return nil, fmt.Errorf("invalid cpu list %q: %w", s, err)
			}
		}
		if end < start {
			return nil, fmt.Errorf("invalid cpu list %q: descending range", s)
		}
		for cpu := start; cpu <= end; cpu++ {
			cpus = append(cpus, cpu)
		}
	}
	return cpus, nil
}

// FormatCPUList renders cpus in the kernel cpulist format. cpus must be
// sorted ascending.
func FormatCPUList(cpus []int) string {
	var sb strings.Builder
	for i := 0; i < len(cpus); {
		j := i
		for j+1 < len(cpus) && cpus[j+1] == cpus[j]+1 {
			j++
		}
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(cpus[i]))
		if j > i {
			sb.WriteByte('-')
			sb.WriteString(strconv.Itoa(cpus[j]))
		}
		i = j + 1
	}
	return sb.String()
}
