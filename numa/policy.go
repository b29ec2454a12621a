package numa

import (
	"fmt"
	"strings"
)

// Policy selects the memory node an allocation is placed on.
type Policy int

const (
	// PolicyLocal prefers the node of the CPU performing the allocation.
	PolicyLocal Policy = iota
	// PolicyBind places every allocation on a fixed node.
	PolicyBind
	// PolicyInterleave spreads pages round-robin across all nodes.
	PolicyInterleave
	// PolicyNone leaves placement to the kernel.
	PolicyNone
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyLocal:
		return "local"
	case PolicyBind:
		return "bind"
	case PolicyInterleave:
		return "interleave"
	case PolicyNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a policy name to a Policy. The empty string is PolicyLocal.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return PolicyLocal, nil
	case "bind":
		return PolicyBind, nil
	case "interleave":
		return PolicyInterleave, nil
	case "none", "off":
		return PolicyNone, nil
	default:
		return 0, fmt.Errorf("numa: unknown policy %q", s)
	}
}
