//go:build !linux

package numa

// CurrentCPU returns -1; CPU lookup is only implemented on Linux.
func CurrentCPU() int { return -1 }

func mbind([]byte, int, []int) error { return nil }

func bindMode(Policy) int { return 0 }
