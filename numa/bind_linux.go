//go:build linux

package numa

import (
	"slices"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Memory policy modes from <linux/mempolicy.h>.
const (
	mpolPreferred  = 1
	mpolBind       = 2
	mpolInterleave = 3
)

// CurrentCPU returns the CPU the calling thread runs on, or -1.
func CurrentCPU() int {
	var cpu, node uint32
	_, _, errno := unix.Syscall(unix.SYS_GETCPU,
		uintptr(unsafe.Pointer(&cpu)),  //nolint:gosec // syscall argument
		uintptr(unsafe.Pointer(&node)), //nolint:gosec // syscall argument
		0)
	if errno != 0 {
		return -1
	}
	return int(cpu)
}

// mbind applies a memory policy to a page-aligned range.
func mbind(buf []byte, mode int, nodes []int) error {
	if len(buf) == 0 || len(nodes) == 0 {
		return nil
	}

	maxNode := slices.Max(nodes)
	mask := make([]uint64, maxNode/64+1)
	for _, n := range nodes {
		mask[n/64] |= 1 << (uint(n) % 64)
	}

	_, _, errno := unix.Syscall6(unix.SYS_MBIND,
		uintptr(unsafe.Pointer(&buf[0])), //nolint:gosec // syscall argument
		uintptr(len(buf)),
		uintptr(mode),
		uintptr(unsafe.Pointer(&mask[0])), //nolint:gosec // syscall argument
		uintptr(len(mask)*64+1),
		0)
	if errno != 0 {
		return errno
	}
	return nil
}

func bindMode(p Policy) int {
	switch p {
	case PolicyBind:
		return mpolBind
	case PolicyInterleave:
		return mpolInterleave
	default:
		return mpolPreferred
	}
}
