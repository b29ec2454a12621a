package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of every slice returned by this package.
const Alignment = 64

// AllocAligned allocates a zeroed byte slice of the given size with 64-byte alignment.
// Returns nil for size <= 0.
//
// The underlying array is over-allocated by Alignment bytes and kept alive by
// the returned slice. The capacity is clamped to size so appends never run
// into the padding.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := int((Alignment - (addr & (Alignment - 1))) & (Alignment - 1))

	return buf[offset : offset+size : offset+size]
}

// AllocAlignedFloat32 allocates a zeroed float32 slice of n elements with 64-byte alignment.
func AllocAlignedFloat32(n int) []float32 {
	if n <= 0 {
		return nil
	}
	b := AllocAligned(n * 4)
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), n) //nolint:gosec // unsafe is required for memory alignment
}

// AllocAlignedInt32 allocates a zeroed int32 slice of n elements with 64-byte alignment.
func AllocAlignedInt32(n int) []int32 {
	if n <= 0 {
		return nil
	}
	b := AllocAligned(n * 4)
	return unsafe.Slice((*int32)(unsafe.Pointer(&b[0])), n) //nolint:gosec // unsafe is required for memory alignment
}
