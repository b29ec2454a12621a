package qtensor

import (
	"unsafe"

	"github.com/hupe1980/qtensor/internal/half"
)

// Element is the set of element types a buffer can hold.
type Element interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Float16 is an IEEE-754 binary16 value stored as its bit pattern.
type Float16 uint16

// NewFloat16 rounds f to the nearest Float16.
func NewFloat16(f float32) Float16 { return Float16(half.F32ToF16(f)) }

// Float32 widens h.
func (h Float16) Float32() float32 { return half.F16ToF32(uint16(h)) }

// BFloat16 is a bfloat16 value stored as its bit pattern.
type BFloat16 uint16

// NewBFloat16 rounds f to the nearest BFloat16.
func NewBFloat16(f float32) BFloat16 { return BFloat16(half.F32ToBF16(f)) }

// Float32 widens h.
func (h BFloat16) Float32() float32 { return half.BF16ToF32(uint16(h)) }

// W8A8 is an int8 weight used with int8 activations.
type W8A8 int8

// IsQuantizable reports whether T carries quantization metadata.
// Only int8, uint8 and W8A8 do.
func IsQuantizable[T Element]() bool {
	var zero T
	switch any(zero).(type) {
	case int8, uint8, W8A8:
		return true
	default:
		return false
	}
}

// SizeOf returns the size of T in bytes.
func SizeOf[T Element]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
