package qtensor

import (
	"fmt"

	"github.com/hupe1980/qtensor/internal/conv"
)

// vectorAlign is the capacity granularity of a Vector, in elements.
const vectorAlign = 16

// Vector is a 1D owned buffer.
//
// Capacity only grows and is always a multiple of 16 elements.
// A Vector is not safe for concurrent use.
type Vector[T Element] struct {
	block Block[T]
	size  int
}

// NewVector returns an empty vector.
func NewVector[T Element](optFns ...Option) *Vector[T] {
	return &Vector[T]{block: Block[T]{opts: applyOptions(optFns)}}
}

// Resize sets the logical size. A non-positive size releases the vector.
// The buffer is reallocated only when size exceeds the capacity; the old
// contents are not preserved in that case. A size whose byte count does not
// fit in an int fails with ErrTooLarge and leaves the vector unchanged.
func (v *Vector[T]) Resize(size int) error {
	if size <= 0 {
		v.Release()
		return nil
	}
	n, err := conv.RoundUp(size, vectorAlign)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTooLarge, err)
	}
	// Capacity is a multiple of vectorAlign, so this only reallocates when
	// size exceeds it.
	if _, err := v.block.grow(n); err != nil {
		if v.block.Capacity() < v.size {
			v.size = 0
		}
		return err
	}
	v.size = size
	return nil
}

// SetZero zeroes the first Size() elements.
func (v *Vector[T]) SetZero() { clear(v.Data()) }

// Data returns the first Size() elements.
func (v *Vector[T]) Data() []T {
	data := v.block.Data()
	if data == nil {
		return nil
	}
	return data[:v.size]
}

// Size returns the logical size.
func (v *Vector[T]) Size() int { return v.size }

// Capacity returns the number of allocated elements.
func (v *Vector[T]) Capacity() int { return v.block.Capacity() }

// Release frees the buffer and resets size and capacity to 0.
func (v *Vector[T]) Release() {
	v.size = 0
	v.block.Release()
}
