package conv

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrOverflow is returned when a product does not fit in an int.
var ErrOverflow = errors.New("integer overflow")

// MulInt returns a*b for non-negative operands, or ErrOverflow.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: negative operand %d*%d", ErrOverflow, a, b)
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, fmt.Errorf("%w: %d*%d", ErrOverflow, a, b)
	}
	return int(lo), nil
}

// RoundUp rounds n up to the next multiple of m (m > 0), or returns
// ErrOverflow. n <= 0 yields 0.
func RoundUp(n, m int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	if n > math.MaxInt-(m-1) {
		return 0, fmt.Errorf("%w: round %d up to a multiple of %d", ErrOverflow, n, m)
	}
	return n + (m-n%m)%m, nil
}
