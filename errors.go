package qtensor

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocationFailed is matched by every *AllocationError.
	ErrAllocationFailed = errors.New("qtensor: allocation failed")

	// ErrContractViolation is wrapped by the value of every panic raised for
	// misuse: resizing a borrowed buffer or a view, stride < cols, invalid
	// view bounds, or an unsupported quantization scheme change.
	ErrContractViolation = errors.New("qtensor: contract violation")

	// ErrStaleView is the panic value when a view is used after the block it
	// aliases released, reallocated or reassigned its buffer.
	ErrStaleView = errors.New("qtensor: stale view")

	// ErrTooLarge is returned when a shape does not fit in memory arithmetic.
	ErrTooLarge = errors.New("qtensor: size too large")
)

// AllocationError indicates the allocator could not provide a buffer.
//
// The block involved has already freed its previous buffer and is empty.
// The allocator's error can be accessed via errors.Unwrap.
type AllocationError struct {
	Bytes int
	cause error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("qtensor: allocate %d bytes: %v", e.Bytes, e.cause)
}

func (e *AllocationError) Unwrap() error { return e.cause }

// Is makes errors.Is(err, ErrAllocationFailed) hold.
func (e *AllocationError) Is(target error) bool { return target == ErrAllocationFailed }

func contractViolation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrContractViolation, fmt.Sprintf(format, args...))
}
