// Package qtensor provides quantization-aware storage for the operands of
// inference kernels.
//
// qtensor manages buffers, shapes and quantization metadata. It does no
// arithmetic: kernels read and write the slices it hands out.
//
// # Quick Start
//
//	m := qtensor.NewMatrix[float32]()
//	defer m.Release()
//
//	if err := m.Resize(128, 768); err != nil {
//	    return err // *qtensor.AllocationError
//	}
//	row := m.Row(3) // len 768
//
// # Buffer Reuse
//
// Owned storage only grows. Resizing to a shape that fits in the current
// capacity keeps the buffer, so an inference loop with varying sequence
// lengths allocates only when it sees a new maximum:
//
//	for _, seq := range lengths {
//	    _ = m.Resize(seq, hidden) // reallocates only on a new peak
//	}
//
// Memory is sized to the largest shape ever requested and never trimmed.
// Call Release to give it back.
//
// # Ownership and Views
//
// A Matrix either owns its buffer or borrows one (WrapMatrix, Assign).
// Sub, RowRange and Dilate create views that alias the parent's buffer:
//
//	top := m.Sub(0, 4, 0, 64)  // rows 0..3, columns 0..63
//	even := m.Dilate(0, 2)     // rows 0, 2, 4, ...
//
// Views never free memory and cannot be resized. Using a view after its
// owner released or reallocated the buffer panics with ErrStaleView.
//
// # Quantization
//
// Matrices of int8, uint8 or W8A8 carry a quant.Scheme with scales and
// zero points:
//
//	w := qtensor.NewMatrix[int8]()
//	w.SetQScheme(quant.PerChannelSymmetric)
//	_ = w.Resize(out, in)
//	scales := w.Scales() // one per row
//
// # Allocation
//
// Owned buffers come from numa.Default, a socket-local allocator backed by
// anonymous mappings, unless WithAllocator says otherwise. Allocation
// failures are returned as *AllocationError and are never retried.
// Misuse (resizing a view, stride < cols, ...) panics with an error wrapping
// ErrContractViolation.
package qtensor
