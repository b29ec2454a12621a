package qtensor

import (
	"github.com/hupe1980/qtensor/quant"
)

// Matrix is a row-major 2D view over a QuantBlock.
//
// Element (r, c) lives at Data()[r*Stride()+c]. Stride may exceed Cols to
// express padding or dilation.
//
// A Matrix created by Sub, RowRange or Dilate is a view: it aliases the
// buffer of another matrix and never frees it. A view remembers the
// generation of the block it aliases; once that block releases,
// reallocates or reassigns its buffer, any access through the view panics
// with ErrStaleView.
//
// A Matrix is not safe for concurrent use, and neither is a matrix together
// with its views.
type Matrix[T Element] struct {
	rows, cols, stride int
	block              *QuantBlock[T]

	// Set for views: the owning block and its generation at view creation.
	src    *QuantBlock[T]
	srcGen uint64
}

// NewMatrix returns an empty matrix that owns its storage.
func NewMatrix[T Element](optFns ...Option) *Matrix[T] {
	return &Matrix[T]{block: NewQuantBlock[T](optFns...)}
}

// WrapMatrix returns a matrix over a caller supplied buffer.
// The matrix never frees buf and cannot be resized.
func WrapMatrix[T Element](buf []T, rows, cols, stride int, optFns ...Option) *Matrix[T] {
	checkShape(rows, cols, stride)
	return &Matrix[T]{
		rows:   rows,
		cols:   cols,
		stride: stride,
		block:  BorrowQuantBlock(buf, optFns...),
	}
}

// Share returns a second handle on the same storage. Resizing or releasing
// through either handle affects both.
func (m *Matrix[T]) Share() *Matrix[T] {
	m.checkView()
	return &Matrix[T]{
		rows:   m.rows,
		cols:   m.cols,
		stride: m.stride,
		block:  m.block,
		src:    m.src,
		srcGen: m.srcGen,
	}
}

// Sub returns a view of rows [startRow, startRow+rows) and columns
// [startCol, startCol+cols). The view has the parent's stride.
func (m *Matrix[T]) Sub(startRow, rows, startCol, cols int) *Matrix[T] {
	if startRow < 0 || rows < 0 || startRow+rows > m.rows ||
		startCol < 0 || cols < 0 || startCol+cols > m.cols {
		panic(contractViolation("sub view [%d+%d, %d+%d] of %dx%d matrix",
			startRow, rows, startCol, cols, m.rows, m.cols))
	}
	return m.view(startRow*m.stride+startCol, rows, cols, m.stride)
}

// RowRange returns a view of rows [startRow, startRow+rows) with all columns.
func (m *Matrix[T]) RowRange(startRow, rows int) *Matrix[T] {
	if startRow < 0 || rows < 0 || startRow+rows > m.rows {
		panic(contractViolation("row range [%d+%d] of %d rows", startRow, rows, m.rows))
	}
	return m.view(startRow*m.stride, rows, m.cols, m.stride)
}

// Dilate returns a view of rows startRow, startRow+d, startRow+2d, ...
// The view has Rows()/d rows and stride Stride()*d. startRow must be smaller
// than d, which keeps every selected row inside the parent.
func (m *Matrix[T]) Dilate(startRow, d int) *Matrix[T] {
	if d < 1 || startRow < 0 || startRow >= d || (m.rows > 0 && startRow >= m.rows) {
		panic(contractViolation("dilation %d from row %d of %d rows", d, startRow, m.rows))
	}
	return m.view(startRow*m.stride, m.rows/d, m.cols, m.stride*d)
}

func (m *Matrix[T]) view(offset, rows, cols, stride int) *Matrix[T] {
	data := m.Data()

	var buf []T
	if rows > 0 && cols > 0 {
		buf = data[offset:]
	}

	v := &Matrix[T]{
		rows:   rows,
		cols:   cols,
		stride: stride,
		block: &QuantBlock[T]{Block: Block[T]{
			data:      buf,
			ownership: Borrowed,
			opts:      m.block.opts,
		}},
	}

	// Views of views stamp against the block that owns the memory.
	if m.src != nil {
		v.src, v.srcGen = m.src, m.srcGen
	} else {
		v.src, v.srcGen = m.block, m.block.gen
	}
	return v
}

func (m *Matrix[T]) checkView() {
	if m.src != nil && m.src.gen != m.srcGen {
		panic(ErrStaleView)
	}
}

func checkShape(rows, cols, stride int) {
	if rows < 0 || cols < 0 || stride < cols {
		panic(contractViolation("invalid shape %dx%d stride %d", rows, cols, stride))
	}
}

// Rows returns the number of rows.
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix[T]) Cols() int { return m.cols }

// Stride returns the distance in elements between the starts of two rows.
func (m *Matrix[T]) Stride() int { return m.stride }

// IsView reports whether the matrix borrows its buffer.
func (m *Matrix[T]) IsView() bool { return m.block.Ownership() == Borrowed }

// Data returns the underlying buffer starting at element (0, 0).
func (m *Matrix[T]) Data() []T {
	m.checkView()
	return m.block.Data()
}

// Row returns row i. Only Go's slice bounds are checked.
func (m *Matrix[T]) Row(i int) []T {
	off := i * m.stride
	return m.Data()[off : off+m.cols]
}

// At returns element (r, c).
func (m *Matrix[T]) At(r, c int) T { return m.Data()[r*m.stride+c] }

// Set sets element (r, c).
func (m *Matrix[T]) Set(r, c int, v T) { m.Data()[r*m.stride+c] = v }

// Ptr returns a pointer to element (r, c).
func (m *Matrix[T]) Ptr(r, c int) *T { return &m.Data()[r*m.stride+c] }

// Resize sets the shape to rows x cols with no padding (stride = cols).
// A non-positive dimension releases the matrix. The buffer is only
// reallocated when the new shape needs more elements than it holds.
//
// Resize panics with ErrContractViolation on a view.
func (m *Matrix[T]) Resize(rows, cols int) error {
	return m.ResizeStride(rows, cols, cols)
}

// ResizeStride is Resize with a caller chosen stride, which must be >= cols.
func (m *Matrix[T]) ResizeStride(rows, cols, stride int) error {
	if m.IsView() {
		panic(contractViolation("resize of a view"))
	}
	if rows <= 0 || cols <= 0 || stride <= 0 {
		m.Release()
		return nil
	}
	if stride < cols {
		panic(contractViolation("stride %d < cols %d", stride, cols))
	}

	m.rows, m.cols, m.stride = rows, cols, stride
	if err := m.block.Resize(rows, cols, stride); err != nil {
		m.rows, m.cols, m.stride = 0, 0, 0
		return err
	}
	return nil
}

// Assign makes the matrix borrow buf with the given shape. An owned buffer
// is freed first.
func (m *Matrix[T]) Assign(buf []T, rows, cols, stride int) {
	checkShape(rows, cols, stride)
	m.block.Assign(buf)
	m.src = nil
	m.rows, m.cols, m.stride = rows, cols, stride
}

// Release zeroes the shape and releases the storage. Only owned buffers are
// freed; releasing a view never touches the memory it aliases.
func (m *Matrix[T]) Release() {
	m.rows, m.cols, m.stride = 0, 0, 0
	m.block.Release()
	m.src = nil
}

// SetQScheme switches the quantization scheme of the storage.
func (m *Matrix[T]) SetQScheme(s quant.Scheme) { m.block.SetQScheme(s) }

// QScheme returns the quantization scheme of the storage.
func (m *Matrix[T]) QScheme() quant.Scheme { return m.block.QScheme() }

// Scales returns the quantization scales. See QuantBlock.Scales.
func (m *Matrix[T]) Scales() []float32 { return m.block.Scales() }

// ZeroPoint returns the quantization zero points. See QuantBlock.ZeroPoint.
func (m *Matrix[T]) ZeroPoint() []int32 { return m.block.ZeroPoint() }
