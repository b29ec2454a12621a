package qtensor

import (
	"github.com/hupe1980/qtensor/quant"
)

// QuantBlock is a Block that also carries quantization parameters.
//
// For element types that are not quantizable the scheme stays Undefined
// and QuantBlock behaves exactly like Block.
type QuantBlock[T Element] struct {
	Block[T]
	params quant.Params
}

// NewQuantBlock returns an empty owned block with an Undefined scheme.
func NewQuantBlock[T Element](optFns ...Option) *QuantBlock[T] {
	return &QuantBlock[T]{Block: Block[T]{opts: applyOptions(optFns)}}
}

// BorrowQuantBlock returns a block referencing buf with an Undefined scheme.
func BorrowQuantBlock[T Element](buf []T, optFns ...Option) *QuantBlock[T] {
	return &QuantBlock[T]{Block: Block[T]{
		data:      buf,
		ownership: Borrowed,
		opts:      applyOptions(optFns),
	}}
}

// Resize resizes the main buffer and, under a per-channel scheme, makes sure
// there is a scale (and for affine a zero point) for each of the rows.
func (q *QuantBlock[T]) Resize(rows, cols, stride int) error {
	if err := q.Block.Resize(rows, cols, stride); err != nil {
		return err
	}
	if grown := q.params.EnsureChannels(rows); grown > 0 {
		q.opts.logger.Debug("channel parameters grown",
			"scheme", q.params.Scheme().String(),
			"rows", rows,
			"bytes", grown,
		)
	}
	return nil
}

// QScheme returns the active quantization scheme.
func (q *QuantBlock[T]) QScheme() quant.Scheme { return q.params.Scheme() }

// SetQScheme switches the quantization scheme. See quant.Params.SetScheme
// for what happens to existing parameters.
//
// It panics with ErrContractViolation when T is not quantizable or when a
// quantized scheme is switched back to Undefined.
func (q *QuantBlock[T]) SetQScheme(s quant.Scheme) {
	if !IsQuantizable[T]() {
		if s == quant.Undefined {
			return
		}
		var zero T
		panic(contractViolation("element type %T cannot be quantized", zero))
	}
	if err := q.params.SetScheme(s); err != nil {
		panic(contractViolation("set scheme %s: %v", s, err))
	}
}

// Scales returns the scales: one element aliasing the scalar for per-tensor
// schemes, at least one per row for per-channel schemes, nil otherwise.
func (q *QuantBlock[T]) Scales() []float32 { return q.params.Scales() }

// ZeroPoint returns the zero points, shaped like Scales.
func (q *QuantBlock[T]) ZeroPoint() []int32 { return q.params.ZeroPoint() }

// Release frees the main buffer if owned and drops per-channel parameters.
// The scheme is kept.
func (q *QuantBlock[T]) Release() {
	q.Block.Release()
	q.params.Release()
}
