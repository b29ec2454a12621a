package quant

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/qtensor/internal/mem"
)

// PerTensor is the live variant of the per-tensor schemes.
type PerTensor struct {
	Scale     float32
	ZeroPoint int32
}

// PerChannel is the live variant of the per-channel schemes.
//
// The arrays only grow. Their length is the capacity; entries past the
// current row count hold whatever was there before.
type PerChannel struct {
	scales     []float32
	zeroPoints []int32
}

// Capacity returns the number of rows the scale array can describe.
func (c *PerChannel) Capacity() int { return len(c.scales) }

// Scales returns the scale array.
func (c *PerChannel) Scales() []float32 { return c.scales }

// ZeroPoints returns the zero point array. It is nil until the scheme is
// affine and the scales have a capacity.
func (c *PerChannel) ZeroPoints() []int32 { return c.zeroPoints }

// variant is implemented by *PerTensor and *PerChannel.
type variant interface {
	variant()
}

func (*PerTensor) variant()  {}
func (*PerChannel) variant() {}

// Params is the quantization metadata of one buffer. The zero value is Undefined.
type Params struct {
	scheme Scheme
	v      variant
}

// Scheme returns the active scheme.
func (p *Params) Scheme() Scheme { return p.scheme }

// SetScheme switches the active scheme.
//
//	Undefined   -> per-tensor:  scale 1, zero point 0
//	Undefined   -> per-channel: empty arrays
//	per-channel -> per-tensor:  arrays dropped, scale 1, zero point 0
//	per-channel -> per-channel: arrays and values kept; turning affine adds
//	                            zeroed zero points for the current capacity
//	per-tensor  -> per-tensor:  scalars kept
//	per-tensor  -> per-channel: empty arrays
//
// Switching a quantized scheme back to Undefined fails with
// ErrUndefinedTransition. Undefined to Undefined is a no-op.
func (p *Params) SetScheme(s Scheme) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownScheme, uint8(s))
	}

	switch {
	case s == Undefined:
		if p.scheme != Undefined {
			return fmt.Errorf("%w: from %s", ErrUndefinedTransition, p.scheme)
		}
		return nil
	case s.IsPerTensor():
		if !p.scheme.IsPerTensor() {
			p.v = &PerTensor{Scale: 1}
		}
	case s.IsPerChannel():
		if !p.scheme.IsPerChannel() {
			p.v = &PerChannel{}
		}
		pc := p.v.(*PerChannel)
		if s.IsAffine() && len(pc.zeroPoints) < len(pc.scales) {
			pc.zeroPoints = mem.AllocAlignedInt32(len(pc.scales))
		}
	}

	p.scheme = s
	return nil
}

// EnsureChannels grows the per-channel arrays to hold at least rows entries.
// It is a no-op for every other scheme. Zero points are only allocated under
// PerChannelAffine. Grown arrays start zeroed; old values are not copied.
//
// It reports the number of bytes newly allocated.
func (p *Params) EnsureChannels(rows int) int {
	pc, ok := p.v.(*PerChannel)
	if !ok || !p.scheme.IsPerChannel() || rows <= 0 {
		return 0
	}

	grown := 0
	if len(pc.scales) < rows {
		pc.scales = mem.AllocAlignedFloat32(rows)
		grown += rows * 4
	}
	if p.scheme.IsAffine() && len(pc.zeroPoints) < rows {
		pc.zeroPoints = mem.AllocAlignedInt32(rows)
		grown += rows * 4
	}
	return grown
}

// Scales returns the scale storage: a one element slice aliasing the scalar
// for per-tensor schemes, the full array for per-channel schemes, or nil
// when Undefined.
func (p *Params) Scales() []float32 {
	switch v := p.v.(type) {
	case *PerTensor:
		return unsafe.Slice(&v.Scale, 1)
	case *PerChannel:
		return v.scales
	default:
		return nil
	}
}

// ZeroPoint returns the zero point storage, shaped like Scales.
func (p *Params) ZeroPoint() []int32 {
	switch v := p.v.(type) {
	case *PerTensor:
		return unsafe.Slice(&v.ZeroPoint, 1)
	case *PerChannel:
		return v.zeroPoints
	default:
		return nil
	}
}

// PerTensor returns the per-tensor variant if it is live.
func (p *Params) PerTensor() (*PerTensor, bool) {
	v, ok := p.v.(*PerTensor)
	return v, ok
}

// PerChannel returns the per-channel variant if it is live.
func (p *Params) PerChannel() (*PerChannel, bool) {
	v, ok := p.v.(*PerChannel)
	return v, ok
}

// Capacity returns the per-channel capacity, or 0 for other schemes.
func (p *Params) Capacity() int {
	if pc, ok := p.v.(*PerChannel); ok {
		return pc.Capacity()
	}
	return 0
}

// Release drops the per-channel arrays. The scheme is kept, so a later
// EnsureChannels allocates again. Per-tensor scalars are left untouched.
func (p *Params) Release() {
	if pc, ok := p.v.(*PerChannel); ok {
		pc.scales = nil
		pc.zeroPoints = nil
	}
}
