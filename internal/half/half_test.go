package half

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestF16_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		bits uint16
		val  float32
	}{
		{"zero", 0x0000, 0},
		{"one", 0x3C00, 1},
		{"minus two", 0xC000, -2},
		{"half", 0x3800, 0.5},
		{"max", 0x7BFF, 65504},
		{"min subnormal", 0x0001, float32(math.Ldexp(1, -24))},
		{"inf", 0x7C00, float32(math.Inf(1))},
		{"-inf", 0xFC00, float32(math.Inf(-1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.val, F16ToF32(tt.bits))
			assert.Equal(t, tt.bits, F32ToF16(tt.val))
		})
	}
}

func TestF16_NegativeZero(t *testing.T) {
	negZero := float32(math.Copysign(0, -1))
	assert.Equal(t, uint16(0x8000), F32ToF16(negZero))
	assert.Equal(t, math.Float32bits(negZero), math.Float32bits(F16ToF32(0x8000)))
}

func TestF16_NaN(t *testing.T) {
	assert.True(t, math.IsNaN(float64(F16ToF32(0x7E00))))

	h := F32ToF16(float32(math.NaN()))
	assert.Equal(t, uint16(0x7C00), h&0x7C00)
	assert.NotZero(t, h&0x03FF)
}

func TestF16_Rounding(t *testing.T) {
	// 1 + 2^-11 is halfway between 1 and the next half; ties go to even (1).
	assert.Equal(t, uint16(0x3C00), F32ToF16(1+float32(math.Ldexp(1, -11))))
	// Slightly above halfway rounds up.
	assert.Equal(t, uint16(0x3C01), F32ToF16(1+float32(math.Ldexp(1, -11))+float32(math.Ldexp(1, -20))))
	// Overflow.
	assert.Equal(t, uint16(0x7C00), F32ToF16(70000))
	// Rounding up into the infinity exponent.
	assert.Equal(t, uint16(0x7C00), F32ToF16(65520))
	// Underflow.
	assert.Equal(t, uint16(0), F32ToF16(1e-10))
}

func TestF16_RoundTripAllFinite(t *testing.T) {
	for h := 0; h < 0x10000; h++ {
		bits := uint16(h)
		if bits&0x7C00 == 0x7C00 {
			continue
		}
		if got := F32ToF16(F16ToF32(bits)); got != bits {
			t.Fatalf("round trip %#04x -> %#04x", bits, got)
		}
	}
}

func TestBF16(t *testing.T) {
	assert.Equal(t, uint16(0x3F80), F32ToBF16(1))
	assert.Equal(t, float32(1), BF16ToF32(0x3F80))
	assert.Equal(t, float32(-2), BF16ToF32(F32ToBF16(-2)))

	// 1 + 2^-8 is halfway between two bfloat16 values; ties go to even.
	assert.Equal(t, uint16(0x3F80), F32ToBF16(1+float32(math.Ldexp(1, -8))))
	assert.Equal(t, uint16(0x3F81), F32ToBF16(1+float32(math.Ldexp(1, -8))+float32(math.Ldexp(1, -15))))

	assert.True(t, math.IsNaN(float64(BF16ToF32(F32ToBF16(float32(math.NaN()))))))
	assert.Equal(t, uint16(0x7F80), F32ToBF16(float32(math.Inf(1))))
}
