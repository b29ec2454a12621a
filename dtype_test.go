package qtensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat16(t *testing.T) {
	assert.Equal(t, Float16(0x3c00), NewFloat16(1))
	assert.Equal(t, Float16(0xc000), NewFloat16(-2))
	assert.Equal(t, float32(0.5), NewFloat16(0.5).Float32())
	assert.Equal(t, 2, SizeOf[Float16]())
}

func TestBFloat16(t *testing.T) {
	assert.Equal(t, BFloat16(0x3f80), NewBFloat16(1))
	assert.Equal(t, float32(-3), NewBFloat16(-3).Float32())
	assert.Equal(t, 2, SizeOf[BFloat16]())
}

func TestMatrix_HalfPrecision(t *testing.T) {
	m := NewMatrix[BFloat16](WithAllocator(newTracker()))
	defer m.Release()
	require.NoError(t, m.Resize(2, 3))

	m.Set(1, 2, NewBFloat16(1.5))
	assert.Equal(t, float32(1.5), m.At(1, 2).Float32())
}
