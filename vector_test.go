package qtensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_Resize(t *testing.T) {
	tr := newTracker()
	v := NewVector[float32](WithAllocator(tr))
	defer v.Release()

	require.NoError(t, v.Resize(5))
	assert.Equal(t, 5, v.Size())
	assert.Equal(t, 16, v.Capacity())
	assert.Len(t, v.Data(), 5)
	assert.Equal(t, 16*4, tr.LiveBytes())

	p := &v.Data()[0]
	require.NoError(t, v.Resize(16))
	assert.Same(t, p, &v.Data()[0])
	require.NoError(t, v.Resize(3))
	assert.Same(t, p, &v.Data()[0])
	assert.Equal(t, 16, v.Capacity())
	assert.Equal(t, 1, tr.AllocCalls())

	require.NoError(t, v.Resize(17))
	assert.Equal(t, 32, v.Capacity())
	assert.Equal(t, 17, v.Size())
	assert.Equal(t, 2, tr.AllocCalls())
	assert.Equal(t, 1, tr.FreeCalls())
}

func TestVector_SetZero(t *testing.T) {
	v := NewVector[int64](WithAllocator(newTracker()))
	defer v.Release()

	require.NoError(t, v.Resize(16))
	for i := range v.Data() {
		v.Data()[i] = int64(i + 1)
	}

	require.NoError(t, v.Resize(5))
	v.SetZero()
	assert.Equal(t, []int64{0, 0, 0, 0, 0}, v.Data())

	// Only the logical size is cleared.
	require.NoError(t, v.Resize(16))
	assert.Equal(t, int64(6), v.Data()[5])
	assert.Equal(t, int64(16), v.Data()[15])
}

func TestVector_Release(t *testing.T) {
	tr := newTracker()
	v := NewVector[Float16](WithAllocator(tr))

	require.NoError(t, v.Resize(40))
	require.NoError(t, v.Resize(0))
	assert.Zero(t, v.Size())
	assert.Zero(t, v.Capacity())
	assert.Nil(t, v.Data())
	assert.Equal(t, 1, tr.FreeCalls())

	v.Release()
	v.SetZero()
	assert.Equal(t, 1, tr.FreeCalls())
	assert.Zero(t, tr.LiveCount())
}

func TestVector_AllocationFailure(t *testing.T) {
	tr := newTracker()
	v := NewVector[float32](WithAllocator(tr))
	require.NoError(t, v.Resize(8))

	tr.FailNext(1)
	err := v.Resize(100)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.Zero(t, v.Size())
	assert.Zero(t, v.Capacity())
	assert.Nil(t, v.Data())
	assert.Zero(t, tr.LiveCount())
}

func TestVector_TooLarge(t *testing.T) {
	tr := newTracker()
	v := NewVector[float32](WithAllocator(tr))
	require.NoError(t, v.Resize(20))

	for _, size := range []int{math.MaxInt, math.MaxInt - 3, math.MaxInt / 2} {
		err := v.Resize(size)
		assert.ErrorIs(t, err, ErrTooLarge, "size %d", size)
		assert.Equal(t, 20, v.Size())
		assert.Equal(t, 32, v.Capacity())
		assert.Len(t, v.Data(), 20)
	}

	assert.Equal(t, 1, tr.AllocCalls())
	assert.Zero(t, tr.FreeCalls())
}

func BenchmarkVectorResize(b *testing.B) {
	v := NewVector[float32](WithAllocator(newTracker()))
	defer v.Release()
	_ = v.Resize(4096)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.Resize(1 + i%4096)
	}
}
