package numa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Counts(t *testing.T) {
	tr := NewTracker(nil)

	a, err := tr.Allocate(100)
	require.NoError(t, err)
	b, err := tr.Allocate(200)
	require.NoError(t, err)

	assert.Equal(t, 2, tr.AllocCalls())
	assert.Equal(t, uint64(2), tr.LiveCount())
	assert.Equal(t, 300, tr.LiveBytes())
	assert.Equal(t, []uint32{0, 1}, tr.Leaks())

	require.NoError(t, tr.Free(a))

	assert.Equal(t, 1, tr.FreeCalls())
	assert.Equal(t, []uint32{1}, tr.Leaks())
	assert.Equal(t, 200, tr.LiveBytes())
	assert.Equal(t, uint64(2), tr.Stats().Allocs)

	require.NoError(t, tr.Free(b))
	assert.Zero(t, tr.LiveCount())
	assert.Empty(t, tr.Leaks())
}

func TestTracker_FreeErrors(t *testing.T) {
	tr := NewTracker(NewHeapAllocator())

	buf, err := tr.Allocate(64)
	require.NoError(t, err)

	assert.ErrorIs(t, tr.Free(buf[:32]), ErrSizeMismatch)
	assert.Equal(t, 1, tr.FreeErrors())
	assert.Equal(t, uint64(1), tr.LiveCount())

	require.NoError(t, tr.Free(buf))
	assert.Equal(t, 2, tr.FreeCalls())
	assert.Zero(t, tr.LiveCount())
}

func TestTracker_FailNext(t *testing.T) {
	tr := NewTracker(nil)
	tr.FailNext(2)

	_, err := tr.Allocate(10)
	assert.ErrorIs(t, err, ErrInjectedFailure)
	_, err = tr.Allocate(10)
	assert.ErrorIs(t, err, ErrInjectedFailure)

	buf, err := tr.Allocate(10)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.AllocCalls())
	assert.Equal(t, uint64(1), tr.LiveCount())
	require.NoError(t, tr.Free(buf))
}

type plainAllocator struct{}

func (plainAllocator) Allocate(size int) ([]byte, error) { return make([]byte, size), nil }
func (plainAllocator) Free([]byte) error                 { return nil }

func TestTracker_StatsWithoutReporter(t *testing.T) {
	tr := NewTracker(plainAllocator{})
	_, err := tr.Allocate(8)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, tr.Stats())
}
