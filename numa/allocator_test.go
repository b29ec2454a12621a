package numa

import (
	"os"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/qtensor/internal/mem"
)

func allocators(t *testing.T) map[string]func(...Option) Allocator {
	t.Helper()
	return map[string]func(...Option) Allocator{
		"heap": func(opts ...Option) Allocator { return NewHeapAllocator(opts...) },
		"mmap": func(opts ...Option) Allocator {
			opts = append(opts, WithTopology(SingleNode()))
			a, err := NewMmapAllocator(opts...)
			require.NoError(t, err)
			return a
		},
	}
}

func TestAllocator_AllocateFree(t *testing.T) {
	for name, newAlloc := range allocators(t) {
		t.Run(name, func(t *testing.T) {
			a := newAlloc()

			buf, err := a.Allocate(1000)
			require.NoError(t, err)
			assert.Len(t, buf, 1000)
			assert.Equal(t, 1000, cap(buf))

			addr := uintptr(unsafe.Pointer(&buf[0]))
			assert.Zero(t, addr%mem.Alignment)

			for i := range buf {
				buf[i] = byte(i)
			}
			assert.Equal(t, byte(231), buf[999])

			stats := a.(StatsReporter).Stats()
			assert.Equal(t, uint64(1), stats.Allocs)
			assert.Equal(t, int64(1000), stats.LiveBytes)

			require.NoError(t, a.Free(buf))

			stats = a.(StatsReporter).Stats()
			assert.Equal(t, uint64(1), stats.Frees)
			assert.Equal(t, int64(0), stats.LiveBytes)
			assert.Equal(t, int64(0), stats.LiveAllocs)
			assert.Equal(t, int64(1000), stats.PeakBytes)
		})
	}
}

func TestAllocator_FreeValidation(t *testing.T) {
	for name, newAlloc := range allocators(t) {
		t.Run(name, func(t *testing.T) {
			a := newAlloc()

			buf, err := a.Allocate(256)
			require.NoError(t, err)

			// Size must match exactly; the buffer stays allocated.
			assert.ErrorIs(t, a.Free(buf[:128]), ErrSizeMismatch)

			// Interior pointers and foreign buffers are unknown.
			assert.ErrorIs(t, a.Free(buf[1:]), ErrUnknownBuffer)
			assert.ErrorIs(t, a.Free(make([]byte, 256)), ErrUnknownBuffer)

			require.NoError(t, a.Free(buf))

			// Double free.
			assert.ErrorIs(t, a.Free(buf), ErrUnknownBuffer)

			// Empty free is a no-op.
			assert.NoError(t, a.Free(nil))
		})
	}
}

func TestAllocator_InvalidSize(t *testing.T) {
	for name, newAlloc := range allocators(t) {
		t.Run(name, func(t *testing.T) {
			a := newAlloc()

			_, err := a.Allocate(0)
			assert.ErrorIs(t, err, ErrInvalidSize)

			_, err = a.Allocate(-8)
			assert.ErrorIs(t, err, ErrInvalidSize)
		})
	}
}

func TestAllocator_MemoryLimit(t *testing.T) {
	for name, newAlloc := range allocators(t) {
		t.Run(name, func(t *testing.T) {
			a := newAlloc(WithMemoryLimit(4096))

			first, err := a.Allocate(3000)
			require.NoError(t, err)

			_, err = a.Allocate(2000)
			assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
			assert.Equal(t, uint64(1), a.(StatsReporter).Stats().Failures)

			require.NoError(t, a.Free(first))

			second, err := a.Allocate(2000)
			require.NoError(t, err)
			require.NoError(t, a.Free(second))
		})
	}
}

func TestAllocator_Concurrent(t *testing.T) {
	for name, newAlloc := range allocators(t) {
		t.Run(name, func(t *testing.T) {
			a := newAlloc()

			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 50; i++ {
						buf, err := a.Allocate(4096 + i)
						if !assert.NoError(t, err) {
							return
						}
						buf[0] = 1
						assert.NoError(t, a.Free(buf))
					}
				}()
			}
			wg.Wait()

			stats := a.(StatsReporter).Stats()
			assert.Equal(t, uint64(400), stats.Allocs)
			assert.Equal(t, uint64(400), stats.Frees)
			assert.Equal(t, int64(0), stats.LiveBytes)
		})
	}
}

func TestMmapAllocator_Policies(t *testing.T) {
	for _, p := range []Policy{PolicyLocal, PolicyBind, PolicyInterleave, PolicyNone} {
		t.Run(p.String(), func(t *testing.T) {
			a, err := NewMmapAllocator(WithPolicy(p), WithTopology(SingleNode()))
			require.NoError(t, err)
			assert.Equal(t, p, a.Policy())
			assert.Equal(t, 1, a.Topology().NumNodes())

			buf, err := a.Allocate(3 * 4096)
			require.NoError(t, err)
			buf[len(buf)-1] = 7
			require.NoError(t, a.Free(buf))
		})
	}
}

func TestMmapAllocator_BindNodeUsage(t *testing.T) {
	a, err := NewMmapAllocator(WithNode(0), WithTopology(SingleNode()))
	require.NoError(t, err)

	buf, err := a.Allocate(512)
	require.NoError(t, err)
	assert.Equal(t, int64(512), a.NodeUsage(0))

	require.NoError(t, a.Free(buf))
	assert.Equal(t, int64(0), a.NodeUsage(0))
}

func TestMmapAllocator_InvalidNode(t *testing.T) {
	_, err := NewMmapAllocator(WithNode(7), WithTopology(SingleNode()))
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestMmapAllocator_NodeLimit(t *testing.T) {
	a, err := NewMmapAllocator(WithNode(0), WithNodeMemoryLimit(1024), WithTopology(SingleNode()))
	require.NoError(t, err)

	buf, err := a.Allocate(1024)
	require.NoError(t, err)

	_, err = a.Allocate(1)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)

	require.NoError(t, a.Free(buf))
}

func TestMmapAllocator_Prefault(t *testing.T) {
	a, err := NewMmapAllocator(
		WithPolicy(PolicyNone),
		WithPrefault(true),
		WithPrefaultWorkers(4),
		WithTopology(SingleNode()),
	)
	require.NoError(t, err)

	buf, err := a.Allocate(1 << 20)
	require.NoError(t, err)
	for _, i := range []int{0, 4096, len(buf) - 1} {
		assert.Zero(t, buf[i])
	}
	require.NoError(t, a.Free(buf))
}

func TestPrefault(t *testing.T) {
	page := os.Getpagesize()
	buf := make([]byte, 300*page)
	for i := range buf {
		buf[i] = 1
	}

	require.NoError(t, prefault(buf, 4))

	for i := 0; i < len(buf); i += page {
		if buf[i] != 0 {
			t.Fatalf("page at %d not touched", i)
		}
	}
	assert.NoError(t, prefault(nil, 4))
	assert.NoError(t, prefault(make([]byte, 10), 0))
}

func TestDefault(t *testing.T) {
	a := Default()
	require.NotNil(t, a)
	assert.Same(t, a, Default())

	buf, err := a.Allocate(64)
	require.NoError(t, err)
	require.NoError(t, a.Free(buf))
}
