package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_ZeroValue(t *testing.T) {
	var p Params

	assert.Equal(t, Undefined, p.Scheme())
	assert.Nil(t, p.Scales())
	assert.Nil(t, p.ZeroPoint())
	assert.Zero(t, p.EnsureChannels(10))
	assert.Zero(t, p.Capacity())

	require.NoError(t, p.SetScheme(Undefined))
	assert.Equal(t, Undefined, p.Scheme())
}

func TestParams_PerTensorDefaults(t *testing.T) {
	for _, s := range []Scheme{PerTensorSymmetric, PerTensorAffine} {
		t.Run(s.String(), func(t *testing.T) {
			var p Params
			require.NoError(t, p.SetScheme(s))

			assert.Equal(t, []float32{1}, p.Scales())
			assert.Equal(t, []int32{0}, p.ZeroPoint())

			pt, ok := p.PerTensor()
			require.True(t, ok)

			// Scales aliases the scalar.
			p.Scales()[0] = 0.25
			p.ZeroPoint()[0] = -3
			assert.Equal(t, float32(0.25), pt.Scale)
			assert.Equal(t, int32(-3), pt.ZeroPoint)

			// Per-tensor never allocates arrays.
			assert.Zero(t, p.EnsureChannels(100))
			assert.Len(t, p.Scales(), 1)
		})
	}
}

func TestParams_PerTensorToPerTensorKeepsValues(t *testing.T) {
	var p Params
	require.NoError(t, p.SetScheme(PerTensorAffine))
	p.Scales()[0] = 0.5
	p.ZeroPoint()[0] = 7

	require.NoError(t, p.SetScheme(PerTensorSymmetric))
	assert.Equal(t, float32(0.5), p.Scales()[0])
	assert.Equal(t, int32(7), p.ZeroPoint()[0])

	require.NoError(t, p.SetScheme(PerTensorAffine))
	assert.Equal(t, float32(0.5), p.Scales()[0])
}

func TestParams_PerChannelGrowOnly(t *testing.T) {
	var p Params
	require.NoError(t, p.SetScheme(PerChannelAffine))

	assert.Empty(t, p.Scales())
	assert.Empty(t, p.ZeroPoint())

	assert.Equal(t, 100*4*2, p.EnsureChannels(100))
	scales := p.Scales()
	zps := p.ZeroPoint()
	assert.Len(t, scales, 100)
	assert.Len(t, zps, 100)
	assert.Equal(t, 100, p.Capacity())

	// Shrinking or equal requests keep the arrays.
	assert.Zero(t, p.EnsureChannels(100))
	assert.Zero(t, p.EnsureChannels(10))
	assert.Same(t, &scales[0], &p.Scales()[0])
	assert.Same(t, &zps[0], &p.ZeroPoint()[0])

	assert.Equal(t, 200*4*2, p.EnsureChannels(200))
	assert.NotSame(t, &scales[0], &p.Scales()[0])
	assert.Equal(t, 200, p.Capacity())
}

func TestParams_PerChannelSymmetricSkipsZeroPoints(t *testing.T) {
	var p Params
	require.NoError(t, p.SetScheme(PerChannelSymmetric))

	assert.Equal(t, 16*4, p.EnsureChannels(16))
	assert.Len(t, p.Scales(), 16)
	assert.Nil(t, p.ZeroPoint())

	// Zero points are allocated as soon as the scheme turns affine.
	require.NoError(t, p.SetScheme(PerChannelAffine))
	assert.Equal(t, make([]int32, 16), p.ZeroPoint())
	assert.Zero(t, p.EnsureChannels(16))

	// An empty per-channel scheme has nothing to size the zero points by.
	var empty Params
	require.NoError(t, empty.SetScheme(PerChannelSymmetric))
	require.NoError(t, empty.SetScheme(PerChannelAffine))
	assert.Nil(t, empty.ZeroPoint())
}

func TestParams_PerChannelToPerChannelKeepsArrays(t *testing.T) {
	var p Params
	require.NoError(t, p.SetScheme(PerChannelAffine))
	p.EnsureChannels(4)
	copy(p.Scales(), []float32{1, 2, 3, 4})
	copy(p.ZeroPoint(), []int32{5, 6, 7, 8})

	require.NoError(t, p.SetScheme(PerChannelSymmetric))
	assert.Equal(t, []float32{1, 2, 3, 4}, p.Scales())
	assert.Equal(t, []int32{5, 6, 7, 8}, p.ZeroPoint())

	require.NoError(t, p.SetScheme(PerChannelAffine))
	assert.Equal(t, []float32{1, 2, 3, 4}, p.Scales())
	assert.Equal(t, []int32{5, 6, 7, 8}, p.ZeroPoint())
}

func TestParams_PerChannelToPerTensor(t *testing.T) {
	var p Params
	require.NoError(t, p.SetScheme(PerChannelAffine))
	p.EnsureChannels(100)

	require.NoError(t, p.SetScheme(PerTensorAffine))
	assert.Equal(t, []float32{1}, p.Scales())
	assert.Equal(t, []int32{0}, p.ZeroPoint())
	assert.Zero(t, p.Capacity())

	_, ok := p.PerChannel()
	assert.False(t, ok)

	// Back to per-channel starts empty.
	require.NoError(t, p.SetScheme(PerChannelSymmetric))
	assert.Empty(t, p.Scales())
	assert.Zero(t, p.Capacity())
}

func TestParams_BackToUndefined(t *testing.T) {
	for _, s := range []Scheme{PerTensorSymmetric, PerTensorAffine, PerChannelSymmetric, PerChannelAffine} {
		t.Run(s.String(), func(t *testing.T) {
			var p Params
			require.NoError(t, p.SetScheme(s))

			err := p.SetScheme(Undefined)
			assert.ErrorIs(t, err, ErrUndefinedTransition)
			assert.Equal(t, s, p.Scheme())
		})
	}
}

func TestParams_UnknownScheme(t *testing.T) {
	var p Params
	assert.ErrorIs(t, p.SetScheme(Scheme(9)), ErrUnknownScheme)
	assert.Equal(t, Undefined, p.Scheme())
}

func TestParams_Release(t *testing.T) {
	var p Params
	require.NoError(t, p.SetScheme(PerChannelAffine))
	p.EnsureChannels(8)

	p.Release()
	assert.Equal(t, PerChannelAffine, p.Scheme())
	assert.Empty(t, p.Scales())
	assert.Empty(t, p.ZeroPoint())
	assert.Zero(t, p.Capacity())

	assert.Equal(t, 8*4*2, p.EnsureChannels(8))

	// Per-tensor scalars survive Release.
	var q Params
	require.NoError(t, q.SetScheme(PerTensorSymmetric))
	q.Scales()[0] = 3
	q.Release()
	assert.Equal(t, float32(3), q.Scales()[0])
}
