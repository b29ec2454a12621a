package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheme_Predicates(t *testing.T) {
	tests := []struct {
		s          Scheme
		perTensor  bool
		perChannel bool
		affine     bool
	}{
		{Undefined, false, false, false},
		{PerTensorSymmetric, true, false, false},
		{PerTensorAffine, true, false, true},
		{PerChannelSymmetric, false, true, false},
		{PerChannelAffine, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.s.String(), func(t *testing.T) {
			assert.Equal(t, tt.perTensor, tt.s.IsPerTensor())
			assert.Equal(t, tt.perChannel, tt.s.IsPerChannel())
			assert.Equal(t, tt.affine, tt.s.IsAffine())
			assert.Equal(t, tt.s != Undefined, tt.s.IsDefined())
			assert.True(t, tt.s.Valid())
		})
	}

	assert.False(t, Scheme(42).Valid())
	assert.False(t, Scheme(42).IsDefined())
	assert.Equal(t, "Scheme(42)", Scheme(42).String())
}

func TestParseScheme(t *testing.T) {
	for s := Undefined; s <= PerChannelAffine; s++ {
		got, err := ParseScheme(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseScheme("PerChannel_Affine")
	require.NoError(t, err)
	assert.Equal(t, PerChannelAffine, got)

	got, err = ParseScheme("")
	require.NoError(t, err)
	assert.Equal(t, Undefined, got)

	_, err = ParseScheme("per-block")
	assert.ErrorIs(t, err, ErrUnknownScheme)
}
