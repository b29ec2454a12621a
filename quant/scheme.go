package quant

import (
	"fmt"
	"strings"
)

// Scheme identifies how a buffer is quantized.
type Scheme uint8

const (
	// Undefined means the buffer is not quantized.
	Undefined Scheme = iota
	// PerTensorSymmetric uses a single scale.
	PerTensorSymmetric
	// PerTensorAffine uses a single scale and zero point.
	PerTensorAffine
	// PerChannelSymmetric uses one scale per row.
	PerChannelSymmetric
	// PerChannelAffine uses one scale and zero point per row.
	PerChannelAffine
)

// String returns the string representation of the scheme.
func (s Scheme) String() string {
	switch s {
	case Undefined:
		return "undefined"
	case PerTensorSymmetric:
		return "per-tensor-symmetric"
	case PerTensorAffine:
		return "per-tensor-affine"
	case PerChannelSymmetric:
		return "per-channel-symmetric"
	case PerChannelAffine:
		return "per-channel-affine"
	default:
		return fmt.Sprintf("Scheme(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the declared schemes.
func (s Scheme) Valid() bool { return s <= PerChannelAffine }

// IsDefined reports whether s is a quantized scheme.
func (s Scheme) IsDefined() bool { return s != Undefined && s.Valid() }

// IsPerTensor reports whether s uses a single parameter pair.
func (s Scheme) IsPerTensor() bool { return s == PerTensorSymmetric || s == PerTensorAffine }

// IsPerChannel reports whether s uses one parameter pair per row.
func (s Scheme) IsPerChannel() bool { return s == PerChannelSymmetric || s == PerChannelAffine }

// IsAffine reports whether s carries zero points.
func (s Scheme) IsAffine() bool { return s == PerTensorAffine || s == PerChannelAffine }

// ParseScheme converts a scheme name to a Scheme.
// Both the dashed form ("per-channel-affine") and the compact form
// ("perchannelaffine", "per_channel_affine") are accepted.
func ParseScheme(s string) (Scheme, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch norm {
	case "", "undefined", "none":
		return Undefined, nil
	case "pertensorsymmetric":
		return PerTensorSymmetric, nil
	case "pertensoraffine":
		return PerTensorAffine, nil
	case "perchannelsymmetric":
		return PerChannelSymmetric, nil
	case "perchannelaffine":
		return PerChannelAffine, nil
	default:
		return Undefined, fmt.Errorf("%w: %q", ErrUnknownScheme, s)
	}
}
