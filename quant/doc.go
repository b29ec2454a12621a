// Package quant holds the quantization metadata attached to tensor storage.
//
// A buffer is either unquantized (Undefined) or carries one of four schemes:
//
//   - PerTensorSymmetric: one scale for the whole buffer
//   - PerTensorAffine: one scale and one zero point
//   - PerChannelSymmetric: one scale per row (output channel)
//   - PerChannelAffine: one scale and one zero point per row
//
// Params is a tagged sum: the scheme selects which variant is live, and the
// transition rules in SetScheme decide what happens to the old variant.
//
//	var p quant.Params
//	_ = p.SetScheme(quant.PerChannelAffine)
//	p.EnsureChannels(rows)
//	scales, zps := p.Scales(), p.ZeroPoint() // len >= rows
//
// The package only does bookkeeping. It never quantizes or dequantizes values.
package quant
