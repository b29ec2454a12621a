package half

import "math"

const (
	f16Sign = 0x8000
	f16Exp  = 0x7C00
	f16Frac = 0x03FF

	f32Exp  = 0x7F800000
	f32Frac = 0x007FFFFF
)

// F16ToF32 widens a binary16 bit pattern.
func F16ToF32(h uint16) float32 {
	sign := uint32(h&f16Sign) << 16
	exp := uint32(h&f16Exp) >> 10
	frac := uint32(h & f16Frac)

	switch {
	case exp == 0 && frac == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// Subnormal: shift the fraction until the implicit bit appears.
		e := int32(-14)
		for frac&0x0400 == 0 {
			frac <<= 1
			e--
		}
		frac &= f16Frac
		return math.Float32frombits(sign | uint32(e+127)<<23 | frac<<13)
	case exp == 0x1F:
		return math.Float32frombits(sign | f32Exp | frac<<13)
	default:
		return math.Float32frombits(sign | (exp+127-15)<<23 | frac<<13)
	}
}

// F32ToF16 narrows f to binary16. Values beyond the range become infinity;
// NaN stays a quiet NaN.
func F32ToF16(f float32) uint16 {
	b := math.Float32bits(f)
	sign := uint16(b>>16) & f16Sign
	exp := int32(b&f32Exp) >> 23
	frac := b & f32Frac

	if exp == 0xFF {
		if frac == 0 {
			return sign | f16Exp
		}
		return sign | f16Exp | 0x0200 | uint16(frac>>13)
	}
	if exp == 0 {
		return sign
	}

	e := exp - 127 + 15
	switch {
	case e >= 0x1F:
		return sign | f16Exp
	case e <= 0:
		if e < -10 {
			return sign
		}
		shift := uint32(14 - e)
		return sign | uint16(roundShift(frac|0x00800000, shift))
	}

	// A carry out of the mantissa bumps the exponent, which is exactly
	// what adding the rounded mantissa to the packed value does.
	m := roundShift(frac, 13)
	v := uint32(e)<<10 + m
	if v >= f16Exp {
		return sign | f16Exp
	}
	return sign | uint16(v)
}

// BF16ToF32 widens a bfloat16 bit pattern.
func BF16ToF32(h uint16) float32 {
	return math.Float32frombits(uint32(h) << 16)
}

// F32ToBF16 narrows f to bfloat16.
func F32ToBF16(f float32) uint16 {
	b := math.Float32bits(f)
	if b&f32Exp == f32Exp && b&f32Frac != 0 {
		return uint16(b>>16) | 0x0040
	}
	return uint16(roundShift(b, 16))
}

// roundShift returns v >> shift rounded to nearest, ties to even.
func roundShift(v, shift uint32) uint32 {
	q := v >> shift
	rem := v & (1<<shift - 1)
	half := uint32(1) << (shift - 1)
	if rem > half || (rem == half && q&1 == 1) {
		q++
	}
	return q
}
