// Package conv provides checked integer arithmetic.
//
// Tensor shapes arrive as plain ints from callers. Every product that becomes
// an allocation size (rows*stride, elements*sizeof(T)) goes through MulInt so
// an overflow surfaces as an error instead of a tiny, silently wrong buffer.
//
// For conversions that are provably safe by domain constraints (loop indices,
// bounded counters), use direct type casts instead.
package conv
