// Package half converts between float32 and the 16-bit storage formats
// IEEE-754 binary16 and bfloat16.
//
// Tensors are often stored in 16 bits while host code works in float32.
// Both directions round to nearest, ties to even.
package half
