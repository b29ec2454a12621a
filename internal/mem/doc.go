// Package mem provides general-purpose aligned heap allocation.
//
// # Aligned Allocation
//
// Provides 64-byte aligned slices (cache-line and AVX-512 friendly). Used for
// small, GC-managed buffers such as per-channel quantization scales and zero
// points, and by the heap-backed numa allocator.
package mem
