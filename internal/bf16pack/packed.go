// Package bf16pack implements packed bf16 vector arithmetic:
// load/store, cache-bypassing streamLoad/streamStore, and lane-wise
// add over eight-lane groups. The lane type is
// github.com/gomlx/gopjrt/dtypes/bfloat16 (grounded on gomlx-gomlx's
// backends/simplego dot-general kernels, which import the same
// package for their bf16 paths).
//
// A real device has one 128-bit load/store instruction moving eight
// packed bf16 lanes at once and no way to observe a torn packet; the
// stream variants here exist only to name that intent at call sites.
// The memory-consistency guarantee a caller actually relies on comes
// from pairing a stream load/store with the block barrier in
// internal/device/barrier.go, not from any instruction-level property
// Go could reproduce.
package bf16pack

import "github.com/gomlx/gopjrt/dtypes/bfloat16"

// ElementsPerLane is the number of bf16 lanes a Packed value carries.
const ElementsPerLane = 8

// Packed is the 128-bit-aligned unit of memory traffic: eight packed
// bf16 lanes.
type Packed [ElementsPerLane]bfloat16.BFloat16

// Load reads one Packed value at position i (in units of Packed, i.e.
// element index i*ElementsPerLane) from a cache-respecting load.
func Load(buf []bfloat16.BFloat16, i int) Packed {
	var p Packed
	copy(p[:], buf[i*ElementsPerLane:])
	return p
}

// Store writes p at position i with a cache-respecting store.
func Store(buf []bfloat16.BFloat16, i int, p Packed) {
	copy(buf[i*ElementsPerLane:], p[:])
}

// StreamLoad is Load with cache-bypassing semantics: the value read is
// whatever the memory system holds right now, which is exactly what a
// plain Go slice read already gives once MemProtocol's acquire has
// happened-before it.
func StreamLoad(buf []bfloat16.BFloat16, i int) Packed { return Load(buf, i) }

// StreamStore is Store with cache-bypassing semantics: immediately
// visible system-wide, which a plain Go slice write already is once
// the write happens-before the matching MemProtocol release.
func StreamStore(buf []bfloat16.BFloat16, i int, p Packed) { Store(buf, i, p) }

// Add returns the lane-wise sum of a and b. Each lane is promoted to
// float32, summed, and truncated back to bf16 — the accumulate-in-f32
// strategy gomlx-gomlx documents for its BFloat16 dot-generals ("this
// avoids numeric issues with accumulating sums in small precision"),
// matching how a hardware bf16 adder rounds one wider intermediate sum
// rather than chaining 16-bit roundings lane by lane.
func Add(a, b Packed) Packed {
	var out Packed
	for i := range a {
		out[i] = bfloat16.FromFloat32(a[i].Float32() + b[i].Float32())
	}
	return out
}

// Sum reduces a slice of Packed values lane-wise, left to right. This
// fixed order is what every kernel's summation walks in, so results
// are reproducible across runs and comparable in tests.
func Sum(ps []Packed) Packed {
	assertNonEmpty(ps)
	out := ps[0]
	for _, p := range ps[1:] {
		out = Add(out, p)
	}
	return out
}

func assertNonEmpty(ps []Packed) {
	if len(ps) == 0 {
		panic("bf16pack: Sum of zero vectors")
	}
}
