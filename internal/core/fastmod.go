// Package core's fastmod.go ports Lemire's fastmod algorithm to Go: modular
// reduction by a runtime-known divisor via a precomputed reciprocal,
// avoiding a hardware division on the query path (§4.7).
package core

import "math/bits"

// M64 is a 128-bit Barrett reciprocal for a 64-bit divisor, serialized as
// (High, Low) per §6's u128 convention: the mathematical value is
// High<<64|Low.
type M64 struct {
	High uint64
	Low  uint64
}

// M32 is a 64-bit reciprocal for a 32-bit divisor.
type M32 uint64

// ComputeM64 returns floor((2^128-1)/d)+1 as a 128-bit value (equal to
// floor(2^128/d)+1 unless d is a power of two).
func ComputeM64(d uint64) M64 {
	// Schoolbook 128-bit-by-64-bit division of (2^128 - 1) by d, then +1.
	qh := ^uint64(0) / d
	rh := ^uint64(0) - qh*d
	ql, _ := bits.Div64(rh, ^uint64(0), d)
	low, carry := bits.Add64(ql, 1, 0)
	high, _ := bits.Add64(qh, 0, carry)
	return M64{High: high, Low: low}
}

// mul128Hi128by64 returns the top 64 bits of the (up to 192-bit) product of
// the 128-bit value (hi:lo) and the 64-bit value d.
func mul128Hi128by64(hi, lo, d uint64) uint64 {
	aHi, _ := bits.Mul64(lo, d)
	bHi, bLo := bits.Mul64(hi, d)
	mid, carry := bits.Add64(aHi, bLo, 0)
	top, _ := bits.Add64(bHi, 0, carry)
	_ = mid
	return top
}

// FastModU64 returns a mod d given the Barrett reciprocal m = ComputeM64(d) (§4.7).
func FastModU64(a uint64, m M64, d uint64) uint64 {
	// lowbits = (m.High:m.Low) * a, truncated to its low 128 bits.
	loHi, loLo := bits.Mul64(m.Low, a)
	hiHi, hiLo := bits.Mul64(m.High, a)
	lowbitsHigh, _ := bits.Add64(hiLo, loHi, 0)
	_ = hiHi // discarded: contributes only to bits >= 128, truncated away
	return mul128Hi128by64(lowbitsHigh, loLo, d)
}

// ComputeM32 returns the 64-bit reciprocal for a 32-bit divisor.
func ComputeM32(d uint32) M32 {
	return M32(^uint64(0)/uint64(d) + 1)
}

// FastModU32 returns a mod d given the reciprocal m = ComputeM32(d).
func FastModU32(a uint32, m M32, d uint32) uint32 {
	lowbits := uint64(m) * uint64(a)
	hi, _ := bits.Mul64(lowbits, uint64(d))
	return uint32(hi)
}

// FastDivU32 returns floor(a/d) given the reciprocal m = ComputeM32(d).
func FastDivU32(a uint32, m M32) uint32 {
	hi, _ := bits.Mul64(uint64(m), uint64(a))
	return uint32(hi)
}
