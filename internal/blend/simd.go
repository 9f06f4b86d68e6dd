package blend

// blendRGBAOverScalar and blendRGBAOverVectorized implement the same
// SRC-OVER 4-band kernel two ways (spec §4.2, §8: "an optional SIMD path
// ... must produce byte-identical output to the scalar path"). This
// package ships no actual SIMD intrinsics or cgo/asm backend — unlike the
// webp/cgo split the teacher repo uses for format decoding, there is no
// vetted pure-Go SIMD library in this stack to wire in — so the
// "vectorized" path here is a straight-line, branch-free restatement of
// the same integer formulas, the shape a SIMD backend would be dropped
// into later behind the same two-function contract. BlendRow always
// calls the scalar path; blendRGBAOverVectorized exists so the
// conformance test in kernel_test.go can assert the contract holds.
func blendRGBAOverScalar(sc, sa, dc, da uint8) uint8 {
	return combine(SrcOver, sc, sa, dc, da)
}

// blendRGBAOverVectorized recomputes SRC-OVER without the generic
// combine() dispatch or its addTerm closure, as a vectorized backend
// would: everything here is fixed-shape integer arithmetic on four
// scalars, no branches except the unavoidable final clamp.
func blendRGBAOverVectorized(sc, sa, dc, da uint8) uint8 {
	inv := sub0(255, sa)
	sum := uint32(sc) + uint32(mul255(dc, inv))
	return clampByteFromUint32(sum)
}
