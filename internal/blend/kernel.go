package blend

// Plane is one band's worth of 8-bit samples for a row-processing call. A
// nil Plane means the channel is absent: green/blue replicate the red
// plane, and alpha is treated as fully opaque (255) when absent.
type Plane []uint8

// RowInputs bundles the per-channel planes and scalar parameters shared by
// every kernel (spec §4.2): base ("destination") and overlay ("source")
// RGBA planes, an opacity byte, and the swap bookkeeping produced by
// make_blend (spec §4.5).
type RowInputs struct {
	BaseR, BaseG, BaseB, BaseA       Plane
	OverlayR, OverlayG, OverlayB, OverlayA Plane
	Opacity                         uint8
	SwappedOpacity                  bool
}

func at(p Plane, i int, fallback uint8) uint8 {
	if p == nil {
		return fallback
	}
	return p[i]
}

// sample reads the base/overlay RGBA quadruple for pixel i, replicating
// red into green/blue when those planes are absent and defaulting absent
// alpha to fully opaque (spec §3: "a 1- or 3-band raster has alpha=255
// everywhere").
func (in *RowInputs) sample(i int) (br, bg, bb, ba, or, og, ob, oa uint8) {
	br = at(in.BaseR, i, 0)
	bg = at(in.BaseG, i, br)
	bb = at(in.BaseB, i, br)
	ba = at(in.BaseA, i, 255)

	or = at(in.OverlayR, i, 0)
	og = at(in.OverlayG, i, or)
	ob = at(in.OverlayB, i, or)
	oa = at(in.OverlayA, i, 255)
	return
}

// applyOpacity scales whichever side is not swapped by the opacity byte
// (spec §4.1, §4.5): the overlay alpha normally, the base alpha when
// SwappedOpacity is set (because make_blend already exchanged base and
// overlay operands for a commutative operator).
func (in *RowInputs) applyOpacity(ba, oa uint8) (newBa, newOa uint8) {
	if in.Opacity == 255 {
		return ba, oa
	}
	if in.SwappedOpacity {
		return mul255(ba, in.Opacity), oa
	}
	return ba, mul255(oa, in.Opacity)
}

// sub0 is byte subtraction floored at zero; premultiplied components never
// exceed their own alpha by construction but intermediate min/max/ratio
// terms in COLOR-BURN/COLOR-DODGE can transiently underflow.
func sub0(a, b uint8) uint8 {
	if b >= a {
		return 0
	}
	return a - b
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

// combine computes one premultiplied output component (still scaled by
// final_alpha, not yet unpremultiplied) for the given operator, using the
// per-component formula table in spec §4.2. sc/sa are the overlay
// ("source") component and alpha, dc/da the base ("destination") pair.
func combine(op Operator, sc, sa, dc, da uint8) uint8 {
	addTerm := func(sc, sa, dc, da uint8) uint32 {
		return uint32(mul255(sc, sub0(255, da))) + uint32(mul255(dc, sub0(255, sa)))
	}

	switch op {
	case SrcOver:
		return clampByteFromUint32(uint32(sc) + uint32(mul255(dc, sub0(255, sa))))

	case Multiply:
		return clampByteFromUint32(uint32(mul255(sc, dc)) + addTerm(sc, sa, dc, da))

	case Screen:
		return clampByteFromUint32(uint32(sc) + uint32(dc) - uint32(mul255(sc, dc)))

	case Overlay:
		return overlayCombine(sc, sa, dc, da)

	case HardLight:
		// HARD-LIGHT is OVERLAY with source/destination roles swapped
		// (spec §4.2); the additive term is symmetric under the swap.
		return overlayCombine(dc, da, sc, sa)

	case Darken:
		return clampByteFromUint32(uint32(minU8(mul255(sc, da), mul255(dc, sa))) + addTerm(sc, sa, dc, da))

	case Lighten:
		return clampByteFromUint32(uint32(maxU8(mul255(sc, da), mul255(dc, sa))) + addTerm(sc, sa, dc, da))

	case ColorBurn:
		return colorBurnCombine(sc, sa, dc, da)

	case ColorDodge:
		return colorDodgeCombine(sc, sa, dc, da)

	default:
		return clampByteFromUint32(uint32(sc) + uint32(mul255(dc, sub0(255, sa))))
	}
}

func clampByteFromInt64(v int64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func overlayCombine(sc, sa, dc, da uint8) uint8 {
	addTerm := int64(mul255(sc, sub0(255, da))) + int64(mul255(dc, sub0(255, sa)))
	if 2*int64(dc) < int64(da) {
		return clampByteFromInt64(2*int64(mul255(sc, dc)) + addTerm)
	}
	term := int64(mul255(sa, da)) - 2*int64(mul255(sub0(da, dc), sub0(sa, sc)))
	return clampByteFromInt64(term + addTerm)
}

// colorBurnCombine follows the open question in spec §9: the simplification
// in the original source substitutes unpremultiplied operands partway
// through; this implementation uses premultiplied operands consistently,
// verified against the floating-point COLOR-BURN definition.
func colorBurnCombine(sc, sa, dc, da uint8) uint8 {
	addTerm := int64(mul255(sc, sub0(255, da))) + int64(mul255(dc, sub0(255, sa)))
	scDa := int64(mul255(sc, da))
	dcSa := int64(mul255(dc, sa))
	saDa := int64(mul255(sa, da))
	if scDa+dcSa <= saDa {
		return clampByteFromInt64(addTerm)
	}
	numerator := int64(mul255(sa, clampByteFromInt64(scDa+dcSa-saDa)))
	var ratio int64
	if sc == 0 {
		ratio = 255
	} else {
		ratio = int64(div255(clampByteFromInt64(numerator), sc))
	}
	return clampByteFromInt64(ratio + addTerm)
}

func colorDodgeCombine(sc, sa, dc, da uint8) uint8 {
	addTerm := int64(mul255(sc, sub0(255, da))) + int64(mul255(dc, sub0(255, sa)))
	scDa := int64(mul255(sc, da))
	dcSa := int64(mul255(dc, sa))
	saDa := int64(mul255(sa, da))
	if scDa+dcSa >= saDa {
		return clampByteFromInt64(saDa + addTerm)
	}
	if sa == 0 {
		return clampByteFromInt64(addTerm)
	}
	ratio := div255(sc, sa) // Sca/Sa
	denom := sub0(255, ratio)
	var term int64
	if denom == 0 {
		term = 255
	} else {
		term = int64(div255(mul255(dc, sa), denom))
	}
	return clampByteFromInt64(term + addTerm)
}

// BlendRow runs the generic per-operator kernel over n pixels, writing
// unpremultiplied output samples into dst using the given pixel/band
// strides and output band count (spec §4.2 "Output layout").
func BlendRow(op Operator, in *RowInputs, dst []uint8, n int, outBands int, pixelStride, bandStride int) {
	for i := 0; i < n; i++ {
		br, bg, bb, ba, or_, og, ob, oa := in.sample(i)
		ba, oa = in.applyOpacity(ba, oa)

		pr, pg, pb := premultiply(or_, og, ob, oa)
		qr, qg, qb := premultiply(br, bg, bb, ba)

		finalAlpha := combineAlpha(oa, ba)

		var outR, outG, outB uint8
		if finalAlpha == 0 {
			outR, outG, outB = 0, 0, 0
		} else if oa == 0 {
			// A fully transparent overlay contributes nothing under any
			// operator: the base passes through without a lossy
			// premultiply/unpremultiply round trip.
			outR, outG, outB = br, bg, bb
		} else {
			cr := combine(op, pr, oa, qr, ba)
			cg := combine(op, pg, oa, qg, ba)
			cb := combine(op, pb, oa, qb, ba)
			if op == SrcOver {
				outR = divByAlphaTable(uint32(cr), finalAlpha)
				outG = divByAlphaTable(uint32(cg), finalAlpha)
				outB = divByAlphaTable(uint32(cb), finalAlpha)
			} else {
				outR = div255(cr, finalAlpha)
				outG = div255(cg, finalAlpha)
				outB = div255(cb, finalAlpha)
			}
		}

		writePixel(dst, i, pixelStride, bandStride, outBands, outR, outG, outB, finalAlpha)
	}
}

// writePixel lays out a single output pixel following spec §4.2's
// output-band-count table: 1 -> gray (R only), 2 -> R,A, 3 -> R,G,B,
// 4 -> R,G,B,A.
func writePixel(dst []uint8, i, pixelStride, bandStride, outBands int, r, g, b, a uint8) {
	base := i * pixelStride
	switch outBands {
	case 1:
		dst[base] = r
	case 2:
		dst[base] = r
		dst[base+bandStride] = a
	case 3:
		dst[base] = r
		dst[base+bandStride] = g
		dst[base+2*bandStride] = b
	case 4:
		dst[base] = r
		dst[base+bandStride] = g
		dst[base+2*bandStride] = b
		dst[base+3*bandStride] = a
	}
}
