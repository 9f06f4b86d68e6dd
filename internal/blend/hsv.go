package blend

import "math"

// HSVValueRow implements the HSV-Value patch kernel (spec §4.2): base RGB
// (or RGBA) is converted to (H, S), and reconverted to RGB using the
// overlay's single band as a replacement V channel. Base alpha, if any,
// passes through untouched.
func HSVValueRow(baseR, baseG, baseB, baseA, overlayV Plane, dst []uint8, n int, outBands int, pixelStride, bandStride int) {
	for i := 0; i < n; i++ {
		r := baseR[i]
		g := at(baseG, i, r)
		b := at(baseB, i, r)
		a := at(baseA, i, 255)

		h, s := rgbToHS(r, g, b)
		v := overlayV[i]
		nr, ng, nb := hsvToRGB(h, s, float64(v))

		base := i * pixelStride
		switch outBands {
		case 1:
			dst[base] = nr
		case 2:
			dst[base] = nr
			dst[base+bandStride] = a
		case 3:
			dst[base] = nr
			dst[base+bandStride] = ng
			dst[base+2*bandStride] = nb
		case 4:
			dst[base] = nr
			dst[base+bandStride] = ng
			dst[base+2*bandStride] = nb
			dst[base+3*bandStride] = a
		}
	}
}

// rgbToHS converts an RGB triple to hue in [0, 1) and saturation in [0, 1]
// using the standard piecewise formula (spec §4.2): saturation =
// (max-min)/max(1,max); hue's branch is selected by which channel holds
// the maximum.
func rgbToHS(r, g, b uint8) (hue, sat float64) {
	maxC := float64(maxU8(maxU8(r, g), b))
	minC := float64(minU8(minU8(r, g), b))
	delta := maxC - minC

	sat = delta / math.Max(1, maxC)
	if delta == 0 {
		return 0, sat
	}

	var h float64
	switch {
	case maxC == float64(r):
		h = math.Mod((float64(g)-float64(b))/delta, 6)
	case maxC == float64(g):
		h = (float64(b)-float64(r))/delta + 2
	default:
		h = (float64(r)-float64(g))/delta + 4
	}
	h /= 6
	if h < 0 {
		h += 1
	}
	return h, sat
}

// hsvToRGB reconverts (hue, sat, v) into an RGB triple using the sextant
// formula of spec §4.2: i = floor(6H), f = 6H - i, and byte outputs
// p = floor(V*(1-S)+0.5), q = floor(V*(1-S*f)+0.5), t = floor(V*(1-S*(1-f))+0.5)
// distributed over (R,G,B) by sextant.
func hsvToRGB(hue, sat, v float64) (r, g, b uint8) {
	if sat == 0 {
		return roundByte(v), roundByte(v), roundByte(v)
	}

	h6 := hue * 6
	i := int(math.Floor(h6)) % 6
	if i < 0 {
		i += 6
	}
	f := h6 - math.Floor(h6)

	p := roundByte(v * (1 - sat))
	q := roundByte(v * (1 - sat*f))
	t := roundByte(v * (1 - sat*(1-f)))
	vv := roundByte(v)

	switch i {
	case 0:
		return vv, t, p
	case 1:
		return q, vv, p
	case 2:
		return p, vv, t
	case 3:
		return p, q, vv
	case 4:
		return t, p, vv
	default:
		return vv, p, q
	}
}

func roundByte(v float64) uint8 {
	v = math.Floor(v + 0.5)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
