package blend

import "fmt"

// MakeBlend validates base and overlay against operatorName and opacityPct
// and, if they are compatible, constructs the immutable BlendDataset
// (spec §4.5 "make_blend"). opacityPct is 0-100; it is converted to the
// internal 0-255 scale with the rounding rule (pct*255+50)/100.
//
// make_blend is the single place configuration errors are caught:
// RasterIO itself never re-validates.
func MakeBlend(base, overlay RasterSource, operatorName string, opacityPct int) (*BlendDataset, error) {
	op, err := ParseOperator(operatorName)
	if err != nil {
		return nil, fmt.Errorf("blend: make_blend: %w", err)
	}
	if opacityPct < 0 || opacityPct > 100 {
		return nil, fmt.Errorf("blend: make_blend: opacity %d out of range [0,100]", opacityPct)
	}

	base, err = expandIfPaletted(base)
	if err != nil {
		return nil, fmt.Errorf("blend: make_blend: base: %w", err)
	}
	overlay, err = expandIfPaletted(overlay)
	if err != nil {
		return nil, fmt.Errorf("blend: make_blend: overlay: %w", err)
	}

	if base.Width() != overlay.Width() || base.Height() != overlay.Height() {
		return nil, fmt.Errorf("blend: make_blend: base %dx%d and overlay %dx%d dimensions differ",
			base.Width(), base.Height(), overlay.Width(), overlay.Height())
	}

	if overlay.Bands() < 1 || overlay.Bands() > 4 {
		return nil, fmt.Errorf("blend: make_blend: overlay has %d band(s), only 1-4 band rasters are supported", overlay.Bands())
	}

	baseColor := colorBands(base.Bands())
	overlayColor := colorBands(overlay.Bands())

	// The operator's band-compatibility range binds the base dataset only
	// (spec §3, §9 original ValidateGlobal()); the overlay gets the
	// generic 1-4 band check above plus HSV-Value's own single-band rule.
	if baseColor < op.MinBands() || baseColor > op.MaxBands() {
		return nil, fmt.Errorf("blend: make_blend: base has %d color band(s), %s requires %d-%d", baseColor, op, op.MinBands(), op.MaxBands())
	}
	if op == HSVValue && overlayColor != 1 {
		return nil, fmt.Errorf("blend: make_blend: hsv-value overlay must be single-band (value), got %d bands", overlay.Bands())
	}
	if (op == Darken || op == Lighten) && baseColor != overlayColor {
		return nil, fmt.Errorf("blend: make_blend: %s requires base and overlay to share a color band count, got %d and %d", op, baseColor, overlayColor)
	}

	swapped := false
	if op.isSwappable() && baseColor < overlayColor {
		base, overlay = overlay, base
		baseColor, overlayColor = overlayColor, baseColor
		swapped = true
	}

	outBands := outputBandCount(op, base.Bands(), overlay.Bands())
	opacity := uint8((opacityPct*255 + 50) / 100)

	return &BlendDataset{
		base:     base,
		overlay:  overlay,
		op:       op,
		opacity:  opacity,
		swapped:  swapped,
		outBands: outBands,
		width:    base.Width(),
		height:   base.Height(),
	}, nil
}

// outputBandCount picks the output band layout (spec §4.2's output-layout
// table): HSV-Value always mirrors the base's own band structure since
// only its value channel changes; every other operator widens to
// whichever side carries more bands. When that side has no alpha band
// (a 3-band base against a 2-band overlay), the output has none either.
func outputBandCount(op Operator, baseBands, overlayBands int) int {
	if op == HSVValue {
		return baseBands
	}
	if overlayBands > baseBands {
		return overlayBands
	}
	return baseBands
}
