package blend

import "fmt"

// Resampling selects the interpolation algorithm a RasterSource should use
// when bufxsize/bufysize differ from xsize/ysize (spec §4.3, §6). The
// blend engine never resamples pixels itself — that is the RasterSource's
// job, exactly as GDAL raster bands resample during IRasterIO — the blend
// engine only decides, via the cache and overview logic, which resolution
// to ask for.
type Resampling int

const (
	ResamplingNearest Resampling = iota
	ResamplingBilinear
	ResamplingCubic
	ResamplingAverage
)

// RasterSource is the external collaborator each of base/overlay must
// implement (spec §1: "the blend core depends on a RasterSource trait
// providing pixel reads in 8-bit integer form; any concrete storage is
// external").
type RasterSource interface {
	Width() int
	Height() int
	Bands() int

	// ReadPixels fills dst with band-planar 8-bit samples: band 0 of the
	// window first (bufxsize*bufysize bytes), then band 1, etc. dst must
	// have length >= Bands()*bufxsize*bufysize.
	ReadPixels(xoff, yoff, xsize, ysize, bufxsize, bufysize int, resampling Resampling, dst []uint8) error

	// OverviewCount returns the number of precomputed reduced-resolution
	// levels, or 0 if none exist.
	OverviewCount() int
	// Overview returns the i'th overview as its own RasterSource.
	Overview(i int) RasterSource
}

// PalettedSource is optionally implemented by a single-band RasterSource
// that carries a color palette. make_blend expands it to RGBA once, at
// configuration time (spec §4.4): "Palette-indexed inputs ... are
// implicitly expanded to RGBA before blending; this expansion is an
// external collaborator responsibility, invoked once at make_blend time."
type PalettedSource interface {
	RasterSource
	HasPalette() bool
	ExpandPaletteToRGBA() (RasterSource, error)
}

// expandIfPaletted runs the implicit palette expansion described in
// spec §4.4, if the source supports it.
func expandIfPaletted(r RasterSource) (RasterSource, error) {
	p, ok := r.(PalettedSource)
	if !ok || !p.HasPalette() {
		return r, nil
	}
	expanded, err := p.ExpandPaletteToRGBA()
	if err != nil {
		return nil, fmt.Errorf("blend: expanding palette: %w", err)
	}
	return expanded, nil
}

// colorBands returns the band count used for band-count compatibility
// checks, excluding an implicit alpha band (spec §4.5: "the *color* band
// count (band count minus alpha if 2 or 4)").
func colorBands(n int) int {
	if n == 2 || n == 4 {
		return n - 1
	}
	return n
}

// hasAlphaBand reports whether a raster with n bands carries an explicit
// alpha band as its last band (spec §3: 2- or 4-band rasters).
func hasAlphaBand(n int) bool {
	return n == 2 || n == 4
}

// ColorInterp names the semantic role of one output band (spec §3, §4.4:
// "band 1 is gray/red, last is alpha for 2/4-band outputs, else R/G/B"),
// matching GDAL's GDALColorInterp naming.
type ColorInterp int

const (
	ColorInterpUndefined ColorInterp = iota
	ColorInterpGray
	ColorInterpRed
	ColorInterpGreen
	ColorInterpBlue
	ColorInterpAlpha
)

func (c ColorInterp) String() string {
	switch c {
	case ColorInterpGray:
		return "Gray"
	case ColorInterpRed:
		return "Red"
	case ColorInterpGreen:
		return "Green"
	case ColorInterpBlue:
		return "Blue"
	case ColorInterpAlpha:
		return "Alpha"
	default:
		return "Undefined"
	}
}

// bandColorInterp computes the color interpretation for 1-based band
// within a raster carrying totalBands bands, following the original's
// BlendBand::GetColorInterpretation exactly: a <=2-band raster's first
// band is grayscale, a 2-band raster's second band (or any 4-band
// raster's fourth band) is alpha, otherwise bands count off as R/G/B.
func bandColorInterp(band, totalBands int) ColorInterp {
	switch {
	case totalBands <= 2 && band == 1:
		return ColorInterpGray
	case totalBands == 2 || band == 4:
		return ColorInterpAlpha
	default:
		return ColorInterp(int(ColorInterpRed) + band - 1)
	}
}
